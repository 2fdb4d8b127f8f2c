package dataprocessing

import "sort"

// ChartType discriminates the chart descriptor variants.
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

const topInstruments = 15

// ReferenceLine is a rendering hint for a guide line spanning the full
// extent of the named axis.
type ReferenceLine struct {
	Axis  string  `json:"axis"`
	Value float64 `json:"value"`
	Dash  string  `json:"dash,omitempty"`
	Color string  `json:"color,omitempty"`
}

// ChartDescriptor is a renderer-agnostic description of one chart. Bar
// and line variants carry X/Y; the pie variant carries Labels/Values.
// It is entirely derived data with no reference back to the source table.
type ChartDescriptor struct {
	Type       ChartType       `json:"type"`
	Title      string          `json:"title"`
	XTitle     string          `json:"x_title,omitempty"`
	YTitle     string          `json:"y_title,omitempty"`
	X          []string        `json:"x,omitempty"`
	Y          []float64       `json:"y,omitempty"`
	Labels     []string        `json:"labels,omitempty"`
	Values     []float64       `json:"values,omitempty"`
	ColorScale string          `json:"color_scale,omitempty"`
	TickAngle  int             `json:"tick_angle,omitempty"`
	RefLines   []ReferenceLine `json:"reference_lines,omitempty"`
}

// buildInstrumentChart ranks instruments by total profit descending and
// keeps the top 15. The sort is stable over the alphabetical group order,
// so ties break deterministically. The TOTAL row never charts: it would
// dwarf every real bar.
func buildInstrumentChart(instruments []AggregateRow) ChartDescriptor {
	rows := withoutTotal(instruments)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})
	if len(rows) > topInstruments {
		rows = rows[:topInstruments]
	}

	c := ChartDescriptor{
		Type:       ChartBar,
		Title:      "Total Profit/Loss by Instrument (Top 15)",
		XTitle:     "Instrument",
		YTitle:     "Total Profit/Loss ($)",
		ColorScale: "RdYlGn",
		TickAngle:  45,
	}
	for _, r := range rows {
		c.X = append(c.X, r.Key)
		c.Y = append(c.Y, r.Total)
	}
	return c
}

// buildEvolutionChart plots a running cumulative sum over timestamped
// values, with a dashed zero guide line across the full x-range.
func buildEvolutionChart(title, yTitle string, stamps []string, values []float64) ChartDescriptor {
	c := ChartDescriptor{
		Type:   ChartLine,
		Title:  title,
		XTitle: "Date",
		YTitle: yTitle,
		X:      stamps,
		RefLines: []ReferenceLine{
			{Axis: "y", Value: 0, Dash: "dash", Color: "red"},
		},
	}
	var cum float64
	for _, v := range values {
		cum += v
		c.Y = append(c.Y, round2(cum))
	}
	return c
}

// buildMonthlyChart renders an aggregate table as a per-month bar series
// with a sequential color scale.
func buildMonthlyChart(title, yTitle string, monthly []AggregateRow) ChartDescriptor {
	c := ChartDescriptor{
		Type:       ChartBar,
		Title:      title,
		XTitle:     "Month",
		YTitle:     yTitle,
		ColorScale: "Blues",
	}
	for _, r := range withoutTotal(monthly) {
		c.X = append(c.X, r.Key)
		c.Y = append(c.Y, r.Total)
	}
	return c
}

// buildTypeShareChart renders the per-type table as a pie. The TOTAL row
// is excluded, otherwise the pie's visual total would double.
func buildTypeShareChart(title string, types []AggregateRow) ChartDescriptor {
	c := ChartDescriptor{
		Type:  ChartPie,
		Title: title,
	}
	for _, r := range withoutTotal(types) {
		c.Labels = append(c.Labels, r.Key)
		c.Values = append(c.Values, r.Total)
	}
	return c
}
