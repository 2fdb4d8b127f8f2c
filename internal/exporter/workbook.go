package exporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"tradelens/internal/dataprocessing"
)

const (
	summarySheet     = "Summary"
	chartsSheet      = "Charts"
	chartDataSheet   = "Chart Data"
	diagnosticsSheet = "Diagnostics"
)

// TableLayout fixes the display name and column order for one payload
// table. Payload tables are maps, so the order has to live here.
type TableLayout struct {
	Key     string
	Name    string
	Columns []string
}

var tradingLayouts = []TableLayout{
	{dataprocessing.TableMonthly, "Monthly Stats", []string{"month", "total_profit", "operations", "avg_profit"}},
	{dataprocessing.TableInstruments, "Instrument Stats", []string{"instrument", "total_profit", "operations", "avg_profit"}},
	{dataprocessing.TableReasons, "Reason Stats", []string{"reason", "total_profit", "operations", "avg_profit"}},
}

var financeLayouts = []TableLayout{
	{dataprocessing.TableMonthly, "Monthly Stats", []string{"month", "total_amount", "transactions", "avg_amount"}},
	{dataprocessing.TableTypes, "Type Stats", []string{"type", "total_amount", "transactions", "avg_amount"}},
}

// TableLayouts returns the ordered table layouts for a file type.
func TableLayouts(fileType dataprocessing.FileType) []TableLayout {
	if fileType == dataprocessing.FileTypeFinance {
		return financeLayouts
	}
	return tradingLayouts
}

// WriteWorkbook renders the payload as an Excel workbook: a summary
// sheet, one sheet per aggregate table, native charts, and the
// diagnostics block.
func WriteWorkbook(w io.Writer, payload *dataprocessing.ReportPayload) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if err := writeSummary(f, payload); err != nil {
		return err
	}

	for _, layout := range TableLayouts(payload.FileType) {
		rows, ok := payload.Tables[layout.Key]
		if !ok {
			continue
		}
		if err := writeTable(f, layout, rows); err != nil {
			return err
		}
	}

	if err := writeCharts(f, payload); err != nil {
		return err
	}
	if err := writeDiagnostics(f, payload.Diagnostics); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, payload *dataprocessing.ReportPayload) error {
	type entry struct {
		label string
		value any
	}

	var entries []entry
	switch s := payload.Summary.(type) {
	case dataprocessing.TradingSummary:
		entries = []entry{
			{"Total Operations", s.TotalOperations},
			{"Total Profit", s.TotalProfit},
			{"Winning Trades", s.WinningTrades},
			{"Losing Trades", s.LosingTrades},
			{"Win Rate (%)", s.WinRate},
			{"Total Swap", s.TotalSwap},
		}
	case dataprocessing.FinanceSummary:
		entries = []entry{
			{"Manual Deposits", s.ManualDeposits},
			{"Total Amount", s.TotalAmount},
			{"Average Amount", s.AvgAmount},
			{"Deposit Transactions", s.DepositTransactions},
		}
	}

	if err := f.SetSheetRow(summarySheet, "A1", &[]any{"Report Type", string(payload.FileType)}); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for i, e := range entries {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(summarySheet, cell, &[]any{e.label, e.value}); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return nil
}

func writeTable(f *excelize.File, layout TableLayout, rows []map[string]any) error {
	if _, err := f.NewSheet(layout.Name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", layout.Name, err)
	}

	header := make([]any, len(layout.Columns))
	for i, col := range layout.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(layout.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", layout.Name, err)
	}

	for i, row := range rows {
		values := make([]any, len(layout.Columns))
		for j, col := range layout.Columns {
			values[j] = row[col]
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(layout.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i, layout.Name, err)
		}
	}
	return nil
}

func writeCharts(f *excelize.File, payload *dataprocessing.ReportPayload) error {
	if len(payload.Charts) == 0 {
		return nil
	}
	if _, err := f.NewSheet(chartsSheet); err != nil {
		return fmt.Errorf("failed to create charts sheet: %w", err)
	}
	if _, err := f.NewSheet(chartDataSheet); err != nil {
		return fmt.Errorf("failed to create chart data sheet: %w", err)
	}

	names := make([]string, 0, len(payload.Charts))
	for name := range payload.Charts {
		names = append(names, name)
	}
	sort.Strings(names)

	col := 1
	anchorRow := 1
	for _, name := range names {
		desc := payload.Charts[name]

		labels, values := desc.X, desc.Y
		if desc.Type == dataprocessing.ChartPie {
			labels, values = desc.Labels, desc.Values
		}
		if len(labels) == 0 {
			continue
		}

		labelRange, valueRange, err := writeChartData(f, col, labels, values)
		if err != nil {
			return err
		}

		anchor, err := excelize.CoordinatesToCellName(1, anchorRow)
		if err != nil {
			return fmt.Errorf("failed to compute chart anchor: %w", err)
		}
		chart := &excelize.Chart{
			Type: chartType(desc.Type),
			Series: []excelize.ChartSeries{{
				Name:       desc.YTitle,
				Categories: labelRange,
				Values:     valueRange,
			}},
			Title: []excelize.RichTextRun{{Text: desc.Title}},
			Legend: excelize.ChartLegend{
				Position: "bottom",
			},
		}
		if err := f.AddChart(chartsSheet, anchor, chart); err != nil {
			return fmt.Errorf("failed to add chart %s: %w", name, err)
		}

		col += 2
		anchorRow += 16
	}
	return nil
}

// writeChartData lays each chart's label/value pair into its own column
// pair on the data sheet and returns the two ranges.
func writeChartData(f *excelize.File, col int, labels []string, values []float64) (string, string, error) {
	for i, label := range labels {
		labelCell, err := excelize.CoordinatesToCellName(col, i+1)
		if err != nil {
			return "", "", fmt.Errorf("failed to compute data cell: %w", err)
		}
		if err := f.SetCellStr(chartDataSheet, labelCell, label); err != nil {
			return "", "", fmt.Errorf("failed to write chart label: %w", err)
		}
		if i < len(values) {
			valueCell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return "", "", fmt.Errorf("failed to compute data cell: %w", err)
			}
			if err := f.SetCellFloat(chartDataSheet, valueCell, values[i], 2, 64); err != nil {
				return "", "", fmt.Errorf("failed to write chart value: %w", err)
			}
		}
	}

	start, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return "", "", err
	}
	end, err := excelize.CoordinatesToCellName(col, len(labels))
	if err != nil {
		return "", "", err
	}
	vstart, err := excelize.CoordinatesToCellName(col+1, 1)
	if err != nil {
		return "", "", err
	}
	vend, err := excelize.CoordinatesToCellName(col+1, len(labels))
	if err != nil {
		return "", "", err
	}

	labelRange := fmt.Sprintf("'%s'!%s:%s", chartDataSheet, start, end)
	valueRange := fmt.Sprintf("'%s'!%s:%s", chartDataSheet, vstart, vend)
	return labelRange, valueRange, nil
}

func chartType(t dataprocessing.ChartType) excelize.ChartType {
	switch t {
	case dataprocessing.ChartLine:
		return excelize.Line
	case dataprocessing.ChartPie:
		return excelize.Pie
	default:
		return excelize.Col
	}
}

func writeDiagnostics(f *excelize.File, d dataprocessing.Diagnostics) error {
	if _, err := f.NewSheet(diagnosticsSheet); err != nil {
		return fmt.Errorf("failed to create diagnostics sheet: %w", err)
	}

	rows := [][]any{
		{"Total Rows", d.TotalRows},
		{"Aggregated Rows", d.AggregatedRows},
		{"Dropped Rows", d.DroppedRows},
	}

	reasons := make([]string, 0, len(d.DropReasons))
	for reason := range d.DropReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		rows = append(rows, []any{fmt.Sprintf("Dropped: %s", reason), d.DropReasons[reason]})
	}

	notes := make([]string, 0, len(d.Notes))
	for note := range d.Notes {
		notes = append(notes, note)
	}
	sort.Strings(notes)
	for _, note := range notes {
		rows = append(rows, []any{fmt.Sprintf("Note: %s", note), d.Notes[note]})
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(diagnosticsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write diagnostics row: %w", err)
		}
	}
	return nil
}
