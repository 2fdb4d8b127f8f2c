package dataprocessing

// Table and chart names used in the payload. The web response and the
// report renderer both key on these.
const (
	TableMonthly     = "monthly_stats"
	TableInstruments = "instrument_stats"
	TableReasons     = "reason_stats"
	TableTypes       = "type_stats"

	ChartInstrument = "instrument"
	ChartEvolution  = "evolution"
	ChartMonthly    = "monthly"
	ChartTypeShare  = "type_share"
)

const evolutionStampFormat = "2006-01-02 15:04:05"

// ReportPayload is the full analysis result for one upload. It is the
// only object crossing the boundary to the web response and the report
// renderer, and serializes to plain JSON: nested mappings of strings,
// finite numbers and ordered sequences.
type ReportPayload struct {
	FileType    FileType                    `json:"file_type"`
	Summary     any                         `json:"summary"`
	Tables      map[string][]map[string]any `json:"tables"`
	Charts      map[string]ChartDescriptor  `json:"charts"`
	Diagnostics Diagnostics                 `json:"diagnostics"`
}

// Analyze runs the whole pipeline over raw CSV bytes: parse, detect the
// schema, aggregate and assemble the payload. This is the single entry
// point the service layer calls per upload.
func Analyze(data []byte) (*ReportPayload, error) {
	table, err := ReadTable(data)
	if err != nil {
		return nil, err
	}
	fileType, err := DetectSchema(table)
	if err != nil {
		return nil, err
	}
	switch fileType {
	case FileTypeFinance:
		return BuildFinancePayload(AnalyzeFinance(table)), nil
	default:
		return BuildTradingPayload(AnalyzeTrading(table)), nil
	}
}

// BuildTradingPayload merges a TradingResult into one response object.
// Pure merge: every number was already computed and rounded upstream.
func BuildTradingPayload(res *TradingResult) *ReportPayload {
	sorted := sortedByOpenTime(res.Records)
	stamps := make([]string, 0, len(sorted))
	values := make([]float64, 0, len(sorted))
	for _, rec := range sorted {
		stamps = append(stamps, rec.OpenTime.Format(evolutionStampFormat))
		values = append(values, rec.Profit)
	}

	return &ReportPayload{
		FileType: FileTypeTrading,
		Summary:  res.Summary,
		Tables: map[string][]map[string]any{
			TableMonthly:     tableRows("month", "total_profit", "operations", "avg_profit", res.Monthly),
			TableInstruments: tableRows("instrument", "total_profit", "operations", "avg_profit", res.Instruments),
			TableReasons:     tableRows("reason", "total_profit", "operations", "avg_profit", res.Reasons),
		},
		Charts: map[string]ChartDescriptor{
			ChartInstrument: buildInstrumentChart(res.Instruments),
			ChartEvolution: buildEvolutionChart(
				"Cumulative Profit/Loss Over Time", "Cumulative Profit/Loss ($)", stamps, values),
		},
		Diagnostics: res.Diagnostics,
	}
}

// BuildFinancePayload merges a FinanceResult into one response object.
func BuildFinancePayload(res *FinanceResult) *ReportPayload {
	sorted := sortedByTime(res.Records)
	stamps := make([]string, 0, len(sorted))
	values := make([]float64, 0, len(sorted))
	for _, rec := range sorted {
		stamps = append(stamps, rec.Time.Format(evolutionStampFormat))
		values = append(values, rec.Amount)
	}

	return &ReportPayload{
		FileType: FileTypeFinance,
		Summary:  res.Summary,
		Tables: map[string][]map[string]any{
			TableMonthly: tableRows("month", "total_amount", "transactions", "avg_amount", res.Monthly),
			TableTypes:   tableRows("type", "total_amount", "transactions", "avg_amount", res.Types),
		},
		Charts: map[string]ChartDescriptor{
			ChartMonthly: buildMonthlyChart(
				"Manual Deposits by Month", "Total Amount ($)", res.Monthly),
			ChartTypeShare: buildTypeShareChart(
				"Deposit Share by Transaction Type", res.Types),
			ChartEvolution: buildEvolutionChart(
				"Cumulative Deposits Over Time", "Cumulative Amount ($)", stamps, values),
		},
		Diagnostics: res.Diagnostics,
	}
}

// tableRows flattens aggregate rows into ordered flat mappings with the
// given column names, TOTAL last where present.
func tableRows(keyName, totalName, countName, meanName string, rows []AggregateRow) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]any{
			keyName:   r.Key,
			totalName: r.Total,
			countName: r.Count,
			meanName:  r.Mean,
		})
	}
	return out
}
