package dataprocessing

import (
	"log/slog"
	"sort"
	"time"
)

// Manual-deposit filter values. Only rows matching both take part in the
// monetary aggregates; everything else in a finance export is parsed but
// out of scope for the manual-deposit report.
const (
	depositType   = "Deposit"
	manualGateway = "Manual"
)

// FinanceRecord is one validated finance transaction.
type FinanceRecord struct {
	Type       string
	Time       time.Time
	Amount     float64
	amountNull bool
	Status     string
	Gateway    string
	Details    string
}

// FinanceSummary holds the scalar metrics for a finance report.
// DepositTransactions repeats ManualDeposits: the filter already fixes
// the transaction type, so the two can never differ. The field is part of
// the established response shape and is kept, not fixed.
type FinanceSummary struct {
	ManualDeposits      int     `json:"manual_deposits"`
	TotalAmount         float64 `json:"total_amount"`
	AvgAmount           float64 `json:"avg_amount"`
	DepositTransactions int     `json:"deposit_transactions"`
}

// FinanceResult is the aggregated view of a finance RowTable.
type FinanceResult struct {
	Summary     FinanceSummary
	Monthly     []AggregateRow
	Types       []AggregateRow
	Records     []FinanceRecord
	Diagnostics Diagnostics
}

// AnalyzeFinance aggregates a RowTable already validated as finance data.
//
// Rows with unparseable timestamps are dropped. The remainder is filtered
// to the manual-deposit subset; rows outside the filter are accounted for
// in Diagnostics notes but their exclusion is by design, not an error.
// Non-numeric amounts become nulls that participate in group counts but
// not in sums or means. An empty subset yields a zeroed summary, never a
// NaN.
func AnalyzeFinance(table *RowTable) *FinanceResult {
	res := &FinanceResult{
		Diagnostics: newDiagnostics(table.Len()),
	}

	for _, row := range table.Rows {
		ts, ok := parseTimestamp(row["Time"])
		if !ok {
			res.Diagnostics.drop(reasonInvalidTimestamp)
			continue
		}
		if row["Type"] != depositType || row["Payment Gateway"] != manualGateway {
			res.Diagnostics.note(reasonOutsideFilter)
			continue
		}

		rec := FinanceRecord{
			Type:    row["Type"],
			Time:    ts,
			Status:  row["Status"],
			Gateway: row["Payment Gateway"],
			Details: row["Details"],
		}
		if rec.Amount, ok = parseAmount(row["Amount"]); !ok {
			rec.amountNull = true
			res.Diagnostics.note(reasonNonNumericAmount)
		}
		res.Records = append(res.Records, rec)
	}
	res.Diagnostics.AggregatedRows = len(res.Records)

	monthly := make([]sample, 0, len(res.Records))
	types := make([]sample, 0, len(res.Records))
	for _, rec := range res.Records {
		s := sample{value: rec.Amount, null: rec.amountNull}
		s.key = monthKey(rec.Time)
		monthly = append(monthly, s)
		s.key = rec.Type
		types = append(types, s)
	}

	res.Monthly = groupBy(monthly)
	res.Types = withTotal(groupBy(types))
	res.Summary = financeSummary(res.Records)

	slog.Debug("finance aggregation complete",
		slog.Int("rows", table.Len()),
		slog.Int("manual_deposits", len(res.Records)),
		slog.Int("dropped", res.Diagnostics.DroppedRows))

	return res
}

func financeSummary(records []FinanceRecord) FinanceSummary {
	var s FinanceSummary
	s.ManualDeposits = len(records)
	s.DepositTransactions = len(records)

	var sum float64
	var valid int
	for _, rec := range records {
		if !rec.amountNull {
			sum += rec.Amount
			valid++
		}
	}
	s.TotalAmount = round2(sum)
	if valid > 0 {
		s.AvgAmount = round2(sum / float64(valid))
	}
	return s
}

// sortedByTime returns the records ordered by transaction time ascending,
// for the cumulative evolution chart.
func sortedByTime(records []FinanceRecord) []FinanceRecord {
	out := make([]FinanceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}
