package dataprocessing

import (
	"log/slog"
	"sort"
	"time"
)

// TradingRecord is one validated closed position. Records whose open or
// close timestamp fails to parse are never constructed; the row is
// counted in Diagnostics instead.
type TradingRecord struct {
	ID         string
	Instrument string
	OpenTime   time.Time
	CloseTime  time.Time
	OpenPrice  float64
	ClosePrice float64
	Profit     float64
	profitNull bool
	Swap       float64
	Reason     string
}

// TradingSummary holds the scalar metrics for a trading report.
type TradingSummary struct {
	TotalOperations int     `json:"total_operations"`
	TotalProfit     float64 `json:"total_profit"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
	WinRate         float64 `json:"win_rate"`
	TotalSwap       float64 `json:"total_swap"`
}

// TradingResult is the aggregated view of a trading RowTable, prior to
// payload assembly.
type TradingResult struct {
	Summary     TradingSummary
	Monthly     []AggregateRow
	Instruments []AggregateRow
	Reasons     []AggregateRow
	Records     []TradingRecord
	Diagnostics Diagnostics
}

// AnalyzeTrading aggregates a RowTable already validated as trading data.
//
// Rows with unparseable timestamps are dropped silently from every
// aggregate; partial exports are common and the valid subset should still
// produce a report. The drop counts end up in Diagnostics. An input where
// every row is dropped yields zeroed summary metrics and empty tables,
// never a division error.
func AnalyzeTrading(table *RowTable) *TradingResult {
	res := &TradingResult{
		Diagnostics: newDiagnostics(table.Len()),
	}

	for _, row := range table.Rows {
		openTime, openOK := parseTimestamp(row["Open Time"])
		closeTime, closeOK := parseTimestamp(row["Close Time"])
		if !openOK || !closeOK {
			res.Diagnostics.drop(reasonInvalidTimestamp)
			continue
		}

		rec := TradingRecord{
			ID:         row["ID"],
			Instrument: row["Instrument"],
			OpenTime:   openTime,
			CloseTime:  closeTime,
			Reason:     row["Reason"],
		}
		rec.OpenPrice, _ = parseAmount(row["Open Price"])
		rec.ClosePrice, _ = parseAmount(row["Close Price"])
		var ok bool
		if rec.Profit, ok = parseAmount(row["Profit"]); !ok {
			rec.profitNull = true
			res.Diagnostics.note(reasonNonNumericProfit)
		}
		rec.Swap, _ = parseAmount(row["Swap"])

		res.Records = append(res.Records, rec)
	}
	res.Diagnostics.AggregatedRows = len(res.Records)

	monthly := make([]sample, 0, len(res.Records))
	instruments := make([]sample, 0, len(res.Records))
	reasons := make([]sample, 0, len(res.Records))
	for _, rec := range res.Records {
		s := sample{value: rec.Profit, null: rec.profitNull}

		s.key = monthKey(rec.OpenTime)
		monthly = append(monthly, s)
		s.key = rec.Instrument
		instruments = append(instruments, s)
		s.key = rec.Reason
		reasons = append(reasons, s)
	}

	res.Monthly = groupBy(monthly)
	res.Instruments = withTotal(groupBy(instruments))
	res.Reasons = groupBy(reasons)
	res.Summary = tradingSummary(res.Records)

	slog.Debug("trading aggregation complete",
		slog.Int("rows", table.Len()),
		slog.Int("aggregated", res.Diagnostics.AggregatedRows),
		slog.Int("dropped", res.Diagnostics.DroppedRows))

	return res
}

func tradingSummary(records []TradingRecord) TradingSummary {
	var s TradingSummary
	s.TotalOperations = len(records)

	var profit, swap float64
	for _, rec := range records {
		if !rec.profitNull {
			profit += rec.Profit
			switch {
			case rec.Profit > 0:
				s.WinningTrades++
			case rec.Profit < 0:
				s.LosingTrades++
			}
		}
		swap += rec.Swap
	}
	s.TotalProfit = round2(profit)
	s.TotalSwap = round2(swap)
	if s.TotalOperations > 0 {
		s.WinRate = round2(float64(s.WinningTrades) / float64(s.TotalOperations) * 100)
	}
	return s
}

// sortedByOpenTime returns the records ordered by open timestamp
// ascending, for the cumulative evolution chart. The sort is stable so
// ties preserve file order.
func sortedByOpenTime(records []TradingRecord) []TradingRecord {
	out := make([]TradingRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OpenTime.Before(out[j].OpenTime)
	})
	return out
}
