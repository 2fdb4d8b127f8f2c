package dataprocessing

// Drop and note reasons surfaced through Diagnostics.
const (
	reasonInvalidTimestamp = "invalid_timestamp"
	reasonNonNumericProfit = "non_numeric_profit"
	reasonNonNumericAmount = "non_numeric_amount"
	reasonOutsideFilter    = "outside_manual_deposit_filter"
)

// Diagnostics accounts for every input row that did not make it into the
// aggregates, and why. The original pipeline dropped such rows without a
// trace; surfacing the counts lets callers judge how much of the file the
// report actually covers.
type Diagnostics struct {
	TotalRows      int            `json:"total_rows"`
	AggregatedRows int            `json:"aggregated_rows"`
	DroppedRows    int            `json:"dropped_rows"`
	DropReasons    map[string]int `json:"drop_reasons,omitempty"`
	Notes          map[string]int `json:"notes,omitempty"`
}

func newDiagnostics(totalRows int) Diagnostics {
	return Diagnostics{TotalRows: totalRows}
}

// drop records a row excluded from aggregation entirely.
func (d *Diagnostics) drop(reason string) {
	if d.DropReasons == nil {
		d.DropReasons = make(map[string]int)
	}
	d.DropReasons[reason]++
	d.DroppedRows++
}

// note records a per-row anomaly that did not exclude the row, e.g. a
// null amount that still participates in group counts.
func (d *Diagnostics) note(reason string) {
	if d.Notes == nil {
		d.Notes = make(map[string]int)
	}
	d.Notes[reason]++
}
