package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ReadTable parses raw CSV bytes into a RowTable. The first record is the
// header; every data row is normalized to exactly one field per header
// column.
//
// Parsing runs in two stages. The standard csv package is tried first,
// and its output is accepted only when every record's field count matches
// the header. A structural parse error, or any record with a mismatched
// field count, triggers the ragged-row fallback: free-text columns such
// as transaction details routinely contain unquoted commas, which the
// standard parser either rejects or mis-splits. The fallback is authoritative,
// so no caller ever needs to re-invoke the reader after inspecting the data.
func ReadTable(data []byte) (*RowTable, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &MalformedInputError{Reason: "empty input"}
	}
	if !utf8.Valid(data) {
		return nil, &MalformedInputError{Reason: "input is not valid UTF-8 text"}
	}

	// Strip a UTF-8 BOM if present; exports from spreadsheet tools often
	// carry one.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	records, err := strictParse(data)
	if err != nil || !uniformFieldCount(records) {
		if err != nil {
			slog.Debug("strict CSV parse failed, using ragged-row fallback",
				slog.String("error", err.Error()))
		} else {
			slog.Debug("CSV field counts are inconsistent, using ragged-row fallback")
		}
		records = raggedParse(data)
	}

	if len(records) < 2 {
		return nil, &MalformedInputError{Reason: "no data rows after header"}
	}

	columns := make([]string, len(records[0]))
	for i, c := range records[0] {
		columns[i] = strings.TrimSpace(c)
	}

	table := &RowTable{Columns: columns, Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// strictParse runs the standard library CSV reader over the input.
func strictParse(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// uniformFieldCount reports whether every record has exactly as many
// fields as the first (header) record.
func uniformFieldCount(records [][]string) bool {
	if len(records) == 0 {
		return false
	}
	want := len(records[0])
	for _, rec := range records[1:] {
		if len(rec) != want {
			return false
		}
	}
	return true
}

// raggedParse splits each physical line on the delimiter without any
// quoting rules. Rows longer than the header have their excess trailing
// fields joined back into the last declared column; shorter rows are
// right-padded with empty strings. Overflow fields are rejoined with
// ", " since an unquoted comma in a free-text field is followed by a
// space in the source data.
func raggedParse(data []byte) [][]string {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	var records [][]string
	var width int
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(records) == 0 {
			width = len(fields)
			records = append(records, fields)
			continue
		}
		switch {
		case len(fields) > width:
			fields = append(fields[:width-1], joinOverflow(fields[width-1:]))
		case len(fields) < width:
			for len(fields) < width {
				fields = append(fields, "")
			}
		}
		records = append(records, fields)
	}
	return records
}

// joinOverflow rejoins overflow fields with ", ". Splitting "a, b" on the
// bare comma leaves a leading space on every continuation field, which is
// trimmed first so the original text round-trips exactly.
func joinOverflow(fields []string) string {
	parts := make([]string, len(fields))
	parts[0] = fields[0]
	for i, f := range fields[1:] {
		parts[i+1] = strings.TrimPrefix(f, " ")
	}
	return strings.Join(parts, ", ")
}
