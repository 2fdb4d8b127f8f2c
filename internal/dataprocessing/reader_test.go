package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols []string
		wantRows int
	}{
		{
			name:     "well-formed csv",
			input:    "A,B,C\n1,2,3\n4,5,6\n",
			wantCols: []string{"A", "B", "C"},
			wantRows: 2,
		},
		{
			name:     "crlf line endings",
			input:    "A,B\r\n1,2\r\n",
			wantCols: []string{"A", "B"},
			wantRows: 1,
		},
		{
			name:     "utf-8 bom stripped",
			input:    "\uFEFFA,B\n1,2\n",
			wantCols: []string{"A", "B"},
			wantRows: 1,
		},
		{
			name:     "blank lines skipped",
			input:    "A,B\n1,2\n\n3,4\n\n",
			wantCols: []string{"A", "B"},
			wantRows: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadTable([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, table.Columns)
			assert.Equal(t, tt.wantRows, table.Len())
		})
	}
}

func TestReadTableRaggedRows(t *testing.T) {
	// The Details field carries unquoted commas; the overflow must be
	// concatenated back into the last declared column, not truncated.
	input := strings.Join([]string{
		"Type,Time,Amount,Details",
		"Deposit,2024-01-02 10:00:00,50,wire ref 1, branch office, approved",
		"Deposit,2024-01-03 11:00:00,75,card",
	}, "\n")

	table, err := ReadTable([]byte(input))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"Type", "Time", "Amount", "Details"}, table.Columns)
	assert.Equal(t, "wire ref 1, branch office, approved", table.Rows[0]["Details"])
	assert.Equal(t, "card", table.Rows[1]["Details"])
}

func TestReadTableShortRowsPadded(t *testing.T) {
	input := "A,B,C\n1,2\n"

	table, err := ReadTable([]byte(input))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "1", table.Rows[0]["A"])
	assert.Equal(t, "2", table.Rows[0]["B"])
	assert.Equal(t, "", table.Rows[0]["C"])
}

func TestReadTableQuotedFieldsSurvive(t *testing.T) {
	// Properly quoted commas parse on the strict path with uniform field
	// counts, so the fallback never runs.
	input := "A,B\n\"x, y\",2\n"

	table, err := ReadTable([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "x, y", table.Rows[0]["A"])
}

func TestReadTableMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty input", input: []byte("")},
		{name: "whitespace only", input: []byte("  \n  ")},
		{name: "header only", input: []byte("A,B,C\n")},
		{name: "invalid utf-8", input: []byte{0xff, 0xfe, 0x41}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(tt.input)
			require.Error(t, err)
			var malformed *MalformedInputError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}
