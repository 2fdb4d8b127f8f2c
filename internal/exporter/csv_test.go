package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTable(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	rows := []map[string]any{
		{"month": "2024-01", "total_profit": 100.0, "operations": 2, "avg_profit": 50.0},
		{"month": "TOTAL", "total_profit": 100.0, "operations": 2, "avg_profit": 50.0},
	}
	columns := []string{"month", "total_profit", "operations", "avg_profit"}

	require.NoError(t, w.WriteTable("monthly_stats.csv", columns, rows))

	data, err := os.ReadFile(filepath.Join(dir, "monthly_stats.csv"))
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "expected UTF-8 BOM prefix")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(content, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "month,total_profit,operations,avg_profit", lines[0])
	assert.Equal(t, "2024-01,100.00,2,50.00", lines[1])
	assert.Equal(t, "TOTAL,100.00,2,50.00", lines[2])
}

func TestWriteTableCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteTable(filepath.Join("nested", "out.csv"), []string{"a"}, nil))
	_, err := os.Stat(filepath.Join(dir, "nested", "out.csv"))
	assert.NoError(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", formatValue(nil))
	assert.Equal(t, "13.40", formatValue(13.4))
	assert.Equal(t, "7", formatValue(7))
	assert.Equal(t, "tp", formatValue("tp"))
}
