package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func financeTable(t *testing.T, rows ...string) *RowTable {
	t.Helper()
	input := "Type,Time,Amount,Status,Payment Gateway,Details\n" +
		strings.Join(rows, "\n")
	table, err := ReadTable([]byte(input))
	require.NoError(t, err)
	return table
}

func TestAnalyzeFinanceManualDepositSubset(t *testing.T) {
	table := financeTable(t,
		"Deposit,2024-01-05 10:00:00,50,Completed,Manual,wire ref 1",
		"Deposit,2024-01-20 10:00:00,75,Completed,Manual,wire ref 2",
		"Withdrawal,2024-01-21 10:00:00,200,Completed,Skrill,card payout",
	)

	res := AnalyzeFinance(table)

	assert.Equal(t, 2, res.Summary.ManualDeposits)
	assert.Equal(t, 2, res.Summary.DepositTransactions)
	assert.Equal(t, 125.0, res.Summary.TotalAmount)
	assert.Equal(t, 62.5, res.Summary.AvgAmount)

	// The non-manual row is excluded entirely, not zero-weighted.
	require.Len(t, res.Monthly, 1)
	assert.Equal(t, AggregateRow{Key: "2024-01", Total: 125, Count: 2, Mean: 62.5}, res.Monthly[0])
	assert.Equal(t, 1, res.Diagnostics.Notes[reasonOutsideFilter])
}

func TestAnalyzeFinanceDepositViaNonManualGatewayExcluded(t *testing.T) {
	table := financeTable(t,
		"Deposit,2024-01-05 10:00:00,50,Completed,Manual,ok",
		"Deposit,2024-01-06 10:00:00,999,Completed,Skrill,card",
	)

	res := AnalyzeFinance(table)

	assert.Equal(t, 1, res.Summary.ManualDeposits)
	assert.Equal(t, 50.0, res.Summary.TotalAmount)
}

func TestAnalyzeFinanceNullAmounts(t *testing.T) {
	// A non-numeric amount participates in counts but not in sum or mean.
	table := financeTable(t,
		"Deposit,2024-01-05 10:00:00,50,Completed,Manual,ok",
		"Deposit,2024-01-06 10:00:00,oops,Completed,Manual,typo",
		"Deposit,2024-01-07 10:00:00,70,Completed,Manual,ok",
	)

	res := AnalyzeFinance(table)

	assert.Equal(t, 3, res.Summary.ManualDeposits)
	assert.Equal(t, 120.0, res.Summary.TotalAmount)
	assert.Equal(t, 60.0, res.Summary.AvgAmount)
	require.Len(t, res.Monthly, 1)
	assert.Equal(t, 3, res.Monthly[0].Count)
	assert.Equal(t, 120.0, res.Monthly[0].Total)
	assert.Equal(t, 1, res.Diagnostics.Notes[reasonNonNumericAmount])
}

func TestAnalyzeFinanceTypeTableHasTotal(t *testing.T) {
	table := financeTable(t,
		"Deposit,2024-01-05 10:00:00,50,Completed,Manual,ok",
	)

	res := AnalyzeFinance(table)

	require.Len(t, res.Types, 2)
	assert.Equal(t, depositType, res.Types[0].Key)
	assert.Equal(t, TotalKey, res.Types[1].Key)
	assert.Equal(t, 50.0, res.Types[1].Total)
}

func TestAnalyzeFinanceEmptySubset(t *testing.T) {
	// Mean over an empty subset reports 0, never NaN.
	table := financeTable(t,
		"Withdrawal,2024-01-21 10:00:00,200,Completed,Skrill,payout",
	)

	res := AnalyzeFinance(table)

	assert.Equal(t, 0, res.Summary.ManualDeposits)
	assert.Equal(t, 0.0, res.Summary.TotalAmount)
	assert.Equal(t, 0.0, res.Summary.AvgAmount)
	assert.Empty(t, res.Monthly)
}

func TestAnalyzeFinanceDropsUnparseableTimestamps(t *testing.T) {
	table := financeTable(t,
		"Deposit,garbage,50,Completed,Manual,ok",
		"Deposit,2024-01-05 10:00:00,50,Completed,Manual,ok",
	)

	res := AnalyzeFinance(table)

	assert.Equal(t, 1, res.Summary.ManualDeposits)
	assert.Equal(t, 1, res.Diagnostics.DroppedRows)
	assert.Equal(t, 1, res.Diagnostics.DropReasons[reasonInvalidTimestamp])
}
