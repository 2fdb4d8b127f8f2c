package dataprocessing

// FileType identifies which schema a RowTable carries.
type FileType string

const (
	FileTypeTrading      FileType = "trading"
	FileTypeFinance      FileType = "finance"
	FileTypeUnrecognized FileType = "unrecognized"
)

// Required column sets per file type. Close Time and Swap are consumed by
// the trading aggregator but deliberately absent here: a missing value in
// either becomes a row-level parse failure, not a file-level rejection.
var (
	requiredTradingColumns = []string{
		"ID", "Instrument", "Open Time", "Open Price", "Close Price", "Profit", "Reason",
	}
	requiredFinanceColumns = []string{
		"Type", "Time", "Amount", "Status", "Payment Gateway", "Details",
	}
)

// DetectSchema classifies a RowTable as trading or finance data and
// verifies the full required-column set for the detected type.
//
// The discriminator is the "Amount" column: finance exports carry it,
// trading exports never do. Once a type is chosen the required columns
// are checked in full; a partial match is a SchemaValidationError naming
// every missing column, never a silently degraded record type.
func DetectSchema(table *RowTable) (FileType, error) {
	if table == nil || len(table.Columns) == 0 {
		return FileTypeUnrecognized, &MalformedInputError{Reason: "table has no columns"}
	}

	if table.HasColumn("Amount") {
		if missing := table.MissingColumns(requiredFinanceColumns); len(missing) > 0 {
			return FileTypeUnrecognized, &SchemaValidationError{
				FileType: string(FileTypeFinance),
				Missing:  missing,
			}
		}
		return FileTypeFinance, nil
	}

	if missing := table.MissingColumns(requiredTradingColumns); len(missing) > 0 {
		return FileTypeUnrecognized, &SchemaValidationError{
			FileType: string(FileTypeTrading),
			Missing:  missing,
		}
	}
	return FileTypeTrading, nil
}
