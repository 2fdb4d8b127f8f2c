// Package exporter renders analysis payloads into downloadable files.
//
// This package contains two main components:
//
// Workbook: Renders a report payload into an Excel workbook with a
// summary sheet, one sheet per aggregate table, and native charts built
// from the payload's chart descriptors.
//
// CSVWriter: Writes aggregate tables as CSV files with UTF-8 BOM for
// Excel compatibility. The batch analyzer uses it to dump results to
// disk.
//
// Example usage:
//
//	var buf bytes.Buffer
//	err := exporter.WriteWorkbook(&buf, payload)
//
//	w := exporter.NewCSVWriter("out")
//	err = w.WriteTable("monthly_stats.csv", columns, payload.Tables["monthly_stats"])
package exporter
