// Package dataprocessing implements the tabular analysis pipeline for
// trading-account and finance CSV exports.
//
// # Architecture
//
// The package is organized around a small set of components:
//
// 1. Reader: parses raw CSV bytes into a RowTable, tolerating ragged rows
// 2. Detector: classifies a RowTable as trading or finance data
// 3. Aggregators: compute grouped statistics and summary metrics
// 4. Charts: derive renderer-agnostic chart descriptors from aggregates
// 5. Payload: assembles everything into a single JSON-serializable result
//
// # Data Flow
//
//	CSV bytes → ReadTable → RowTable → DetectSchema → {AnalyzeTrading | AnalyzeFinance} → ReportPayload
//
// # Error Handling
//
// Only two error kinds escape this package: MalformedInputError when the
// input cannot be parsed at all, and SchemaValidationError when required
// columns are missing. Individual rows with unparseable timestamps or
// amounts are dropped from aggregation and accounted for in the payload's
// Diagnostics block; they never fail the request.
package dataprocessing
