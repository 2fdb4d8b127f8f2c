// Package files provides storage and discovery for uploaded CSV files.
//
// This package contains two main components:
//
// Manager: Owns the upload directory. It validates filenames (CSV only,
// no path traversal), stores uploads under timestamped names, and lists,
// reads, and deletes stored files.
//
// Discovery: Locates CSV input files on disk for the batch analyzer,
// with directory, recursive, and glob-pattern lookups.
//
// Example usage:
//
//	manager := files.NewManager(cfg.Upload)
//
//	stored, err := manager.Save("trades.csv", data)
//
//	discovery := files.NewDiscovery(".")
//	inputs, err := discovery.FindCSVFiles("data")
package files
