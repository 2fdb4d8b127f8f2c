// Command analyze runs the CSV analysis pipeline from the command line,
// without the web server. It processes files in parallel and writes the
// results as JSON payloads, CSV tables, and optionally Excel workbooks.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env file, same as the web binary.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
