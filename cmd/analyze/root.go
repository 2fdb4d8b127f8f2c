package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tradelens/internal/dataprocessing"
	"tradelens/internal/exporter"
	"tradelens/internal/files"
	"tradelens/internal/validation"
)

var (
	inputDir   string
	outputDir  string
	pattern    string
	recursive  bool
	latestOnly bool
	workers    int
	withXLSX   bool
)

var rootCmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Analyze trading and finance CSV exports",
	Long: `Analyze trading history and finance transaction CSV exports.

Each input file is parsed, its schema detected, and its aggregates
computed. Results land in the output directory as a JSON payload and
one CSV file per aggregate table, plus an Excel workbook with --xlsx.

Files can be given as arguments, discovered from a directory with
--dir, or both.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.Flags().StringVar(&inputDir, "dir", "", "directory to scan for CSV input files")
	rootCmd.Flags().StringVar(&outputDir, "out", "analysis", "output directory for results")
	rootCmd.Flags().StringVar(&pattern, "pattern", "", "glob pattern for input files within --dir (default *.csv)")
	rootCmd.Flags().BoolVar(&recursive, "recursive", false, "scan the input directory recursively")
	rootCmd.Flags().BoolVar(&latestOnly, "latest", false, "analyze only the most recently modified discovered file")
	rootCmd.Flags().IntVar(&workers, "workers", 4, "number of files to process in parallel")
	rootCmd.Flags().BoolVar(&withXLSX, "xlsx", false, "also write an Excel workbook per input file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	validator := validation.NewFileValidator(logger)
	if inputDir != "" {
		glob := pattern
		if glob == "" {
			glob = "*.csv"
		}
		if err := validator.ValidateInputDirectory(inputDir, glob); err != nil {
			return err
		}
	}

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input files: pass CSV paths or --dir")
	}
	for _, input := range inputs {
		if err := validator.ValidateFile(input); err != nil {
			return err
		}
	}

	if err := validator.ValidateOutputDirectory(outputDir); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)

	for _, input := range inputs {
		input := input
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := processFile(input); err != nil {
				logger.Error("analysis failed",
					slog.String("file", input),
					slog.String("error", err.Error()))
				return fmt.Errorf("%s: %w", input, err)
			}
			logger.Info("analysis completed", slog.String("file", input))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Analyzed %d file(s), results in %s\n", len(inputs), outputDir)
	return nil
}

func collectInputs(args []string) ([]string, error) {
	inputs := append([]string{}, args...)

	if inputDir != "" {
		discovery := files.NewDiscovery(".")
		var (
			found []files.DiscoveredFile
			err   error
		)
		switch {
		case pattern != "":
			found, err = discovery.FindFilesByPattern(inputDir, pattern)
		case recursive:
			found, err = discovery.FindCSVFilesRecursive(inputDir)
		default:
			found, err = discovery.FindCSVFiles(inputDir)
		}
		if err != nil {
			return nil, err
		}
		if latestOnly {
			if latest, ok := files.LatestFile(found); ok {
				found = []files.DiscoveredFile{latest}
			}
		}
		for _, f := range found {
			inputs = append(inputs, f.Path)
		}
	}

	return inputs, nil
}

func processFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	payload, err := dataprocessing.Analyze(data)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if err := writeJSON(base, payload); err != nil {
		return err
	}
	if err := writeTables(base, payload); err != nil {
		return err
	}
	if withXLSX {
		if err := writeWorkbook(base, payload); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(base string, payload *dataprocessing.ReportPayload) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	path := filepath.Join(outputDir, base+"_report.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeTables(base string, payload *dataprocessing.ReportPayload) error {
	writer := exporter.NewCSVWriter(outputDir)
	for _, layout := range exporter.TableLayouts(payload.FileType) {
		rows, ok := payload.Tables[layout.Key]
		if !ok {
			continue
		}
		filename := fmt.Sprintf("%s_%s.csv", base, layout.Key)
		if err := writer.WriteTable(filename, layout.Columns, rows); err != nil {
			return err
		}
	}
	return nil
}

func writeWorkbook(base string, payload *dataprocessing.ReportPayload) error {
	path := filepath.Join(outputDir, base+"_report.xlsx")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := exporter.WriteWorkbook(f, payload); err != nil {
		return err
	}
	return nil
}
