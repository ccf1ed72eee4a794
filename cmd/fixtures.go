package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"grocery.GO/config"
	"grocery.GO/service/fixture"
)

var (
	fixtureDir        string
	importCSV         string
	importBatch       int
	importReplace     bool
	importSkipInvalid bool
)

// loadSet reads the fixture set from dir, or the embedded one when dir is empty.
func loadSet(dir string) (*fixture.Set, error) {
	if dir == "" {
		return fixture.Load()
	}
	return fixture.LoadFS(os.DirFS(dir))
}

var fixturesValidateCmd = &cobra.Command{
	Use:   "fixtures:validate",
	Short: "Check the fixture data set for invalid or inconsistent records",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSet(fixtureDir)
		if err != nil {
			return err
		}
		report := s.Check()
		for _, w := range report.Warnings {
			fmt.Printf("  [warn]  %s\n", w)
		}
		for _, e := range report.Errors {
			fmt.Printf("  [error] %s\n", e)
		}
		fmt.Printf("%d products, %d categories, %d brands, %d users, %d orders: %d errors, %d warnings\n",
			len(s.Products), len(s.Categories), len(s.Brands), len(s.Users), len(s.Orders),
			len(report.Errors), len(report.Warnings))
		if !report.OK() {
			return errors.New("fixture validation failed")
		}
		return nil
	},
}

var fixturesImportCmd = &cobra.Command{
	Use:   "fixtures:import",
	Short: "Import the fixture data set (or a product CSV) into the configured database",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadAppConfig()
		cfg := config.AppConfig
		log := logger(cfg)
		defer log.Sync()

		db, err := config.NewDB(cfg, log)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		if err := fixture.Migrate(db); err != nil {
			return err
		}
		opts := fixture.ImportOptions{BatchSize: importBatch, Replace: importReplace, SkipInvalid: importSkipInvalid}

		var (
			res    *fixture.ImportResult
			source string
		)
		if importCSV != "" {
			f, err := os.Open(importCSV)
			if err != nil {
				return fmt.Errorf("open CSV: %w", err)
			}
			defer f.Close()
			source = importCSV
			res, err = fixture.ImportProductsCSV(cmd.Context(), db, f, opts, log)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
		} else {
			s, err := loadSet(fixtureDir)
			if err != nil {
				return err
			}
			source = "embedded fixtures"
			if fixtureDir != "" {
				source = fixtureDir
			}
			res, err = fixture.Import(cmd.Context(), db, s, opts, log)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
		}
		printImportReport(source, res)
		return nil
	},
}

func printImportReport(source string, res *fixture.ImportResult) {
	for _, w := range res.Warnings {
		fmt.Printf("  [warn] %s\n", w)
	}
	files := make([]string, 0, len(res.Counts))
	for f := range res.Counts {
		files = append(files, f)
	}
	sort.Strings(files)
	fmt.Printf(`
=== Import Report ===
Source:         %s
Rows:           %d
Created:        %d
Updated:        %d
Existing:       %d
Skipped:        %d
`, source, res.TotalRows, res.Created, res.Updated, res.Existing, res.Skipped)
	for _, f := range files {
		fmt.Printf("  - %-20s %d\n", f+":", res.Counts[f])
	}
	fmt.Printf(`Total time:     %s
  - DB write:   %s
=====================
`, res.TotalTime.Round(time.Millisecond), res.DBTime.Round(time.Millisecond))
}

func init() {
	fixturesValidateCmd.Flags().StringVarP(&fixtureDir, "dir", "d", "", "Fixture directory (default: embedded data set)")
	rootCmd.AddCommand(fixturesValidateCmd)

	fixturesImportCmd.Flags().StringVarP(&fixtureDir, "dir", "d", "", "Fixture directory (default: embedded data set)")
	fixturesImportCmd.Flags().StringVarP(&importCSV, "csv", "f", "", "Import products from this CSV file instead")
	fixturesImportCmd.Flags().IntVar(&importBatch, "batch-size", 100, "Batch size for DB operations")
	fixturesImportCmd.Flags().BoolVar(&importReplace, "replace", false, "Delete existing fixture rows first")
	fixturesImportCmd.Flags().BoolVar(&importSkipInvalid, "skip-invalid", false, "Import valid records even when others fail validation")
	rootCmd.AddCommand(fixturesImportCmd)
}
