package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jjenkins/programselect/internal/service"
	"github.com/jjenkins/programselect/internal/store"
	"github.com/jjenkins/programselect/internal/tabular"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importProgramsFile string
var importDirectoryFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the program table and student directory from CSV",
	Long: `Import replaces the program table and/or the student directory in the
PostgreSQL backend with the contents of CSV files.

Each file must start with its header row, the same layout the spreadsheet
uses. The submission ledger is never touched.

Examples:
  # Load both tables
  ./programselect import --programs programs.csv --directory students.csv

  # Refresh only the program table
  ./programselect import --programs programs.csv`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importProgramsFile, "programs", "", "CSV file for the program table")
	importCmd.Flags().StringVar(&importDirectoryFile, "directory", "", "CSV file for the student directory")
}

func runImport(cmd *cobra.Command, args []string) error {
	if importProgramsFile == "" && importDirectoryFile == "" {
		return fmt.Errorf("nothing to import, pass --programs and/or --directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sheetStore, ok := a.backend.(*store.SheetStore)
	if !ok {
		return fmt.Errorf("import needs store.backend %q; edit the spreadsheet directly instead", "postgres")
	}

	jobs := []struct {
		file   string
		spec   string
		header []string
	}{
		{importProgramsFile, a.cfg.Ranges.Programs, service.ProgramHeader},
		{importDirectoryFile, a.cfg.Ranges.Directory, service.DirectoryHeader},
	}

	for _, job := range jobs {
		if job.file == "" {
			continue
		}

		rows, err := readCSV(job.file, len(job.header))
		if err != nil {
			return err
		}

		r, err := tabular.ParseRange(job.spec)
		if err != nil {
			return fmt.Errorf("invalid range %q: %w", job.spec, err)
		}
		if err := sheetStore.ReplaceRows(ctx, r.Sheet, rows); err != nil {
			return fmt.Errorf("failed to import %s: %w", job.file, err)
		}

		a.logger.Info("imported sheet",
			zap.String("sheet", r.Sheet),
			zap.String("file", job.file),
			zap.Int("rows", len(rows)-1),
		)
		fmt.Printf("%s: %d row(s) loaded into %q\n", job.file, len(rows)-1, r.Sheet)
	}

	return nil
}

// readCSV reads a whole CSV file. The first row is the header and must have
// at least columns cells
func readCSV(path string, columns int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty, expected a header row", path)
	}
	if len(rows[0]) < columns {
		return nil, fmt.Errorf("%s header has %d column(s), expected %d", path, len(rows[0]), columns)
	}
	return rows, nil
}
