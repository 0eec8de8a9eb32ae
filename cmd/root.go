package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jjenkins/programselect/internal/config"
	"github.com/jjenkins/programselect/internal/logger"
	"github.com/jjenkins/programselect/internal/service"
	"github.com/jjenkins/programselect/internal/store"
	"github.com/jjenkins/programselect/internal/tabular"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "programselect",
	Short: "Study-program selection backed by a shared spreadsheet",
	Long: `programselect lets an operator look up a student, see which study programs
still have seats, and record the student's confirmed choice in the
submission ledger.

Programs, the student directory and the ledger live in a Google spreadsheet
(or a PostgreSQL table set with the same layout). Every request reads them
fresh; nothing is cached between requests.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (default: ./configs/config.yaml or ./config.yaml)")
}

// app holds what every command needs once configuration is loaded
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	workflow *service.Workflow
	backend  tabular.Store
	close    func()
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	backend, closeBackend, err := openStore(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	wf := service.NewWorkflow(service.Instrument(backend), service.Options{
		ProgramsRange:     cfg.Ranges.Programs,
		DirectoryRange:    cfg.Ranges.Directory,
		LedgerReadRange:   cfg.Ranges.LedgerRead,
		LedgerAppendRange: cfg.Ranges.LedgerAppend,
		ReadAttempts:      cfg.Store.ReadAttempts,
		RetryBackoff:      cfg.Store.RetryBackoff,
	}, log)

	return &app{
		cfg:      cfg,
		logger:   log,
		workflow: wf,
		backend:  backend,
		close: func() {
			closeBackend()
			_ = log.Sync()
		},
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (tabular.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := store.NewDB(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		sheets, err := sheetLayout(cfg)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := store.Migrate(ctx, db, sheets...); err != nil {
			db.Close()
			return nil, nil, err
		}

		log.Info("using postgres tabular backend")
		return store.NewSheetStore(db, cfg.Store.Timeout), func() { db.Close() }, nil

	default:
		var opts []option.ClientOption
		if cfg.Store.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Store.CredentialsFile))
		}
		client, err := tabular.NewSheetsClient(ctx, cfg.Store.SpreadsheetID, cfg.Store.Timeout, opts...)
		if err != nil {
			return nil, nil, err
		}

		log.Info("using google sheets tabular backend")
		return client, func() {}, nil
	}
}

// sheetLayout resolves the configured ranges to the sheets they live on,
// each with its header row
func sheetLayout(cfg *config.Config) ([]store.Sheet, error) {
	tables := []struct {
		spec   string
		header []string
	}{
		{cfg.Ranges.Programs, service.ProgramHeader},
		{cfg.Ranges.Directory, service.DirectoryHeader},
		{cfg.Ranges.LedgerAppend, service.LedgerHeader},
	}

	sheets := make([]store.Sheet, 0, len(tables))
	for _, t := range tables {
		r, err := tabular.ParseRange(t.spec)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", t.spec, err)
		}
		sheets = append(sheets, store.Sheet{Name: r.Sheet, Header: t.header})
	}
	return sheets, nil
}
