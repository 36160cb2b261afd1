package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/account-manager/internal/audit"
	"github.com/mrlokans/account-manager/internal/config"
	"github.com/mrlokans/account-manager/internal/database"
	"github.com/mrlokans/account-manager/internal/database/accounts"
	auditrepo "github.com/mrlokans/account-manager/internal/database/audit"
	"github.com/mrlokans/account-manager/internal/entities"
	"github.com/mrlokans/account-manager/internal/importers"
	"github.com/mrlokans/account-manager/internal/services"
)

// ImportCommand imports accounts from a file straight into the database,
// using the same pipeline as the HTTP endpoint.
type ImportCommand struct {
	FilePath string
	DryRun   bool
	Verbose  bool

	Database  config.Database
	Import    config.Import
	Passwords config.Passwords

	Out io.Writer
}

// NewImportCommand creates the command with settings taken from the
// environment; flags override the database location.
func NewImportCommand() *ImportCommand {
	cfg := config.NewConfig()
	return &ImportCommand{
		Database:  cfg.Database,
		Import:    cfg.Import,
		Passwords: cfg.Passwords,
		Out:       os.Stdout,
	}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the accounts file (required)")
	fs.StringVar(&cmd.Database.Driver, "driver", cmd.Database.Driver, "Database driver: sqlite, postgres or mysql")
	fs.StringVar(&cmd.Database.Path, "db", cmd.Database.Path, "Path to the sqlite database file")
	fs.StringVar(&cmd.Database.URL, "database-url", cmd.Database.URL, "DSN for postgres or mysql")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every imported account")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse and validate only, without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import accounts from a file containing an array of {username, password} objects.\n")
		fmt.Fprintf(os.Stderr, "Keys may be unquoted and strings may use single quotes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file accounts.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file accounts.txt -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	return cmd.RunContext(context.Background())
}

func (cmd *ImportCommand) RunContext(ctx context.Context) error {
	out := cmd.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintln(out, "Account Import")
	fmt.Fprintln(out, "==============")
	if cmd.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No changes will be made")
	}

	raw, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read accounts file: %w", err)
	}
	fmt.Fprintf(out, "File: %s (%d bytes)\n", cmd.FilePath, len(raw))

	if cmd.Database.Driver == "" || cmd.Database.Driver == config.DriverSQLite {
		absDBPath, err := filepath.Abs(cmd.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for database: %w", err)
		}
		cmd.Database.Path = absDBPath
		fmt.Fprintf(out, "Database: %s\n", cmd.Database.Path)
	} else {
		fmt.Fprintf(out, "Database driver: %s\n", cmd.Database.Driver)
	}

	db, err := database.NewDatabase(cmd.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	accountService := services.NewAccountService(
		accounts.NewRepository(db.DB),
		nil,
		services.PasswordOptions{Hash: cmd.Passwords.Hash, Cost: cmd.Passwords.BcryptCost},
	)
	validator := services.NewRecordValidator()
	pipeline := importers.NewPipeline(accountService, validator, importers.Limits{
		MaxBytes:   cmd.Import.MaxBytes,
		MaxRecords: cmd.Import.MaxRecords,
	})

	if cmd.DryRun {
		return cmd.preview(ctx, out, pipeline, accountService, raw)
	}

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Flush()

	outcome, err := pipeline.Import(ctx, raw)
	auditService.LogImport(audit.RequestMeta{}, "cli", outcome.ImportedCount(), outcome.RejectedCount(), err)
	if err != nil {
		return describeImportError(err)
	}

	if cmd.Verbose {
		for _, account := range outcome.Imported {
			fmt.Fprintf(out, "  [OK] %s (id %d)\n", account.Username, account.ID)
		}
	}

	fmt.Fprintln(out, "\n=== Import Summary ===")
	fmt.Fprintf(out, "Imported: %d\n", outcome.ImportedCount())
	fmt.Fprintf(out, "Rejected: %d\n", outcome.RejectedCount())
	printRejections(out, outcome.Rejected)

	return nil
}

// preview reports what an import would do without creating anything.
func (cmd *ImportCommand) preview(ctx context.Context, out io.Writer, pipeline *importers.Pipeline, store importers.UsernameChecker, raw []byte) error {
	outcome, err := pipeline.Preview(ctx, raw, store)
	if err != nil {
		return describeImportError(err)
	}

	if cmd.Verbose {
		for _, account := range outcome.Imported {
			fmt.Fprintf(out, "  [NEW] %s\n", account.Username)
		}
	}

	fmt.Fprintln(out, "\n=== Dry Run Summary ===")
	fmt.Fprintf(out, "Records: %d\n", outcome.ImportedCount()+outcome.RejectedCount())
	fmt.Fprintf(out, "Would import: %d\n", outcome.ImportedCount())
	fmt.Fprintf(out, "Would reject: %d\n", outcome.RejectedCount())
	printRejections(out, outcome.Rejected)
	fmt.Fprintln(out, "\nDry run complete. Use without -dry-run to import.")
	return nil
}

func printRejections(out io.Writer, rejected []entities.Rejection) {
	if len(rejected) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%d records rejected:\n", len(rejected))
	for _, r := range rejected {
		fmt.Fprintf(out, "  [%s] %v: %s\n", r.Kind, r.Record, r.Message)
	}
}

func describeImportError(err error) error {
	var importErr *importers.ImportError
	if !errors.As(err, &importErr) {
		return fmt.Errorf("import failed: %w", err)
	}
	switch importErr.Reason {
	case importers.ReasonTooLarge:
		return fmt.Errorf("file too large: %w", err)
	case importers.ReasonTooMany:
		return fmt.Errorf("too many accounts: %w", err)
	default:
		return fmt.Errorf("invalid file format, expected [{\"username\": \"user\", \"password\": \"pass\"}]: %w", err)
	}
}
