package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/wooauto/internal/config"
	"github.com/mrlokans/wooauto/internal/crypto"
	"github.com/mrlokans/wooauto/internal/database"
	"github.com/mrlokans/wooauto/internal/preferences"
)

const (
	PrefsActionList    = "list"
	PrefsActionGet     = "get"
	PrefsActionSet     = "set"
	PrefsActionReset   = "reset"
	PrefsActionExport  = "export"
	PrefsActionMigrate = "migrate"
)

// prefsArity is the number of positional arguments each action takes.
var prefsArity = map[string]int{
	PrefsActionList:    0,
	PrefsActionGet:     1,
	PrefsActionSet:     2,
	PrefsActionReset:   1,
	PrefsActionExport:  0,
	PrefsActionMigrate: 1,
}

type PrefsCommand struct {
	DatabasePath string
	SecretKey    string
	Output       string // export only; stdout when empty

	Action string
	Args   []string

	Out io.Writer
}

func NewPrefsCommand() *PrefsCommand {
	return &PrefsCommand{Out: os.Stdout}
}

func (cmd *PrefsCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the preferences database")
	fs.StringVar(&cmd.SecretKey, "secret-key", cfg.Preferences.SecretKey, "Passphrase sealing the API secret (defaults to PREFERENCES_SECRET_KEY)")
	fs.StringVar(&cmd.Output, "o", "", "Write the export to this file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s prefs [options] <action> [args]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Inspect and edit stored preferences.\n\n")
		fmt.Fprintf(os.Stderr, "Actions:\n")
		fmt.Fprintf(os.Stderr, "  list                 Show every preference (secrets masked)\n")
		fmt.Fprintf(os.Stderr, "  get <key>            Print one value\n")
		fmt.Fprintf(os.Stderr, "  set <key> <value>    Store one value\n")
		fmt.Fprintf(os.Stderr, "  reset <key>          Restore the default\n")
		fmt.Fprintf(os.Stderr, "  export               Write all preferences as YAML\n")
		fmt.Fprintf(os.Stderr, "  migrate <file>       Import a legacy preferences file\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s prefs list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s prefs -db ./shop.db set polling_interval 120\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s prefs -o prefs.yaml export\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		cmd.Action = PrefsActionList
		return nil
	}
	cmd.Action = fs.Arg(0)
	cmd.Args = fs.Args()[1:]

	arity, ok := prefsArity[cmd.Action]
	if !ok {
		fs.Usage()
		return fmt.Errorf("unknown action: %s", cmd.Action)
	}
	if len(cmd.Args) != arity {
		fs.Usage()
		return fmt.Errorf("%s takes %d argument(s), got %d", cmd.Action, arity, len(cmd.Args))
	}

	return nil
}

func (cmd *PrefsCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, database.WithLogLevel(logger.Silent))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	store, err := cmd.openStore(db)
	if err != nil {
		return err
	}

	switch cmd.Action {
	case PrefsActionList:
		return cmd.list(store)

	case PrefsActionGet:
		value, err := store.Get(cmd.Args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.Out, value)

	case PrefsActionSet:
		value, err := preferences.Validate(cmd.Args[0], cmd.Args[1])
		if err != nil {
			return err
		}
		if err := store.Set(cmd.Args[0], value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Out, "%s updated\n", cmd.Args[0])

	case PrefsActionReset:
		if err := store.Reset(cmd.Args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Out, "%s reset to default\n", cmd.Args[0])

	case PrefsActionExport:
		return cmd.export(store)

	case PrefsActionMigrate:
		result, err := store.Migrate(cmd.Args[0])
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if result.Skipped {
			fmt.Fprintf(cmd.Out, "Preferences already at version %d, nothing to do\n", result.ToVersion)
			return nil
		}
		fmt.Fprintf(cmd.Out, "Migrated preferences from version %d to %d (%d imported)\n",
			result.FromVersion, result.ToVersion, len(result.Imported))
		for _, key := range result.Imported {
			fmt.Fprintf(cmd.Out, "  %s\n", key)
		}

	default:
		return fmt.Errorf("unknown action: %s", cmd.Action)
	}

	return nil
}

func (cmd *PrefsCommand) openStore(db *database.Database) (*preferences.Store, error) {
	opts := []preferences.Option{preferences.WithLogger(zap.NewNop())}
	if cmd.SecretKey != "" {
		box, err := crypto.NewSecretBoxFromPassphrase(cmd.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("invalid secret key: %w", err)
		}
		opts = append(opts, preferences.WithSealer(box))
	}
	return preferences.New(db.Settings(), opts...), nil
}

func (cmd *PrefsCommand) list(store *preferences.Store) error {
	snapshot, err := store.Snapshot()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tDEFAULT\tSET")
	for _, e := range snapshot {
		set := ""
		if e.IsSet {
			set = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Key, e.Value, e.Default, set)
	}
	return w.Flush()
}

func (cmd *PrefsCommand) export(store *preferences.Store) error {
	if cmd.Output == "" {
		return store.ExportYAML(cmd.Out)
	}

	f, err := os.Create(cmd.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", cmd.Output, err)
	}
	if err := store.ExportYAML(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "Exported preferences to %s\n", cmd.Output)
	return nil
}
