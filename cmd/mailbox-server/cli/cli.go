package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"mailbox/internal/storage"
)

// Run is the entry point for the db subcommands
func Run(args []string) error {
	return run(args, os.Stdout)
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, or query")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "query":
		return runQuery(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func runInit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", *path)
	return nil
}

func runDelete(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", *path)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	positionID := fs.String("positionId", "", "Position ID to filter (optional, * for all)")
	generations := fs.Bool("generations", false, "List generation passes for each matched position")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	positions, err := store.QueryPositions(*positionID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(positions) == 0 {
		fmt.Fprintln(out, "No positions found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Position ID\tTurn\tPlacement\tCreated")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, p := range positions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID(p.PositionID),
			p.Turn,
			p.Placement,
			p.CreatedAtUTC.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	if *generations {
		for _, p := range positions {
			gens, err := store.QueryGenerations(p.PositionID)
			if err != nil {
				return fmt.Errorf("generation query failed: %w", err)
			}
			fmt.Fprintf(out, "\n%s: %d generation(s)\n", shortID(p.PositionID), len(gens))
			for _, g := range gens {
				fmt.Fprintf(w, "  #%d\t%s\t%d pieces\t%d targets\t%s\n",
					g.GenerationID,
					g.Turn,
					g.PieceCount,
					g.TargetCount,
					g.GeneratedAtUTC.Format("2006-01-02 15:04:05"),
				)
			}
			w.Flush()
		}
	}

	fmt.Fprintf(out, "\nFound %d position(s)\n", len(positions))
	return nil
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}
