package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/charmbracelet/fang"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/loamlang/loam/pkg/intern"
	"github.com/loamlang/loam/pkg/populate"
	"github.com/loamlang/loam/pkg/project"
	"github.com/loamlang/loam/pkg/xref"
)

// Config holds the application configuration
type Config struct {
	Debug    bool
	XrefPath string
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "loamcheck [flags] snapshot.json",
		Short: "Loam type analyzer",
		Long: `Loamcheck resolves class hierarchies and type annotations from a
scanner snapshot and reports the problems it finds.`,
		Example: `  # Analyze a snapshot
  loamcheck snapshot.json

  # Analyze with debug logging and write the cross-reference index
  loamcheck --debug --xref .loam/xref.db snapshot.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cfg, args[0])
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&cfg.XrefPath, "xref", "", "Write the symbol cross-reference index to this SQLite file")

	rootCmd.AddCommand(dumpCmd(&cfg))

	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func runCheck(ctx context.Context, cfg Config, snapshotPath string) error {
	setupLogging(cfg.Debug)

	configPath, projCfg, err := project.Find(".")
	if err != nil {
		return err
	}
	if configPath != "" {
		slog.Debug("loaded project config", "path", configPath)
	}

	snap, err := LoadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	cb := snap.Codebase(intern.New())
	slog.Debug("snapshot loaded", "classes", len(cb.Names()))

	results, err := populate.PopulateAll(ctx, cb, projCfg.Analysis.Parallelism)
	if err != nil {
		return err
	}

	issues := 0
	for _, r := range results {
		for _, issue := range r.Class.Issues {
			issues++
			fmt.Printf("%s: %s: %s\n", r.Class.Name, issue.Code, issue.Message)
		}
		for _, dep := range sortedDeps(r.Class.InvalidDependencies) {
			issues++
			fmt.Printf("%s: missing_dependency: cannot resolve %s\n", r.Class.Name, dep)
		}
	}

	xrefPath := cfg.XrefPath
	if xrefPath == "" {
		xrefPath = projCfg.Index.Path
	}
	if xrefPath != "" {
		store, err := xref.Open(xrefPath)
		if err != nil {
			return fmt.Errorf("opening xref index: %w", err)
		}
		defer store.Close()
		if err := store.RecordAll(results); err != nil {
			return fmt.Errorf("writing xref index: %w", err)
		}
		slog.Debug("xref index written", "path", xrefPath)
	}

	if issues > 0 {
		return fmt.Errorf("%d problem(s) found in %d class(es)", issues, len(results))
	}
	fmt.Printf("%d class(es) resolved, no problems found\n", len(results))
	return nil
}

// dumpCmd prints one resolved descriptor for debugging scanner output or
// inheritance surprises.
func dumpCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "dump snapshot.json Class.Name",
		Short: "Print one class' resolved descriptor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cfg.Debug)

			snap, err := LoadSnapshot(args[0])
			if err != nil {
				return err
			}
			cb := snap.Codebase(intern.New())
			if _, err := populate.PopulateAll(cmd.Context(), cb, 1); err != nil {
				return err
			}

			c, ok := cb.ClassLike(args[1])
			if !ok {
				return fmt.Errorf("unknown class %s", args[1])
			}
			_, err = pretty.Println(c)
			return err
		},
	}
}

func sortedDeps(deps map[string]bool) []string {
	out := make([]string, 0, len(deps))
	for name := range deps {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
