package main

import (
	"fmt"
	"io"
	"os"

	"conceptgraph/internal/graph"
	"conceptgraph/internal/loader"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Validate a snapshot file and store it in the database",
	Long: `Parse a JSON or YAML snapshot, validate it and replace the snapshot
held in database.path. Duplicate node ids reject the file; edges whose
endpoints are missing are reported and left out of the served graph.

Serve the stored snapshot with snapshot.source=sqlite.

Examples:
  conceptgraph import graph.yaml
  conceptgraph import graph.json --config ./conceptgraph.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the configured snapshot as JSON or YAML",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "output format (json, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")

	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	fragment, err := loader.LoadFile(args[0])
	if err != nil {
		return err
	}
	// Reject an invalid file before the database is opened.
	_, report, err := graph.Load(fragment.Nodes, fragment.Edges)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, appOptions{withRepo: true})
	if err != nil {
		return err
	}
	defer a.Close()

	info, err := a.svc.ImportFragment(cmd.Context(), fragment, "file:"+args[0])
	if err != nil {
		return err
	}
	if report.HasWarnings() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d edge(s) reference missing nodes and will not be served\n", len(report.Dropped))
	}
	return printJSON(cmd.OutOrStdout(), info)
}

func runExport(cmd *cobra.Command, _ []string) (err error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.svc.Reload(ctx); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	_, err = a.svc.Export(ctx, exportFormat, w)
	return err
}
