package main

import (
	"context"
	"fmt"

	"conceptgraph/internal/config"
	"conceptgraph/internal/service"

	"github.com/spf13/cobra"
)

var (
	relatedDepth int
	relatedCap   int

	searchLimit      int
	searchIgnoreCase bool

	knowledgeCategory string
	knowledgeType     string
	knowledgeLimit    int
)

var relatedCmd = &cobra.Command{
	Use:   "related ID",
	Short: "List concepts related to a concept",
	Long: `Walk outward from a concept up to --depth hops and list the concepts
found, capped at --cap entries. Entries are in depth-first order and each
distance is the depth at which the walk first reached that concept, which on
graphs with cycles can exceed the shortest hop count.

Examples:
  conceptgraph related liver
  conceptgraph related spleen --depth 3 --cap 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(c *config.Config) {
			if relatedCap > 0 {
				c.Query.ResultCap = relatedCap
			}
		}, func(ctx context.Context, svc *service.GraphService) (interface{}, error) {
			return svc.Related(ctx, args[0], relatedDepth)
		})
	},
}

var pathCmd = &cobra.Command{
	Use:   "path SOURCE TARGET",
	Short: "Find the shortest path between two concepts",
	Long: `Find a shortest path between two concepts, ignoring edge direction.
pathLength is -1 when they are not connected.

Examples:
  conceptgraph path liver xiaoyao_san`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, nil, func(ctx context.Context, svc *service.GraphService) (interface{}, error) {
			res, err := svc.Path(ctx, args[0], args[1])
			if err == nil && !res.Found() {
				fmt.Fprintf(cmd.ErrOrStderr(), "no path between %s and %s\n", args[0], args[1])
			}
			return res, err
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search TEXT",
	Short: "Search concepts by name, category or type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(c *config.Config) {
			if searchIgnoreCase {
				c.Query.CaseInsensitiveSearch = true
			}
		}, func(ctx context.Context, svc *service.GraphService) (interface{}, error) {
			return svc.Search(ctx, args[0], searchLimit)
		})
	},
}

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Print the subgraph matching a category and type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runQuery(cmd, nil, func(ctx context.Context, svc *service.GraphService) (interface{}, error) {
			return svc.Knowledge(ctx, service.KnowledgeQuery{
				Category: knowledgeCategory,
				Type:     knowledgeType,
				Limit:    knowledgeLimit,
			})
		})
	},
}

var conceptCmd = &cobra.Command{
	Use:   "concept ID",
	Short: "Show a concept with its related concepts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, nil, func(ctx context.Context, svc *service.GraphService) (interface{}, error) {
			return svc.Concept(ctx, args[0])
		})
	},
}

func init() {
	relatedCmd.Flags().IntVar(&relatedDepth, "depth", 0, "maximum hops (default query.default_depth)")
	relatedCmd.Flags().IntVar(&relatedCap, "cap", 0, "maximum results (default query.result_cap)")

	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum results (default query.search_limit)")
	searchCmd.Flags().BoolVar(&searchIgnoreCase, "ignore-case", false, "match case-insensitively")

	knowledgeCmd.Flags().StringVar(&knowledgeCategory, "category", "", "only nodes in this category")
	knowledgeCmd.Flags().StringVar(&knowledgeType, "type", "", "only nodes of this type")
	knowledgeCmd.Flags().IntVar(&knowledgeLimit, "limit", 0, "maximum nodes (0 for all)")

	rootCmd.AddCommand(relatedCmd, pathCmd, searchCmd, knowledgeCmd, conceptCmd)
}

// runQuery loads the configured snapshot, runs one query and prints the
// result as JSON
func runQuery(
	cmd *cobra.Command,
	configure func(*config.Config),
	query func(ctx context.Context, svc *service.GraphService) (interface{}, error),
) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if configure != nil {
		configure(cfg)
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

	result, err := query(ctx, a.svc)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}
