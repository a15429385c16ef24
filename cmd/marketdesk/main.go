// Command marketdesk runs the marketing-content dashboard server and its
// offline tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "marketdesk",
		Short: "Marketing content dashboard: accounts, posts, blogs, banners",
		Long: `marketdesk serves the marketing content API and exposes its generators
as command-line tools.

Examples:
  marketdesk serve --config marketdesk.yaml
  marketdesk analyze https://acme-spine.com
  marketdesk topics --industry insurance --description "commercial policies"
  marketdesk banner --headline "Spring Sale" --out banners/`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newAnalyzeCmd(),
		newTopicsCmd(),
		newBannerCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the marketdesk version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "marketdesk %s\n", version)
			},
		},
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
