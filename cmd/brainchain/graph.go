package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srijan-op/Brain-Chain/internal/bootstrap"
	"github.com/srijan-op/Brain-Chain/schema"
	"github.com/srijan-op/Brain-Chain/workflow"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the agent graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the agent team. Nodes passed with --visited are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, false)
		if err != nil {
			return err
		}
		graph, err := bootstrap.Graph(cfg, logger, bootstrap.Options{})
		if err != nil {
			return err
		}

		var overlay *workflow.Overlay
		if visited, _ := cmd.Flags().GetStringSlice("visited"); len(visited) > 0 {
			overlay = &workflow.Overlay{}
			for _, name := range visited {
				overlay.Path = append(overlay.Path, schema.Route(name))
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.Mermaid(overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("visited", nil, "Comma separated node names to highlight")
}
