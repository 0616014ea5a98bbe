package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srijan-op/Brain-Chain/internal/bootstrap"
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Answer one query and print the conversation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		graph, err := bootstrap.Graph(cfg, logger, bootstrap.Options{})
		if err != nil {
			return err
		}
		res, err := graph.Run(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		for i, msg := range res.Messages {
			author := strings.ToUpper(msg.Author())
			if i == 0 {
				author = "YOU"
			}
			fmt.Fprintf(out, "%s: %s\n\n", author, msg.StringifiedContent())
		}
		if res.ForcedFinish {
			fmt.Fprintf(out, "(stopped after %d steps)\n", res.Steps)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().Bool("json", false, "Print the run result as JSON")
}
