package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRelayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relayer",
		Short: "Relayer allowlist commands",
	}

	cmd.AddCommand(newRelayerAuthorizeCmd())
	cmd.AddCommand(newRelayerListCmd())
	cmd.AddCommand(newRelayerCheckCmd())

	return cmd
}

func newRelayerAuthorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authorize <address>",
		Short: "Add an address to the relayer allowlist (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"address": args[0]}

			var result Relayer
			if err := client.Post("/api/v1/relayers", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRelayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all authorized relayers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RelayerList
			if err := client.Get("/api/v1/relayers", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRelayerCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <address>",
		Short: "Check whether an address is an authorized relayer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Relayer
			if err := client.Get(fmt.Sprintf("/api/v1/relayers/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
