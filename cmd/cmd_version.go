package cmd

import (
	"fmt"

	"github.com/gaze-network/ticket-storefront/core/constants"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show storefront version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), constants.Version)
		},
	}
}
