package cmd

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/modules/metadata"
	"github.com/gaze-network/ticket-storefront/modules/metadata/datagateway"
	"github.com/gaze-network/ticket-storefront/modules/metadata/usecase"
	"github.com/spf13/cobra"
)

type pinCmdOptions struct {
	Name   string
	Symbol string
	Icon   string
}

func NewPinCommand() *cobra.Command {
	opts := &pinCmdOptions{}

	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Pin an event icon and its ticket metadata to IPFS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pinHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Name, "name", "", "Event name")
	flags.StringVar(&opts.Symbol, "symbol", "", "Ticket symbol")
	flags.StringVar(&opts.Icon, "icon", "", "Event icon image file")

	return cmd
}

func pinHandler(opts *pinCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	module, err := metadata.NewModule(ctx, config.Load())
	if err != nil {
		return errors.WithStack(err)
	}

	var icon *datagateway.File
	if opts.Icon != "" {
		icon, err = readIcon(opts.Icon)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	pinned, err := module.Usecase.PinEventMetadata(ctx, usecase.PinRequest{
		EventName:   opts.Name,
		EventSymbol: opts.Symbol,
		Icon:        icon,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return printJSON(cmd.OutOrStdout(), pinned)
}

func readIcon(path string) (*datagateway.File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read icon %q", path)
	}
	return &datagateway.File{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(content),
		Content:     content,
	}, nil
}
