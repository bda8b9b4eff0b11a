package cmd

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/modules/metadata"
	"github.com/gaze-network/ticket-storefront/modules/metadata/usecase"
	"github.com/gaze-network/ticket-storefront/modules/salefactory"
	"github.com/spf13/cobra"
)

type createCmdOptions struct {
	Name      string
	Symbol    string
	BaseURI   string
	Icon      string
	Organizer string
	Price     string
	MaxSupply uint64
	Start     string
	End       string
}

func NewCreateCommand() *cobra.Command {
	opts := &createCmdOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a ticket sale through the factory with the configured wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Name, "name", "", "Event name")
	flags.StringVar(&opts.Symbol, "symbol", "", "Ticket symbol")
	flags.StringVar(&opts.BaseURI, "base-uri", "", "Ticket metadata URI. Pinned from --icon when empty")
	flags.StringVar(&opts.Icon, "icon", "", "Event icon image, pinned together with the metadata")
	flags.StringVar(&opts.Organizer, "organizer", "", "Organizer address, defaults to the wallet address")
	flags.StringVar(&opts.Price, "price", "0", "Ticket price in ETH, E.g. `0.01`")
	flags.Uint64Var(&opts.MaxSupply, "max-supply", 0, "Number of tickets for sale")
	flags.StringVar(&opts.Start, "start", "", "Sale start, RFC 3339. E.g. `2025-01-31T18:00:00Z`")
	flags.StringVar(&opts.End, "end", "", "Sale end, RFC 3339")

	return cmd
}

func createHandler(opts *createCmdOptions, cmd *cobra.Command, _ []string) error {
	start, err := time.Parse(time.RFC3339, opts.Start)
	if err != nil {
		return errors.Wrap(errs.InvalidArgument, "--start must be an RFC 3339 time")
	}
	end, err := time.Parse(time.RFC3339, opts.End)
	if err != nil {
		return errors.Wrap(errs.InvalidArgument, "--end must be an RFC 3339 time")
	}

	ctx := cmd.Context()
	conf := config.Load()
	out := cmd.OutOrStdout()

	baseURI := opts.BaseURI
	if baseURI == "" && opts.Icon != "" {
		module, err := metadata.NewModule(ctx, conf)
		if err != nil {
			return errors.WithStack(err)
		}
		icon, err := readIcon(opts.Icon)
		if err != nil {
			return errors.WithStack(err)
		}
		pinned, err := module.Usecase.PinEventMetadata(ctx, usecase.PinRequest{
			EventName:   opts.Name,
			EventSymbol: opts.Symbol,
			Icon:        icon,
		})
		if err != nil {
			return errors.WithStack(err)
		}
		fmt.Fprintf(out, "Pinned metadata: %s\n", pinned.MetadataURI)
		baseURI = pinned.BaseURI
	}

	client, wallet, err := dialChain(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}
	defer client.Close()

	factoryAddress := conf.Network.Params().FactoryAddress
	if conf.Discovery.FactoryAddress != "" {
		factoryAddress = common.HexToAddress(conf.Discovery.FactoryAddress)
	}
	factory := salefactory.New(factoryAddress, client, wallet, conf.Purchase.ConfirmationTimeout)
	result, err := factory.CreateSale(ctx, salefactory.Params{
		Name:      opts.Name,
		Symbol:    opts.Symbol,
		BaseURI:   baseURI,
		Organizer: opts.Organizer,
		Price:     opts.Price,
		MaxSupply: opts.MaxSupply,
		SaleStart: start,
		SaleEnd:   end,
	})
	if result != nil {
		fmt.Fprintf(out, "createSale transaction: %s\n", result.TxHash.Hex())
	}
	if err != nil {
		if errors.Is(err, errs.Timeout) {
			fmt.Fprintln(out, "Transaction is still pending, check back later")
			return nil
		}
		return errors.WithStack(err)
	}
	fmt.Fprintf(out, "Sale created in block %d\n", result.BlockNumber)
	return nil
}
