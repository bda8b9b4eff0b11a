package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/modules/discovery"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
	"github.com/gaze-network/ticket-storefront/pkg/decimals"
	"github.com/spf13/cobra"
)

type eventsCmdOptions struct {
	Status string
	JSON   bool
}

func NewEventsCommand() *cobra.Command {
	opts := &eventsCmdOptions{}

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Discover ticket sales created through the factory",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discoverable sales, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventsListHandler(opts, cmd, args)
		},
	}
	listCmd.Flags().StringVar(&opts.Status, "status", "", "Only show sales with this status. E.g. `live`")

	getCmd := &cobra.Command{
		Use:   "get <ticket-contract> <id>",
		Short: "Show a single sale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventsGetHandler(opts, cmd, args)
		},
	}

	eventsCmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Print JSON instead of a table")
	eventsCmd.AddCommand(listCmd, getCmd)
	return eventsCmd
}

func newDiscovery(cmd *cobra.Command) (*discovery.Module, func(), error) {
	ctx := cmd.Context()
	conf := config.Load()

	client, _, err := dialChain(ctx, conf)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	module, err := discovery.NewModule(ctx, conf, client)
	if err != nil {
		client.Close()
		return nil, nil, errors.WithStack(err)
	}
	return module, func() {
		_ = module.Shutdown(ctx)
		client.Close()
	}, nil
}

func eventsListHandler(opts *eventsCmdOptions, cmd *cobra.Command, _ []string) error {
	var status entity.SaleStatus
	if opts.Status != "" {
		parsed, err := entity.ParseSaleStatus(opts.Status)
		if err != nil {
			return errors.WithStack(err)
		}
		status = parsed
	}

	module, closeFn, err := newDiscovery(cmd)
	if err != nil {
		return errors.WithStack(err)
	}
	defer closeFn()

	listing, err := module.Usecase.ListDiscoverableSales(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "can't list sales")
	}

	now := time.Now()
	sales := make([]entity.DiscoverableSale, 0, len(listing.Sales))
	for _, sale := range listing.Sales {
		saleStatus, err := entity.ComputeStatus(sale, now)
		if err != nil {
			return errors.WithStack(err)
		}
		if status != "" && saleStatus != status {
			continue
		}
		sales = append(sales, sale)
	}
	for _, failure := range listing.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped sale %s of %s: %s\n", failure.Record.ID, failure.Record.TicketContract.Hex(), failure.Error)
	}

	if opts.JSON {
		return printJSON(cmd.OutOrStdout(), sales)
	}
	return printSales(cmd.OutOrStdout(), sales, now)
}

func eventsGetHandler(opts *eventsCmdOptions, cmd *cobra.Command, args []string) error {
	if !common.IsHexAddress(args[0]) {
		return errors.Wrapf(errs.InvalidArgument, "invalid ticket contract %q", args[0])
	}
	id, ok := new(big.Int).SetString(args[1], 10)
	if !ok {
		return errors.Wrapf(errs.InvalidArgument, "invalid sale id %q", args[1])
	}

	module, closeFn, err := newDiscovery(cmd)
	if err != nil {
		return errors.WithStack(err)
	}
	defer closeFn()

	sale, err := module.Usecase.GetDiscoverableSale(cmd.Context(), common.HexToAddress(args[0]), id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.New("event not found")
		}
		return errors.Wrap(err, "can't get sale")
	}

	if opts.JSON {
		return printJSON(cmd.OutOrStdout(), sale)
	}
	return printSales(cmd.OutOrStdout(), []entity.DiscoverableSale{*sale}, time.Now())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(v))
}

func printSales(w io.Writer, sales []entity.DiscoverableSale, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSYMBOL\tSTATUS\tPRICE (ETH)\tREMAINING\tTICKET\tSALE")
	for _, sale := range sales {
		remaining, err := sale.Remaining()
		if err != nil {
			return errors.WithStack(err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s/%s\t%s\t%s\n",
			sale.ID,
			sale.Name,
			sale.Symbol,
			entity.StatusAt(sale.Window, remaining, now),
			decimals.FormatEther(sale.UnitPrice),
			remaining, sale.MaxSupply,
			sale.TicketContract.Hex(),
			sale.SaleContract.Hex(),
		)
	}
	return errors.WithStack(tw.Flush())
}
