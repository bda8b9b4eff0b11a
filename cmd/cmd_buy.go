package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/internal/config"
	"github.com/gaze-network/ticket-storefront/modules/purchase"
	"github.com/gaze-network/ticket-storefront/pkg/decimals"
	"github.com/spf13/cobra"
)

type buyCmdOptions struct {
	Ticket   string
	Sale     string
	Quantity string
}

func NewBuyCommand() *cobra.Command {
	opts := &buyCmdOptions{}

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Buy tickets of a sale, paying in WETH with the configured wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return buyHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Ticket, "ticket", "", "Ticket contract address")
	flags.StringVar(&opts.Sale, "sale", "", "Sale contract address")
	flags.StringVar(&opts.Quantity, "quantity", "1", "Number of tickets")
	flags.Duration("confirmation-timeout", 0, "How long to wait for each transaction, E.g. `3m`")
	flags.Bool("no-wrap", false, "Fail instead of wrapping ETH when the WETH balance is short")
	_ = cmd.MarkFlagRequired("ticket")
	_ = cmd.MarkFlagRequired("sale")

	config.BindPFlag("purchase.confirmation_timeout", flags.Lookup("confirmation-timeout"))

	return cmd
}

func buyHandler(opts *buyCmdOptions, cmd *cobra.Command, _ []string) error {
	if !common.IsHexAddress(opts.Ticket) || !common.IsHexAddress(opts.Sale) {
		return errors.Wrap(errs.InvalidArgument, "ticket and sale must be contract addresses")
	}

	ctx := cmd.Context()
	conf := config.Load()
	if noWrap, _ := cmd.Flags().GetBool("no-wrap"); noWrap {
		conf.Purchase.WrapEnabled = false
	}

	client, wallet, err := dialChain(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	orchestrator := purchase.New(client, client, wallet, conf.Purchase)
	result := orchestrator.Purchase(ctx, purchase.Request{
		SaleContract:   common.HexToAddress(opts.Sale),
		TicketContract: common.HexToAddress(opts.Ticket),
		Quantity:       opts.Quantity,
	}, func(status purchase.Status) {
		fmt.Fprintf(out, "[%s] %s\n", status.State, status.Message)
	})

	if result.Intent.TotalCost != nil {
		fmt.Fprintf(out, "Total cost: %s WETH\n", decimals.FormatEther(result.Intent.TotalCost))
	}
	txs := []struct {
		name string
		hash *common.Hash
	}{
		{"wrap", result.Transactions.Wrap},
		{"approve", result.Transactions.Approve},
		{"buy", result.Transactions.Buy},
	}
	for _, tx := range txs {
		if tx.hash != nil {
			fmt.Fprintf(out, "%s transaction: %s\n", tx.name, tx.hash.Hex())
		}
	}

	switch result.Status.State {
	case purchase.StateComplete, purchase.StatePending:
		return nil
	default:
		return errors.Errorf("purchase failed (%s): %s", result.Status.Reason, result.Status.Message)
	}
}
