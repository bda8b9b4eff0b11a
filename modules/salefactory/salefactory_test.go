package salefactory

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/core/chain"
	"github.com/gaze-network/ticket-storefront/core/chain/mocks"
	"github.com/gaze-network/ticket-storefront/core/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	factoryAddr = common.HexToAddress("0x24b0835e023965134357ec9cf72cc5aca8b19b59")
	signerAddr  = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	start       = time.Unix(1_800_000_000, 0)
)

func validParams() Params {
	return Params{
		Name:      "  Devcon Afterparty ",
		Symbol:    "DCA",
		BaseURI:   "ipfs://bafymetadata",
		Price:     "0.01",
		MaxSupply: 100,
		SaleStart: start,
		SaleEnd:   start.Add(24 * time.Hour),
	}
}

func TestCreateSale(t *testing.T) {
	hash := common.HexToHash("0x01")
	transactor := mocks.NewTransactor(t)

	var simulated chain.Call
	transactor.EXPECT().
		Simulate(mock.Anything, mock.Anything, signerAddr).
		RunAndReturn(func(_ context.Context, call chain.Call, from common.Address) (*chain.Request, error) {
			simulated = call
			return &chain.Request{Call: call, From: from}, nil
		})
	transactor.EXPECT().Submit(mock.Anything, mock.Anything).Return(hash, nil)
	transactor.EXPECT().WaitForInclusion(mock.Anything, hash).
		Return(&types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(10231800)}, nil)

	factory := New(factoryAddr, transactor, chain.StaticWallet{Address: signerAddr, Connected: true}, time.Second)
	result, err := factory.CreateSale(context.Background(), validParams())
	require.NoError(t, err)

	assert.Equal(t, hash, result.TxHash)
	assert.Equal(t, uint64(10231800), result.BlockNumber)
	assert.Equal(t, factoryAddr, simulated.To)
	assert.Equal(t, contracts.MethodCreateSale, simulated.Method)

	sale := result.Sale
	assert.Equal(t, "Devcon Afterparty", sale.Name)
	assert.Equal(t, signerAddr, sale.Organizer, "organizer defaults to the signer")
	assert.Equal(t, "10000000000000000", sale.PriceInWei.String())
	assert.Equal(t, "100", sale.MaxSupply.String())
	assert.Equal(t, start.Unix(), sale.SaleStart.Int64())
	assert.Equal(t, []any{sale}, simulated.Args)
}

func TestCreateSaleRevertNeverSubmits(t *testing.T) {
	transactor := mocks.NewTransactor(t)
	transactor.EXPECT().Simulate(mock.Anything, mock.Anything, signerAddr).
		Return(nil, chain.NewRevertError("invalid sale window"))

	factory := New(factoryAddr, transactor, chain.StaticWallet{Address: signerAddr, Connected: true}, time.Second)
	_, err := factory.CreateSale(context.Background(), validParams())

	require.ErrorIs(t, err, errs.Rejected)
	assert.Contains(t, err.Error(), "invalid sale window")
	transactor.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestCreateSaleRequiresWallet(t *testing.T) {
	factory := New(factoryAddr, mocks.NewTransactor(t), chain.StaticWallet{}, time.Second)
	_, err := factory.CreateSale(context.Background(), validParams())
	assert.ErrorIs(t, err, errs.PreconditionFailed)
}

func TestBuildSale(t *testing.T) {
	organizer := "0x00000000000000000000000000000000000000c1"

	t.Run("explicit_organizer", func(t *testing.T) {
		params := validParams()
		params.Organizer = organizer
		sale, err := buildSale(params, signerAddr)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(organizer), sale.Organizer)
	})
	t.Run("free_sale", func(t *testing.T) {
		params := validParams()
		params.Price = "0"
		sale, err := buildSale(params, signerAddr)
		require.NoError(t, err)
		assert.Zero(t, sale.PriceInWei.Sign())
	})

	invalid := []struct {
		name   string
		modify func(p *Params)
	}{
		{name: "blank_name", modify: func(p *Params) { p.Name = "   " }},
		{name: "blank_symbol", modify: func(p *Params) { p.Symbol = "" }},
		{name: "blank_base_uri", modify: func(p *Params) { p.BaseURI = " " }},
		{name: "bad_organizer", modify: func(p *Params) { p.Organizer = "organizer" }},
		{name: "bad_price", modify: func(p *Params) { p.Price = "cheap" }},
		{name: "negative_price", modify: func(p *Params) { p.Price = "-1" }},
		{name: "zero_supply", modify: func(p *Params) { p.MaxSupply = 0 }},
		{name: "missing_window", modify: func(p *Params) { p.SaleEnd = time.Time{} }},
		{name: "start_equals_end", modify: func(p *Params) { p.SaleEnd = p.SaleStart }},
		{name: "start_after_end", modify: func(p *Params) { p.SaleStart = p.SaleEnd.Add(time.Second) }},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams()
			tc.modify(&params)
			_, err := buildSale(params, signerAddr)
			assert.ErrorIs(t, err, errs.InvalidArgument)
		})
	}
}
