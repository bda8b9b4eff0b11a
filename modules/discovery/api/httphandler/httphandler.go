package httphandler

import (
	"context"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
	"github.com/gaze-network/ticket-storefront/modules/discovery/usecase"
	"github.com/gaze-network/ticket-storefront/pkg/decimals"
)

// Usecase is the part of the discovery usecase served over HTTP.
type Usecase interface {
	ListDiscoverableSales(ctx context.Context) (usecase.Listing, error)
	GetDiscoverableSale(ctx context.Context, ticketContract common.Address, id *big.Int) (*entity.DiscoverableSale, error)
	Invalidate(ctx context.Context) error
}

type HttpHandler struct {
	usecase Usecase
	now     func() time.Time
}

func New(usecase Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
		now:     time.Now,
	}
}

type saleResponse struct {
	ID                  string            `json:"id"`
	Organizer           string            `json:"organizer"`
	EventOrganizer      string            `json:"eventOrganizer"`
	TicketContract      string            `json:"ticketContract"`
	SaleContract        string            `json:"saleContract"`
	MarketplaceContract string            `json:"marketplaceContract"`
	Name                string            `json:"name"`
	Symbol              string            `json:"symbol"`
	MetadataURI         string            `json:"metadataUri"`
	SaleStart           int64             `json:"saleStart"` // unix timestamp
	SaleEnd             int64             `json:"saleEnd"`   // unix timestamp
	UnitPriceWei        string            `json:"unitPriceWei"`
	UnitPrice           string            `json:"unitPrice"` // in ether
	MaxSupply           string            `json:"maxSupply"`
	MintedSupply        string            `json:"mintedSupply"`
	Remaining           string            `json:"remaining"`
	Status              entity.SaleStatus `json:"status"`
}

func mapSale(sale entity.DiscoverableSale, now time.Time) (saleResponse, error) {
	remaining, err := sale.Remaining()
	if err != nil {
		return saleResponse{}, errors.WithStack(err)
	}
	return saleResponse{
		ID:                  sale.ID.String(),
		Organizer:           sale.Organizer.Hex(),
		EventOrganizer:      sale.EventOrganizer.Hex(),
		TicketContract:      sale.TicketContract.Hex(),
		SaleContract:        sale.SaleContract.Hex(),
		MarketplaceContract: sale.MarketplaceContract.Hex(),
		Name:                sale.Name,
		Symbol:              sale.Symbol,
		MetadataURI:         sale.MetadataURI,
		SaleStart:           sale.Window.Start.Unix(),
		SaleEnd:             sale.Window.End.Unix(),
		UnitPriceWei:        sale.UnitPrice.String(),
		UnitPrice:           decimals.FormatEther(sale.UnitPrice),
		MaxSupply:           sale.MaxSupply.String(),
		MintedSupply:        sale.MintedSupply.String(),
		Remaining:           remaining.String(),
		Status:              entity.StatusAt(sale.Window, remaining, now),
	}, nil
}
