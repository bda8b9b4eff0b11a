package httphandler

import (
	"math/big"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	httpcommon "github.com/gaze-network/ticket-storefront/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gofiber/fiber/v2"
)

type getSaleRequest struct {
	TicketAddress string `params:"ticketAddress"`
	ID            string `params:"id"`
}

// parse resolves the sale identity. A malformed identity can't match any sale.
func (r getSaleRequest) parse() (common.Address, *big.Int, bool) {
	if !common.IsHexAddress(r.TicketAddress) {
		return common.Address{}, nil, false
	}
	id, ok := new(big.Int).SetString(r.ID, 10)
	if !ok || id.Sign() < 0 {
		return common.Address{}, nil, false
	}
	return common.HexToAddress(r.TicketAddress), id, true
}

type getSaleResponse = httpcommon.HttpResponse[saleResponse]

func (h *HttpHandler) GetSale(ctx *fiber.Ctx) (err error) {
	var req getSaleRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}

	ticketContract, id, ok := req.parse()
	if !ok {
		return errors.WithStack(fiber.NewError(http.StatusNotFound, "event not found"))
	}

	sale, err := h.usecase.GetDiscoverableSale(ctx.UserContext(), ticketContract, id)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errors.WithStack(fiber.NewError(http.StatusNotFound, "event not found"))
		}
		if errors.Is(err, errs.Transport) || errors.Is(err, errs.Timeout) {
			return errs.WithPublicMessage(err, "can't load event, please retry")
		}
		return errors.Wrap(err, "error during GetDiscoverableSale")
	}

	resp, err := mapSale(*sale, h.now())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(ctx.JSON(getSaleResponse{
		Result: &resp,
	}))
}
