package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-storefront/common"
	"github.com/gaze-network/ticket-storefront/common/errs"
	"github.com/gaze-network/ticket-storefront/modules/discovery/entity"
	"github.com/gofiber/fiber/v2"
)

type listSalesRequest struct {
	Status string `query:"status"`
}

func (r *listSalesRequest) Validate() error {
	if r.Status == "" {
		return nil
	}
	if _, err := entity.ParseSaleStatus(r.Status); err != nil {
		return errs.NewPublicError("status must be one of upcoming, live, ended, sold_out")
	}
	return nil
}

type hydrationFailure struct {
	ID             string `json:"id"`
	TicketContract string `json:"ticketContract"`
	Error          string `json:"error"`
}

type listSalesResult struct {
	Sales    []saleResponse     `json:"sales"`
	Failures []hydrationFailure `json:"failures,omitempty"`
}

type listSalesResponse = common.HttpResponse[listSalesResult]

func (h *HttpHandler) ListSales(ctx *fiber.Ctx) (err error) {
	var req listSalesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	listing, err := h.usecase.ListDiscoverableSales(ctx.UserContext())
	if err != nil {
		if errors.Is(err, errs.Transport) || errors.Is(err, errs.Timeout) {
			return errs.WithPublicMessage(err, "can't load events, please retry")
		}
		return errors.Wrap(err, "error during ListDiscoverableSales")
	}

	now := h.now()
	result := listSalesResult{
		Sales: make([]saleResponse, 0, len(listing.Sales)),
	}
	for _, sale := range listing.Sales {
		resp, err := mapSale(sale, now)
		if err != nil {
			return errors.WithStack(err)
		}
		if req.Status != "" && resp.Status.String() != req.Status {
			continue
		}
		result.Sales = append(result.Sales, resp)
	}
	for _, failure := range listing.Failures {
		result.Failures = append(result.Failures, hydrationFailure{
			ID:             failure.Record.ID.String(),
			TicketContract: failure.Record.TicketContract.Hex(),
			Error:          failure.Error,
		})
	}

	return errors.WithStack(ctx.JSON(listSalesResponse{
		Result: &result,
	}))
}
