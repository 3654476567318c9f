package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/delivery"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/account"
	"github.com/bidhaus/goapi/domain/bid"
	"github.com/bidhaus/goapi/middleware"
)

type handler struct {
	bid     bid.Usecase
	account account.Usecase
}

func New(e *echo.Echo, bid bid.Usecase, account account.Usecase) {
	h := &handler{bid, account}

	g := e.Group("/auctions/:auctionId/bids")

	g.POST("", h.placeBid)

	g.GET("", h.getAll, middleware.CacheHttp(5*time.Second))

	g.GET("/highest", h.getHighest)

	g.GET("/validate", h.validate)

	e.GET("/auctions/:auctionId/nextMinimumBid", h.getNextMinimumBid)
}

// outcomeStatus maps bid placement outcomes onto HTTP statuses. Rejections
// the caller can fix keep 4xx; races with the auction lifecycle are conflicts.
func outcomeStatus(o bid.Outcome) int {
	switch o {
	case bid.OutcomeSuccess:
		return http.StatusOK
	case bid.OutcomeInvalidAmount, bid.OutcomeBidTooLow:
		return http.StatusBadRequest
	case bid.OutcomeSelfBid, bid.OutcomeBidderNotApproved, bid.OutcomeMaxBidsReached:
		return http.StatusForbidden
	case bid.OutcomeAuctionNotActive, bid.OutcomeAuctionEnded:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	auctionId := c.Param("auctionId")

	p := &struct {
		BidderId string `json:"bidderId" validate:"required"`
		Amount   string `json:"amount" validate:"required,amount"`
	}{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid amount")
	}

	// the engine trusts bidder identity, so it is checked here
	exists, err := h.account.Exists(ctx, p.BidderId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if !exists {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "unknown bidder")
	}

	res, err := h.bid.PlaceBid(ctx, auctionId, p.BidderId, amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, res)
	}

	return delivery.MakeJsonResp(c, outcomeStatus(res.Outcome), res)
}

func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	auctionId := c.Param("auctionId")

	p := &struct {
		BidderId *string `query:"bidderId"`
		Offset   int32   `query:"offset"`
		Limit    int32   `query:"limit"`
	}{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []bid.FindAllOptionsFunc{}

	if p.BidderId != nil {
		opts = append(opts, bid.WithBidderId(*p.BidderId))
	}

	if p.Offset != 0 || p.Limit != 0 {
		opts = append(opts, bid.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.bid.ListBids(ctx, auctionId, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getHighest(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	auctionId := c.Param("auctionId")

	res, err := h.bid.GetHighestBid(ctx, auctionId)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return delivery.MakeJsonResp(c, http.StatusNotFound, err)
		}
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getNextMinimumBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	auctionId := c.Param("auctionId")

	min, err := h.bid.GetNextMinimumBid(ctx, auctionId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, map[string]string{
		"nextMinimumBid": min.String(),
	})
}

func (h *handler) validate(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	auctionId := c.Param("auctionId")

	p := &struct {
		BidderId string `query:"bidderId" validate:"required"`
		Amount   string `query:"amount" validate:"required,amount"`
	}{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid amount")
	}

	exists, err := h.account.Exists(ctx, p.BidderId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if !exists {
		return delivery.MakeJsonResp(c, http.StatusOK, map[string]bool{
			"valid": false,
		})
	}

	valid, err := h.bid.IsValidBid(ctx, auctionId, p.BidderId, amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, map[string]bool{
		"valid": valid,
	})
}
