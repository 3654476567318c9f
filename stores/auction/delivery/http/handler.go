package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/delivery"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/middleware"
)

type handler struct {
	auction auction.Usecase
}

func New(e *echo.Echo, auction auction.Usecase) {
	h := &handler{auction}

	gs := e.Group("/auctions")

	gs.GET("", h.getAll, middleware.CacheHttp(10*time.Second))

	gs.POST("", h.create)

	g := e.Group("/auctions/:auctionId")

	g.GET("", h.get)

	g.POST("/activate", h.activate)

	g.POST("/schedule", h.schedule)

	g.POST("/cancel", h.cancel)

	g.POST("/end", h.end)

	g.POST("/approvals", h.approve)

	g.DELETE("/approvals/:bidderId", h.revoke)
}

type createParams struct {
	Title                   string     `json:"title" validate:"required"`
	Description             string     `json:"description"`
	SellerId                string     `json:"sellerId" validate:"required"`
	StartingPrice           string     `json:"startingPrice" validate:"required,amount"`
	BuyNowPrice             *string    `json:"buyNowPrice" validate:"omitempty,amount"`
	ReservePrice            *string    `json:"reservePrice" validate:"omitempty,amount"`
	StartDate               *time.Time `json:"startDate"`
	EndDate                 *time.Time `json:"endDate"`
	BidIncrement            *string    `json:"bidIncrement" validate:"omitempty,amount"`
	AutoExtend              bool       `json:"autoExtend"`
	AutoExtendWindowMinutes int32      `json:"autoExtendWindowMinutes"`
	MaxBidsPerBidder        *int32     `json:"maxBidsPerBidder"`
	RequirePreApproval      bool       `json:"requirePreApproval"`
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &createParams{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a := &auction.Auction{
		Title:                   p.Title,
		Description:             p.Description,
		SellerId:                p.SellerId,
		StartingPrice:           p.StartingPrice,
		BuyNowPrice:             p.BuyNowPrice,
		ReservePrice:            p.ReservePrice,
		BidIncrement:            p.BidIncrement,
		AutoExtend:              p.AutoExtend,
		AutoExtendWindowMinutes: p.AutoExtendWindowMinutes,
		MaxBidsPerBidder:        p.MaxBidsPerBidder,
		RequirePreApproval:      p.RequirePreApproval,
	}
	if p.StartDate != nil && p.EndDate != nil {
		a.Status = auction.StatusScheduled
		a.StartDate = *p.StartDate
		a.EndDate = *p.EndDate
	}

	res, err := h.auction.Create(ctx, a)
	if err != nil {
		if errors.Is(err, auction.ErrEndBeforeStart) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
		}
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &struct {
		Status   *string `query:"status"`
		SellerId *string `query:"sellerId"`
		Offset   int32   `query:"offset"`
		Limit    int32   `query:"limit"`
	}{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []auction.FindAllOptionsFunc{}

	if p.Status != nil {
		opts = append(opts, auction.WithStatuses(auction.Status(*p.Status)))
	}

	if p.SellerId != nil {
		opts = append(opts, auction.WithSellerId(*p.SellerId))
	}

	if p.Offset != 0 || p.Limit != 0 {
		opts = append(opts, auction.WithPagination(p.Offset, p.Limit))
	} else {
		opts = append(opts, auction.WithPagination(0, 100))
	}

	res, err := h.auction.List(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("auctionId")

	res, err := h.auction.Get(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) activate(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("auctionId")

	ok, err := h.auction.Activate(ctx, id)
	if err != nil {
		if errors.Is(err, auction.ErrEndBeforeStart) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
		}
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusConflict, "illegal transition")
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) schedule(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("auctionId")

	p := &struct {
		StartDate time.Time `json:"startDate" validate:"required"`
		EndDate   time.Time `json:"endDate" validate:"required"`
	}{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	ok, err := h.auction.Schedule(ctx, id, p.StartDate, p.EndDate)
	if err != nil {
		if errors.Is(err, auction.ErrEndBeforeStart) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
		}
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusConflict, "illegal transition")
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("auctionId")

	p := &struct {
		Reason string `json:"reason"`
	}{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	ok, err := h.auction.Cancel(ctx, id, p.Reason)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusConflict, "illegal transition")
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) end(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("auctionId")

	ok, err := h.auction.EndNow(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusConflict, "illegal transition")
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) approve(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("auctionId")

	p := &struct {
		BidderId string `json:"bidderId" validate:"required"`
	}{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.Approve(ctx, id, p.BidderId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) revoke(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("auctionId")
	bidderId := c.Param("bidderId")

	if err := h.auction.Revoke(ctx, id, bidderId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
