package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/delivery"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/account"
)

type handler struct {
	account account.Usecase
}

func New(e *echo.Echo, account account.Usecase) {
	h := &handler{account}

	g := e.Group("/accounts")

	g.POST("", h.create)

	g.GET("/:id", h.get)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &struct {
		Alias string `json:"alias" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.account.Create(ctx, p.Alias, p.Email)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return delivery.MakeJsonResp(c, http.StatusConflict, err)
		}
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("id")

	res, err := h.account.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return delivery.MakeJsonResp(c, http.StatusNotFound, err)
		}
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
