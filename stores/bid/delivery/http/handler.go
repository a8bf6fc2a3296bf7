package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/delivery"
	"github.com/glazehouse/potteryapi/base/validator"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/bid"
	authMiddleware "github.com/glazehouse/potteryapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	bid bid.Usecase
}

func New(
	e *echo.Echo,
	bid bid.Usecase,
	authMiddleware *authMiddleware.AuthMiddleware,
) {
	h := &handler{bid}

	e.POST("/items/:itemId/bids", h.placeBid, authMiddleware.Auth())

	gs := e.Group("/bids")

	gs.GET("", h.list, authMiddleware.Auth())
	gs.GET("/:bidId", h.get, authMiddleware.Auth())
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	itemId := c.Param("itemId")
	if !validator.IsValidId(itemId) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid item id")
	}

	userId := c.Get("userId").(domain.UserId)

	type payload struct {
		Amount float64 `json:"amount" validate:"required"`
	}

	p := payload{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.bid.PlaceBid(ctx, itemId, userId, p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	userId := c.Get("userId").(domain.UserId)
	isAdmin, _ := c.Get("isAdmin").(bool)

	type params struct {
		ItemId *string     `query:"itemId"`
		Status *bid.Status `query:"status"`
		Offset string      `query:"offset"`
		Limit  string      `query:"limit"`
	}

	p := params{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []bid.SelectOptions{}

	if p.ItemId != nil {
		opts = append(opts, bid.WithItemId(*p.ItemId))
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid status")
		}
		opts = append(opts, bid.WithStatus(*p.Status))
	}
	if p.Offset != "" || p.Limit != "" {
		offset, _ := strconv.Atoi(p.Offset)
		limit, _ := strconv.Atoi(p.Limit)
		opts = append(opts, bid.WithPagination(offset, limit))
	}

	res, err := h.bid.List(ctx, userId, isAdmin, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("bidId")
	if !validator.IsValidId(id) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid bid id")
	}

	userId := c.Get("userId").(domain.UserId)
	isAdmin, _ := c.Get("isAdmin").(bool)

	res, err := h.bid.Get(ctx, id, userId, isAdmin)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
