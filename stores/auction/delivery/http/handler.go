package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/delivery"
	"github.com/glazehouse/potteryapi/base/validator"
	"github.com/glazehouse/potteryapi/domain/auction"
	authMiddleware "github.com/glazehouse/potteryapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	auction auction.Usecase
}

func New(
	e *echo.Echo,
	auction auction.Usecase,
	authMiddleware *authMiddleware.AuthMiddleware,
) {
	h := &handler{auction}

	gs := e.Group("/auctions")

	gs.GET("", h.list)
	gs.POST("", h.create, authMiddleware.Auth(), authMiddleware.IsAdmin())

	g := e.Group("/auctions/:auctionId")

	g.GET("", h.get)
	g.PATCH("", h.update, authMiddleware.Auth(), authMiddleware.IsAdmin())
	g.DELETE("", h.delete, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Status *auction.Status `query:"status"`
		Offset string          `query:"offset"`
		Limit  string          `query:"limit"`
	}

	p := params{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []auction.SelectOptions{}

	if p.Status != nil {
		if !p.Status.IsValid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid status")
		}
		opts = append(opts, auction.WithStatus(*p.Status))
	}
	if p.Offset != "" || p.Limit != "" {
		offset, _ := strconv.Atoi(p.Offset)
		limit, _ := strconv.Atoi(p.Limit)
		opts = append(opts, auction.WithPagination(offset, limit))
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
	if !validator.IsValidId(id) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid auction id")
	}

	res, err := h.auction.Get(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Title     string         `json:"title" validate:"required"`
		Status    auction.Status `json:"status" validate:"required"`
		StartDate time.Time      `json:"startDate" validate:"required"`
		EndDate   time.Time      `json:"endDate" validate:"required"`
	}

	p := payload{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	value := auction.Auction{
		Title:     p.Title,
		Status:    p.Status,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	}

	res, err := h.auction.Create(ctx, &value)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("auctionId")
	if !validator.IsValidId(id) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid auction id")
	}

	p := auction.Patchable{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.Update(ctx, id, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("auctionId")
	if !validator.IsValidId(id) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid auction id")
	}

	if err := h.auction.Delete(ctx, id); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
