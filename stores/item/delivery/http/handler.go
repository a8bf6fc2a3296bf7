package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/delivery"
	"github.com/glazehouse/potteryapi/base/validator"
	"github.com/glazehouse/potteryapi/domain/item"
	authMiddleware "github.com/glazehouse/potteryapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	item item.Usecase
}

func New(
	e *echo.Echo,
	item item.Usecase,
	authMiddleware *authMiddleware.AuthMiddleware,
) {
	h := &handler{item}

	gs := e.Group("/items")

	gs.GET("", h.list)
	gs.POST("", h.create, authMiddleware.Auth(), authMiddleware.IsAdmin())

	g := e.Group("/items/:itemId")

	g.GET("", h.get)
	g.PATCH("", h.update, authMiddleware.Auth(), authMiddleware.IsAdmin())
	g.DELETE("", h.delete, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		AuctionId *string `query:"auctionId"`
		Featured  *bool   `query:"featured"`
		Offset    string  `query:"offset"`
		Limit     string  `query:"limit"`
	}

	p := params{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []item.SelectOptions{}

	if p.AuctionId != nil {
		opts = append(opts, item.WithAuctionId(*p.AuctionId))
	}
	if p.Featured != nil {
		opts = append(opts, item.WithFeatured(*p.Featured))
	}
	if p.Offset != "" || p.Limit != "" {
		offset, _ := strconv.Atoi(p.Offset)
		limit, _ := strconv.Atoi(p.Limit)
		opts = append(opts, item.WithPagination(offset, limit))
	}

	res, err := h.item.List(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("itemId")
	if !validator.IsValidId(id) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid item id")
	}

	res, err := h.item.Get(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		AuctionId   *string `json:"auctionId"`
		Name        string  `json:"name" validate:"required"`
		Description string  `json:"description"`
		ImageHash   string  `json:"imageHash"`
		Featured    bool    `json:"featured"`
		StartingBid float64 `json:"startingBid" validate:"gt=0"`
	}

	p := payload{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	value := item.Item{
		AuctionId:   p.AuctionId,
		Name:        p.Name,
		Description: p.Description,
		ImageHash:   p.ImageHash,
		Featured:    p.Featured,
		StartingBid: p.StartingBid,
	}

	res, err := h.item.Create(ctx, &value)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("itemId")
	if !validator.IsValidId(id) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid item id")
	}

	p := item.Patchable{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.item.Update(ctx, id, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("itemId")
	if !validator.IsValidId(id) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid item id")
	}

	if err := h.item.Delete(ctx, id); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
