package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/delivery"
	"github.com/glazehouse/potteryapi/base/validator"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/commission"
	authMiddleware "github.com/glazehouse/potteryapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	commission commission.Usecase
}

func New(
	e *echo.Echo,
	commission commission.Usecase,
	authMiddleware *authMiddleware.AuthMiddleware,
) {
	h := &handler{commission}

	gs := e.Group("/commissions")

	gs.GET("", h.list, authMiddleware.Auth())
	gs.POST("", h.submit, authMiddleware.Auth())
	gs.GET("/:commissionId", h.get, authMiddleware.Auth())
	gs.PATCH("/:commissionId", h.update, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

func (h *handler) submit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	userId := c.Get("userId").(domain.UserId)

	type payload struct {
		Title   string   `json:"title" validate:"required"`
		Details string   `json:"details" validate:"required"`
		Budget  *float64 `json:"budget"`
	}

	p := payload{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	value := commission.Commission{
		UserId:  userId,
		Title:   p.Title,
		Details: p.Details,
		Budget:  p.Budget,
	}

	res, err := h.commission.Submit(ctx, &value)
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
		Status *commission.Status `query:"status"`
		Offset string             `query:"offset"`
		Limit  string             `query:"limit"`
	}

	p := params{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []commission.SelectOptions{}

	if p.Status != nil {
		if !p.Status.IsValid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid status")
		}
		opts = append(opts, commission.WithStatus(*p.Status))
	}
	if p.Offset != "" || p.Limit != "" {
		offset, _ := strconv.Atoi(p.Offset)
		limit, _ := strconv.Atoi(p.Limit)
		opts = append(opts, commission.WithPagination(offset, limit))
	}

	res, err := h.commission.List(ctx, userId, isAdmin, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("commissionId")
	if !validator.IsValidId(id) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid commission id")
	}

	userId := c.Get("userId").(domain.UserId)
	isAdmin, _ := c.Get("isAdmin").(bool)

	res, err := h.commission.Get(ctx, id, userId, isAdmin)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	id := c.Param("commissionId")
	if !validator.IsValidId(id) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid commission id")
	}

	p := commission.Patchable{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.commission.Update(ctx, id, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
