package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/delivery"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/account"
	authMiddleware "github.com/glazehouse/potteryapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	account account.Usecase
	auth    domain.AuthUsecase
}

func New(
	e *echo.Echo,
	account account.Usecase,
	auth domain.AuthUsecase,
	authMiddleware *authMiddleware.AuthMiddleware,
) {
	h := &handler{account, auth}

	gs := e.Group("/auth")

	gs.POST("/register", h.register)
	gs.POST("/login", h.login)

	g := e.Group("/account")

	g.GET("", h.get, authMiddleware.Auth())
	g.PATCH("", h.update, authMiddleware.Auth())
}

func (h *handler) register(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Email    string `json:"email" validate:"required,email"`
		Alias    string `json:"alias" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	p := payload{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.account.Register(ctx, p.Email, p.Alias, p.Password)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) login(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type payload struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	p := payload{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	acc, err := h.account.Login(ctx, p.Email, p.Password)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	token, err := h.auth.SignToken(ctx, acc.UserId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	type response struct {
		Token   string        `json:"token"`
		Account *account.Info `json:"account"`
	}

	return delivery.MakeJsonResp(c, http.StatusOK, response{token, acc.ToInfo()})
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	userId := c.Get("userId").(domain.UserId)

	res, err := h.account.Get(ctx, userId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	userId := c.Get("userId").(domain.UserId)

	p := account.Updater{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.account.Update(ctx, userId, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
