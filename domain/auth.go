package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/glazehouse/potteryapi/base/ctx"
)

type JwtCustomClaims struct {
	UserId  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	SignToken(ctx ctx.Ctx, userId UserId) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (userId UserId, isAdmin bool, err error)
}
