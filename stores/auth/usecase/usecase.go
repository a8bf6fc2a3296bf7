package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/account"
)

const tokenLifetime = 24 * time.Hour

type impl struct {
	jwtSecret []byte
	account   account.Repo
}

func New(jwtSecret string, account account.Repo) domain.AuthUsecase {
	return &impl{
		jwtSecret: []byte(jwtSecret),
		account:   account,
	}
}

func (im *impl) SignToken(ctx ctx.Ctx, userId domain.UserId) (string, error) {
	acc, err := im.account.FindOne(ctx, userId)
	if err != nil {
		return "", err
	}

	claims := domain.JwtCustomClaims{
		UserId:  string(userId),
		IsAdmin: acc.IsAdmin,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenLifetime).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (domain.UserId, bool, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})

	if token != nil {
		if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
			return domain.UserId(claims.UserId), claims.IsAdmin, nil
		}
	}

	return "", false, err
}
