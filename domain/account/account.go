package account

import (
	"time"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/domain"
)

// Account is user's account stored in database
type Account struct {
	UserId       domain.UserId `bson:"userId"`
	Email        string        `bson:"email"`
	Alias        string        `bson:"alias"`
	PasswordHash []byte        `bson:"passwordHash"`
	IsAdmin      bool          `bson:"isAdmin"`
	CreatedAt    time.Time     `bson:"createdAt,omitempty"`
	UpdatedAt    time.Time     `bson:"updatedAt,omitempty"`
}

// Info is the account shape returned to clients
type Info struct {
	UserId    domain.UserId `json:"userId"`
	Email     string        `json:"email"`
	Alias     string        `json:"alias"`
	IsAdmin   bool          `json:"isAdmin"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (a *Account) ToInfo() *Info {
	return &Info{
		UserId:    a.UserId,
		Email:     a.Email,
		Alias:     a.Alias,
		IsAdmin:   a.IsAdmin,
		CreatedAt: a.CreatedAt,
	}
}

// Updater to update account info
type Updater struct {
	Alias     *string    `json:"alias" bson:"alias"`
	UpdatedAt *time.Time `json:"-" bson:"updatedAt"`
}

type Repo interface {
	FindOne(c ctx.Ctx, userId domain.UserId) (*Account, error)
	FindOneByEmail(c ctx.Ctx, email string) (*Account, error)
	Create(c ctx.Ctx, value *Account) error
	Patch(c ctx.Ctx, userId domain.UserId, updater Updater) error
}

type Usecase interface {
	Register(c ctx.Ctx, email, alias, password string) (*Info, error)
	Login(c ctx.Ctx, email, password string) (*Account, error)
	Get(c ctx.Ctx, userId domain.UserId) (*Info, error)
	Update(c ctx.Ctx, userId domain.UserId, updater Updater) (*Info, error)
}
