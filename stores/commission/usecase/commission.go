package usecase

import (
	"time"

	"github.com/glazehouse/potteryapi/base/ctx"
	"github.com/glazehouse/potteryapi/base/money"
	"github.com/glazehouse/potteryapi/base/ptr"
	"github.com/glazehouse/potteryapi/base/uid"
	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/domain/commission"
	"github.com/glazehouse/potteryapi/service/query"
)

type commissionImpl struct {
	commission commission.Repo
}

func NewCommission(commissionRepo commission.Repo) commission.Usecase {
	return &commissionImpl{
		commission: commissionRepo,
	}
}

func (im *commissionImpl) Submit(c ctx.Ctx, value *commission.Commission) (*commission.Commission, error) {
	if len(value.Title) == 0 || len(value.Details) == 0 || value.UserId.IsEmpty() {
		return nil, domain.ErrInvalidInput
	}
	if value.Budget != nil && !money.IsValidAmount(*value.Budget) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	value.Id = uid.New()
	value.Status = commission.StatusSubmitted
	value.CreatedAt = now
	value.UpdatedAt = now

	if err := im.commission.Create(c, value); err != nil {
		c.WithField("err", err).Error("commission.Create failed")
		return nil, err
	}
	return value, nil
}

func (im *commissionImpl) Get(c ctx.Ctx, id string, caller domain.UserId, isAdmin bool) (*commission.Commission, error) {
	res, err := im.commission.FindOne(c, id)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if !isAdmin && !res.UserId.Equals(caller) {
		return nil, domain.ErrForbidden
	}
	return res, nil
}

func (im *commissionImpl) List(c ctx.Ctx, caller domain.UserId, isAdmin bool, opts ...commission.SelectOptions) ([]*commission.Commission, error) {
	if !isAdmin {
		opts = append(opts, commission.WithUserId(caller))
	}

	res, err := im.commission.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("commission.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *commissionImpl) Update(c ctx.Ctx, id string, patchable commission.Patchable) (*commission.Commission, error) {
	if patchable.Status != nil && !patchable.Status.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	if patchable.Budget != nil && !money.IsValidAmount(*patchable.Budget) {
		return nil, domain.ErrInvalidInput
	}

	patchable.UpdatedAt = ptr.Time(time.Now())

	if err := im.commission.Patch(c, id, patchable); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	res, err := im.commission.FindOne(c, id)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return res, nil
}
