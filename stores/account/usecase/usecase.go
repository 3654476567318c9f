package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain/account"
)

type Cfg struct {
	AccountRepo account.Repo
}

type accountUseCase struct {
	accountRepo account.Repo
}

func New(cfg *Cfg) account.Usecase {
	return &accountUseCase{
		accountRepo: cfg.AccountRepo,
	}
}

func (im *accountUseCase) Create(c ctx.Ctx, alias, email string) (*account.Account, error) {
	a := &account.Account{
		Id:        uuid.NewString(),
		Alias:     alias,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := im.accountRepo.Insert(c, a); err != nil {
		c.WithFields(log.Fields{
			"alias": alias,
			"err":   err,
		}).Error("failed to accountRepo.Insert")
		return nil, err
	}
	return a, nil
}

func (im *accountUseCase) Get(c ctx.Ctx, id string) (*account.Account, error) {
	a, err := im.accountRepo.Get(c, id)
	if err != nil {
		c.WithFields(log.Fields{
			"id":  id,
			"err": err,
		}).Error("failed to accountRepo.Get")
		return nil, err
	}
	return a, nil
}

func (im *accountUseCase) Exists(c ctx.Ctx, id string) (bool, error) {
	return im.accountRepo.Exists(c, id)
}
