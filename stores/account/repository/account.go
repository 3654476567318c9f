package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/account"
	"github.com/bidhaus/goapi/service/query"
)

type accountRepoImpl struct {
	q query.Mongo
}

func New(q query.Mongo) account.Repo {
	return &accountRepoImpl{q}
}

func (im *accountRepoImpl) Get(c ctx.Ctx, id string) (*account.Account, error) {
	res := &account.Account{}
	if err := im.q.FindOne(c, domain.TableAccounts, bson.M{"id": id}, res); err != nil {
		if errors.Is(err, query.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		c.WithFields(log.Fields{
			"id":  id,
			"err": err,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return res, nil
}

func (im *accountRepoImpl) Insert(c ctx.Ctx, a *account.Account) error {
	if err := im.q.Insert(c, domain.TableAccounts, a); err != nil {
		if errors.Is(err, query.ErrDuplicateKey) {
			return domain.ErrConflict
		}
		c.WithFields(log.Fields{
			"account": a,
			"err":     err,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *accountRepoImpl) Exists(c ctx.Ctx, id string) (bool, error) {
	cnt, err := im.q.Count(c, domain.TableAccounts, bson.M{"id": id})
	if err != nil {
		c.WithFields(log.Fields{
			"id":  id,
			"err": err,
		}).Error("failed to q.Count")
		return false, err
	}
	return cnt > 0, nil
}
