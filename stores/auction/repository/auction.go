package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/database/mongoclient"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/service/query"
)

type auctionRepoImpl struct {
	q query.Mongo
}

func NewAuctionRepo(q query.Mongo) auction.Repo {
	return &auctionRepoImpl{q}
}

func (im *auctionRepoImpl) makeQuery(opts ...auction.FindAllOptionsFunc) (bson.M, error) {
	options, err := auction.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.Statuses != nil {
		query["status"] = bson.M{"$in": *options.Statuses}
	}

	if options.SellerId != nil {
		query["sellerId"] = *options.SellerId
	}

	if options.StartDateLTE != nil {
		query["startDate"] = bson.M{"$lte": *options.StartDateLTE}
	}

	if options.EndDateLTE != nil {
		query["endDate"] = bson.M{"$lte": *options.EndDateLTE}
	}

	return query, nil
}

func (im *auctionRepoImpl) FindOne(c ctx.Ctx, id string) (*auction.Auction, error) {
	res := &auction.Auction{}
	if err := im.q.FindOne(c, domain.TableAuctions, bson.M{"id": id}, res); err != nil {
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

func (im *auctionRepoImpl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, _ := auction.GetFindAllOptions(opts...)
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	res := []*auction.Auction{}
	if err := im.q.Search(c, domain.TableAuctions, offset, limit, "endDate", qry, &res); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *auctionRepoImpl) Insert(c ctx.Ctx, a *auction.Auction) error {
	if err := im.q.Insert(c, domain.TableAuctions, a); err != nil {
		if errors.Is(err, query.ErrDuplicateKey) {
			return domain.ErrConflict
		}
		c.WithFields(log.Fields{
			"auction": a,
			"err":     err,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

// Update patches the auction guarded by version: the selector matches id and
// the expected version, and the patch bumps version by one. A concurrent
// writer makes the selector miss, which surfaces as domain.ErrConflict.
func (im *auctionRepoImpl) Update(c ctx.Ctx, id string, version int64, updater *auction.Updater) error {
	fields, err := mongoclient.MakeBsonM(updater)
	if err != nil {
		c.WithFields(log.Fields{
			"updater": updater,
			"err":     err,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	selector := bson.M{"id": id, "version": version}
	update := bson.M{
		"$set": fields,
		"$inc": bson.M{"version": 1},
	}

	if err := im.q.CustomPatch(c, domain.TableAuctions, selector, update, false); err != nil {
		if !errors.Is(err, query.ErrNotFound) {
			c.WithFields(log.Fields{
				"id":  id,
				"err": err,
			}).Error("failed to q.CustomPatch")
			return err
		}
		// distinguish a lost version race from a missing document
		if _, ferr := im.FindOne(c, id); ferr == nil {
			return domain.ErrConflict
		} else if errors.Is(ferr, domain.ErrNotFound) {
			return domain.ErrNotFound
		} else {
			return ferr
		}
	}
	return nil
}
