package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/bid"
	"github.com/bidhaus/goapi/service/query"
)

type bidRepoImpl struct {
	q query.Mongo
}

func NewBidRepo(q query.Mongo) bid.Repo {
	return &bidRepoImpl{q}
}

func (im *bidRepoImpl) makeQuery(opts ...bid.FindAllOptionsFunc) (bson.M, error) {
	options, err := bid.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.AuctionId != nil {
		query["auctionId"] = *options.AuctionId
	}

	if options.BidderId != nil {
		query["bidderId"] = *options.BidderId
	}

	if options.PlacedAfter != nil {
		query["placedAt"] = bson.M{"$gt": *options.PlacedAfter}
	}

	if options.IsWinning != nil {
		query["isWinning"] = *options.IsWinning
	}

	return query, nil
}

func (im *bidRepoImpl) FindAll(c ctx.Ctx, opts ...bid.FindAllOptionsFunc) ([]*bid.Bid, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, _ := bid.GetFindAllOptions(opts...)
	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}

	res := []*bid.Bid{}
	if err := im.q.Search(c, domain.TableBids, offset, limit, "seq", qry, &res); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *bidRepoImpl) Count(c ctx.Ctx, opts ...bid.FindAllOptionsFunc) (int, error) {
	qry, err := im.makeQuery(opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(c, domain.TableBids, qry)
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}

func (im *bidRepoImpl) FindWinning(c ctx.Ctx, auctionId string) (*bid.Bid, error) {
	res := &bid.Bid{}
	err := im.q.FindOne(c, domain.TableBids, bson.M{"auctionId": auctionId, "isWinning": true}, res)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		c.WithFields(log.Fields{
			"auctionId": auctionId,
			"err":       err,
		}).Error("failed to q.FindOne")
		return nil, err
	}
	return res, nil
}

func (im *bidRepoImpl) Insert(c ctx.Ctx, b *bid.Bid) error {
	if err := im.q.Insert(c, domain.TableBids, b); err != nil {
		if errors.Is(err, query.ErrDuplicateKey) {
			return domain.ErrConflict
		}
		c.WithFields(log.Fields{
			"bid": b,
			"err": err,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

// MarkWinning unsets the previous winner before setting the new one. Both
// patches run inside the caller's per-auction critical section, so no other
// writer can interleave between them.
func (im *bidRepoImpl) MarkWinning(c ctx.Ctx, auctionId, bidId string) error {
	unsetSelector := bson.M{"auctionId": auctionId, "isWinning": true, "id": bson.M{"$ne": bidId}}
	err := im.q.Patch(c, domain.TableBids, unsetSelector, bson.M{"isWinning": false}, query.WithPatchMany(true))
	if err != nil && !errors.Is(err, query.ErrNotFound) {
		c.WithFields(log.Fields{
			"auctionId": auctionId,
			"err":       err,
		}).Error("failed to q.Patch unset winning")
		return err
	}

	setSelector := bson.M{"auctionId": auctionId, "id": bidId}
	if err := im.q.Patch(c, domain.TableBids, setSelector, bson.M{"isWinning": true}); err != nil {
		if errors.Is(err, query.ErrNotFound) {
			return domain.ErrNotFound
		}
		c.WithFields(log.Fields{
			"auctionId": auctionId,
			"bidId":     bidId,
			"err":       err,
		}).Error("failed to q.Patch set winning")
		return err
	}
	return nil
}
