package repository

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/service/query"
)

type approval struct {
	AuctionId string    `bson:"auctionId"`
	BidderId  string    `bson:"bidderId"`
	CreatedAt time.Time `bson:"createdAt"`
}

type approvalRepoImpl struct {
	q query.Mongo
}

func NewApprovalRepo(q query.Mongo) auction.ApprovalRepo {
	return &approvalRepoImpl{q}
}

func (im *approvalRepoImpl) IsApproved(c ctx.Ctx, auctionId, bidderId string) (bool, error) {
	res := &approval{}
	err := im.q.FindOne(c, domain.TableApprovals, bson.M{"auctionId": auctionId, "bidderId": bidderId}, res)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, query.ErrNotFound) {
		return false, nil
	}
	c.WithFields(log.Fields{
		"auctionId": auctionId,
		"bidderId":  bidderId,
		"err":       err,
	}).Error("failed to q.FindOne")
	return false, err
}

func (im *approvalRepoImpl) Approve(c ctx.Ctx, auctionId, bidderId string) error {
	selector := bson.M{"auctionId": auctionId, "bidderId": bidderId}
	doc := &approval{
		AuctionId: auctionId,
		BidderId:  bidderId,
		CreatedAt: time.Now().UTC(),
	}
	if err := im.q.Upsert(c, domain.TableApprovals, selector, doc); err != nil {
		c.WithFields(log.Fields{
			"auctionId": auctionId,
			"bidderId":  bidderId,
			"err":       err,
		}).Error("failed to q.Upsert")
		return err
	}
	return nil
}

func (im *approvalRepoImpl) Revoke(c ctx.Ctx, auctionId, bidderId string) error {
	selector := bson.M{"auctionId": auctionId, "bidderId": bidderId}
	if err := im.q.Remove(c, domain.TableApprovals, selector); err != nil {
		if errors.Is(err, query.ErrNotFound) {
			return domain.ErrNotFound
		}
		c.WithFields(log.Fields{
			"auctionId": auctionId,
			"bidderId":  bidderId,
			"err":       err,
		}).Error("failed to q.Remove")
		return err
	}
	return nil
}
