package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/ptr"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/service/query"
	"github.com/bidhaus/goapi/service/query/mocks"
)

var mockCtx = ctx.Background()

type auctionRepoSuite struct {
	suite.Suite

	q  *mocks.Mongo
	im auction.Repo
}

func TestAuctionRepoSuite(t *testing.T) {
	suite.Run(t, new(auctionRepoSuite))
}

func (s *auctionRepoSuite) SetupTest() {
	s.q = &mocks.Mongo{}
	s.im = NewAuctionRepo(s.q)
}

func (s *auctionRepoSuite) TestFindOne() {
	stored := auction.Auction{
		Id:           "auction-1",
		SellerId:     "seller-1",
		Status:       auction.StatusActive,
		CurrentPrice: "75",
		Version:      4,
	}
	s.q.On("FindOne", mockCtx, domain.TableAuctions, bson.M{"id": "auction-1"}, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*auction.Auction) = stored
		}).
		Return(nil).Once()

	res, err := s.im.FindOne(mockCtx, "auction-1")
	s.NoError(err)
	s.Equal(&stored, res)
}

func (s *auctionRepoSuite) TestFindOneTranslatesNotFound() {
	s.q.On("FindOne", mockCtx, domain.TableAuctions, bson.M{"id": "missing"}, mock.Anything).
		Return(query.ErrNotFound).Once()

	res, err := s.im.FindOne(mockCtx, "missing")
	s.Nil(res)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *auctionRepoSuite) TestFindAllBuildsQuery() {
	now := time.Now().UTC()
	expectedQuery := bson.M{
		"status":    bson.M{"$in": []auction.Status{auction.StatusScheduled, auction.StatusActive}},
		"startDate": bson.M{"$lte": now},
	}
	s.q.On("Search", mockCtx, domain.TableAuctions, 0, 500, "endDate", expectedQuery, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(6).(*[]*auction.Auction) = []*auction.Auction{{Id: "auction-1"}}
		}).
		Return(nil).Once()

	res, err := s.im.FindAll(mockCtx,
		auction.WithStatuses(auction.StatusScheduled, auction.StatusActive),
		auction.WithStartDateLTE(now),
		auction.WithPagination(0, 500),
	)
	s.NoError(err)
	s.Len(res, 1)
	s.Equal("auction-1", res[0].Id)
}

func (s *auctionRepoSuite) TestFindAllBySeller() {
	s.q.On("Search", mockCtx, domain.TableAuctions, 0, 0, "endDate", bson.M{"sellerId": "seller-1"}, mock.Anything).
		Return(nil).Once()

	_, err := s.im.FindAll(mockCtx, auction.WithSellerId("seller-1"))
	s.NoError(err)
}

func (s *auctionRepoSuite) TestInsertTranslatesDuplicateKey() {
	a := &auction.Auction{Id: "auction-1"}
	s.q.On("Insert", mockCtx, domain.TableAuctions, a).
		Return(query.ErrDuplicateKey).Once()

	s.ErrorIs(s.im.Insert(mockCtx, a), domain.ErrConflict)
}

func (s *auctionRepoSuite) TestUpdateGuardsOnVersion() {
	now := time.Unix(1700000000, 0).UTC()
	updater := &auction.Updater{
		CurrentPrice: ptr.String("80"),
		BidCount:     ptr.Int32(5),
		UpdatedAt:    now,
	}

	expectedSelector := bson.M{"id": "auction-1", "version": int64(4)}
	s.q.On("CustomPatch", mockCtx, domain.TableAuctions, expectedSelector, mock.MatchedBy(func(update bson.M) bool {
		set, ok := update["$set"].(bson.M)
		if !ok || set["currentPrice"] != "80" || set["updatedAt"] != now {
			return false
		}
		inc, ok := update["$inc"].(bson.M)
		return ok && inc["version"] == 1
	}), false).Return(nil).Once()

	s.NoError(s.im.Update(mockCtx, "auction-1", 4, updater))
	s.q.AssertExpectations(s.T())
}

func (s *auctionRepoSuite) TestUpdateLostRaceIsConflict() {
	s.q.On("CustomPatch", mockCtx, domain.TableAuctions, bson.M{"id": "auction-1", "version": int64(4)}, mock.Anything, false).
		Return(query.ErrNotFound).Once()
	// the document exists at a newer version, so the miss was a lost race
	s.q.On("FindOne", mockCtx, domain.TableAuctions, bson.M{"id": "auction-1"}, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(3).(*auction.Auction) = auction.Auction{Id: "auction-1", Version: 5}
		}).
		Return(nil).Once()

	err := s.im.Update(mockCtx, "auction-1", 4, &auction.Updater{UpdatedAt: time.Now().UTC()})
	s.ErrorIs(err, domain.ErrConflict)
}

func (s *auctionRepoSuite) TestUpdateMissingDocIsNotFound() {
	s.q.On("CustomPatch", mockCtx, domain.TableAuctions, bson.M{"id": "gone", "version": int64(1)}, mock.Anything, false).
		Return(query.ErrNotFound).Once()
	s.q.On("FindOne", mockCtx, domain.TableAuctions, bson.M{"id": "gone"}, mock.Anything).
		Return(query.ErrNotFound).Once()

	err := s.im.Update(mockCtx, "gone", 1, &auction.Updater{UpdatedAt: time.Now().UTC()})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *auctionRepoSuite) TestUpdatePassesThroughOtherErrors() {
	errBoom := errors.New("socket closed")
	s.q.On("CustomPatch", mockCtx, domain.TableAuctions, mock.Anything, mock.Anything, false).
		Return(errBoom).Once()

	err := s.im.Update(mockCtx, "auction-1", 4, &auction.Updater{UpdatedAt: time.Now().UTC()})
	s.ErrorIs(err, errBoom)
}
