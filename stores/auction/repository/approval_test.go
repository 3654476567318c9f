package repository

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/service/query"
	"github.com/bidhaus/goapi/service/query/mocks"
)

type approvalRepoSuite struct {
	suite.Suite

	q  *mocks.Mongo
	im auction.ApprovalRepo
}

func TestApprovalRepoSuite(t *testing.T) {
	suite.Run(t, new(approvalRepoSuite))
}

func (s *approvalRepoSuite) SetupTest() {
	s.q = &mocks.Mongo{}
	s.im = NewApprovalRepo(s.q)
}

func (s *approvalRepoSuite) TestIsApproved() {
	selector := bson.M{"auctionId": "auction-1", "bidderId": "bidder-1"}
	s.q.On("FindOne", mockCtx, domain.TableApprovals, selector, mock.Anything).
		Return(nil).Once()

	ok, err := s.im.IsApproved(mockCtx, "auction-1", "bidder-1")
	s.NoError(err)
	s.True(ok)
}

func (s *approvalRepoSuite) TestIsApprovedMissing() {
	selector := bson.M{"auctionId": "auction-1", "bidderId": "bidder-2"}
	s.q.On("FindOne", mockCtx, domain.TableApprovals, selector, mock.Anything).
		Return(query.ErrNotFound).Once()

	ok, err := s.im.IsApproved(mockCtx, "auction-1", "bidder-2")
	s.NoError(err)
	s.False(ok)
}

func (s *approvalRepoSuite) TestApproveUpserts() {
	selector := bson.M{"auctionId": "auction-1", "bidderId": "bidder-1"}
	s.q.On("Upsert", mockCtx, domain.TableApprovals, selector, mock.MatchedBy(func(doc *approval) bool {
		return doc.AuctionId == "auction-1" && doc.BidderId == "bidder-1" && !doc.CreatedAt.IsZero()
	})).Return(nil).Once()

	s.NoError(s.im.Approve(mockCtx, "auction-1", "bidder-1"))
	s.q.AssertExpectations(s.T())
}

func (s *approvalRepoSuite) TestRevokeTranslatesNotFound() {
	selector := bson.M{"auctionId": "auction-1", "bidderId": "bidder-1"}
	s.q.On("Remove", mockCtx, domain.TableApprovals, selector).
		Return(query.ErrNotFound).Once()

	s.ErrorIs(s.im.Revoke(mockCtx, "auction-1", "bidder-1"), domain.ErrNotFound)
}
