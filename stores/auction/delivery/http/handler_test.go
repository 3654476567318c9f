package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/validator"
	"github.com/bidhaus/goapi/domain/auction"
	mockAuction "github.com/bidhaus/goapi/domain/auction/mocks"
	"github.com/bidhaus/goapi/middleware"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	echo        *echo.Echo
	mockAuction *mockAuction.Usecase
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupSuite() {
	middleware.SetupCache()
}

func (t *testsuite) SetupTest() {
	t.echo = echo.New()
	t.echo.Validator = validator.NewCustomValidator(goValidator.New())
	t.echo.Pre(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("ctx", mockCtx)
			return next(c)
		}
	})
	t.mockAuction = &mockAuction.Usecase{}
	New(t.echo, t.mockAuction)
}

func (t *testsuite) serve(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	t.echo.ServeHTTP(rec, req)
	return rec
}

func (t *testsuite) TestCreate() {
	t.mockAuction.On("Create", mockCtx, mock.MatchedBy(func(a *auction.Auction) bool {
		return a.SellerId == "seller-1" && a.StartingPrice == "50"
	})).Return(&auction.Auction{Id: "auction-1", Status: auction.StatusDraft}, nil)

	rec := t.serve(http.MethodPost, "/auctions", `{"title":"vintage watch","sellerId":"seller-1","startingPrice":"50"}`)
	t.Equal(http.StatusOK, rec.Code)
}

func (t *testsuite) TestCreateRejectsNonPositivePrice() {
	rec := t.serve(http.MethodPost, "/auctions", `{"title":"vintage watch","sellerId":"seller-1","startingPrice":"-5"}`)
	t.Equal(http.StatusBadRequest, rec.Code)
	t.mockAuction.AssertNotCalled(t.T(), "Create", mock.Anything, mock.Anything)
}

func (t *testsuite) TestActivate() {
	t.mockAuction.On("Activate", mockCtx, "auction-1").Return(true, nil)

	rec := t.serve(http.MethodPost, "/auctions/auction-1/activate", "")
	t.Equal(http.StatusOK, rec.Code)
}

func (t *testsuite) TestActivateIllegalTransitionConflicts() {
	t.mockAuction.On("Activate", mockCtx, "auction-1").Return(false, nil)

	rec := t.serve(http.MethodPost, "/auctions/auction-1/activate", "")
	t.Equal(http.StatusConflict, rec.Code)
}

func (t *testsuite) TestCancel() {
	t.mockAuction.On("Cancel", mockCtx, "auction-1", "item withdrawn").Return(true, nil)

	rec := t.serve(http.MethodPost, "/auctions/auction-1/cancel", `{"reason":"item withdrawn"}`)
	t.Equal(http.StatusOK, rec.Code)
}

func (t *testsuite) TestEndIllegalTransitionConflicts() {
	t.mockAuction.On("EndNow", mockCtx, "auction-1").Return(false, nil)

	rec := t.serve(http.MethodPost, "/auctions/auction-1/end", "")
	t.Equal(http.StatusConflict, rec.Code)
}

func (t *testsuite) TestScheduleRejectsBadDates() {
	t.mockAuction.On("Schedule", mockCtx, "auction-1", mock.Anything, mock.Anything).Return(false, auction.ErrEndBeforeStart)

	rec := t.serve(http.MethodPost, "/auctions/auction-1/schedule",
		`{"startDate":"2023-06-02T12:00:00Z","endDate":"2023-06-01T12:00:00Z"}`)
	t.Equal(http.StatusBadRequest, rec.Code)
}

func (t *testsuite) TestApprove() {
	t.mockAuction.On("Approve", mockCtx, "auction-1", "bidder-1").Return(nil)

	rec := t.serve(http.MethodPost, "/auctions/auction-1/approvals", `{"bidderId":"bidder-1"}`)
	t.Equal(http.StatusOK, rec.Code)
}

func (t *testsuite) TestRevoke() {
	t.mockAuction.On("Revoke", mockCtx, "auction-1", "bidder-1").Return(nil)

	rec := t.serve(http.MethodDelete, "/auctions/auction-1/approvals/bidder-1", "")
	t.Equal(http.StatusOK, rec.Code)
}

func (t *testsuite) TestGetAllFiltersByStatus() {
	t.mockAuction.On("List", mockCtx, mock.Anything, mock.Anything).
		Return([]*auction.Auction{{Id: "auction-1", Status: auction.StatusActive}}, nil)

	rec := t.serve(http.MethodGet, "/auctions?status=active", "")
	t.Equal(http.StatusOK, rec.Code)
	t.Contains(rec.Body.String(), "auction-1")
}

func (t *testsuite) TestGetAllIsCached() {
	t.mockAuction.On("List", mockCtx, mock.Anything, mock.Anything).
		Return([]*auction.Auction{{Id: "auction-7", Status: auction.StatusActive}}, nil).Once()

	first := t.serve(http.MethodGet, "/auctions?sellerId=seller-7", "")
	t.Equal(http.StatusOK, first.Code)

	second := t.serve(http.MethodGet, "/auctions?sellerId=seller-7", "")
	t.Equal(http.StatusOK, second.Code)
	t.Equal(first.Body.String(), second.Body.String())

	t.mockAuction.AssertNumberOfCalls(t.T(), "List", 1)
}
