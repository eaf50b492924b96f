//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"slotlink/internal/handler/api"
	resdto "slotlink/internal/handler/dto/response"
	"slotlink/internal/usecase/commands"
	"slotlink/internal/usecase/queries"
	"slotlink/tests/common/httptest"
	commandsmock "slotlink/tests/mock/commands"
	queriesmock "slotlink/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	technicianID uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.technicianID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	// Stand-in for RequireAuth: inject the technician identity directly.
	authed := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", s.technicianID)
			h(c)
		}
	}

	s.router.POST("/bookings/links", authed(s.handler.IssueLink))
	s.router.GET("/bookings", authed(s.handler.List))
	s.router.GET("/bookings/:id", authed(s.handler.Get))
	s.router.POST("/bookings/:id/cancel", authed(s.handler.Cancel))
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) TestIssueLink() {
	s.Run("success: returns 201 with the public URL", func() {
		result := &commands.IssueLinkResult{
			BookingID: uuid.New(),
			Token:     validToken,
			URL:       "http://localhost:8080/book/" + validToken,
			ExpiresAt: time.Now().Add(48 * time.Hour),
		}

		s.mockCommands.EXPECT().IssueLink(gomock.Any(), s.technicianID, gomock.Any()).
			Return(result, nil).Times(1)

		body := map[string]any{"customer_name": "Jane", "notes": "second visit"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/links", body, "")

		var response resdto.IssueLinkResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(validToken, response.Token)
		s.Contains(response.URL, "/book/")
	})
}

func (s *BookingHandlerTestSuite) TestList() {
	s.Run("success: returns technician bookings", func() {
		items := []*queries.BookingListItem{
			{ID: uuid.New(), Status: "pending", CustomerName: "Jane"},
			{ID: uuid.New(), Status: "confirmed", CustomerName: "Alex"},
		}
		s.mockQueries.EXPECT().ListByTechnician(gomock.Any(), s.technicianID, 50).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "")

		var response []*resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
	})

	s.Run("success: limit query is forwarded", func() {
		s.mockQueries.EXPECT().ListByTechnician(gomock.Any(), s.technicianID, 10).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=10", nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestGet() {
	id := uuid.New()

	s.Run("success: returns the booking", func() {
		view := &queries.BookingView{ID: id, TechnicianID: s.technicianID, Status: "pending"}
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.technicianID, id).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(id, response.ID)
	})

	s.Run("error: 400 on malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "")
		httptest.AssertErrorContains(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: foreign booking reads as 404", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.technicianID, id).
			Return(nil, queries.ErrNotBookingOwner).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "")
		httptest.AssertErrorContains(s.T(), rec, http.StatusNotFound, "not found")
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	id := uuid.New()

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.technicianID, id).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+id.String()+"/cancel", nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: confirmed booking -> 409", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.technicianID, id).
			Return(commands.ErrAlreadyConfirmed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+id.String()+"/cancel", nil, "")
		httptest.AssertErrorContains(s.T(), rec, http.StatusConflict, "cannot be canceled")
	})

	s.Run("error: unknown booking -> 404", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.technicianID, id).
			Return(commands.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+id.String()+"/cancel", nil, "")
		httptest.AssertErrorContains(s.T(), rec, http.StatusNotFound, "not found")
	})
}
