//go:build unit

package api_test

import (
	"net/http"
	"strings"
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

const validToken = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type PublicHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockCtrl         *gomock.Controller
	mockAvailability *queriesmock.MockAvailabilityQueries
	mockCommands     *commandsmock.MockBookingCommands
	handler          *api.PublicHandler
}

func (s *PublicHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockAvailability = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.handler = api.NewPublicHandler(s.mockAvailability, s.mockCommands)

	s.router.GET("/public/bookings/:token", s.handler.GetLink)
	s.router.GET("/public/bookings/:token/slots", s.handler.GetLink)
	s.router.POST("/public/bookings/:token/confirm", s.handler.Confirm)
}

func (s *PublicHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPublicHandlerSuite(t *testing.T) {
	suite.Run(t, new(PublicHandlerTestSuite))
}

func (s *PublicHandlerTestSuite) TestGetLink() {
	availability := &queries.LinkAvailability{
		Token:          validToken,
		TechnicianName: "Dana Technician",
		SlotMinutes:    60,
		ExpiresAt:      time.Now().Add(48 * time.Hour),
		AvailableDates: []string{"2026-03-03", "2026-03-04"},
	}

	s.Run("success: returns availability for a valid link", func() {
		s.mockAvailability.EXPECT().LinkAvailability(gomock.Any(), validToken, gomock.Nil()).
			Return(availability, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/public/bookings/"+validToken, nil, "")

		var response resdto.LinkAvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("Dana Technician", response.TechnicianName)
		s.Len(response.AvailableDates, 2)
	})

	s.Run("success: date query selects per-day slots", func() {
		withSlots := *availability
		selected := "2026-03-03"
		withSlots.SelectedDate = &selected
		withSlots.Slots = []string{"09:00", "10:00"}

		s.mockAvailability.EXPECT().LinkAvailability(gomock.Any(), validToken, gomock.Not(gomock.Nil())).
			Return(&withSlots, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/public/bookings/"+validToken+"/slots?date=2026-03-03", nil, "")

		var response resdto.LinkAvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal([]string{"09:00", "10:00"}, response.Slots)
	})

	s.Run("error: 400 on malformed date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/public/bookings/"+validToken+"?date=03-03-2026", nil, "")
		httptest.AssertErrorContains(s.T(), rec, http.StatusBadRequest, "Invalid date format")
	})

	s.Run("error: 404 on malformed token without hitting storage", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/public/bookings/"+strings.Repeat("x", 64), nil, "")
		httptest.AssertErrorContains(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("error mapping for link state", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "unknown token -> 404", err: queries.ErrLinkNotFound, expectCode: http.StatusNotFound},
			{name: "expired -> 410", err: queries.ErrLinkExpired, expectCode: http.StatusGone},
			{name: "confirmed -> 409", err: queries.ErrLinkConfirmed, expectCode: http.StatusConflict},
			{name: "canceled -> 410", err: queries.ErrLinkCanceled, expectCode: http.StatusGone},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockAvailability.EXPECT().LinkAvailability(gomock.Any(), validToken, gomock.Nil()).
					Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/public/bookings/"+validToken, nil, "")
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}

func (s *PublicHandlerTestSuite) TestConfirm() {
	url := "/public/bookings/" + validToken + "/confirm"
	body := map[string]any{
		"date":           "2026-03-03",
		"time":           "10:00",
		"customer_name":  "Jane Customer",
		"customer_phone": "555-0100",
	}

	s.Run("success: returns the confirmed booking", func() {
		scheduledDate := "2026-03-03"
		scheduledTime := "10:00"
		view := &queries.BookingView{
			ID:            uuid.New(),
			Status:        "confirmed",
			ScheduledDate: &scheduledDate,
			ScheduledTime: &scheduledTime,
			CustomerName:  "Jane Customer",
		}

		s.mockCommands.EXPECT().Confirm(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, params commands.ConfirmParams) (*queries.BookingView, error) {
				s.Equal(validToken, params.Token)
				s.Equal("2026-03-03", params.Date.String())
				s.Equal("10:00", params.Time.String())
				return view, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("confirmed", response.Status)
		s.Equal("2026-03-03", *response.ScheduledDate)
	})

	s.Run("error: 400 on malformed time", func() {
		bad := map[string]any{"date": "2026-03-03", "time": "10am"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, bad, "")
		httptest.AssertErrorContains(s.T(), rec, http.StatusBadRequest, "Invalid time format")
	})

	s.Run("error mapping for confirm failures", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "unknown token -> 404", err: commands.ErrLinkNotFound, expectCode: http.StatusNotFound},
			{name: "expired -> 410", err: commands.ErrLinkExpired, expectCode: http.StatusGone},
			{name: "already confirmed -> 409", err: commands.ErrAlreadyConfirmed, expectCode: http.StatusConflict},
			{name: "canceled -> 410", err: commands.ErrLinkCanceled, expectCode: http.StatusGone},
			{name: "off-grid slot -> 422", err: commands.ErrSlotNotOffered, expectCode: http.StatusUnprocessableEntity},
			{name: "slot just taken -> 409", err: commands.ErrSlotTaken, expectCode: http.StatusConflict},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Confirm(gomock.Any(), gomock.Any()).
					Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}
