//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"slotlink/internal/handler/api"
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

type SettingsHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockSettingsCommands
	mockQueries  *queriesmock.MockSettingsQueries
	technicianID uuid.UUID
}

func (s *SettingsHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.technicianID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSettingsCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockSettingsQueries(s.mockCtrl)
	handler := api.NewSettingsHandler(s.mockCommands, s.mockQueries)

	authed := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("user_id", s.technicianID)
			h(c)
		}
	}

	s.router.GET("/schedule-settings", authed(handler.Get))
	s.router.PUT("/schedule-settings", authed(handler.Update))
}

func (s *SettingsHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSettingsHandlerSuite(t *testing.T) {
	suite.Run(t, new(SettingsHandlerTestSuite))
}

func (s *SettingsHandlerTestSuite) TestGet() {
	s.Run("success: serves defaults for an unconfigured technician", func() {
		view := &queries.ScheduleSettingsView{
			WorkDays:          []int{1, 2, 3, 4, 5},
			DayStart:          "09:00",
			DayEnd:            "18:00",
			SlotMinutes:       60,
			AdvanceDays:       30,
			LinkLifetimeHours: 48,
			IsDefault:         true,
		}
		s.mockQueries.EXPECT().For(gomock.Any(), s.technicianID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/schedule-settings", nil, "")

		var response queries.ScheduleSettingsView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.IsDefault)
		s.Equal(60, response.SlotMinutes)
	})
}

func (s *SettingsHandlerTestSuite) TestUpdate() {
	body := map[string]any{
		"work_days":           []int{1, 2, 3},
		"day_start":           "08:00",
		"day_end":             "16:00",
		"slot_minutes":        30,
		"advance_days":        14,
		"link_lifetime_hours": 24,
	}

	s.Run("success: returns the stored settings", func() {
		view := &queries.ScheduleSettingsView{
			WorkDays:          []int{1, 2, 3},
			DayStart:          "08:00",
			DayEnd:            "16:00",
			SlotMinutes:       30,
			AdvanceDays:       14,
			LinkLifetimeHours: 24,
		}
		s.mockCommands.EXPECT().Update(gomock.Any(), s.technicianID, gomock.Any()).
			DoAndReturn(func(_ any, _ uuid.UUID, params commands.UpdateSettingsParams) (*queries.ScheduleSettingsView, error) {
				s.Equal("08:00", params.DayStart)
				s.Equal(30, params.SlotMinutes)
				return view, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/schedule-settings", body, "")

		var response queries.ScheduleSettingsView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.False(response.IsDefault)
		s.Equal([]int{1, 2, 3}, response.WorkDays)
	})

	s.Run("error: domain rejection -> 422", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), s.technicianID, gomock.Any()).
			Return(nil, commands.ErrInvalidSettings).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/schedule-settings", body, "")
		httptest.AssertErrorContains(s.T(), rec, http.StatusUnprocessableEntity, "Invalid schedule settings")
	})

	s.Run("error: missing fields -> 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/schedule-settings",
			map[string]any{"day_start": "08:00"}, "")
		httptest.AssertErrorContains(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}
