//go:build e2e

package booking_test

import (
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"slotlink/internal/handler/dto/response"
	"slotlink/tests/common/authtest"
	"slotlink/tests/common/dbtest"
	"slotlink/tests/common/httptest"
	"slotlink/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	linksURL  = "/api/bookings/links"
	publicURL = "/api/public/bookings/"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// nextWorkday returns the first Mon-Fri date strictly after today,
// formatted as the confirm endpoint expects.
func nextWorkday() string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func issueLink(t *testing.T, s *BookingSuite, authToken string) response.IssueLinkResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, linksURL,
		map[string]any{}, authToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var issued response.IssueLinkResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &issued))
	require.NotEmpty(t, issued.Token)
	return issued
}

func (s *BookingSuite) TestBookingFlow() {
	s.Run("Normal case: issued link is visible and confirmable by the customer", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tech@example.com", "Sam Tech")
		issued := issueLink(t, s, token)

		// Customer opens the link.
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, publicURL+issued.Token, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var availability response.LinkAvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &availability))
		require.Equal(t, "Sam Tech", availability.TechnicianName)
		require.Equal(t, 60, availability.SlotMinutes)

		date := nextWorkday()
		require.Contains(t, availability.AvailableDates, date)

		// Slots for the chosen date.
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, publicURL+issued.Token+"?date="+date, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &availability))
		require.Contains(t, availability.Slots, "10:00")

		// Customer confirms.
		confirmBody := map[string]any{
			"date":           date,
			"time":           "10:00",
			"customer_name":  "Jane Customer",
			"customer_phone": "555-0101",
		}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+issued.Token+"/confirm", confirmBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var confirmed response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &confirmed))
		require.Equal(t, "confirmed", confirmed.Status)
		require.Equal(t, "Jane Customer", confirmed.CustomerName)
		require.NotNil(t, confirmed.ScheduledDate)
		require.Equal(t, date, *confirmed.ScheduledDate)

		// Confirmation enqueues exactly one notification job.
		require.Equal(t, 1, dbtest.CountNotificationJobs(t, s.DB, "booking_confirmed"))

		// The link is single-use.
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+issued.Token+"/confirm", confirmBody, "")
		httptest.AssertErrorContains(t, w, http.StatusConflict, "already confirmed")
	})

	s.Run("Error case: expired link is gone", func() {
		t := s.T()

		technicianID := dbtest.CreateTestTechnician(t, s.DB, "tech2@example.com", "Sam Tech")
		staleToken := strings.Repeat("ab", 32)
		dbtest.CreateTestBookingLink(t, s.DB, technicianID, staleToken, time.Now().Add(-time.Hour))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, publicURL+staleToken, nil, "")
		httptest.AssertErrorContains(t, w, http.StatusGone, "expired")

		confirmBody := map[string]any{"date": nextWorkday(), "time": "10:00"}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+staleToken+"/confirm", confirmBody, "")
		httptest.AssertErrorContains(t, w, http.StatusGone, "expired")
	})

	s.Run("Error case: dead link answers before slot checks", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "precedence@example.com", "Sam Tech")
		winner := issueLink(t, s, token)

		date := nextWorkday()
		confirmBody := map[string]any{"date": date, "time": "10:00", "customer_name": "Holder"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+winner.Token+"/confirm", confirmBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		technicianID := dbtest.CreateTestTechnician(t, s.DB, "precedence@example.com", "Sam Tech")
		staleToken := strings.Repeat("ef", 32)
		dbtest.CreateTestBookingLink(t, s.DB, technicianID, staleToken, time.Now().Add(-time.Hour))

		// Expired link targeting the occupied slot: expiry wins over the
		// conflict, the customer should not be invited to retry.
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+staleToken+"/confirm", confirmBody, "")
		httptest.AssertErrorContains(t, w, http.StatusGone, "expired")

		// Expired link targeting an off-schedule time: still expiry.
		offGrid := map[string]any{"date": date, "time": "12:00"}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+staleToken+"/confirm", offGrid, "")
		httptest.AssertErrorContains(t, w, http.StatusGone, "expired")

		// Resolved link targeting a slot taken by another booking: its own
		// state wins over the conflict.
		other := issueLink(t, s, token)
		otherBody := map[string]any{"date": date, "time": "14:00", "customer_name": "Other"}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+other.Token+"/confirm", otherBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		retake := map[string]any{"date": date, "time": "14:00"}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+winner.Token+"/confirm", retake, "")
		httptest.AssertErrorContains(t, w, http.StatusConflict, "already confirmed")
	})

	s.Run("Error case: unknown token reads as not found", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, publicURL+strings.Repeat("cd", 32), nil, "")
		httptest.AssertErrorContains(t, w, http.StatusNotFound, "not found")
	})

	s.Run("Error case: off-schedule slot is rejected", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tech3@example.com", "Sam Tech")
		issued := issueLink(t, s, token)

		// 12:00 falls in the default lunch window.
		confirmBody := map[string]any{"date": nextWorkday(), "time": "12:00"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+issued.Token+"/confirm", confirmBody, "")
		httptest.AssertErrorContains(t, w, http.StatusUnprocessableEntity, "not offered")
	})

	s.Run("Normal case: custom settings drive the offered slots", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tech4@example.com", "Sam Tech")

		updateBody := map[string]any{
			"work_days":           []int{1, 2, 3, 4, 5, 6},
			"day_start":           "08:00",
			"day_end":             "13:00",
			"slot_minutes":        30,
			"advance_days":        14,
			"link_lifetime_hours": 24,
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPut, "/api/schedule-settings", updateBody, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		issued := issueLink(t, s, token)
		require.True(t, time.Until(issued.ExpiresAt) <= 24*time.Hour+time.Minute,
			"link lifetime should follow the updated settings")

		date := nextWorkday()
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, publicURL+issued.Token+"?date="+date, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var availability response.LinkAvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &availability))
		require.Equal(t, 30, availability.SlotMinutes)
		require.Contains(t, availability.Slots, "08:00")
		require.NotContains(t, availability.Slots, "13:00")
	})
}

func (s *BookingSuite) TestConcurrentConfirmation() {
	s.Run("Normal case: exactly one of two racing confirmations wins the slot", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "race@example.com", "Race Tech")
		first := issueLink(t, s, token)
		second := issueLink(t, s, token)

		date := nextWorkday()
		confirmBody := map[string]any{
			"date":          date,
			"time":          "14:00",
			"customer_name": "Racer",
		}

		codes := make([]int, 2)
		var wg sync.WaitGroup
		for i, tok := range []string{first.Token, second.Token} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+tok+"/confirm", confirmBody, "")
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		wins, conflicts := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusOK:
				wins++
			case http.StatusConflict:
				conflicts++
			}
		}
		require.Equal(t, 1, wins, "exactly one confirmation should win, got codes %v", codes)
		require.Equal(t, 1, conflicts, "the loser should see a slot conflict, got codes %v", codes)

		// Only the winner enqueues a notification.
		require.Equal(t, 1, dbtest.CountNotificationJobs(t, s.DB, "booking_confirmed"))

		// The slot is now taken for any further link.
		third := issueLink(t, s, token)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+third.Token+"/confirm", confirmBody, "")
		httptest.AssertErrorContains(t, w, http.StatusConflict, "just taken")
	})
}

func (s *BookingSuite) TestCancel() {
	s.Run("Normal case: canceled link stops being usable", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "cancel@example.com", "Sam Tech")
		issued := issueLink(t, s, token)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings/"+issued.BookingID.String()+"/cancel", nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, publicURL+issued.Token, nil, "")
		httptest.AssertErrorContains(t, w, http.StatusGone, "canceled")

		confirmBody := map[string]any{"date": nextWorkday(), "time": "10:00"}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, publicURL+issued.Token+"/confirm", confirmBody, "")
		httptest.AssertErrorContains(t, w, http.StatusGone, "canceled")
	})

	s.Run("Error case: another technician cannot cancel the link", func() {
		t := s.T()

		owner := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", "Owner")
		issued := issueLink(t, s, owner)

		intruder := authtest.CreateAndLogin(t, s.DB, s.Router, "intruder@example.com", "Intruder")
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings/"+issued.BookingID.String()+"/cancel", nil, intruder)
		httptest.AssertErrorContains(t, w, http.StatusNotFound, "not found")
	})
}
