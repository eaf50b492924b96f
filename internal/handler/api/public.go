package api

import (
	"errors"
	"net/http"

	"slotlink/internal/domain/schedule"
	reqdto "slotlink/internal/handler/dto/request"
	resdto "slotlink/internal/handler/dto/response"
	"slotlink/internal/pkg/token"
	"slotlink/internal/usecase/commands"
	"slotlink/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated booking-link surface. The link
// token is the only credential, so every route starts with a format check
// before touching storage.
type PublicHandler struct {
	availability    queries.AvailabilityQueries
	bookingCommands commands.BookingCommands
}

func NewPublicHandler(availability queries.AvailabilityQueries, bookingCommands commands.BookingCommands) *PublicHandler {
	return &PublicHandler{
		availability:    availability,
		bookingCommands: bookingCommands,
	}
}

// @Summary View booking link
// @Description Resolve a booking link to the technician's availability
// @Tags public
// @Produce json
// @Param token path string true "Booking link token"
// @Param date query string false "Selected date (YYYY-MM-DD) to list slots for"
// @Success 200 {object} resdto.LinkAvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /public/bookings/{token} [get]
func (h *PublicHandler) GetLink(c *gin.Context) {
	linkToken := c.Param("token")
	if err := token.Validate(linkToken); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking link not found",
		})
		return
	}

	var date *schedule.Date
	if dateStr := c.Query("date"); dateStr != "" {
		d, err := schedule.ParseDate(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date format, expected YYYY-MM-DD",
			})
			return
		}
		date = &d
	}

	view, err := h.availability.LinkAvailability(c.Request.Context(), linkToken, date)
	if err != nil {
		h.renderLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromLinkAvailability(view))
}

// @Summary Confirm booking
// @Description Confirm a slot through a booking link
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Booking link token"
// @Param request body reqdto.ConfirmBookingRequest true "Slot choice"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /public/bookings/{token}/confirm [post]
func (h *PublicHandler) Confirm(c *gin.Context) {
	linkToken := c.Param("token")
	if err := token.Validate(linkToken); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking link not found",
		})
		return
	}

	var req reqdto.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}
	at, err := schedule.ParseTimeOfDay(req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid time format, expected HH:MM",
		})
		return
	}

	view, err := h.bookingCommands.Confirm(c.Request.Context(), commands.ConfirmParams{
		Token:         linkToken,
		Date:          date,
		Time:          at,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		h.renderConfirmError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *PublicHandler) renderLinkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking link not found",
		})
	case errors.Is(err, queries.ErrLinkExpired):
		c.JSON(http.StatusGone, gin.H{
			"error": "Booking link has expired",
		})
	case errors.Is(err, queries.ErrLinkConfirmed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is already confirmed",
		})
	case errors.Is(err, queries.ErrLinkCanceled):
		c.JSON(http.StatusGone, gin.H{
			"error": "Booking link has been canceled",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *PublicHandler) renderConfirmError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking link not found",
		})
	case errors.Is(err, commands.ErrLinkExpired):
		c.JSON(http.StatusGone, gin.H{
			"error": "Booking link has expired",
		})
	case errors.Is(err, commands.ErrAlreadyConfirmed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is already confirmed",
		})
	case errors.Is(err, commands.ErrLinkCanceled):
		c.JSON(http.StatusGone, gin.H{
			"error": "Booking link has been canceled",
		})
	case errors.Is(err, commands.ErrSlotNotOffered):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Requested slot is not offered",
		})
	case errors.Is(err, commands.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Requested slot was just taken",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
