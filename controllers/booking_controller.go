// controllers/booking_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stayhub-backend/middleware"
	"stayhub-backend/services"
	"stayhub-backend/utils"
)

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

type createBookingPayload struct {
	ListingID uint   `json:"listing_id" binding:"required"`
	CheckIn   string `json:"check_in" binding:"required"`
	CheckOut  string `json:"check_out" binding:"required"`
	Guests    int    `json:"guests" binding:"required"`
}

type editBookingPayload struct {
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
	Guests   int    `json:"guests" binding:"required"`
}

type rejectPayload struct {
	Reason string `json:"reason"`
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func parseDateField(c *gin.Context, name, value string) (time.Time, bool) {
	t, err := utils.ParseDate(value)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name+" date, want YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// respondResult maps a business Result onto an HTTP response. Failure
// messages are classified by content, the way the services classify their
// own sentinel errors.
func respondResult(c *gin.Context, res services.Result) {
	if res.Success {
		data := gin.H{"message": res.Message}
		if res.Booking != nil {
			data["booking"] = res.Booking
		}
		if res.Refund > 0 {
			data["refund"] = res.Refund
		}
		utils.JSONSuccess(c, http.StatusOK, data)
		return
	}
	msg := res.Message
	switch {
	case strings.Contains(msg, "not found"):
		utils.JSONError(c, http.StatusNotFound, msg)
	case strings.Contains(msg, "not authorized"):
		utils.JSONError(c, http.StatusForbidden, msg)
	case strings.Contains(msg, "not available"):
		utils.JSONError(c, http.StatusConflict, msg)
	default:
		utils.JSONError(c, http.StatusBadRequest, msg)
	}
}

func (ctrl *BookingController) Create(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	checkIn, ok := parseDateField(c, "check_in", payload.CheckIn)
	if !ok {
		return
	}
	checkOut, ok := parseDateField(c, "check_out", payload.CheckOut)
	if !ok {
		return
	}

	res, err := ctrl.BookingSvc.Create(payload.ListingID, middleware.CallerID(c), checkIn, checkOut, payload.Guests)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create booking")
		return
	}
	respondResult(c, res)
}

func (ctrl *BookingController) Confirm(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := ctrl.BookingSvc.Confirm(id, middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to confirm booking")
		return
	}
	respondResult(c, res)
}

func (ctrl *BookingController) Reject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload rejectPayload
	_ = c.ShouldBindJSON(&payload) // reason is optional
	res, err := ctrl.BookingSvc.Reject(id, middleware.CallerID(c), payload.Reason)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to reject booking")
		return
	}
	respondResult(c, res)
}

func (ctrl *BookingController) Cancel(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := ctrl.BookingSvc.Cancel(id, middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel booking")
		return
	}
	respondResult(c, res)
}

func (ctrl *BookingController) Complete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := ctrl.BookingSvc.Complete(id, middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to complete booking")
		return
	}
	respondResult(c, res)
}

func (ctrl *BookingController) Edit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload editBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	checkIn, ok := parseDateField(c, "check_in", payload.CheckIn)
	if !ok {
		return
	}
	checkOut, ok := parseDateField(c, "check_out", payload.CheckOut)
	if !ok {
		return
	}

	res, err := ctrl.BookingSvc.Edit(id, middleware.CallerID(c), checkIn, checkOut, payload.Guests)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to edit booking")
		return
	}
	respondResult(c, res)
}

func (ctrl *BookingController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	res, err := ctrl.BookingSvc.Delete(id, middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete booking")
		return
	}
	respondResult(c, res)
}

// List returns the bookings visible to the caller based on their role.
func (ctrl *BookingController) List(c *gin.Context) {
	list, err := ctrl.BookingSvc.ByRole(middleware.CallerID(c), middleware.CallerRole(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *BookingController) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.GetByID(id)
	if err != nil {
		if err.Error() == "booking_not_found" {
			utils.JSONError(c, http.StatusNotFound, "booking not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load booking")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (ctrl *BookingController) HostPending(c *gin.Context) {
	list, err := ctrl.BookingSvc.PendingForHost(middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list pending bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *BookingController) HostUpcoming(c *gin.Context) {
	list, err := ctrl.BookingSvc.UpcomingForHost(middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list upcoming bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *BookingController) HostActive(c *gin.Context) {
	list, err := ctrl.BookingSvc.ActiveForHost(middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list active bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *BookingController) HostStatistics(c *gin.Context) {
	stats, err := ctrl.BookingSvc.Statistics(middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
