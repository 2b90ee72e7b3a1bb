// controllers/listing_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stayhub-backend/middleware"
	"stayhub-backend/services"
	"stayhub-backend/utils"
)

type ListingController struct {
	ListingSvc *services.ListingService
	ReviewSvc  *services.ReviewService
}

func NewListingController(listingSvc *services.ListingService, reviewSvc *services.ReviewService) *ListingController {
	return &ListingController{ListingSvc: listingSvc, ReviewSvc: reviewSvc}
}

func (ctrl *ListingController) Create(c *gin.Context) {
	var in services.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	listing, err := ctrl.ListingSvc.Create(middleware.CallerID(c), in)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create listing")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, listing)
}

func (ctrl *ListingController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	listing, err := ctrl.ListingSvc.Update(id, middleware.CallerID(c), in)
	if err != nil {
		switch err.Error() {
		case "listing_not_found":
			utils.JSONError(c, http.StatusNotFound, "listing not found")
		case "not_listing_owner":
			utils.JSONError(c, http.StatusForbidden, "not the listing owner")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to update listing")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listing)
}

func (ctrl *ListingController) Deactivate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.ListingSvc.Deactivate(id, middleware.CallerID(c)); err != nil {
		switch err.Error() {
		case "listing_not_found":
			utils.JSONError(c, http.StatusNotFound, "listing not found")
		case "not_listing_owner":
			utils.JSONError(c, http.StatusForbidden, "not the listing owner")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to deactivate listing")
		}
		return
	}
	utils.JSONMessage(c, http.StatusOK, "listing deactivated")
}

// Get returns one listing together with its review summary.
func (ctrl *ListingController) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	listing, err := ctrl.ListingSvc.GetByID(id)
	if err != nil {
		if err.Error() == "listing_not_found" {
			utils.JSONError(c, http.StatusNotFound, "listing not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load listing")
		return
	}
	avg, err := ctrl.ReviewSvc.AverageForProperty(id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load listing")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"listing": listing, "average_rating": avg})
}

func (ctrl *ListingController) Mine(c *gin.Context) {
	list, err := ctrl.ListingSvc.ByHost(middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list listings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// Search is public. Query params: location, check_in, check_out, guests.
func (ctrl *ListingController) Search(c *gin.Context) {
	var checkIn, checkOut *time.Time
	if v := c.Query("check_in"); v != "" {
		t, ok := parseDateField(c, "check_in", v)
		if !ok {
			return
		}
		checkIn = &t
	}
	if v := c.Query("check_out"); v != "" {
		t, ok := parseDateField(c, "check_out", v)
		if !ok {
			return
		}
		checkOut = &t
	}
	guests := 0
	if v := c.Query("guests"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			utils.JSONError(c, http.StatusBadRequest, "invalid guests")
			return
		}
		guests = n
	}

	list, err := ctrl.ListingSvc.Search(c.Query("location"), checkIn, checkOut, guests)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to search listings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}
