// controllers/review_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub-backend/middleware"
	"stayhub-backend/services"
	"stayhub-backend/utils"
)

type ReviewController struct {
	ReviewSvc *services.ReviewService
}

func NewReviewController(svc *services.ReviewService) *ReviewController {
	return &ReviewController{ReviewSvc: svc}
}

type addReviewPayload struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment   string `json:"comment"`
	Type      string `json:"type" binding:"required,oneof=property guest"`
}

func (ctrl *ReviewController) Add(c *gin.Context) {
	var payload addReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	review, err := ctrl.ReviewSvc.Add(middleware.CallerID(c), payload.BookingID, payload.Rating, payload.Comment, payload.Type)
	if err != nil {
		switch err.Error() {
		case "booking_not_found", "listing_not_found":
			utils.JSONError(c, http.StatusNotFound, err.Error())
		case "not_authorized":
			utils.JSONError(c, http.StatusForbidden, "not authorized to review this booking")
		case "invalid_rating", "invalid_review_type", "booking_not_reviewable":
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to create review")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, review)
}

// ForProperty is public: reviews plus average rating for one listing.
func (ctrl *ReviewController) ForProperty(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	list, err := ctrl.ReviewSvc.ForProperty(id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	avg, err := ctrl.ReviewSvc.AverageForProperty(id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"reviews": list, "average_rating": avg})
}

// ForUser lists the guest reviews written about a user.
func (ctrl *ReviewController) ForUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	list, err := ctrl.ReviewSvc.ForUser(id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	avg, err := ctrl.ReviewSvc.AverageForUser(id)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"reviews": list, "average_rating": avg})
}
