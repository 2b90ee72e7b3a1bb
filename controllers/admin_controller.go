// controllers/admin_controller.go
package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"stayhub-backend/services"
	"stayhub-backend/utils"
)

// AdminController groups the operations reserved for the admin role:
// account management, full-collection views and the flat-file
// export/import of the whole dataset.
type AdminController struct {
	UserSvc    *services.UserService
	ListingSvc *services.ListingService
	BookingSvc *services.BookingService
	ReviewSvc  *services.ReviewService
	ExportSvc  *services.ExportService
}

func NewAdminController(userSvc *services.UserService, listingSvc *services.ListingService,
	bookingSvc *services.BookingService, reviewSvc *services.ReviewService, exportSvc *services.ExportService) *AdminController {
	return &AdminController{
		UserSvc:    userSvc,
		ListingSvc: listingSvc,
		BookingSvc: bookingSvc,
		ReviewSvc:  reviewSvc,
		ExportSvc:  exportSvc,
	}
}

func (ctrl *AdminController) ListUsers(c *gin.Context) {
	list, err := ctrl.UserSvc.All()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list users")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

type updateRolePayload struct {
	Role string `json:"role" binding:"required,oneof=admin host guest"`
}

func (ctrl *AdminController) UpdateUserRole(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload updateRolePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := ctrl.UserSvc.UpdateRole(id, payload.Role); err != nil {
		switch err.Error() {
		case "user_not_found":
			utils.JSONError(c, http.StatusNotFound, "user not found")
		case "invalid_role":
			utils.JSONError(c, http.StatusBadRequest, "invalid role")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to update role")
		}
		return
	}
	utils.JSONMessage(c, http.StatusOK, "role updated")
}

func (ctrl *AdminController) DeactivateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.UserSvc.Deactivate(id); err != nil {
		if err.Error() == "user_not_found" {
			utils.JSONError(c, http.StatusNotFound, "user not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to deactivate user")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "user deactivated")
}

func (ctrl *AdminController) ListAllListings(c *gin.Context) {
	list, err := ctrl.ListingSvc.All()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list listings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *AdminController) ListAllBookings(c *gin.Context) {
	list, err := ctrl.BookingSvc.All()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *AdminController) ListAllReviews(c *gin.Context) {
	list, err := ctrl.ReviewSvc.All()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// exportDir resolves the target directory for flat-file dumps. A dir query
// param wins over DATA_EXPORT_DIR; the fallback is ./data.
func exportDir(c *gin.Context) string {
	if dir := c.Query("dir"); dir != "" {
		return dir
	}
	if dir := os.Getenv("DATA_EXPORT_DIR"); dir != "" {
		return dir
	}
	return "data"
}

func (ctrl *AdminController) Export(c *gin.Context) {
	dir := exportDir(c)
	if err := ctrl.ExportSvc.ExportAll(dir); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "export failed: "+err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"dir": dir})
}

func (ctrl *AdminController) Import(c *gin.Context) {
	dir := exportDir(c)
	if err := ctrl.ExportSvc.ImportAll(dir); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "import failed: "+err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"dir": dir})
}
