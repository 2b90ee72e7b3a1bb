package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stayhub-backend/controllers"
	"stayhub-backend/middleware"
	"stayhub-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances onto the route tree.
func SetupRouter(
	ac *controllers.AuthController,
	lc *controllers.ListingController,
	bc *controllers.BookingController,
	mc *controllers.MessageController,
	rc *controllers.ReviewController,
	adc *controllers.AdminController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
		}

		// Public browsing: search must be registered before /:id.
		listings := api.Group("/listings")
		{
			listings.GET("/search", lc.Search)
			listings.GET("/:id", lc.Get)
			listings.GET("/:id/reviews", rc.ForProperty)
		}

		authed := api.Group("")
		authed.Use(middleware.RequireAuth())
		{
			myListings := authed.Group("/listings")
			{
				myListings.GET("/mine", lc.Mine)
				myListings.POST("", lc.Create)
				myListings.PUT("/:id", lc.Update)
				myListings.DELETE("/:id", lc.Deactivate)
			}

			bookings := authed.Group("/bookings")
			{
				bookings.GET("", bc.List)
				bookings.POST("", bc.Create)
				bookings.GET("/:id", bc.Get)
				bookings.PUT("/:id", bc.Edit)
				bookings.DELETE("/:id", bc.Delete)
				bookings.POST("/:id/confirm", bc.Confirm)
				bookings.POST("/:id/reject", bc.Reject)
				bookings.POST("/:id/cancel", bc.Cancel)
				bookings.POST("/:id/complete", bc.Complete)
			}

			host := authed.Group("/host")
			{
				host.GET("/bookings/pending", bc.HostPending)
				host.GET("/bookings/upcoming", bc.HostUpcoming)
				host.GET("/bookings/active", bc.HostActive)
				host.GET("/statistics", bc.HostStatistics)
			}

			messages := authed.Group("/messages")
			{
				messages.GET("", mc.Inbox)
				messages.POST("", mc.Send)
				messages.GET("/unread-count", mc.UnreadCount)
				messages.GET("/conversation/:id", mc.Conversation)
				messages.PATCH("/:id/read", mc.MarkRead)
			}

			reviews := authed.Group("/reviews")
			{
				reviews.POST("", rc.Add)
				reviews.GET("/user/:id", rc.ForUser)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", adc.ListUsers)
				admin.PUT("/users/:id/role", adc.UpdateUserRole)
				admin.DELETE("/users/:id", adc.DeactivateUser)
				admin.GET("/listings", adc.ListAllListings)
				admin.GET("/bookings", adc.ListAllBookings)
				admin.GET("/reviews", adc.ListAllReviews)
				admin.POST("/export", adc.Export)
				admin.POST("/import", adc.Import)
			}
		}
	}

	return r
}
