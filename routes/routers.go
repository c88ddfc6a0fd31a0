package routes

import (
	"net/http"

	"campusnest/controllers"
	_ "campusnest/docs"
	middlewares "campusnest/middleware"
	"campusnest/services"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine, svc *services.Container, m *melody.Melody) {
	router.Use(middlewares.RequestID(), middlewares.ErrorLogger(svc.Logger))

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authController := controllers.NewAuthController(svc.Auth, svc.Users)
	userController := controllers.NewUserController(svc.Users, svc.Roommates, svc.Bookmarks)
	campusController := controllers.NewCampusController(svc.Campuses)
	housingController := controllers.NewHousingController(svc.Housings)
	reviewController := controllers.NewReviewController(svc.Reviews, svc.Media, svc.Reports)
	reportController := controllers.NewReportController(svc.Reports)
	adminController := controllers.NewAdminController(svc.Admin)
	notificationController := controllers.NewNotificationController(controllers.NotificationControllerOptions{
		Tokens: svc.Tokens,
		Logger: svc.Logger,
	}, m)

	auth := middlewares.AuthMiddleware(svc.Tokens)
	admin := middlewares.AdminOnly()

	v1 := router.Group("/api/v1")

	v1.POST("/auth/register", authController.Register)
	v1.POST("/auth/token", authController.Login)
	v1.POST("/auth/token/refresh", authController.Refresh)
	v1.POST("/auth/verify", authController.Verify)
	v1.POST("/auth/resend", authController.Resend)
	v1.POST("/auth/google", authController.Google)

	v1.GET("/users/me", auth, userController.Me)
	v1.PUT("/users/me", auth, userController.UpdateMe)
	v1.GET("/users/me/roommate-profile", auth, userController.GetProfile)
	v1.PUT("/users/me/roommate-profile", auth, userController.UpdateProfile)
	v1.GET("/users/me/roommates", auth, userController.Roommates)
	v1.GET("/users/me/bookmarks", auth, userController.ListBookmarks)
	v1.POST("/users/me/bookmarks", auth, userController.CreateBookmark)
	v1.DELETE("/bookmarks/:id", auth, userController.DeleteBookmark)

	v1.GET("/campuses", campusController.List)
	v1.GET("/campuses/:id", campusController.Detail)
	v1.POST("/campuses", auth, admin, campusController.Create)
	v1.PUT("/campuses/:id", auth, admin, campusController.Update)
	v1.DELETE("/campuses/:id", auth, admin, campusController.Delete)

	v1.GET("/housings", housingController.List)
	v1.GET("/housings/:id", housingController.Detail)
	v1.POST("/housings", auth, admin, housingController.Create)
	v1.PUT("/housings/:id", auth, admin, housingController.Update)
	v1.DELETE("/housings/:id", auth, admin, housingController.Delete)

	v1.GET("/housings/:id/reviews", reviewController.ListByHousing)
	v1.POST("/housings/:id/reviews", auth, reviewController.Create)
	v1.GET("/reviews/:id", reviewController.Detail)
	v1.PUT("/reviews/:id", auth, reviewController.Update)
	v1.PATCH("/reviews/:id", auth, reviewController.Update)
	v1.DELETE("/reviews/:id", auth, reviewController.Delete)
	v1.GET("/reviews/:id/media", reviewController.ListMedia)
	v1.POST("/reviews/:id/media", auth, reviewController.UploadMedia)
	v1.DELETE("/media/:id", auth, reviewController.DeleteMedia)
	v1.POST("/reviews/:id/reports", auth, reviewController.Report)

	v1.GET("/reports", auth, admin, reportController.List)
	v1.PATCH("/reports/:id", auth, admin, reportController.SetStatus)

	v1.GET("/admin/entities", auth, admin, adminController.Entities)
	v1.GET("/admin/entities/:name", auth, admin, adminController.Rows)
	v1.POST("/admin/notify", auth, admin, notificationController.NotifyAll)

	//ws
	v1.GET("/ws/moderation", middlewares.OptionalAuth(svc.Tokens), notificationController.Connect)
}
