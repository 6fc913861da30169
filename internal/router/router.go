package router

import (
	"ideahub/internal/db"
	"ideahub/internal/handlers"
	"ideahub/internal/middleware"
	"ideahub/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	authService := services.NewAuthService(db.DB)
	ideaService := services.NewIdeaService(db.DB)
	mailService := services.NewMailService()

	authHandler := handlers.NewAuthHandler(authService, mailService)
	ideaHandler := handlers.NewIdeaHandler(ideaService)
	adminHandler := handlers.NewAdminHandler()

	// Public Routes
	r.GET("/", authHandler.Landing)
	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/confirm", authHandler.ConfirmEmail) // link from the confirmation mail

	// Protected Routes
	authorized := r.Group("/ideas")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("", ideaHandler.List)
		authorized.GET("/new", ideaHandler.ShowCreate)
		authorized.POST("/new", ideaHandler.Create)
		authorized.POST("/:id/vote", ideaHandler.Vote)
		authorized.GET("/:id/edit", ideaHandler.ShowEdit)
		authorized.POST("/:id/edit", ideaHandler.Update)
		authorized.GET("/:id/delete", ideaHandler.ShowDelete)
		authorized.POST("/:id/delete", ideaHandler.Delete)
	}

	// Admin Routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/roles", adminHandler.ListRoles)
		admin.GET("/roles/new", adminHandler.ShowCreateRole)
		admin.POST("/roles/new", adminHandler.CreateRole)
	}
}
