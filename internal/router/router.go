package router

import (
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything route registration needs. Built once in main, and by
// hand in the handler tests.
type Deps struct {
	DB             *gorm.DB
	IdentityHasher *services.IdentityHasher
	CaptchaService *services.CaptchaService
	CommentService *services.CommentService
	GrantService   *services.GrantService
	Reactions      *services.ReactionService
	Intake         *services.CommentIntake
	AdminPassword  string
}

func RegisterRoutes(r *gin.Engine, deps Deps) error {
	captchaHandler := handlers.NewCaptchaHandler(deps.CaptchaService)
	commentHandler := handlers.NewCommentHandler(deps.Intake, deps.CommentService, deps.GrantService)
	reactionHandler := handlers.NewReactionHandler(deps.Reactions)
	postHandler := handlers.NewPostHandler(deps.DB, deps.CommentService)
	adminHandler, err := handlers.NewAdminHandler(deps.DB, deps.CommentService, deps.AdminPassword)
	if err != nil {
		return err
	}

	api := r.Group("/api")
	api.Use(middleware.Identity(deps.IdentityHasher))
	{
		// 公共路由 (Public Routes)
		api.GET("/posts", postHandler.List)
		api.GET("/posts/:slug", postHandler.Detail)
		api.GET("/categories", postHandler.Categories)
		api.GET("/tags", postHandler.Tags)

		api.GET("/captcha", captchaHandler.Issue)
		api.POST("/captcha/verify", captchaHandler.Verify)

		api.GET("/comments", commentHandler.List)
		api.POST("/comments", commentHandler.Create)
		api.DELETE("/comments/:id", commentHandler.Delete)

		api.GET("/comments/:id/reactions", reactionHandler.Counts)
		api.POST("/comments/:id/reactions", reactionHandler.React)

		api.POST("/admin/login", adminHandler.Login)
		api.POST("/admin/logout", adminHandler.Logout)

		// 受保护路由 (Admin Routes)
		admin := api.Group("/admin")
		admin.Use(middleware.AdminRequired())
		{
			admin.POST("/posts", adminHandler.CreatePost)
			admin.PUT("/posts/:id", adminHandler.UpdatePost)
			admin.DELETE("/posts/:id", adminHandler.DeletePost)

			admin.POST("/categories", adminHandler.CreateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			admin.POST("/tags", adminHandler.CreateTag)
			admin.DELETE("/tags/:id", adminHandler.DeleteTag)

			admin.GET("/comments", adminHandler.ListComments)
		}
	}

	return nil
}
