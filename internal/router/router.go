package router

import (
	"net/http"
	"yatube/internal/handlers"
	"yatube/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every handler onto the engine.
func RegisterRoutes(
	r *gin.Engine,
	postHandler *handlers.PostHandler,
	userHandler *handlers.UserHandler,
	followHandler *handlers.FollowHandler,
	authHandler *handlers.AuthHandler,
	aboutHandler *handlers.AboutHandler,
) {
	// Public routes
	r.GET("/", postHandler.Index)                     // home feed
	r.GET("/group/:slug/", postHandler.GroupPosts)    // group feed
	r.GET("/profile/:username/", userHandler.Profile) // author feed
	r.GET("/posts/:id/", postHandler.Detail)          // post + comments

	r.GET("/about/author/", aboutHandler.Author)
	r.GET("/about/tech/", aboutHandler.Tech)

	r.GET("/auth/signup/", authHandler.ShowSignup)
	r.POST("/auth/signup/", authHandler.Signup)
	r.GET("/auth/login/", authHandler.ShowLogin)
	r.POST("/auth/login/", authHandler.Login)
	r.GET("/auth/logout/", authHandler.Logout)

	// Protected routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.ShowCreate)
		authorized.POST("/create/", postHandler.Create)
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)
		authorized.POST("/posts/:id/edit/", postHandler.Edit)
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)

		authorized.GET("/follow/", followHandler.Index)                        // following feed
		authorized.GET("/profile/:username/follow/", followHandler.Follow)     // subscribe
		authorized.GET("/profile/:username/unfollow/", followHandler.Unfollow) // unsubscribe
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.RenderError(c, http.StatusNotFound, "Page not found")
	})
}
