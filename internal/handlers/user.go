package handlers

import (
	"net/http"
	"yatube/internal/db"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	perPage int
	follows *services.FollowService
}

func NewUserHandler(perPage int, follows *services.FollowService) *UserHandler {
	return &UserHandler{perPage: perPage, follows: follows}
}

// Profile - author feed, GET /profile/:username/
// Logged-in viewers additionally get whether they follow this author.
func (h *UserHandler) Profile(c *gin.Context) {
	username := c.Param("username")

	var author models.User
	if err := db.DB.Where("username = ?", username).First(&author).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	var posts []models.Post
	query := db.DB.Model(&models.Post{}).
		Preload("User").Preload("Group").
		Where("user_id = ?", author.ID).
		Order("pub_date DESC")
	pagination, err := utils.Paginate(query, c.Query("page"), h.perPage, &posts)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load posts")
		return
	}

	fillCommentCounts(posts)

	following := false
	if viewer, exists := c.Get(middleware.CheckUserKey); exists {
		following = h.follows.IsFollowing(viewer.(*models.User), &author)
	}

	Render(c, http.StatusOK, "profile/profile.html", gin.H{
		"Title":     author.Username,
		"Author":    author,
		"Posts":     posts,
		"Page":      pagination,
		"Following": following,
	})
}
