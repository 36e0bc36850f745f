package handlers

import (
	"errors"
	"net/http"
	"yatube/internal/db"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FollowHandler struct {
	perPage int
	follows *services.FollowService
}

func NewFollowHandler(perPage int, follows *services.FollowService) *FollowHandler {
	return &FollowHandler{perPage: perPage, follows: follows}
}

// Index - following feed, GET /follow/
// Lists every post authored by someone the caller follows.
func (h *FollowHandler) Index(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var posts []models.Post
	pagination, err := utils.Paginate(h.follows.FeedQuery(user), c.Query("page"), h.perPage, &posts)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load feed")
		return
	}

	fillCommentCounts(posts)

	Render(c, http.StatusOK, "follow/index.html", gin.H{
		"Title": "Following",
		"Posts": posts,
		"Page":  pagination,
	})
}

// Follow - GET /profile/:username/follow/
// Idempotent; following yourself or someone you already follow is a
// no-op.
func (h *FollowHandler) Follow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var author models.User
	if err := db.DB.Where("username = ?", c.Param("username")).First(&author).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := h.follows.Follow(user, &author); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to follow")
		return
	}

	Render(c, http.StatusOK, "follow/followed.html", gin.H{
		"Title":  "Following " + author.Username,
		"Author": author,
	})
}

// Unfollow - GET /profile/:username/unfollow/
// A missing edge is treated like any other missing resource: 404.
func (h *FollowHandler) Unfollow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var author models.User
	if err := db.DB.Where("username = ?", c.Param("username")).First(&author).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := h.follows.Unfollow(user, &author); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RenderError(c, http.StatusNotFound, "You are not following this user")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Failed to unfollow")
		return
	}

	Render(c, http.StatusOK, "follow/unfollowed.html", gin.H{
		"Title":  "Unfollowed " + author.Username,
		"Author": author,
	})
}
