package handlers

import (
	"fmt"
	"net/http"
	"time"
	"yatube/internal/db"
	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

// PostHandler serves every post-centric route: the home feed, group
// feeds, the detail page, create/edit and comments.
type PostHandler struct {
	perPage  int
	cache    *utils.PageCache
	cacheTTL time.Duration
	images   *services.ImageStore
}

func NewPostHandler(perPage int, cache *utils.PageCache, cacheTTL time.Duration, images *services.ImageStore) *PostHandler {
	return &PostHandler{
		perPage:  perPage,
		cache:    cache,
		cacheTTL: cacheTTL,
		images:   images,
	}
}

// fillCommentCounts 批量填充帖子的评论数量
func fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type CountResult struct {
		PostID uint
		Count  int
	}
	var results []CountResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

// Index - home feed, GET /
// The page context is cached per page number for a short TTL; within
// the window every request gets the stored content. The cached map is
// never rendered directly: Render injects per-request keys, so every
// request gets its own copy and the stored entry stays immutable.
func (h *PostHandler) Index(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))

	cacheKey := fmt.Sprintf("index:page:%d", page)
	if cachedData := h.cache.Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			Render(c, http.StatusOK, "post/index.html", CloneH(hData))
			return
		}
	}

	var posts []models.Post
	query := db.DB.Model(&models.Post{}).
		Preload("User").Preload("Group").
		Order("pub_date DESC")
	pagination, err := utils.Paginate(query, c.Query("page"), h.perPage, &posts)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load posts")
		return
	}

	fillCommentCounts(posts)

	renderData := gin.H{
		"Title": "Latest posts",
		"Posts": posts,
		"Page":  pagination,
	}

	// Key on the page actually served: out-of-range requests clamp to
	// the last page and must not store duplicates under their own keys.
	h.cache.Set(fmt.Sprintf("index:page:%d", pagination.CurrentPage), renderData, h.cacheTTL)

	Render(c, http.StatusOK, "post/index.html", CloneH(renderData))
}

// GroupPosts - group feed, GET /group/:slug/
func (h *PostHandler) GroupPosts(c *gin.Context) {
	slug := c.Param("slug")

	var group models.Group
	if err := db.DB.Where("slug = ?", slug).First(&group).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Group not found")
		return
	}

	var posts []models.Post
	query := db.DB.Model(&models.Post{}).
		Preload("User").Preload("Group").
		Where("group_id = ?", group.ID).
		Order("pub_date DESC")
	pagination, err := utils.Paginate(query, c.Query("page"), h.perPage, &posts)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to load posts")
		return
	}

	fillCommentCounts(posts)

	Render(c, http.StatusOK, "post/group_list.html", gin.H{
		"Title": group.Title,
		"Group": group,
		"Posts": posts,
		"Page":  pagination,
	})
}

// Detail - GET /posts/:id/
// Shows the post, its comments newest first and an empty comment form.
func (h *PostHandler) Detail(c *gin.Context) {
	h.renderDetail(c, http.StatusOK, &forms.CommentForm{Errors: map[string]string{}})
}

func (h *PostHandler) renderDetail(c *gin.Context, code int, form *forms.CommentForm) {
	var post models.Post
	if err := db.DB.Preload("User").Preload("Group").
		First(&post, c.Param("id")).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	var comments []models.Comment
	db.DB.Preload("User").
		Where("post_id = ?", post.ID).
		Order("created DESC").
		Find(&comments)

	Render(c, code, "post/detail.html", gin.H{
		"Title":       "Post detail",
		"Post":        post,
		"PostContent": utils.RenderMarkdown(post.Text),
		"Comments":    comments,
		"Form":        form,
	})
}

// AddComment - POST /posts/:id/comment/
func (h *PostHandler) AddComment(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var post models.Post
	if err := db.DB.First(&post, c.Param("id")).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	form := forms.ParseCommentForm(c)
	if !form.Valid() {
		// Re-render the detail page with field errors, nothing saved.
		h.renderDetail(c, http.StatusOK, form)
		return
	}

	comment := models.Comment{
		Text:   form.Text,
		PostID: post.ID,
		UserID: user.ID,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to save comment")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

// ShowCreate - GET /create/
func (h *PostHandler) ShowCreate(c *gin.Context) {
	var groups []models.Group
	db.DB.Order("title ASC").Find(&groups)

	Render(c, http.StatusOK, "post/create.html", gin.H{
		"Title":  "New post",
		"Groups": groups,
		"Form":   &forms.PostForm{Errors: map[string]string{}},
	})
}

// Create - POST /create/
func (h *PostHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	form := forms.ParsePostForm(c)
	if !form.Valid() {
		var groups []models.Group
		db.DB.Order("title ASC").Find(&groups)
		Render(c, http.StatusOK, "post/create.html", gin.H{
			"Title":  "New post",
			"Groups": groups,
			"Form":   form,
		})
		return
	}

	post := models.Post{
		Text:    form.Text,
		UserID:  user.ID,
		GroupID: form.GroupID,
	}

	if form.Image != nil {
		path, err := h.images.Save(form.Image)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Failed to store image")
			return
		}
		post.Image = path
	}

	if err := db.DB.Create(&post).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to save post")
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+user.Username+"/")
}

// ShowEdit - GET /posts/:id/edit/
// Non-authors are redirected to the detail page without modification.
func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var post models.Post
	if err := db.DB.First(&post, c.Param("id")).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	if post.UserID != user.ID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
		return
	}

	var groups []models.Group
	db.DB.Order("title ASC").Find(&groups)

	Render(c, http.StatusOK, "post/create.html", gin.H{
		"Title":  "Edit post",
		"IsEdit": true,
		"Post":   post,
		"Groups": groups,
		"Form":   &forms.PostForm{Text: post.Text, GroupID: post.GroupID, Errors: map[string]string{}},
	})
}

// Edit - POST /posts/:id/edit/
// Overwrites text and image only; the group reference stays as it was
// and pub_date is never touched.
func (h *PostHandler) Edit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var post models.Post
	if err := db.DB.First(&post, c.Param("id")).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	if post.UserID != user.ID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
		return
	}

	form := forms.ParsePostForm(c)
	if !form.Valid() {
		var groups []models.Group
		db.DB.Order("title ASC").Find(&groups)
		Render(c, http.StatusOK, "post/create.html", gin.H{
			"Title":  "Edit post",
			"IsEdit": true,
			"Post":   post,
			"Groups": groups,
			"Form":   form,
		})
		return
	}

	updates := map[string]interface{}{"text": form.Text}
	if form.Image != nil {
		path, err := h.images.Save(form.Image)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Failed to store image")
			return
		}
		updates["image"] = path
	}

	if err := db.DB.Model(&post).Updates(updates).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to save post")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}
