package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AboutHandler serves the static about pages.
type AboutHandler struct{}

func NewAboutHandler() *AboutHandler {
	return &AboutHandler{}
}

// Author - GET /about/author/
func (h *AboutHandler) Author(c *gin.Context) {
	Render(c, http.StatusOK, "about/author.html", gin.H{
		"Title": "About the author",
	})
}

// Tech - GET /about/tech/
func (h *AboutHandler) Tech(c *gin.Context) {
	Render(c, http.StatusOK, "about/tech.html", gin.H{
		"Title": "Technologies",
	})
}
