package handlers

import (
	"yatube/internal/middleware"

	"github.com/gin-gonic/gin"
)

// CloneH shallow-copies a render context. Render injects per-request
// keys into the map it is given, so shared maps (cached page contexts)
// must be copied before rendering.
func CloneH(obj gin.H) gin.H {
	out := make(gin.H, len(obj)+2)
	for k, v := range obj {
		out[k] = v
	}
	return out
}

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	// Inject Current User
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
	}

	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}
