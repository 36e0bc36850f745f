package middleware

import (
	"net/http"
	"yatube/internal/db"
	"yatube/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoginPath is where anonymous requests to protected routes land.
const LoginPath = "/auth/login/"

// AuthRequired ensures a user is logged in. Anonymous requests are
// redirected to the login page with the original path in ?next=.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.Redirect(http.StatusFound, LoginPath+"?next="+c.Request.URL.Path)
			c.Abort()
			return
		}

		if _, exists := c.Get(CheckUserKey); !exists {
			// Session points at a deleted user; treat as logged out.
			session.Clear()
			session.Save()
			c.Redirect(http.StatusFound, LoginPath+"?next="+c.Request.URL.Path)
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}
