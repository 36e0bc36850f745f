package main

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"
	"yatube/internal/db"
	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/router"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("yatube_session", store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets and uploaded media
	mediaRoot := os.Getenv("MEDIA_ROOT")
	if mediaRoot == "" {
		mediaRoot = "./media"
	}
	r.Static("/static", "./web/static")
	r.Static("/media", mediaRoot)

	// Middleware
	r.Use(middleware.LoadUser())

	// Feed and cache configuration. The home-feed TTL is deliberately a
	// knob, not a constant: within the window cached pages are served
	// verbatim even when new posts land.
	perPage := utils.StringToInt(os.Getenv("POSTS_PER_PAGE"))
	if perPage <= 0 {
		perPage = 10
	}
	cacheTTL := time.Duration(utils.StringToInt(os.Getenv("INDEX_CACHE_TTL_SECONDS"))) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 20 * time.Second
	}
	pageCache, err := utils.NewPageCache(500)
	if err != nil {
		log.Fatalf("Failed to create page cache: %v", err)
	}

	// Handlers
	followService := services.NewFollowService()
	imageStore := services.NewImageStore(mediaRoot)
	postHandler := handlers.NewPostHandler(perPage, pageCache, cacheTTL, imageStore)
	userHandler := handlers.NewUserHandler(perPage, followService)
	followHandler := handlers.NewFollowHandler(perPage, followService)
	authHandler := handlers.NewAuthHandler()
	aboutHandler := handlers.NewAboutHandler()

	router.RegisterRoutes(r, postHandler, userHandler, followHandler, authHandler, aboutHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Yatube server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	// Helper to assemble files
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	// FuncMap
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": func(t interface{}) string {
			var timeVal time.Time
			switch v := t.(type) {
			case time.Time:
				timeVal = v
			default:
				return ""
			}

			duration := time.Since(timeVal)
			seconds := int(duration.Seconds())

			if seconds < 60 {
				return fmt.Sprintf("%ds ago", seconds)
			} else if seconds < 3600 {
				return fmt.Sprintf("%dm ago", seconds/60)
			} else if seconds < 86400 {
				return fmt.Sprintf("%dh ago", seconds/3600)
			} else if seconds < 2592000 {
				return fmt.Sprintf("%dd ago", seconds/86400)
			} else if seconds < 31536000 {
				return fmt.Sprintf("%dmo ago", seconds/2592000)
			}
			return fmt.Sprintf("%dy ago", seconds/31536000)
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	// Manual registration to ensure keys match handler expectation
	// Auth
	r.AddFromFilesFuncs("auth/login.html", funcMap, assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFilesFuncs("auth/signup.html", funcMap, assemble(templatesDir+"/views/auth/signup.html")...)

	// Post
	r.AddFromFilesFuncs("post/index.html", funcMap, assemble(templatesDir+"/views/post/index.html")...)
	r.AddFromFilesFuncs("post/group_list.html", funcMap, assemble(templatesDir+"/views/post/group_list.html")...)
	r.AddFromFilesFuncs("post/detail.html", funcMap, assemble(templatesDir+"/views/post/detail.html")...)
	r.AddFromFilesFuncs("post/create.html", funcMap, assemble(templatesDir+"/views/post/create.html")...)

	// Profile
	r.AddFromFilesFuncs("profile/profile.html", funcMap, assemble(templatesDir+"/views/profile/profile.html")...)

	// Follow
	r.AddFromFilesFuncs("follow/index.html", funcMap, assemble(templatesDir+"/views/follow/index.html")...)
	r.AddFromFilesFuncs("follow/followed.html", funcMap, assemble(templatesDir+"/views/follow/followed.html")...)
	r.AddFromFilesFuncs("follow/unfollowed.html", funcMap, assemble(templatesDir+"/views/follow/unfollowed.html")...)

	// About
	r.AddFromFilesFuncs("about/author.html", funcMap, assemble(templatesDir+"/views/about/author.html")...)
	r.AddFromFilesFuncs("about/tech.html", funcMap, assemble(templatesDir+"/views/about/tech.html")...)

	// Error
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}
