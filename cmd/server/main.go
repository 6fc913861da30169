package main

import (
	"log"
	"os"
	"path/filepath"

	"ideahub/internal/db"
	"ideahub/internal/middleware"
	"ideahub/internal/router"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
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
	r.Use(sessions.Sessions("ideahub_session", store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets
	r.Static("/static", "./web/static")

	// Middleware
	r.Use(middleware.LoadUser())

	// Routes
	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("IdeaHub server starting on :%s", port)
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

	// Helper to assemble files
	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+1)
		files = append(files, layouts...)
		files = append(files, view)
		return files
	}

	// Auth
	r.AddFromFiles("auth/landing.html", assemble(templatesDir+"/views/auth/landing.html")...)
	r.AddFromFiles("auth/login.html", assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFiles("auth/register.html", assemble(templatesDir+"/views/auth/register.html")...)
	r.AddFromFiles("auth/register_confirmation.html", assemble(templatesDir+"/views/auth/register_confirmation.html")...)

	// Idea
	r.AddFromFiles("idea/list.html", assemble(templatesDir+"/views/idea/list.html")...)
	r.AddFromFiles("idea/create.html", assemble(templatesDir+"/views/idea/create.html")...)
	r.AddFromFiles("idea/edit.html", assemble(templatesDir+"/views/idea/edit.html")...)
	r.AddFromFiles("idea/delete.html", assemble(templatesDir+"/views/idea/delete.html")...)

	// Admin
	r.AddFromFiles("admin/roles.html", assemble(templatesDir+"/views/admin/roles.html")...)
	r.AddFromFiles("admin/create_role.html", assemble(templatesDir+"/views/admin/create_role.html")...)

	// Error
	r.AddFromFiles("error.html", assemble(templatesDir+"/views/error.html")...)

	return r
}
