package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kbcportal/internal/infrastructure/logger"
	"kbcportal/internal/middleware"
)

type RouterDeps struct {
	Auth          *AuthHandler
	Courses       *CourseHandler
	Admin         *AdminHandler
	Users         *UserHandler
	Authenticator middleware.Authenticator
	Limiter       *middleware.RateLimiter
	Origins       []string
	Log           *logger.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	if len(d.Origins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = d.Origins
		config.AllowCredentials = true
		config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
		config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		r.Use(cors.New(config))
	}

	r.Use(middleware.Session(d.Authenticator, d.Log))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", d.Auth.Signup)
			auth.POST("/login", d.Limiter.Limit("login", 5, 1*time.Minute), d.Auth.Login)
			auth.POST("/logout", d.Auth.Logout)
			auth.GET("/me", middleware.RequireUser(), d.Auth.Me)
		}
		courses := api.Group("/courses")
		courses.Use(middleware.RequireApproved())
		{
			courses.GET("", d.Courses.List)
			courses.GET("/:slug", d.Courses.Detail)
			courses.GET("/:slug/lessons/:lessonId", d.Courses.Lesson)
		}
	}

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/courses", d.Admin.Dashboard)
		admin.POST("/courses", d.Admin.Create)
		admin.POST("/courses/update", d.Admin.Update)
		admin.POST("/courses/reorder", d.Admin.ReorderCourses)
		admin.POST("/courses/videos/reorder", d.Admin.ReorderVideos)
		admin.POST("/courses/delete", d.Admin.Delete)

		admin.GET("/users", d.Users.List)
		admin.POST("/users/approve", d.Users.Approve)
		admin.POST("/users/revoke", d.Users.Revoke)
		admin.POST("/users/promote", d.Users.Promote)
	}

	return r
}
