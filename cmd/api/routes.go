package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// simple logger middleware that uses zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "duration", time.Since(start))
	})

	// CORS Middleware
	trusted := app.Config.GetCORSOrigins()
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, o := range trusted {
			if strings.EqualFold(o, origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/signup", app.Handler.SignUp)
		v1.POST("/login", app.Handler.Login)

		// candidate-facing routes
		v1.POST("/candidates", app.Handler.CreateCandidate)
		v1.POST("/resume/extract", app.Handler.ExtractResume)

		v1.POST("/interviews", app.Handler.StartInterview)
		v1.POST("/interviews/check", app.Handler.CheckSession)
		v1.GET("/interviews/:id", app.Handler.GetSession)
		v1.POST("/interviews/:id/answers", app.Handler.SubmitAnswer)
		v1.POST("/interviews/:id/pause", app.Handler.PauseSession)
		v1.POST("/interviews/:id/resume", app.Handler.ResumeSession)
		v1.POST("/interviews/:id/restore", app.Handler.RestoreSession)
		v1.DELETE("/interviews/:id", app.Handler.ResetSession)
	}

	// interviewer dashboard
	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		protected.GET("/candidates", app.Handler.ListCandidates)
		protected.GET("/candidates/:id", app.Handler.GetCandidate)
	}

	return r
}
