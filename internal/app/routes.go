package app

import (
	"Bookmarker/internal/auth"
	"Bookmarker/internal/cache"
	"Bookmarker/internal/config"
	"Bookmarker/internal/handlers"
	"Bookmarker/internal/repo"
	"Bookmarker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(tokens, userSvc)
	registerAuthRoutes(r, authHandler)

	protected := r.Group("", auth.RequireAuth(tokens))
	userHandler := handlers.NewUserHandler(userSvc)
	registerUserRoutes(protected, userHandler)

	bookmarkRepo := repo.NewPGBookmarkRepo(db)
	bookmarkCache := cache.NewBookmarkCache(rdb, cfg.Redis.DefaultTTL.Duration())
	bookmarkSvc := service.NewBookmarkService(bookmarkRepo, bookmarkCache)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkSvc)
	registerBookmarkRoutes(protected, bookmarkHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Bookmarker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(r *gin.Engine, h *handlers.AuthHandler) {
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/signin", h.Signin)
}

func registerUserRoutes(g *gin.RouterGroup, h *handlers.UserHandler) {
	g.GET("/users/get-self", h.GetSelf)
	g.PATCH("/users/edit", h.Edit)
}

func registerBookmarkRoutes(g *gin.RouterGroup, h *handlers.BookmarkHandler) {
	g.POST("/bookmarks", h.Create)
	g.GET("/bookmarks", h.List)
	g.GET("/bookmarks/:id", h.GetByID)
	g.PATCH("/bookmarks/:id", h.Edit)
	g.DELETE("/bookmarks/:id", h.Delete)
}
