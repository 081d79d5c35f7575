package server

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/folio-api/internal/config"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
	"github.com/yukikurage/folio-api/internal/handlers"
	"github.com/yukikurage/folio-api/internal/middleware"
	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/repository"
	"github.com/yukikurage/folio-api/internal/services"
	"gorm.io/gorm"
)

// NewRouter builds the engine with every route and the global middleware chain.
// authService may be nil, in which case one is built from cfg.JWT.
func NewRouter(cfg *config.Config, db *gorm.DB, log zerolog.Logger, authService *services.AuthService) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.RegisterValidators()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Services
	if authService == nil {
		authService = services.NewAuthService(userRepo, services.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn))
	}
	articleService := services.NewArticleService(articleRepo, taxonomyRepo)
	projectService := services.NewProjectService(projectRepo, taxonomyRepo)
	taxonomyService := services.NewTaxonomyService(taxonomyRepo)
	commentService := services.NewCommentService(commentRepo, articleRepo)
	statsService := services.NewStatsService(statsRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	articleHandler := handlers.NewArticleHandler(articleService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyService)
	commentHandler := handlers.NewCommentHandler(commentService)
	statsHandler := handlers.NewStatsHandler(statsService)
	healthHandler := handlers.NewHealthHandler(db, log)

	production := cfg.IsProduction()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	// gzip must wrap ErrorHandler: the backstop writes after the handlers return
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.ErrorHandler(log, production))
	r.Use(middleware.Recovery(log, production))
	r.Use(middleware.SecureHeaders(production))
	r.Use(middleware.CORS(cfg.CORS.Origin))

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, apierrors.MsgRouteNotFound)
	})

	requireAuth := middleware.RequireAuth(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, log))
	api.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	v1 := api.Group("/v1")
	{
		health := v1.Group("/health")
		{
			health.GET("", healthHandler.Liveness)
			health.GET("/db", healthHandler.Readiness)
		}

		users := v1.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)

			profile := users.Group("/profile")
			profile.Use(requireAuth)
			{
				profile.GET("", authHandler.GetProfile)
				profile.PUT("", authHandler.UpdateProfile)
				profile.DELETE("", authHandler.DeleteProfile)
			}
		}

		articles := v1.Group("/articles")
		{
			articles.GET("", optionalAuth, articleHandler.ListArticles)
			articles.GET("/:id", optionalAuth, articleHandler.GetArticle)
			articles.POST("", requireAuth, articleHandler.CreateArticle)
			articles.PUT("/:id", requireAuth, articleHandler.UpdateArticle)
			articles.DELETE("/:id", requireAuth, articleHandler.DeleteArticle)

			articles.GET("/:id/comments", commentHandler.ListComments)
			articles.POST("/:id/comments", requireAuth, commentHandler.CreateComment)
		}

		comments := v1.Group("/comments")
		comments.Use(requireAuth)
		{
			comments.PUT("/:id/approve", middleware.RequireRole(models.RoleAdmin), commentHandler.ApproveComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		projects := v1.Group("/projects")
		{
			projects.GET("", optionalAuth, projectHandler.ListProjects)
			projects.GET("/:id", optionalAuth, projectHandler.GetProject)
			projects.POST("", requireAuth, projectHandler.CreateProject)
			projects.PUT("/:id", requireAuth, projectHandler.UpdateProject)
			projects.DELETE("/:id", requireAuth, projectHandler.DeleteProject)
		}

		editors := []gin.HandlerFunc{requireAuth, middleware.RequireRole(models.RoleAdmin, models.RoleAuthor)}
		admins := []gin.HandlerFunc{requireAuth, middleware.RequireRole(models.RoleAdmin)}

		v1.GET("/categories", taxonomyHandler.ListCategories)
		v1.POST("/categories", append(editors, taxonomyHandler.CreateCategory)...)
		v1.DELETE("/categories/:id", append(admins, taxonomyHandler.DeleteCategory)...)

		v1.GET("/tags", taxonomyHandler.ListTags)
		v1.POST("/tags", append(editors, taxonomyHandler.CreateTag)...)

		v1.GET("/technologies", taxonomyHandler.ListTechnologies)
		v1.POST("/technologies", append(editors, taxonomyHandler.CreateTechnology)...)

		v1.GET("/stats", statsHandler.GetStats)
		v1.PUT("/stats/:key", append(admins, statsHandler.SetStat)...)
	}

	return r
}
