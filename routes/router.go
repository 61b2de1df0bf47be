package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inkwell/config"
	"inkwell/controllers"
	"inkwell/middleware"
	"inkwell/posts"
	"inkwell/services"
	"inkwell/utils"
)

// SetupRouter wires middleware, controllers and routes into a gin engine.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, store *posts.Store) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()

	accessLog := utils.NewRollingFileLogger(cfg.GinPath)
	r.Use(utils.Ginzap(accessLog))
	r.Use(utils.RecoveryWithZap(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.VisitorIdentity())
	r.Use(middleware.PageView(db))

	renderCache := posts.NewRenderCache(128)
	reactionSvc := services.NewReactionService(db)
	likeSvc := services.NewLikeService(db)
	tagSvc := services.NewTagService(db)
	notifier := services.NewNotifier(cfg)
	commentSvc := services.NewCommentService(db, reactionSvc, store, notifier, cfg.ModerationEnabled)
	askSvc := services.NewAskService(db, notifier)
	uploadSvc := services.NewUploadService(cfg)

	postCtl := controllers.NewPostController(store, renderCache, tagSvc)
	commentCtl := controllers.NewCommentController(commentSvc)
	reactionCtl := controllers.NewReactionController(reactionSvc)
	likeCtl := controllers.NewLikeController(likeSvc)
	askCtl := controllers.NewAskController(askSvc)
	adminCtl := controllers.NewAdminController(store, renderCache, tagSvc, commentSvc, askSvc)
	statsCtl := controllers.NewStatsController(db, store)
	uploadCtl := controllers.NewUploadController(uploadSvc)
	siteCtl := controllers.NewSiteController()

	writeLimit := middleware.RateLimit(cfg.RateLimitPerMinute)

	api := r.Group("/api")
	{
		api.GET("/site", siteCtl.Info)

		api.GET("/posts", postCtl.ListPosts)
		api.GET("/posts/:slug", postCtl.GetPost)
		api.GET("/tags", postCtl.ListTags)

		api.GET("/posts/:slug/comments", commentCtl.ListComments)
		api.POST("/comments", writeLimit, commentCtl.CreateComment)

		api.GET("/reactions/:subject_type/:subject_id", reactionCtl.GetReactions)
		api.POST("/reactions/:subject_type/:subject_id/toggle", writeLimit, reactionCtl.ToggleReaction)
		api.PUT("/reactions/:subject_type/:subject_id/display", writeLimit, reactionCtl.SetReactionDisplay)

		api.GET("/posts/:slug/like", likeCtl.GetLike)
		api.POST("/posts/:slug/like", writeLimit, likeCtl.ToggleLike)

		api.POST("/ask", writeLimit, askCtl.CreateAsk)

		api.POST("/admin/login", writeLimit, adminCtl.Login)
	}

	admin := api.Group("/admin", middleware.ModeratorAuth())
	{
		admin.POST("/logout", adminCtl.Logout)
		admin.GET("/me", adminCtl.Me)

		admin.POST("/posts", adminCtl.CreatePost)
		admin.GET("/posts/:slug", adminCtl.GetPostSource)
		admin.PUT("/posts/:slug", adminCtl.UpdatePost)
		admin.DELETE("/posts/:slug", adminCtl.DeletePost)

		admin.GET("/comments", adminCtl.ListModerationComments)
		admin.POST("/comments/:id/approve", adminCtl.ApproveComment)
		admin.DELETE("/comments/:id", adminCtl.DeleteComment)

		admin.GET("/asks", adminCtl.ListAsks)
		admin.GET("/stats/overview", statsCtl.Overview)
		admin.GET("/stats/pageviews", statsCtl.PageViews)
		admin.POST("/uploads", uploadCtl.UploadImage)
	}

	return r
}
