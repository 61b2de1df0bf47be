package main

import (
	"net/http"
	"time"

	"inkwell/config"
	"inkwell/models"
	"inkwell/posts"
	"inkwell/routes"
	"inkwell/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(
		&models.Comment{},
		&models.Reaction{},
		&models.PostLike{},
		&models.AskSubmission{},
		&models.Tag{},
		&models.PageView{},
	)

	if err := utils.InitRedis(cfg); err != nil {
		utils.Sugar.Warnw("redis unavailable, caching disabled", "err", err)
	}

	store, err := posts.NewStore(cfg.PostsDir, cfg.DefaultSeries)
	if err != nil {
		utils.Sugar.Fatalw("post store init failed", "dir", cfg.PostsDir, "err", err)
	}

	router := routes.SetupRouter(cfg, db, store)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Sugar.Infow("listening", "port", cfg.AppPort)
	if err := utils.RunGraceful(srv); err != nil {
		utils.Sugar.Fatalw("server error", "err", err)
	}
}
