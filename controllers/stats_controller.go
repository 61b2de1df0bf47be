package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"inkwell/models"
	"inkwell/posts"
	"inkwell/utils"
)

// StatsController serves back office dashboards: content totals and page
// view aggregates.
type StatsController struct {
	db    *gorm.DB
	store *posts.Store
}

func NewStatsController(db *gorm.DB, store *posts.Store) *StatsController {
	return &StatsController{db: db, store: store}
}

// Overview returns content and engagement totals.
func (s *StatsController) Overview(ctx *gin.Context) {
	dbCtx := s.db.WithContext(ctx.Request.Context())

	var comments, pending, reactions, likes, asks int64
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.Comment{}, &comments},
		{&models.Reaction{}, &reactions},
		{&models.PostLike{}, &likes},
		{&models.AskSubmission{}, &asks},
	}
	for _, c := range counts {
		if err := dbCtx.Model(c.model).Count(c.dst).Error; err != nil {
			utils.Sugar.Errorw("stats count failed", "err", err)
			utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load stats")
			return
		}
	}
	if err := dbCtx.Model(&models.Comment{}).Where("approved = ?", false).Count(&pending).Error; err != nil {
		utils.Sugar.Errorw("stats count failed", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load stats")
		return
	}

	postCount := 0
	if list, err := s.store.List(); err == nil {
		postCount = len(list)
	}

	utils.Success(ctx, gin.H{
		"posts":            postCount,
		"comments":         comments,
		"pending_comments": pending,
		"reactions":        reactions,
		"likes":            likes,
		"asks":             asks,
	})
}

// PageViews returns daily totals for the last N days (default 30) plus the
// most viewed paths in that window.
func (s *StatsController) PageViews(ctx *gin.Context) {
	days := 30
	if d, err := strconv.Atoi(ctx.Query("days")); err == nil && d >= 1 && d <= 365 {
		days = d
	}
	since := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	var daily []struct {
		Date  time.Time `json:"date"`
		Total int64     `json:"total"`
	}
	err := s.db.WithContext(ctx.Request.Context()).Model(&models.PageView{}).
		Select("date, sum(count) as total").
		Where("date >= ?", since).
		Group("date").
		Order("date ASC").
		Scan(&daily).Error
	if err != nil {
		utils.Sugar.Errorw("page view stats failed", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load stats")
		return
	}

	var topPaths []struct {
		Path  string `json:"path"`
		Total int64  `json:"total"`
	}
	err = s.db.WithContext(ctx.Request.Context()).Model(&models.PageView{}).
		Select("path, sum(count) as total").
		Where("date >= ?", since).
		Group("path").
		Order("total DESC").
		Limit(10).
		Scan(&topPaths).Error
	if err != nil {
		utils.Sugar.Errorw("page view stats failed", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load stats")
		return
	}

	utils.Success(ctx, gin.H{"daily": daily, "top_paths": topPaths, "days": days})
}
