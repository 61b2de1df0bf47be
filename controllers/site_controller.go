package controllers

import (
	"github.com/gin-gonic/gin"

	"inkwell/config"
	"inkwell/utils"
)

// SiteController serves the public site metadata.
type SiteController struct{}

func NewSiteController() *SiteController {
	return &SiteController{}
}

// Info returns the site name, URL and default series for the frontend shell.
func (s *SiteController) Info(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"name":   cfg.SiteName,
		"url":    cfg.SiteURL,
		"series": cfg.DefaultSeries,
	})
}
