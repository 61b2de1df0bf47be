package controllers

import (
	"github.com/gin-gonic/gin"

	"inkwell/middleware"
	"inkwell/services"
	"inkwell/utils"
)

// LikeController exposes the simple per-post like counter.
type LikeController struct {
	likes *services.LikeService
}

func NewLikeController(likes *services.LikeService) *LikeController {
	return &LikeController{likes: likes}
}

// ToggleLike flips the visitor's like and returns the new state.
func (lc *LikeController) ToggleLike(ctx *gin.Context) {
	slug := ctx.Param("slug")
	viewerID := middleware.VisitorID(ctx)

	state, err := lc.likes.Toggle(ctx.Request.Context(), slug, viewerID)
	if err != nil {
		respondServiceError(ctx, err, 50040, "failed to toggle like")
		return
	}
	utils.Success(ctx, gin.H{"like": state})
}

// GetLike returns the like count and the visitor's own state.
func (lc *LikeController) GetLike(ctx *gin.Context) {
	slug := ctx.Param("slug")
	viewerID := middleware.VisitorID(ctx)

	state, err := lc.likes.State(ctx.Request.Context(), slug, viewerID)
	if err != nil {
		respondServiceError(ctx, err, 50041, "failed to load like state")
		return
	}
	utils.Success(ctx, gin.H{"like": state})
}
