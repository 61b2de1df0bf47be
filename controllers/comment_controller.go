package controllers

import (
	"github.com/gin-gonic/gin"

	"inkwell/middleware"
	"inkwell/services"
	"inkwell/utils"
)

// CommentController exposes the public comment thread.
type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// CreateComment accepts a visitor comment or reply.
func (cc *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		PostSlug string `json:"post_slug" binding:"required"`
		ParentID string `json:"parent_id"`
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email"`
		Message  string `json:"message" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, 400, 40020, "invalid request payload")
		return
	}

	comment, err := cc.comments.Create(ctx.Request.Context(), services.CreateCommentInput{
		PostSlug: req.PostSlug,
		ParentID: req.ParentID,
		Name:     req.Name,
		Email:    req.Email,
		Message:  req.Message,
	})
	if err != nil {
		respondServiceError(ctx, err, 50020, "failed to create comment")
		return
	}

	utils.Success(ctx, gin.H{"comment": comment, "pending": !comment.Approved})
}

// ListComments returns the approved thread for a post. The response depends
// on the viewer (own reaction kinds), so it is not cached.
func (cc *CommentController) ListComments(ctx *gin.Context) {
	slug := ctx.Param("slug")
	viewerID := middleware.VisitorID(ctx)

	thread, err := cc.comments.ListForPost(ctx.Request.Context(), slug, true, viewerID)
	if err != nil {
		respondServiceError(ctx, err, 50021, "failed to list comments")
		return
	}
	if thread == nil {
		thread = []*services.CommentView{}
	}
	utils.Success(ctx, gin.H{"comments": thread})
}
