package controllers

import (
	"github.com/gin-gonic/gin"

	"inkwell/middleware"
	"inkwell/models"
	"inkwell/services"
	"inkwell/utils"
)

// ReactionController exposes emoji reactions on posts and comments.
type ReactionController struct {
	reactions *services.ReactionService
}

func NewReactionController(reactions *services.ReactionService) *ReactionController {
	return &ReactionController{reactions: reactions}
}

func parseSubject(ctx *gin.Context) (models.SubjectType, string, bool) {
	st := models.SubjectType(ctx.Param("subject_type"))
	id := ctx.Param("subject_id")
	if st != models.SubjectPost && st != models.SubjectComment {
		utils.Error(ctx, 400, 40030, "unknown subject type")
		return "", "", false
	}
	return st, id, true
}

// ToggleReaction applies the visitor's reaction toggle and returns the fresh
// aggregate for the subject.
func (rc *ReactionController) ToggleReaction(ctx *gin.Context) {
	st, id, ok := parseSubject(ctx)
	if !ok {
		return
	}

	var req struct {
		Kind        string `json:"kind" binding:"required"`
		Anonymous   *bool  `json:"anonymous"`
		DisplayName string `json:"display_name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, 400, 40031, "invalid request payload")
		return
	}
	anonymous := true
	if req.Anonymous != nil {
		anonymous = *req.Anonymous
	}

	viewerID := middleware.VisitorID(ctx)
	outcome, err := rc.reactions.Toggle(ctx.Request.Context(), services.ToggleInput{
		SubjectType: st,
		SubjectID:   id,
		UserID:      viewerID,
		Kind:        req.Kind,
		Anonymous:   anonymous,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondServiceError(ctx, err, 50030, "failed to toggle reaction")
		return
	}

	summary, err := rc.reactions.Aggregate(ctx.Request.Context(), st, id, viewerID, false)
	if err != nil {
		respondServiceError(ctx, err, 50031, "failed to load reactions")
		return
	}
	utils.Success(ctx, gin.H{"outcome": outcome, "reactions": summary})
}

// SetReactionDisplay changes only the anonymity flag / shown name of the
// visitor's existing reaction.
func (rc *ReactionController) SetReactionDisplay(ctx *gin.Context) {
	st, id, ok := parseSubject(ctx)
	if !ok {
		return
	}

	var req struct {
		Anonymous   bool   `json:"anonymous"`
		DisplayName string `json:"display_name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, 400, 40032, "invalid request payload")
		return
	}

	viewerID := middleware.VisitorID(ctx)
	err := rc.reactions.SetDisplay(ctx.Request.Context(), st, id, viewerID, req.Anonymous, req.DisplayName)
	if err != nil {
		respondServiceError(ctx, err, 50032, "failed to update display preference")
		return
	}
	utils.Success(ctx, gin.H{"updated": true})
}

// GetReactions returns the aggregate for a subject. Pass names=true for the
// per-kind list of non-anonymous display names.
func (rc *ReactionController) GetReactions(ctx *gin.Context) {
	st, id, ok := parseSubject(ctx)
	if !ok {
		return
	}

	includeNames := ctx.Query("names") == "true"
	viewerID := middleware.VisitorID(ctx)

	summary, err := rc.reactions.Aggregate(ctx.Request.Context(), st, id, viewerID, includeNames)
	if err != nil {
		respondServiceError(ctx, err, 50033, "failed to load reactions")
		return
	}
	utils.Success(ctx, gin.H{"reactions": summary})
}
