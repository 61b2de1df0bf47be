package controllers

import (
	"github.com/gin-gonic/gin"

	"inkwell/services"
	"inkwell/utils"
)

// AskController accepts contact-form questions.
type AskController struct {
	ask *services.AskService
}

func NewAskController(ask *services.AskService) *AskController {
	return &AskController{ask: ask}
}

// CreateAsk stores a question and notifies the site owner by email.
func (ac *AskController) CreateAsk(ctx *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required"`
		Subject string `json:"subject" binding:"required"`
		Message string `json:"message" binding:"required"`
		Ref     string `json:"ref"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, 400, 40050, "invalid request payload")
		return
	}

	submission, err := ac.ask.Create(ctx.Request.Context(), services.CreateAskInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		Ref:     req.Ref,
	})
	if err != nil {
		respondServiceError(ctx, err, 50050, "failed to submit question")
		return
	}
	utils.Success(ctx, gin.H{"id": submission.ID})
}
