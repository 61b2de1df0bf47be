package controllers

import (
	"io"

	"github.com/gin-gonic/gin"

	"inkwell/services"
	"inkwell/utils"
)

// UploadController proxies cover-image uploads to the image CDN.
type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// UploadImage accepts a multipart file and returns the CDN URL.
func (uc *UploadController) UploadImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		utils.Error(ctx, 400, 40070, "missing file")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.Error(ctx, 400, 40071, "unreadable file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, 6*1024*1024))
	if err != nil {
		utils.Error(ctx, 400, 40071, "unreadable file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := uc.uploads.Upload(ctx.Request.Context(), fileHeader.Filename, data, contentType)
	if err != nil {
		respondServiceError(ctx, err, 50071, "upload failed")
		return
	}
	utils.Success(ctx, gin.H{"url": url})
}
