package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/services"
	"inkwell/utils"
)

const responseCacheTTL = time.Hour

// parsePagination normalizes page/page_size query values.
func parsePagination(pageStr, sizeStr string) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// cacheResponse stores the full success envelope so cache hits can be served
// as raw bytes without re-marshalling.
func cacheResponse(ctx context.Context, key string, payload interface{}) {
	utils.CacheSetJSON(ctx, key, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, responseCacheTTL)
}

// serveCached writes a cached envelope when present.
func serveCached(ctx *gin.Context, key string) bool {
	if b, ok := utils.CacheGetBytes(ctx.Request.Context(), key); ok {
		ctx.Data(200, "application/json", b)
		return true
	}
	return false
}

// respondServiceError maps service layer errors onto the response envelope.
func respondServiceError(ctx *gin.Context, err error, internalCode int, internalMsg string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.FieldErrors(ctx, 40001, ve.Fields)
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	case errors.Is(err, services.ErrConflict):
		utils.Error(ctx, http.StatusConflict, 40900, "conflict with current state")
	default:
		utils.Sugar.Errorw(internalMsg, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, internalCode, internalMsg)
	}
}
