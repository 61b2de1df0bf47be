package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/config"
	"inkwell/middleware"
	"inkwell/posts"
	"inkwell/services"
	"inkwell/utils"
)

const sessionDuration = 7 * 24 * time.Hour

// AdminController is the hidden back office: session management, post
// authoring, comment moderation and the ask inbox.
type AdminController struct {
	store    *posts.Store
	render   *posts.RenderCache
	tags     *services.TagService
	comments *services.CommentService
	ask      *services.AskService
}

func NewAdminController(store *posts.Store, render *posts.RenderCache, tags *services.TagService, comments *services.CommentService, ask *services.AskService) *AdminController {
	return &AdminController{store: store, render: render, tags: tags, comments: comments, ask: ask}
}

// Login verifies the moderator credentials and sets the session cookie.
func (a *AdminController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, 400, 40060, "invalid request payload")
		return
	}

	cfg := config.Get()
	if req.Username != cfg.AdminUsername || !utils.CheckPassword(cfg.AdminPasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40160, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(req.Username, sessionDuration)
	if err != nil {
		utils.Sugar.Errorw("token generation failed", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to start session")
		return
	}

	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(middleware.SessionCookie, token, int(sessionDuration.Seconds()), "/", "", true, true)
	utils.Success(ctx, gin.H{"token": token})
}

// Logout revokes the current session token and clears the cookie.
func (a *AdminController) Logout(ctx *gin.Context) {
	if token, err := ctx.Cookie(middleware.SessionCookie); err == nil && token != "" {
		if claims, perr := utils.ParseToken(token); perr == nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			utils.BlacklistToken(ctx.Request.Context(), token, ttl)
		}
	}
	ctx.SetCookie(middleware.SessionCookie, "", -1, "/", "", true, true)
	utils.Success(ctx, gin.H{"logged_out": true})
}

// Me confirms the session and returns the moderator identity.
func (a *AdminController) Me(ctx *gin.Context) {
	username, _ := ctx.Get(middleware.ContextModeratorKey)
	utils.Success(ctx, gin.H{"username": username})
}

type postPayload struct {
	Slug          string   `json:"slug"`
	Title         string   `json:"title" binding:"required"`
	Date          string   `json:"date"`
	Excerpt       string   `json:"excerpt"`
	Tags          []string `json:"tags"`
	Series        string   `json:"series"`
	CoverImage    string   `json:"cover_image"`
	CoverImageAlt string   `json:"cover_image_alt"`
	Content       string   `json:"content" binding:"required"`
}

// CreatePost writes a new post file. The slug defaults to a normalized form
// of the title.
func (a *AdminController) CreatePost(ctx *gin.Context) {
	var req postPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, 400, 40061, "invalid request payload")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = posts.NormalizeSlug(req.Title)
	} else {
		slug = posts.NormalizeSlug(slug)
	}
	if !posts.ValidSlug(slug) {
		utils.Error(ctx, 400, 40062, "cannot derive a valid slug")
		return
	}
	if a.store.Exists(slug) {
		utils.Error(ctx, http.StatusConflict, 40960, "a post with this slug already exists")
		return
	}

	if err := a.writePost(ctx, slug, req); err != nil {
		return
	}
	utils.Success(ctx, gin.H{"slug": slug})
}

// UpdatePost replaces an existing post file.
func (a *AdminController) UpdatePost(ctx *gin.Context) {
	slug := ctx.Param("slug")
	if !posts.ValidSlug(slug) {
		utils.Error(ctx, 400, 40063, "invalid slug")
		return
	}
	if !a.store.Exists(slug) {
		utils.Error(ctx, http.StatusNotFound, 40460, "post not found")
		return
	}

	var req postPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, 400, 40061, "invalid request payload")
		return
	}

	if err := a.writePost(ctx, slug, req); err != nil {
		return
	}
	utils.Success(ctx, gin.H{"slug": slug})
}

func (a *AdminController) writePost(ctx *gin.Context, slug string, req postPayload) error {
	fm := posts.Frontmatter{
		Title:         req.Title,
		Date:          req.Date,
		Excerpt:       req.Excerpt,
		Tags:          req.Tags,
		Series:        req.Series,
		CoverImage:    req.CoverImage,
		CoverImageAlt: req.CoverImageAlt,
	}
	if err := a.store.Write(slug, fm, req.Content); err != nil {
		utils.Sugar.Errorw("post write failed", "slug", slug, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to save post")
		return err
	}
	if err := a.tags.Sync(ctx.Request.Context(), slug, req.Tags); err != nil {
		utils.Sugar.Warnw("tag sync failed", "slug", slug, "err", err)
	}
	a.invalidatePost(ctx, slug)
	return nil
}

// DeletePost removes the post file and its tag rows. Comments and reactions
// for the slug stay in the database until moderated away.
func (a *AdminController) DeletePost(ctx *gin.Context) {
	slug := ctx.Param("slug")
	err := a.store.Delete(slug)
	switch {
	case errors.Is(err, posts.ErrInvalidSlug):
		utils.Error(ctx, 400, 40063, "invalid slug")
		return
	case errors.Is(err, posts.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40460, "post not found")
		return
	case err != nil:
		utils.Sugar.Errorw("post delete failed", "slug", slug, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to delete post")
		return
	}

	if err := a.tags.Remove(ctx.Request.Context(), slug); err != nil {
		utils.Sugar.Warnw("tag cleanup failed", "slug", slug, "err", err)
	}
	a.invalidatePost(ctx, slug)
	utils.Success(ctx, gin.H{"deleted": slug})
}

func (a *AdminController) invalidatePost(ctx *gin.Context, slug string) {
	a.render.Invalidate(slug + ":")
	utils.CacheDelete(ctx.Request.Context(), "cache:posts:detail:"+slug, "cache:posts:tags")
	utils.InvalidateByPrefix(ctx.Request.Context(), "cache:posts:list:")
}

// GetPostSource returns the raw markdown of a post for the editor.
func (a *AdminController) GetPostSource(ctx *gin.Context) {
	slug := ctx.Param("slug")
	post, err := a.store.Get(slug)
	switch {
	case errors.Is(err, posts.ErrInvalidSlug):
		utils.Error(ctx, 400, 40063, "invalid slug")
		return
	case errors.Is(err, posts.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40460, "post not found")
		return
	case err != nil:
		utils.Sugar.Errorw("post load failed", "slug", slug, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// ListModerationComments returns comments for the moderation queue.
// Pass pending=true to see only unapproved ones.
func (a *AdminController) ListModerationComments(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	pendingOnly := ctx.Query("pending") == "true"

	rows, total, err := a.comments.ListModeration(ctx.Request.Context(), pendingOnly, (page-1)*pageSize, pageSize)
	if err != nil {
		respondServiceError(ctx, err, 50064, "failed to list comments")
		return
	}
	utils.Success(ctx, gin.H{
		"items": rows,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// ApproveComment makes a pending comment publicly visible.
func (a *AdminController) ApproveComment(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := a.comments.Approve(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err, 50065, "failed to approve comment")
		return
	}
	utils.Success(ctx, gin.H{"approved": id})
}

// DeleteComment removes a comment, its replies and their reactions.
func (a *AdminController) DeleteComment(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := a.comments.Delete(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, err, 50066, "failed to delete comment")
		return
	}
	utils.Success(ctx, gin.H{"deleted": id})
}

// ListAsks returns contact-form submissions newest-first.
func (a *AdminController) ListAsks(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	rows, total, err := a.ask.List(ctx.Request.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		respondServiceError(ctx, err, 50067, "failed to list questions")
		return
	}
	utils.Success(ctx, gin.H{
		"items": rows,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}
