package controllers

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/posts"
	"inkwell/services"
	"inkwell/utils"
)

// PostController serves the public read side of the blog: listings, single
// posts rendered to HTML, search and the tag index.
type PostController struct {
	store  *posts.Store
	render *posts.RenderCache
	tags   *services.TagService
}

func NewPostController(store *posts.Store, render *posts.RenderCache, tags *services.TagService) *PostController {
	return &PostController{store: store, render: render, tags: tags}
}

// postSummary strips the body for list views.
func postSummary(p *posts.Post) *posts.Post {
	c := *p
	c.Content = ""
	return &c
}

// ListPosts returns paginated post summaries, optionally filtered by search
// term or tag. Listings without a search term are cached.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.ToLower(strings.TrimSpace(ctx.Query("search")))
	tag := strings.TrimSpace(ctx.Query("tag"))

	cacheKey := fmt.Sprintf("cache:posts:list:tag=%s:page=%d:size=%d", tag, page, pageSize)
	if search == "" && serveCached(ctx, cacheKey) {
		return
	}

	all, err := p.store.List()
	if err != nil {
		utils.Sugar.Errorw("post listing failed", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list posts")
		return
	}

	if tag != "" {
		slugs, err := p.tags.SlugsFor(ctx.Request.Context(), tag)
		if err != nil {
			utils.Sugar.Errorw("tag lookup failed", "tag", tag, "err", err)
			utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list posts")
			return
		}
		want := make(map[string]struct{}, len(slugs))
		for _, s := range slugs {
			want[s] = struct{}{}
		}
		filtered := all[:0]
		for _, post := range all {
			if _, ok := want[post.Slug]; ok {
				filtered = append(filtered, post)
			}
		}
		all = filtered
	}

	if search != "" {
		filtered := all[:0]
		for _, post := range all {
			if strings.Contains(strings.ToLower(post.Title), search) ||
				strings.Contains(strings.ToLower(post.Excerpt), search) ||
				strings.Contains(strings.ToLower(post.Content), search) {
				filtered = append(filtered, post)
			}
		}
		all = filtered
	}

	total := len(all)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	items := make([]*posts.Post, 0, end-start)
	for _, post := range all[start:end] {
		items = append(items, postSummary(post))
	}

	payload := gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + pageSize - 1) / pageSize,
		},
	}
	if search == "" {
		cacheResponse(ctx.Request.Context(), cacheKey, payload)
	}
	utils.Success(ctx, payload)
}

// GetPost returns a single post with its markdown rendered to sanitized HTML.
func (p *PostController) GetPost(ctx *gin.Context) {
	slug := ctx.Param("slug")

	cacheKey := "cache:posts:detail:" + slug
	if serveCached(ctx, cacheKey) {
		return
	}

	post, err := p.store.Get(slug)
	if err != nil {
		switch {
		case errors.Is(err, posts.ErrInvalidSlug):
			utils.Error(ctx, http.StatusBadRequest, 40010, "invalid slug")
		case errors.Is(err, posts.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "post not found")
		default:
			utils.Sugar.Errorw("post load failed", "slug", slug, "err", err)
			utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load post")
		}
		return
	}

	html, err := p.renderHTML(post)
	if err != nil {
		utils.Sugar.Errorw("markdown render failed", "slug", slug, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to render post")
		return
	}

	payload := gin.H{"post": post, "html": html}
	cacheResponse(ctx.Request.Context(), cacheKey, payload)
	utils.Success(ctx, payload)
}

// renderHTML renders through the in-process cache, keyed by slug plus a
// content fingerprint so edits are picked up immediately.
func (p *PostController) renderHTML(post *posts.Post) (string, error) {
	sum := sha1.Sum([]byte(post.Content))
	key := post.Slug + ":" + hex.EncodeToString(sum[:6])
	if html, ok := p.render.Get(key); ok {
		return html, nil
	}
	html, err := posts.RenderMarkdown(post.Content)
	if err != nil {
		return "", err
	}
	p.render.Put(key, html)
	return html, nil
}

// ListTags returns every tag with its post count.
func (p *PostController) ListTags(ctx *gin.Context) {
	cacheKey := "cache:posts:tags"
	if serveCached(ctx, cacheKey) {
		return
	}

	tags, err := p.tags.List(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorw("tag listing failed", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to list tags")
		return
	}

	payload := gin.H{"tags": tags}
	cacheResponse(ctx.Request.Context(), cacheKey, payload)
	utils.Success(ctx, payload)
}
