package marketdesk

import (
	"context"
	"errors"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"

	"github.com/eringen/marketdesk/markdown"
	"github.com/eringen/marketdesk/model"
)

const (
	notPersistedUpdate = "Database not configured - update not persisted"
	notPersistedDelete = "Database not configured - delete not persisted"
)

var statusRule = validation.In(string(model.StatusDraft), string(model.StatusScheduled), string(model.StatusPublished))

// postUpdate holds the editable post fields. Nil fields are left alone.
type postUpdate struct {
	Content  *string   `json:"content"`
	Hashtags *[]string `json:"hashtags"`
	ImageURL *string   `json:"image_url"`
	VideoURL *string   `json:"video_url"`
	Status   *string   `json:"status"`
}

func (u postUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Status, statusRule),
	)
}

func (u postUpdate) apply(p *model.Post) {
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Hashtags != nil {
		p.Hashtags = FilterEmpty(*u.Hashtags)
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.VideoURL != nil {
		p.VideoURL = *u.VideoURL
	}
	if u.Status != nil {
		p.Status, _ = model.ParseStatus(*u.Status)
	}
}

// blogUpdate holds the editable blog fields. Nil fields are left alone.
type blogUpdate struct {
	Title             *string   `json:"title"`
	Slug              *string   `json:"slug"`
	Content           *string   `json:"content"`
	MetaTitle         *string   `json:"meta_title"`
	MetaDescription   *string   `json:"meta_description"`
	TargetKeyword     *string   `json:"target_keyword"`
	SecondaryKeywords *[]string `json:"secondary_keywords"`
	Status            *string   `json:"status"`
}

func (u blogUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Status, statusRule),
	)
}

func (u blogUpdate) apply(b *model.Blog, now time.Time) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&b.Title, u.Title)
	set(&b.Content, u.Content)
	set(&b.MetaTitle, u.MetaTitle)
	set(&b.MetaDescription, u.MetaDescription)
	set(&b.TargetKeyword, u.TargetKeyword)
	if u.Slug != nil {
		b.Slug = model.Slugify(*u.Slug)
	}
	if b.Slug == "" {
		b.Slug = model.Slugify(b.Title)
	}
	if u.SecondaryKeywords != nil {
		b.SecondaryKeywords = FilterEmpty(*u.SecondaryKeywords)
	}
	if u.Status != nil {
		b.Status, _ = model.ParseStatus(*u.Status)
	}
	if b.Status == model.StatusPublished && b.PublishedAt == nil {
		t := now.UTC()
		b.PublishedAt = &t
	}
	b.WordCount = model.CountWords(b.Content)
}

func notConfigured(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": msg})
}

// orphaned reports whether id names an account that no longer exists.
// Children left behind by a failed cascade stay hidden from list queries.
func (a *App) orphaned(ctx context.Context, id string) bool {
	_, err := a.Cache.Get(ctx, id)
	return errors.Is(err, ErrNotFound)
}

func (a *App) handleListPosts(c echo.Context) error {
	ctx := c.Request().Context()
	if a.orphaned(ctx, c.Param("id")) {
		return c.JSON(http.StatusOK, []model.Post{})
	}
	posts, err := a.Store.ListPosts(ctx, c.Param("id"))
	if errors.Is(err, ErrNotConfigured) {
		return c.JSON(http.StatusOK, []model.Post{})
	}
	if err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to fetch posts", err)
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleUpdatePost(c echo.Context) error {
	ctx := c.Request().Context()
	var u postUpdate
	if err := bindJSON(c, &u); err != nil {
		return err
	}
	p, err := a.Store.GetPost(ctx, c.Param("id"))
	if errors.Is(err, ErrNotConfigured) {
		return notConfigured(c, notPersistedUpdate)
	}
	if err != nil {
		return lookupErr("Post", err)
	}
	u.apply(&p)
	if err := a.Store.UpdatePost(ctx, &p); err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to update post", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "post": p})
}

func (a *App) handleDeletePost(c echo.Context) error {
	err := a.Store.DeletePost(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNotConfigured):
		return notConfigured(c, notPersistedDelete)
	case errors.Is(err, ErrNotFound):
		return newAPIError(http.StatusNotFound, "Post not found", nil)
	case err != nil:
		return newAPIError(http.StatusInternalServerError, "Failed to delete post", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (a *App) handleListBlogs(c echo.Context) error {
	ctx := c.Request().Context()
	if a.orphaned(ctx, c.Param("id")) {
		return c.JSON(http.StatusOK, []model.Blog{})
	}
	blogs, err := a.Store.ListBlogs(ctx, c.Param("id"))
	if errors.Is(err, ErrNotConfigured) {
		return c.JSON(http.StatusOK, []model.Blog{})
	}
	if err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to fetch blogs", err)
	}
	return c.JSON(http.StatusOK, blogs)
}

func (a *App) handleUpdateBlog(c echo.Context) error {
	ctx := c.Request().Context()
	var u blogUpdate
	if err := bindJSON(c, &u); err != nil {
		return err
	}
	b, err := a.Store.GetBlog(ctx, c.Param("id"))
	if errors.Is(err, ErrNotConfigured) {
		return notConfigured(c, notPersistedUpdate)
	}
	if err != nil {
		return lookupErr("Blog", err)
	}
	u.apply(&b, time.Now())
	if err := a.Store.UpdateBlog(ctx, &b); err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to update blog", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "blog": b})
}

func (a *App) handleDeleteBlog(c echo.Context) error {
	err := a.Store.DeleteBlog(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNotConfigured):
		return notConfigured(c, notPersistedDelete)
	case errors.Is(err, ErrNotFound):
		return newAPIError(http.StatusNotFound, "Blog not found", nil)
	case err != nil:
		return newAPIError(http.StatusInternalServerError, "Failed to delete blog", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// handlePreviewBlog renders a blog as an HTML fragment.
func (a *App) handlePreviewBlog(c echo.Context) error {
	b, err := a.Store.GetBlog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return lookupErr("Blog", err)
	}
	return Render(c, markdown.Article(b.Title, b.Content))
}
