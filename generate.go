package marketdesk

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/marketdesk/content"
	"github.com/eringen/marketdesk/landing"
	"github.com/eringen/marketdesk/model"
	"github.com/eringen/marketdesk/trending"
)

// failureDetails joins the per-item failures of a batch.
func failureDetails(fs []content.ItemError) error {
	msgs := make([]string, len(fs))
	for i, f := range fs {
		msgs[i] = f.Error
	}
	return errors.Join(content.ErrNothingGenerated, errors.New(strings.Join(msgs, "; ")))
}

type postsResponse struct {
	Posts    []model.Post        `json:"posts"`
	Failures []content.ItemError `json:"failures,omitempty"`
}

func (a *App) handleGeneratePosts(c echo.Context) error {
	acct, err := a.loadAccount(c)
	if err != nil {
		return err
	}
	var req content.PostRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	batch := a.Content.GeneratePosts(c.Request().Context(), acct, req)
	if len(batch.Items) == 0 {
		return newAPIError(http.StatusInternalServerError, "Failed to generate any posts", failureDetails(batch.Failures))
	}
	a.Log.Info("posts generated",
		zap.String("account", acct.ID),
		zap.Int("count", len(batch.Items)),
		zap.Int("failed", len(batch.Failures)))
	return c.JSON(http.StatusOK, postsResponse{Posts: batch.Items, Failures: batch.Failures})
}

type blogsResponse struct {
	Blogs    []model.Blog        `json:"blogs"`
	Failures []content.ItemError `json:"failures,omitempty"`
}

func (a *App) handleGenerateBlogs(c echo.Context) error {
	acct, err := a.loadAccount(c)
	if err != nil {
		return err
	}
	var req content.BlogRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	batch := a.Content.GenerateBlogs(c.Request().Context(), acct, req)
	if len(batch.Items) == 0 {
		return newAPIError(http.StatusInternalServerError, "Failed to generate any blogs", failureDetails(batch.Failures))
	}
	a.Log.Info("blogs generated",
		zap.String("account", acct.ID),
		zap.Int("count", len(batch.Items)),
		zap.Int("failed", len(batch.Failures)))
	return c.JSON(http.StatusOK, blogsResponse{Blogs: batch.Items, Failures: batch.Failures})
}

type keywordResponse struct {
	model.KeywordAnalysis
	Fallback bool   `json:"fallback"`
	Warning  string `json:"warning,omitempty"`
}

func (a *App) handleAnalyzeKeywords(c echo.Context) error {
	acct, err := a.loadAccount(c)
	if err != nil {
		return err
	}
	res := a.Content.AnalyzeKeywords(c.Request().Context(), acct)
	return c.JSON(http.StatusOK, keywordResponse{
		KeywordAnalysis: res.Value,
		Fallback:        res.IsDegraded(),
		Warning:         res.Reason,
	})
}

func (a *App) handleTrendingTopics(c echo.Context) error {
	acct, err := a.loadAccount(c)
	if err != nil {
		return err
	}
	_, topics := a.Topics.Topics(acct, trending.DefaultCount)
	return c.JSON(http.StatusOK, topics)
}

type landingResponse struct {
	Prompt     string `json:"prompt"`
	BuilderURL string `json:"builder_url"`
}

func (a *App) handleLandingPrompt(c echo.Context) error {
	acct, err := a.loadAccount(c)
	if err != nil {
		return err
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}
	var form landing.Form
	if err := decodeJSON(body, &form); err != nil {
		return err
	}
	form.Prefill(acct)
	if err := form.Validate(); err != nil {
		return newAPIError(http.StatusBadRequest, "invalid request", err)
	}
	prompt := landing.Prompt(acct, form)
	return c.JSON(http.StatusOK, landingResponse{Prompt: prompt, BuilderURL: landing.BuilderURL(prompt)})
}
