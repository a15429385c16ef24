package marketdesk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/marketdesk/analyzer"
	"github.com/eringen/marketdesk/model"
)

// accountView is the read shape of an account, with derived fields.
type accountView struct {
	model.Account
	PostingFrequency string            `json:"posting_frequency"`
	BrandVoice       string            `json:"brand_voice"`
	SocialMediaURLs  map[string]string `json:"social_media_urls"`
}

func newAccountView(a model.Account) accountView {
	model.NormalizeAccount(&a)
	return accountView{
		Account:          a,
		PostingFrequency: fmt.Sprintf("%d posts per month", a.MonthlyPostCount),
		BrandVoice:       a.Tone,
		SocialMediaURLs:  a.SocialURLs(),
	}
}

// accountAliases are older field spellings still accepted on writes.
type accountAliases struct {
	SocialMediaURLs  map[string]string        `json:"social_media_urls"`
	ServiceLocations *[]model.ServiceLocation `json:"serviceLocations"`
	TargetRegions    *[]model.TargetRegion    `json:"targetRegions"`
	LocationStrategy string                   `json:"locationStrategy"`
	BrandVoice       string                   `json:"brand_voice"`
}

// apply copies the aliases into a. An alias is ignored when the body also
// carries the canonical field, as in a read view sent back unchanged.
func (al accountAliases) apply(a *model.Account, present map[string]json.RawMessage) {
	has := func(key string) bool {
		_, ok := present[key]
		return ok
	}
	links := map[string]*string{
		"facebook":  &a.FacebookURL,
		"instagram": &a.InstagramURL,
		"twitter":   &a.TwitterURL,
		"linkedin":  &a.LinkedinURL,
		"youtube":   &a.YoutubeURL,
		"tiktok":    &a.TiktokURL,
		"pinterest": &a.PinterestURL,
	}
	for platform, u := range al.SocialMediaURLs {
		if dst, ok := links[platform]; ok && !has(platform+"_url") {
			*dst = u
		}
	}
	if al.ServiceLocations != nil && !has("service_locations") {
		a.ServiceLocations = *al.ServiceLocations
	}
	if al.TargetRegions != nil && !has("target_regions") {
		a.TargetRegions = *al.TargetRegions
	}
	if al.LocationStrategy != "" && !has("location_strategy") {
		a.LocationStrategy = al.LocationStrategy
	}
	if al.BrandVoice != "" && !has("tone") {
		a.Tone = al.BrandVoice
	}
}

// decodeAccount merges body over a, including the legacy aliases.
func decodeAccount(body []byte, a *model.Account) error {
	if err := decodeJSON(body, a); err != nil {
		return err
	}
	var (
		al      accountAliases
		present map[string]json.RawMessage
	)
	if err := decodeJSON(body, &al); err != nil {
		return err
	}
	if err := decodeJSON(body, &present); err != nil {
		return err
	}
	al.apply(a, present)
	return nil
}

func validateNewAccount(a model.Account) error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Industry, validation.Required),
	)
}

// loadAccount fetches the account named by the :id path parameter.
func (a *App) loadAccount(c echo.Context) (model.Account, error) {
	acct, err := a.Cache.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return model.Account{}, lookupErr("Account", err)
	}
	return acct, nil
}

func (a *App) handleListAccounts(c echo.Context) error {
	accounts, err := a.Cache.List(c.Request().Context())
	if errors.Is(err, ErrNotConfigured) {
		return c.JSON(http.StatusOK, []accountView{})
	}
	if err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to fetch accounts", err)
	}
	views := make([]accountView, len(accounts))
	for i, acct := range accounts {
		views[i] = newAccountView(acct)
	}
	return c.JSON(http.StatusOK, views)
}

func (a *App) handleCreateAccount(c echo.Context) error {
	body, err := readBody(c)
	if err != nil {
		return err
	}
	var acct model.Account
	if err := decodeAccount(body, &acct); err != nil {
		return err
	}
	if err := validateNewAccount(acct); err != nil {
		return newAPIError(http.StatusBadRequest, "invalid request", err)
	}
	acct.ID = ""
	if err := a.Store.CreateAccount(c.Request().Context(), &acct); err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to create account", err)
	}
	a.Cache.Invalidate()
	a.Log.Info("account created", zap.String("account", acct.ID), zap.String("name", acct.Name))
	return c.JSON(http.StatusCreated, newAccountView(acct))
}

func (a *App) handleGetAccount(c echo.Context) error {
	acct, err := a.loadAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newAccountView(acct))
}

// handleUpdateAccount merges the body over the stored account. Fields the body
// omits keep their stored values.
func (a *App) handleUpdateAccount(c echo.Context) error {
	ctx := c.Request().Context()
	acct, err := a.Store.GetAccount(ctx, c.Param("id"))
	if err != nil {
		return lookupErr("Account", err)
	}
	body, err := readBody(c)
	if err != nil {
		return err
	}
	id, created := acct.ID, acct.CreatedAt
	if err := decodeAccount(body, &acct); err != nil {
		return err
	}
	acct.ID, acct.CreatedAt = id, created

	if err := a.Store.UpdateAccount(ctx, &acct); err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to update account", err)
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, newAccountView(acct))
}

// handleDeleteAccount removes the account's posts and blogs, then the account.
// Child deletions are best-effort.
func (a *App) handleDeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	log := a.Log.With(zap.String("account", id))

	if err := a.Store.DeletePostsByAccount(ctx, id); err != nil {
		log.Warn("delete account posts", zap.Error(err))
	}
	if err := a.Store.DeleteBlogsByAccount(ctx, id); err != nil {
		log.Warn("delete account blogs", zap.Error(err))
	}
	err := a.Store.DeleteAccount(ctx, id)
	a.Cache.Invalidate()
	if errors.Is(err, ErrNotFound) {
		return newAPIError(http.StatusNotFound, "Account not found", nil)
	}
	if err != nil {
		return newAPIError(http.StatusInternalServerError, "Failed to delete account", err)
	}
	log.Info("account deleted")
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Account and all related data deleted successfully",
	})
}

type analyzeRequest struct {
	URL string `json:"url"`
}

func (r analyzeRequest) Validate() error { return nil }

// handleAnalyzeWebsite profiles any URL. It always answers 200.
func (a *App) handleAnalyzeWebsite(c echo.Context) error {
	var req analyzeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	res := a.Analyzer.Analyze(c.Request().Context(), req.URL)
	return c.JSON(http.StatusOK, analyzer.Report(res))
}

// handleAccountAnalyzeWebsite profiles the account's site and fills the
// account fields that are still empty.
func (a *App) handleAccountAnalyzeWebsite(c echo.Context) error {
	ctx := c.Request().Context()
	acct, err := a.Store.GetAccount(ctx, c.Param("id"))
	if err != nil {
		return lookupErr("Account", err)
	}
	var req analyzeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.URL == "" {
		req.URL = acct.WebsiteURL
	}
	res := a.Analyzer.Analyze(ctx, req.URL)
	profile := analyzer.Report(res)
	if req.URL != "" && res.Reason != analyzer.ReasonNoURL {
		if acct.WebsiteURL == "" {
			acct.WebsiteURL = req.URL
		}
		profile.ApplyTo(&acct)
		if err := a.Store.UpdateAccount(ctx, &acct); err != nil {
			return newAPIError(http.StatusInternalServerError, "Failed to update account", err)
		}
		a.Cache.Invalidate()
	}
	return c.JSON(http.StatusOK, map[string]any{
		"account":  newAccountView(acct),
		"analysis": profile,
	})
}
