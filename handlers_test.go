package marketdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/eringen/marketdesk/media"
	"github.com/eringen/marketdesk/model"
	"github.com/eringen/marketdesk/textgen"
)

// newTestApp builds an initialized App over a temporary SQLite store and
// blob directory, with auth disabled and no batch throttling.
func newTestApp(t *testing.T, cfg Config, opts ...Option) (*App, *SQLStore) {
	t.Helper()
	if cfg.AdminPassword == "" {
		cfg.DisableAuth = true
	}
	cfg.GenerationInterval = -1
	cfg.BlogGenerationInterval = -1

	store := setupTestStore(t)
	blobs, err := media.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	base := []Option{
		WithStore(store),
		WithBlobStore(blobs),
		WithTextProvider(textgen.Disabled{}),
		WithLogger(zap.NewNop()),
	}
	app := New(cfg, append(base, opts...)...)
	if err := app.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app, store
}

func doRequest(t *testing.T, app *App, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, app *App, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *bytes.Reader
	switch b := body.(type) {
	case nil:
		r = bytes.NewReader(nil)
	case string:
		r = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return doRequest(t, app, req)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createAccount(t *testing.T, app *App, body map[string]any) accountView {
	t.Helper()
	rec := doJSON(t, app, http.MethodPost, "/api/accounts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: status %d, body %s", rec.Code, rec.Body)
	}
	return decode[accountView](t, rec)
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	rec := doJSON(t, app, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCreateAccountRequiresNameAndIndustry(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing industry", `{"name":"Acme"}`, http.StatusBadRequest},
		{"missing name", `{"industry":"retail"}`, http.StatusBadRequest},
		{"bad json", `{"name":`, http.StatusBadRequest},
		{"valid", `{"name":"Acme","industry":"retail"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, app, http.MethodPost, "/api/accounts", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestAccountViewDerivedFields(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{
		"name":               "Acme Spine",
		"industry":           "healthcare",
		"monthly_post_count": 12,
		"facebook_url":       "https://facebook.com/acme",
	})
	if acct.PostingFrequency != "12 posts per month" {
		t.Errorf("posting_frequency = %q", acct.PostingFrequency)
	}
	if acct.BrandVoice != model.DefaultTone {
		t.Errorf("brand_voice = %q, want %q", acct.BrandVoice, model.DefaultTone)
	}
	if acct.SocialMediaURLs["facebook"] != "https://facebook.com/acme" {
		t.Errorf("social_media_urls = %v", acct.SocialMediaURLs)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	rec := doJSON(t, app, http.MethodGet, "/api/accounts/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decode[errorBody](t, rec)
	if body.Error != "Account not found" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestUpdateAccountMergesFields(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{
		"name":        "Acme",
		"industry":    "technology",
		"description": "Cloud tooling",
		"keywords":    "cloud, devops",
	})

	rec := doJSON(t, app, http.MethodPut, "/api/accounts/"+acct.ID, map[string]any{
		"description":       "Developer platforms",
		"brand_voice":       "bold",
		"social_media_urls": map[string]string{"linkedin": "https://linkedin.com/company/acme"},
		"serviceLocations":  []map[string]any{{"city": "Austin", "state": "TX", "radius": 30}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body)
	}

	got := decode[accountView](t, doJSON(t, app, http.MethodGet, "/api/accounts/"+acct.ID, nil))
	if got.Name != "Acme" || got.Industry != "technology" || got.Keywords != "cloud, devops" {
		t.Errorf("prior fields lost: %+v", got.Account)
	}
	if got.Description != "Developer platforms" {
		t.Errorf("description = %q", got.Description)
	}
	if got.Tone != "bold" {
		t.Errorf("tone = %q, want bold from brand_voice", got.Tone)
	}
	if got.LinkedinURL != "https://linkedin.com/company/acme" {
		t.Errorf("linkedin_url = %q", got.LinkedinURL)
	}
	if len(got.ServiceLocations) != 1 || got.ServiceLocations[0].City != "Austin" {
		t.Errorf("service_locations = %+v", got.ServiceLocations)
	}
	if got.MonthlyBlogCount != model.DefaultMonthlyBlogs || got.TextLength != model.DefaultTextLength {
		t.Errorf("defaults missing: %+v", got.Account)
	}
	if !got.CreatedAt.Equal(acct.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", acct.CreatedAt, got.CreatedAt)
	}
}

func TestUpdateAccountWithReadViewIsStable(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{"name": "Acme", "industry": "retail", "tone": "warm"})

	view := doJSON(t, app, http.MethodGet, "/api/accounts/"+acct.ID, nil).Body.String()
	view = strings.Replace(view, `"tone":"warm"`, `"tone":"calm"`, 1)
	if rec := doJSON(t, app, http.MethodPut, "/api/accounts/"+acct.ID, view); rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body)
	}
	got := decode[accountView](t, doJSON(t, app, http.MethodGet, "/api/accounts/"+acct.ID, nil))
	if got.Tone != "calm" {
		t.Errorf("tone = %q, want calm; stale brand_voice must not win", got.Tone)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()
	app, store := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{"name": "Acme", "industry": "legal"})

	if err := store.CreatePost(ctx, &model.Post{AccountID: acct.ID, Content: "hello"}); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateBlog(ctx, &model.Blog{AccountID: acct.ID, Title: "t", Content: "c"}); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, app, http.MethodDelete, "/api/accounts/"+acct.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d, body %s", rec.Code, rec.Body)
	}
	body := decode[map[string]any](t, rec)
	if body["success"] != true || body["message"] != "Account and all related data deleted successfully" {
		t.Errorf("body = %v", body)
	}

	if posts, _ := store.ListPosts(ctx, acct.ID); len(posts) != 0 {
		t.Errorf("posts left: %d", len(posts))
	}
	if blogs, _ := store.ListBlogs(ctx, acct.ID); len(blogs) != 0 {
		t.Errorf("blogs left: %d", len(blogs))
	}
	if rec := doJSON(t, app, http.MethodGet, "/api/accounts/"+acct.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, app, http.MethodDelete, "/api/accounts/"+acct.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", rec.Code)
	}
}

// childFailStore fails the per-account cascade deletes it is told to.
type childFailStore struct {
	Store
	failPosts, failBlogs bool
}

func (s *childFailStore) DeletePostsByAccount(ctx context.Context, accountID string) error {
	if s.failPosts {
		return errors.New("posts delete failed")
	}
	return s.Store.DeletePostsByAccount(ctx, accountID)
}

func (s *childFailStore) DeleteBlogsByAccount(ctx context.Context, accountID string) error {
	if s.failBlogs {
		return errors.New("blogs delete failed")
	}
	return s.Store.DeleteBlogsByAccount(ctx, accountID)
}

func TestDeleteAccountSurvivesChildFailure(t *testing.T) {
	tests := []struct {
		name                 string
		failPosts, failBlogs bool
	}{
		{"posts fail", true, false},
		{"blogs fail", false, true},
		{"both fail", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := &childFailStore{Store: setupTestStore(t), failPosts: tt.failPosts, failBlogs: tt.failBlogs}
			app, _ := newTestApp(t, Config{}, WithStore(store))
			acct := createAccount(t, app, map[string]any{"name": "Acme", "industry": "legal"})
			if err := store.CreatePost(ctx, &model.Post{AccountID: acct.ID, Content: "hello"}); err != nil {
				t.Fatal(err)
			}
			if err := store.CreateBlog(ctx, &model.Blog{AccountID: acct.ID, Title: "Guide", Slug: "guide", Content: "text"}); err != nil {
				t.Fatal(err)
			}

			if rec := doJSON(t, app, http.MethodDelete, "/api/accounts/"+acct.ID, nil); rec.Code != http.StatusOK {
				t.Fatalf("DELETE status = %d, body %s", rec.Code, rec.Body)
			}
			if _, err := store.GetAccount(ctx, acct.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetAccount: err = %v, want ErrNotFound", err)
			}
			for _, path := range []string{"/posts", "/blogs"} {
				rec := doJSON(t, app, http.MethodGet, "/api/accounts/"+acct.ID+path, nil)
				if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
					t.Errorf("GET %s = %d %s, want 200 []", path, rec.Code, rec.Body)
				}
			}
		})
	}
}

func TestGeneratePostsFallsBackOnBadProviderOutput(t *testing.T) {
	provider := textgen.Func(func(context.Context, string) (string, error) {
		return "I'd be happy to help with that!", nil
	})
	app, _ := newTestApp(t, Config{}, WithTextProvider(provider))
	acct := createAccount(t, app, map[string]any{"name": "Acme Spine", "industry": "healthcare"})

	rec := doJSON(t, app, http.MethodPost, "/api/accounts/"+acct.ID+"/generate-posts", map[string]any{"count": 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decode[postsResponse](t, rec)
	if len(resp.Posts) != 2 {
		t.Fatalf("posts = %d, want 2", len(resp.Posts))
	}
	for i, p := range resp.Posts {
		if p.Content == "" || !strings.Contains(p.Content, "Acme Spine") {
			t.Errorf("post %d content = %q, want the healthcare template", i, p.Content)
		}
		if p.ContentFallback == "" {
			t.Errorf("post %d should report a content fallback", i)
		}
		if !strings.HasPrefix(p.ImageURL, "/placeholder.svg?") {
			t.Errorf("post %d image_url = %q, want a placeholder", i, p.ImageURL)
		}
		if p.Temporary {
			t.Errorf("post %d should be persisted", i)
		}
	}

	listed := decode[[]model.Post](t, doJSON(t, app, http.MethodGet, "/api/accounts/"+acct.ID+"/posts", nil))
	if len(listed) != 2 {
		t.Errorf("listed posts = %d, want 2", len(listed))
	}
}

func TestGeneratePostsValidation(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{"name": "Acme", "industry": "retail"})
	tests := []struct {
		name string
		body map[string]any
	}{
		{"too many", map[string]any{"count": 11}},
		{"bad media type", map[string]any{"media_type": "gif"}},
		{"bad aspect", map[string]any{"aspect_ratio": "panorama"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, app, http.MethodPost, "/api/accounts/"+acct.ID+"/generate-posts", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
	if rec := doJSON(t, app, http.MethodPost, "/api/accounts/missing/generate-posts", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown account status = %d, want 404", rec.Code)
	}
}

func TestGenerateBlogsWithoutProvider(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{"name": "Acme", "industry": "technology"})

	rec := doJSON(t, app, http.MethodPost, "/api/accounts/"+acct.ID+"/generate-blogs",
		map[string]any{"target_keywords": []string{"cloud security"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decode[blogsResponse](t, rec)
	if len(resp.Blogs) != 2 {
		t.Fatalf("blogs = %d, want 2", len(resp.Blogs))
	}
	first := resp.Blogs[0]
	if first.TargetKeyword != "cloud security" {
		t.Errorf("target_keyword = %q", first.TargetKeyword)
	}
	if !strings.Contains(first.Title, "A Complete Guide") {
		t.Errorf("title = %q", first.Title)
	}
	if first.WordCount == 0 || first.WordCount != model.CountWords(first.Content) {
		t.Errorf("word_count = %d", first.WordCount)
	}
	if resp.Blogs[1].TargetKeyword != "technology best practices" {
		t.Errorf("second keyword = %q", resp.Blogs[1].TargetKeyword)
	}
}

func TestAnalyzeKeywordsFallback(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{"name": "Acme", "industry": "healthcare"})

	rec := doJSON(t, app, http.MethodPost, "/api/accounts/"+acct.ID+"/analyze-keywords", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decode[keywordResponse](t, rec)
	if !resp.Fallback || resp.Warning == "" {
		t.Errorf("fallback = %v, warning = %q", resp.Fallback, resp.Warning)
	}
	if len(resp.CurrentRankings) != 5 || len(resp.Opportunities) != 5 || len(resp.CompetitorGaps) != 2 {
		t.Errorf("demo data sizes = %d/%d/%d", len(resp.CurrentRankings), len(resp.Opportunities), len(resp.CompetitorGaps))
	}
	if !strings.Contains(rec.Body.String(), `"currentRankings"`) {
		t.Error("response should use the camelCase keys")
	}
}

func TestTrendingTopics(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{
		"name":        "Shield",
		"industry":    "insurance",
		"description": "commercial policies for contractors",
	})
	topics := decode[[]string](t, doJSON(t, app, http.MethodGet, "/api/accounts/"+acct.ID+"/trending-topics", nil))
	if len(topics) != 8 {
		t.Fatalf("topics = %d, want 8", len(topics))
	}
	bucket := app.Topics.Bucket("commercial_insurance")
	for _, topic := range topics {
		found := false
		for _, b := range bucket {
			found = found || b == topic
		}
		if !found {
			t.Errorf("topic %q not in commercial_insurance", topic)
		}
	}
}

func TestLandingPrompt(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{
		"name":            "Acme",
		"industry":        "retail",
		"description":     "Handmade furniture",
		"target_audience": "Homeowners",
		"color_scheme":    "forest green #2F5233 and sand #E6D5B8",
	})

	rec := doJSON(t, app, http.MethodPost, "/api/accounts/"+acct.ID+"/landing-prompt", map[string]any{"purpose": "Spring sale"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	resp := decode[landingResponse](t, rec)
	for _, want := range []string{"Acme", "Spring sale", "Homeowners", "#2F5233", "#E6D5B8"} {
		if !strings.Contains(resp.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasPrefix(resp.BuilderURL, "https://v0.dev/chat?q=") {
		t.Errorf("builder_url = %q", resp.BuilderURL)
	}

	rec = doJSON(t, app, http.MethodPost, "/api/accounts/"+acct.ID+"/landing-prompt", map[string]any{"cta_instances": 50})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("cta_instances 50: status = %d, want 400", rec.Code)
	}
}

func TestUpdateAndDeletePost(t *testing.T) {
	ctx := context.Background()
	app, store := newTestApp(t, Config{})
	p := model.Post{AccountID: "acct", Content: "draft copy", Hashtags: []string{"#old"}}
	if err := store.CreatePost(ctx, &p); err != nil {
		t.Fatal(err)
	}

	if rec := doJSON(t, app, http.MethodPut, "/api/posts/"+p.ID, map[string]any{"status": "archived"}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status: code = %d, want 400", rec.Code)
	}

	rec := doJSON(t, app, http.MethodPut, "/api/posts/"+p.ID, map[string]any{
		"content":  "final copy",
		"hashtags": []string{"#new", " "},
		"status":   "scheduled",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body)
	}
	got, err := store.GetPost(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "final copy" || got.Status != model.StatusScheduled || len(got.Hashtags) != 1 {
		t.Errorf("stored post = %+v", got)
	}

	if rec := doJSON(t, app, http.MethodPut, "/api/posts/missing", map[string]any{"content": "x"}); rec.Code != http.StatusNotFound {
		t.Errorf("PUT missing = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, app, http.MethodDelete, "/api/posts/"+p.ID, nil); rec.Code != http.StatusOK {
		t.Errorf("DELETE = %d, want 200", rec.Code)
	}
	if rec := doJSON(t, app, http.MethodDelete, "/api/posts/"+p.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", rec.Code)
	}
}

func TestPublishBlogAndPreview(t *testing.T) {
	ctx := context.Background()
	app, store := newTestApp(t, Config{})
	b := model.Blog{
		AccountID: "acct",
		Title:     "Tips & Tricks",
		Slug:      "tips",
		Content:   "# Heading\n\nSome **bold** text.\n\n<script>alert(1)</script>\n\n| a | b |\n|---|---|\n| 1 | 2 |\n",
	}
	if err := store.CreateBlog(ctx, &b); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, app, http.MethodPut, "/api/blogs/"+b.ID, map[string]any{"status": "published", "slug": "Tips And Tricks"})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body)
	}
	got, err := store.GetBlog(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.StatusPublished || got.PublishedAt == nil {
		t.Errorf("status = %q, published_at = %v", got.Status, got.PublishedAt)
	}
	if got.Slug != "tips-and-tricks" {
		t.Errorf("slug = %q", got.Slug)
	}

	rec = doJSON(t, app, http.MethodGet, "/api/blogs/"+b.ID+"/preview", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d", rec.Code)
	}
	html := rec.Body.String()
	for _, want := range []string{"<h1>Tips &amp; Tricks</h1>", "<strong>bold</strong>", "<table>"} {
		if !strings.Contains(html, want) {
			t.Errorf("preview missing %q in %s", want, html)
		}
	}
	if strings.Contains(html, "<script>") {
		t.Error("preview must not contain script tags")
	}
}

func TestMissingTablesAreSoftFailures(t *testing.T) {
	app, store := newTestApp(t, Config{})
	if _, err := store.db.Exec(`DROP TABLE posts; DROP TABLE blogs`); err != nil {
		t.Fatal(err)
	}

	if body := doJSON(t, app, http.MethodGet, "/api/accounts/acct/posts", nil).Body.String(); strings.TrimSpace(body) != "[]" {
		t.Errorf("list posts = %s, want []", body)
	}
	if body := doJSON(t, app, http.MethodGet, "/api/accounts/acct/blogs", nil).Body.String(); strings.TrimSpace(body) != "[]" {
		t.Errorf("list blogs = %s, want []", body)
	}

	tests := []struct {
		method, path, message string
	}{
		{http.MethodPut, "/api/posts/x", notPersistedUpdate},
		{http.MethodDelete, "/api/posts/x", notPersistedDelete},
		{http.MethodPut, "/api/blogs/x", notPersistedUpdate},
		{http.MethodDelete, "/api/blogs/x", notPersistedDelete},
	}
	for _, tt := range tests {
		rec := doJSON(t, app, tt.method, tt.path, map[string]any{"content": "x"})
		if rec.Code != http.StatusOK {
			t.Errorf("%s %s: status = %d", tt.method, tt.path, rec.Code)
			continue
		}
		body := decode[map[string]any](t, rec)
		if body["success"] != true || body["message"] != tt.message {
			t.Errorf("%s %s: body = %v", tt.method, tt.path, body)
		}
	}
}

func TestAnalyzeWebsiteMissingURL(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	rec := doJSON(t, app, http.MethodPost, "/api/analyze-website", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["error"] != "URL is required" || body["fallback"] != true || body["industry"] != "business" {
		t.Errorf("body = %v", body)
	}
}

func TestPlaceholderSVG(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	rec := doJSON(t, app, http.MethodGet, "/placeholder.svg?width=800&height=450&text=Hello", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `width="800" height="450"`) {
		t.Errorf("svg = %s", rec.Body)
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type formFile struct {
	field, name, contentType string
	data                     []byte
}

func multipartRequest(t *testing.T, path string, fields map[string][]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			w.WriteField(k, v)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(f.data)
	}
	w.Close()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadLogo(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	req := multipartRequest(t, "/api/upload-logo",
		map[string][]string{"accountId": {"acct1"}},
		formFile{"file", "logo.png", "image/png", pngBytes(t, 1024, 64)})
	rec := doRequest(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	u, err := url.Parse(decode[map[string]string](t, rec)["url"])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u.Path, "/media/logos/acct1-") || !strings.HasSuffix(u.Path, ".png") {
		t.Fatalf("url path = %q", u.Path)
	}

	rec = doJSON(t, app, http.MethodGet, u.Path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET logo status = %d", rec.Code)
	}
	cfg, err := png.DecodeConfig(rec.Body)
	if err != nil {
		t.Fatalf("stored logo is not a PNG: %v", err)
	}
	if cfg.Width != maxLogoWidth || cfg.Height != 32 {
		t.Errorf("logo size = %dx%d, want %dx32", cfg.Width, cfg.Height, maxLogoWidth)
	}
}

func TestUploadLogoRejections(t *testing.T) {
	app, _ := newTestApp(t, Config{})
	tests := []struct {
		name   string
		fields map[string][]string
		files  []formFile
		want   string
	}{
		{"no file", map[string][]string{"accountId": {"a"}}, nil, "No file provided"},
		{"no account", nil, []formFile{{"file", "l.png", "image/png", pngBytes(t, 4, 4)}}, "No account ID provided"},
		{"bad type", map[string][]string{"accountId": {"a"}}, []formFile{{"file", "l.gif", "image/gif", []byte("GIF89a")}}, "Invalid file type. Please upload an image file."},
		{"too large", map[string][]string{"accountId": {"a"}}, []formFile{{"file", "l.png", "image/png", make([]byte, maxLogoSize+1)}}, "File too large. Please upload an image under 5MB."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, app, multipartRequest(t, "/api/upload-logo", tt.fields, tt.files...))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decode[errorBody](t, rec).Error; got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBanners(t *testing.T) {
	app, _ := newTestApp(t, Config{})

	req := multipartRequest(t, "/api/banners",
		map[string][]string{
			"headline":  {"Spring Sale"},
			"body_text": {"Everything 20% off"},
			"cta_text":  {"Shop now"},
			"sizes[]":   {"Leaderboard", "Square"},
		},
		formFile{"image", "bg.png", "image/png", pngBytes(t, 64, 64)})
	rec := doRequest(t, app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Banners []struct {
			Size struct {
				Name   string `json:"name"`
				Width  int    `json:"width"`
				Height int    `json:"height"`
			} `json:"size"`
			HTML    string `json:"html"`
			Preview string `json:"preview"`
		} `json:"banners"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Banners) != 2 {
		t.Fatalf("banners = %d, want 2", len(resp.Banners))
	}
	if resp.Banners[0].Size.Name != "Leaderboard" || resp.Banners[0].Size.Width != 728 {
		t.Errorf("first banner = %+v", resp.Banners[0].Size)
	}
	for _, b := range resp.Banners {
		if !strings.Contains(b.HTML, "Spring Sale") {
			t.Errorf("%s html missing headline", b.Size.Name)
		}
		if !strings.HasPrefix(b.Preview, "data:image/png;base64,") {
			t.Errorf("%s preview = %.40q", b.Size.Name, b.Preview)
		}
	}

	rec = doRequest(t, app, multipartRequest(t, "/api/banners", map[string][]string{"body_text": {"x"}}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing headline: status = %d, want 400", rec.Code)
	}
}

// cookieJar carries response cookies into later requests.
type cookieJar map[string]*http.Cookie

func (j cookieJar) do(t *testing.T, app *App, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range j {
		req.AddCookie(c)
	}
	rec := doRequest(t, app, req)
	for _, c := range rec.Result().Cookies() {
		j[c.Name] = c
	}
	return rec
}

func TestAuthFlow(t *testing.T) {
	app, _ := newTestApp(t, Config{AdminPassword: "s3cret", SessionSecret: "0123456789abcdef0123456789abcdef"})
	jar := cookieJar{}

	if rec := jar.do(t, app, httptest.NewRequest(http.MethodGet, "/api/accounts", nil)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous list: status = %d, want 401", rec.Code)
	}

	rec := jar.do(t, app, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	sess := decode[sessionResponse](t, rec)
	if sess.Authenticated || sess.CSRFToken == "" {
		t.Fatalf("session = %+v", sess)
	}

	login := func(password, token string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"password":"`+password+`"}`))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set(csrfHeader, token)
		}
		return jar.do(t, app, req).Code
	}

	if code := login("s3cret", ""); code != http.StatusForbidden {
		t.Errorf("login without csrf: status = %d, want 403", code)
	}
	if code := login("wrong", sess.CSRFToken); code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", code)
	}
	if code := login("s3cret", sess.CSRFToken); code != http.StatusOK {
		t.Fatalf("login: status = %d, want 200", code)
	}

	if rec := jar.do(t, app, httptest.NewRequest(http.MethodGet, "/api/accounts", nil)); rec.Code != http.StatusOK {
		t.Errorf("authenticated list: status = %d, want 200", rec.Code)
	}
	if !decode[sessionResponse](t, jar.do(t, app, httptest.NewRequest(http.MethodGet, "/api/session", nil))).Authenticated {
		t.Error("session should report authenticated")
	}
}

func TestLoginAttemptLimit(t *testing.T) {
	app, _ := newTestApp(t, Config{AdminPassword: "s3cret", SessionSecret: "0123456789abcdef0123456789abcdef"})
	jar := cookieJar{}
	token := decode[sessionResponse](t, jar.do(t, app, httptest.NewRequest(http.MethodGet, "/api/session", nil))).CSRFToken

	var last int
	for range 6 {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(csrfHeader, token)
		last = jar.do(t, app, req).Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("sixth attempt: status = %d, want 429", last)
	}
}

func TestInitRequiresAuthConfig(t *testing.T) {
	app := New(Config{}, WithStore(setupTestStore(t)), WithLogger(zap.NewNop()))
	if err := app.Init(context.Background()); err == nil {
		t.Error("Init without AdminPassword should fail")
	}
}

func TestBlogFeedListsPublishedBlogs(t *testing.T) {
	ctx := context.Background()
	app, store := newTestApp(t, Config{})
	acct := createAccount(t, app, map[string]any{
		"name":        "Acme",
		"industry":    "retail",
		"website_url": "https://acme.example",
	})
	published := model.Blog{AccountID: acct.ID, Title: "Live", Slug: "live", Content: "Intro paragraph.\n\nMore.", Status: model.StatusPublished}
	draft := model.Blog{AccountID: acct.ID, Title: "Draft", Slug: "draft", Content: "wip"}
	for _, b := range []*model.Blog{&published, &draft} {
		if err := store.CreateBlog(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	rec := doJSON(t, app, http.MethodGet, "/feeds/"+acct.ID+"/blogs.xml", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var feed rssXML
	if err := xml.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("parse feed: %v", err)
	}
	if len(feed.Channel.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(feed.Channel.Items))
	}
	item := feed.Channel.Items[0]
	if item.Link != "https://acme.example/blog/live" || item.Description != "Intro paragraph." || item.GUID != published.ID {
		t.Errorf("item = %+v", item)
	}
}
