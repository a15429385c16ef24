package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eringen/marketdesk/media"
	"github.com/eringen/marketdesk/model"
	"github.com/eringen/marketdesk/outcome"
	"github.com/eringen/marketdesk/textgen"
)

// recentPostLimit is how many existing posts are shown to the model.
const recentPostLimit = 10

// Options tunes a Generator. Zero values pick the defaults.
type Options struct {
	PostInterval time.Duration // spacing between post provider calls, default 2s
	BlogInterval time.Duration // spacing between blog provider calls, default 3s
	Logger       *zap.Logger
	Now          func() time.Time
}

func (o *Options) setDefaults() {
	if o.PostInterval == 0 {
		o.PostInterval = 2 * time.Second
	}
	if o.BlogInterval == 0 {
		o.BlogInterval = 3 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Generator produces posts, blogs and keyword reports for accounts.
type Generator struct {
	text  textgen.Provider
	media MediaSource
	store Store
	log   *zap.Logger
	now   func() time.Time

	postInterval time.Duration
	blogInterval time.Duration
}

// NewGenerator wires a Generator. text may be textgen.Disabled.
func NewGenerator(text textgen.Provider, m MediaSource, s Store, opts Options) *Generator {
	opts.setDefaults()
	if text == nil {
		text = textgen.Disabled{}
	}
	return &Generator{
		text:         text,
		media:        m,
		store:        s,
		log:          opts.Logger,
		now:          opts.Now,
		postInterval: opts.PostInterval,
		blogInterval: opts.BlogInterval,
	}
}

// newLimiter spaces batch items by interval. A negative interval disables
// throttling.
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval < 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// runBatch calls item for 0..n-1 sequentially, waiting on lim between items.
// It stops early when ctx is cancelled.
func runBatch[T any](ctx context.Context, n int, lim *rate.Limiter, item func(ctx context.Context, i int) (T, error)) Batch[T] {
	var b Batch[T]
	for i := 0; i < n; i++ {
		if err := lim.Wait(ctx); err != nil {
			for j := i; j < n; j++ {
				b.Failures = append(b.Failures, ItemError{Index: j, Error: err.Error()})
			}
			break
		}
		v, err := item(ctx, i)
		if err != nil {
			b.Failures = append(b.Failures, ItemError{Index: i, Error: err.Error()})
			continue
		}
		b.Items = append(b.Items, v)
	}
	return b
}

type postReply struct {
	Content      string   `json:"content"`
	Hashtags     []string `json:"hashtags"`
	ImagePrompt  string   `json:"imagePrompt"`
	ImagePrompt2 string   `json:"image_prompt"`
}

func (r postReply) imagePrompt() string {
	if r.ImagePrompt != "" {
		return r.ImagePrompt
	}
	return r.ImagePrompt2
}

// GeneratePosts writes req.Count posts for the account.
func (g *Generator) GeneratePosts(ctx context.Context, a model.Account, req PostRequest) Batch[model.Post] {
	req.setDefaults()
	model.NormalizeAccount(&a)
	aspect := media.ParseAspectRatio(req.AspectRatio)
	mediaType := model.MediaType(req.MediaType)

	recent, err := g.store.ListPosts(ctx, a.ID)
	if err != nil {
		g.log.Warn("load recent posts", zap.String("account", a.ID), zap.Error(err))
	}
	if len(recent) > recentPostLimit {
		recent = recent[:recentPostLimit]
	}

	return runBatch(ctx, req.Count, newLimiter(g.postInterval), func(ctx context.Context, i int) (model.Post, error) {
		text := g.postText(ctx, a, req, recent, i)
		prompt := mediaPrompt(a, req, text.Value.ImagePrompt)

		now := g.now().UTC()
		p := model.Post{
			AccountID:   a.ID,
			Content:     text.Value.Content,
			Hashtags:    text.Value.Hashtags,
			ImagePrompt: prompt,
			MediaType:   mediaType,
			Status:      model.StatusDraft,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if text.IsDegraded() {
			p.ContentFallback = text.Reason
		}

		var m outcome.Result[string]
		if g.media == nil {
			m = outcome.Degraded(media.PlaceholderURL(prompt, aspect), "media generator not configured")
		} else if mediaType == model.MediaVideo {
			m = g.media.Video(ctx, prompt, aspect)
		} else {
			m = g.media.Image(ctx, prompt, aspect)
		}
		if mediaType == model.MediaVideo {
			p.VideoURL = m.Value
		} else {
			p.ImageURL = m.Value
		}
		if m.IsDegraded() {
			p.MediaFallback = m.Reason
		}

		if err := g.store.CreatePost(ctx, &p); err != nil {
			g.log.Warn("persist post", zap.String("account", a.ID), zap.Int("index", i), zap.Error(err))
			p.ID = fmt.Sprintf("temp_%d_%d", now.UnixMilli(), i)
			p.Temporary = true
		}
		return p, nil
	})
}

// postText asks the provider for copy and falls back to the industry template.
func (g *Generator) postText(ctx context.Context, a model.Account, req PostRequest, recent []model.Post, i int) outcome.Result[postTemplate] {
	fallback := func(reason string) outcome.Result[postTemplate] {
		g.log.Warn("post copy fallback", zap.String("account", a.ID), zap.Int("index", i), zap.String("reason", reason))
		return outcome.Degraded(fallbackPost(a, i), reason)
	}
	if !textgen.Configured(g.text) {
		return fallback("text provider not configured")
	}
	raw, err := g.text.Generate(ctx, postPrompt(a, req, recent))
	if err != nil {
		return fallback("text provider failed: " + err.Error())
	}
	var r postReply
	if err := textgen.DecodeJSON(raw, &r); err != nil {
		return fallback("unparseable provider output")
	}
	if r.Content == "" {
		return fallback("provider output missing content")
	}
	return outcome.Success(postTemplate{
		Content:     truncateContent(r.Content, a.TextLength),
		Hashtags:    normalizeHashtags(r.Hashtags),
		ImagePrompt: r.imagePrompt(),
	})
}

type blogReply struct {
	Title              string   `json:"title"`
	MetaTitle          string   `json:"metaTitle"`
	MetaTitle2         string   `json:"meta_title"`
	MetaDescription    string   `json:"metaDescription"`
	MetaDescription2   string   `json:"meta_description"`
	Content            string   `json:"content"`
	SecondaryKeywords  []string `json:"secondaryKeywords"`
	SecondaryKeywords2 []string `json:"secondary_keywords"`
	Slug               string   `json:"slug"`
}

func (r blogReply) template(keyword string) blogTemplate {
	t := blogTemplate{
		Title:             r.Title,
		MetaTitle:         or(r.MetaTitle, r.MetaTitle2),
		MetaDescription:   or(r.MetaDescription, r.MetaDescription2),
		Content:           r.Content,
		SecondaryKeywords: r.SecondaryKeywords,
		Slug:              r.Slug,
	}
	if len(t.SecondaryKeywords) == 0 {
		t.SecondaryKeywords = r.SecondaryKeywords2
	}
	if t.SecondaryKeywords == nil {
		t.SecondaryKeywords = []string{}
	}
	if t.Slug == "" {
		t.Slug = model.Slugify(keyword)
	}
	return t
}

// GenerateBlogs writes req.Count SEO blogs for the account.
func (g *Generator) GenerateBlogs(ctx context.Context, a model.Account, req BlogRequest) Batch[model.Blog] {
	req.setDefaults()
	model.NormalizeAccount(&a)

	return runBatch(ctx, req.Count, newLimiter(g.blogInterval), func(ctx context.Context, i int) (model.Blog, error) {
		keyword := req.keyword(i, a.Industry)
		text := g.blogText(ctx, a, keyword, i)

		now := g.now().UTC()
		b := model.Blog{
			AccountID:         a.ID,
			Title:             text.Value.Title,
			Slug:              text.Value.Slug,
			Content:           text.Value.Content,
			MetaTitle:         text.Value.MetaTitle,
			MetaDescription:   text.Value.MetaDescription,
			TargetKeyword:     keyword,
			SecondaryKeywords: text.Value.SecondaryKeywords,
			WordCount:         model.CountWords(text.Value.Content),
			Status:            model.StatusDraft,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if text.IsDegraded() {
			b.ContentFallback = text.Reason
		}
		if err := g.store.CreateBlog(ctx, &b); err != nil {
			g.log.Warn("persist blog", zap.String("account", a.ID), zap.Int("index", i), zap.Error(err))
			b.ID = fmt.Sprintf("temp_blog_%d_%d", now.UnixMilli(), i)
			b.Temporary = true
		}
		return b, nil
	})
}

func (g *Generator) blogText(ctx context.Context, a model.Account, keyword string, i int) outcome.Result[blogTemplate] {
	fallback := func(reason string) outcome.Result[blogTemplate] {
		g.log.Warn("blog copy fallback", zap.String("account", a.ID), zap.Int("index", i), zap.String("reason", reason))
		return outcome.Degraded(fallbackBlog(a, keyword), reason)
	}
	if !textgen.Configured(g.text) {
		return fallback("text provider not configured")
	}
	raw, err := g.text.Generate(ctx, blogPrompt(a, keyword))
	if err != nil {
		return fallback("text provider failed: " + err.Error())
	}
	var r blogReply
	if err := textgen.DecodeJSON(raw, &r); err != nil {
		return fallback("unparseable provider output")
	}
	if r.Title == "" || r.Content == "" {
		return fallback("provider output missing title or content")
	}
	return outcome.Success(r.template(keyword))
}

// AnalyzeKeywords produces an SEO keyword report. Any provider problem yields
// the industry demo report.
func (g *Generator) AnalyzeKeywords(ctx context.Context, a model.Account) outcome.Result[model.KeywordAnalysis] {
	model.NormalizeAccount(&a)
	fallback := func(reason string) outcome.Result[model.KeywordAnalysis] {
		g.log.Warn("keyword analysis fallback", zap.String("account", a.ID), zap.String("reason", reason))
		return outcome.Degraded(demoKeywords(a), reason)
	}
	if !textgen.Configured(g.text) {
		return fallback("text provider not configured")
	}
	raw, err := g.text.Generate(ctx, keywordPrompt(a))
	if err != nil {
		return fallback("text provider failed: " + err.Error())
	}
	var r model.KeywordAnalysis
	if err := textgen.DecodeJSON(raw, &r); err != nil {
		return fallback("unparseable provider output")
	}
	if len(r.CurrentRankings) == 0 || len(r.Opportunities) == 0 {
		return fallback("provider output missing rankings or opportunities")
	}
	if r.CompetitorGaps == nil {
		r.CompetitorGaps = []model.CompetitorGap{}
	}
	return outcome.Success(r)
}

// ErrNothingGenerated is returned by handlers when a batch produced no items.
var ErrNothingGenerated = errors.New("content: no items generated")
