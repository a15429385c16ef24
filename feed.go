package marketdesk

import (
	"encoding/xml"
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eringen/marketdesk/markdown"
	"github.com/eringen/marketdesk/model"
)

const feedExcerptRunes = 200

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// blogFeed builds the RSS document for an account's published blogs. Links
// point at the account's own website when it has one.
func blogFeed(acct model.Account, blogs []model.Blog, fallbackBase string) rssXML {
	base := acct.WebsiteURL
	if base == "" {
		base = fallbackBase
	}
	items := make([]rssItem, 0, len(blogs))
	for _, b := range blogs {
		if b.Status != model.StatusPublished {
			continue
		}
		desc := b.MetaDescription
		if desc == "" {
			desc = markdown.Excerpt(b.Content, feedExcerptRunes)
		}
		item := rssItem{
			Title:       b.Title,
			Link:        AbsoluteURL(base, "/blog/"+url.PathEscape(b.Slug)),
			Description: desc,
			GUID:        b.ID,
		}
		if b.PublishedAt != nil {
			item.PubDate = b.PublishedAt.Format(http.TimeFormat)
		}
		items = append(items, item)
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       acct.Name,
			Link:        base,
			Description: acct.Description,
			Items:       items,
		},
	}
}

// handleBlogFeed serves the public RSS feed of an account's published blogs.
func (a *App) handleBlogFeed(c echo.Context) error {
	acct, err := a.loadAccount(c)
	if err != nil {
		return err
	}
	blogs, err := a.Store.ListBlogs(c.Request().Context(), acct.ID)
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		return newAPIError(http.StatusInternalServerError, "Failed to fetch blogs", err)
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(blogFeed(acct, blogs, a.Config.BaseURL))
}
