package api

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-blog-backend/blog"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/rpupo63/portfolio-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type siteInfo struct {
	Name        string
	BaseURL     string
	Description string
}

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
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type feedHandler struct {
	responder Responder
	logger    zerolog.Logger
	manager   *blog.Manager
	site      siteInfo
}

func newFeedHandler(manager *blog.Manager, site siteInfo) feedHandler {
	logger := log.With().Str("handlerName", "feedHandler").Logger()
	return feedHandler{
		responder: NewResponder(logger),
		logger:    logger,
		manager:   manager,
		site:      site,
	}
}

func (h feedHandler) getRSS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.manager.ListPublished(r.Context(), blog.PublishedFilter{})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		items := make([]rssItem, 0, len(posts))
		for _, p := range posts {
			postURL := services.BuildBlogPostURL(h.site.BaseURL, p.Slug)
			item := rssItem{
				Title:       p.Title,
				Link:        postURL,
				Description: p.Excerpt,
				Categories:  p.Tags,
				GUID:        postURL,
			}
			if p.PublishedAt != nil {
				item.PubDate = p.PublishedAt.UTC().Format(time.RFC1123Z)
			}
			items = append(items, item)
		}

		h.writeXML(w, "application/rss+xml; charset=utf-8", rssXML{
			Version: "2.0",
			Channel: rssChannel{
				Title:       h.site.Name,
				Link:        strings.TrimRight(h.site.BaseURL, "/"),
				Description: h.site.Description,
				Items:       items,
			},
		})
	}
}

func (h feedHandler) getSitemap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.manager.ListPublished(r.Context(), blog.PublishedFilter{})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		base := strings.TrimRight(h.site.BaseURL, "/")
		urls := []sitemapURL{{Loc: base + "/"}, {Loc: base + "/blog"}}
		for _, p := range posts {
			urls = append(urls, sitemapURL{
				Loc:     services.BuildBlogPostURL(base, p.Slug),
				LastMod: lastModified(p),
			})
		}

		h.writeXML(w, "application/xml; charset=utf-8", sitemapURLSet{
			XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
			URLs:  urls,
		})
	}
}

func (h feedHandler) writeXML(w http.ResponseWriter, contentType string, doc any) {
	body, err := xml.Marshal(doc)
	if err != nil {
		h.responder.WriteError(w, errs.NewInternalErrorWithCause("encoding feed", err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	if _, err := w.Write(body); err != nil {
		h.logger.Error().Err(err).Msg("error writing feed")
	}
}

func lastModified(p *models.BlogPost) string {
	if p.UpdatedAt.IsZero() {
		return ""
	}
	return p.UpdatedAt.UTC().Format("2006-01-02")
}
