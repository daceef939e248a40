package downloader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
)

const pageRequestTimeout = 30 * time.Second

// PageSource treats any web page as a playlist: every YouTube video linked
// from it, in document order. Single videos are resolved by the wrapped Source.
type PageSource struct {
	Source
	userAgent string
}

func NewPageSource(videos Source, userAgent string) *PageSource {
	return &PageSource{
		Source:    videos,
		userAgent: userAgent,
	}
}

func (p *PageSource) PlaylistURLs(ctx context.Context, pageURL string) ([]string, error) {
	slog.Debug("Scraping page for video links", "url", pageURL)

	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.MaxDepth(1),
	)
	if p.userAgent != "" {
		c.UserAgent = p.userAgent
	}
	c.SetRequestTimeout(pageRequestTimeout)

	var links []string
	seen := make(map[string]bool)
	var scrapeErr error

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	c.OnHTML("body", func(e *colly.HTMLElement) {
		e.DOM.Find("a[href], iframe[src]").Each(func(_ int, s *goquery.Selection) {
			ref, ok := s.Attr("href")
			if !ok {
				ref, _ = s.Attr("src")
			}
			id, ok := videoIDFromLink(e.Request.AbsoluteURL(ref))
			if !ok || seen[id] {
				return
			}
			seen[id] = true
			links = append(links, watchURL(id))
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = fmt.Errorf("request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if err := c.Visit(pageURL); err != nil {
		if scrapeErr != nil {
			return nil, scrapeErr
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scrapeErr != nil {
		return nil, scrapeErr
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPlaylist, pageURL)
	}

	slog.Debug("Found video links", "url", pageURL, "count", len(links))
	return links, nil
}
