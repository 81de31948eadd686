package rss

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/viral-studio/internal/config"
	"github.com/viral-studio/internal/models"
	"github.com/viral-studio/pkg/logger"
)

// Source implements source.CaseSource for RSS feeds. Each feed is pinned
// to one platform; its items become candidate cases for that platform.
type Source struct {
	name     string
	url      string
	platform models.Platform
	parser   *gofeed.Parser
	log      *logger.Logger
}

// New creates a new RSS source for a single feed
func New(feed config.RSSFeed, log *logger.Logger) *Source {
	return &Source{
		name:     feed.Name,
		url:      feed.URL,
		platform: models.Platform(feed.Platform),
		parser:   gofeed.NewParser(),
		log:      log.WithSource("rss", feed.Name),
	}
}

// NewMultiple creates multiple RSS sources from config, skipping feeds
// pinned to an unsupported platform
func NewMultiple(cfg config.RSSConfig, log *logger.Logger) []*Source {
	sources := make([]*Source, 0, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		if !models.Platform(feed.Platform).IsValid() {
			log.Warn().
				Str("feed", feed.Name).
				Str("platform", feed.Platform).
				Msg("Skipping feed with unsupported platform")
			continue
		}
		sources = append(sources, New(feed, log))
	}
	return sources
}

// Name returns the source name
func (s *Source) Name() string {
	return s.name
}

// Platform returns the platform this feed supplies cases for
func (s *Source) Platform() models.Platform {
	return s.platform
}

// Fetch retrieves candidate cases from the RSS feed
func (s *Source) Fetch(ctx context.Context) ([]*models.RawCase, error) {
	s.log.Debug().Str("url", s.url).Msg("Fetching RSS feed")

	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed %s: %w", s.name, err)
	}

	cases := make([]*models.RawCase, 0, len(feed.Items))

	for _, item := range feed.Items {
		// Skip items older than 30 days; stale posts make poor study material
		publishedAt := time.Now()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
			if time.Since(publishedAt) > 30*24*time.Hour {
				continue
			}
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		raw := &models.RawCase{
			Title:       cleanText(item.Title),
			Author:      author,
			Content:     cleanText(item.Description),
			Link:        item.Link,
			Platform:    s.platform,
			Theme:       item.Categories,
			PublishedAt: publishedAt,
		}

		cases = append(cases, raw)
	}

	s.log.Info().
		Int("count", len(cases)).
		Str("feed", s.name).
		Msg("Fetched RSS cases")

	return cases, nil
}

// HealthCheck verifies the RSS feed is accessible
func (s *Source) HealthCheck(ctx context.Context) error {
	_, err := s.parser.ParseURLWithContext(s.url, ctx)
	return err
}

// cleanText removes HTML tags and extra whitespace
func cleanText(text string) string {
	// Remove HTML tags (simple approach)
	text = strings.ReplaceAll(text, "<br>", " ")
	text = strings.ReplaceAll(text, "<br/>", " ")
	text = strings.ReplaceAll(text, "<br />", " ")
	text = strings.ReplaceAll(text, "</p>", " ")
	text = strings.ReplaceAll(text, "<p>", "")

	// Remove remaining HTML tags
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
		} else if r == '>' {
			inTag = false
		} else if !inTag {
			result.WriteRune(r)
		}
	}

	// Clean up whitespace
	text = result.String()
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimSpace(text)
}
