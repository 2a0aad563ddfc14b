package signals

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/maxcole/trendscout/internal/config"
	"github.com/maxcole/trendscout/internal/models"
)

// TrendsClient wraps a general trend-topic source. No first-party trends
// API is wired by default, so with no scrape URL configured the client
// returns an empty list and the feed leans on the other signal sources.
type TrendsClient struct {
	ScrapeURL string
}

func NewTrendsClient(cfg config.TrendsConfig) *TrendsClient {
	return &TrendsClient{ScrapeURL: cfg.ScrapeURL}
}

// TrendingTopics returns trend items for a category. Never returns an
// error for a fetch or parse failure; the result is simply empty.
func (t *TrendsClient) TrendingTopics(ctx context.Context, category models.Category) ([]models.TrendItem, error) {
	if t.ScrapeURL == "" {
		return []models.TrendItem{}, nil
	}

	items := []models.TrendItem{}

	collector := colly.NewCollector(
		colly.UserAgent("trendscout/1.0 (signal aggregation)"),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	)

	collector.OnHTML("[data-trend-title], article h2, li.trend", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.Text)
		if title == "" {
			return
		}
		items = append(items, models.TrendItem{
			Title:   title,
			Traffic: strings.TrimSpace(e.Attr("data-traffic")),
			Tags:    []string{string(category)},
		})
	})

	if err := collector.Visit(t.ScrapeURL); err != nil {
		log.Printf("error scraping trends: %v", err)
		return []models.TrendItem{}, nil
	}
	collector.Wait()

	if len(items) > 10 {
		items = items[:10]
	}
	return items, nil
}

// AnalyzeCompetition estimates a competition label from a traffic string
// such as "1.2M" or "300K".
func AnalyzeCompetition(traffic string) string {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, traffic)

	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return "Low"
	}

	multiplier := 1.0
	if strings.Contains(traffic, "M") {
		multiplier = 1_000_000
	} else if strings.Contains(traffic, "K") {
		multiplier = 1_000
	}

	volume := value * multiplier
	switch {
	case volume > 1_000_000:
		return "High"
	case volume > 100_000:
		return "Medium"
	default:
		return "Low"
	}
}
