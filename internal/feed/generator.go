package feed

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/maxcole/trendscout/internal/models"
	"github.com/maxcole/trendscout/internal/signals"
)

// SignalsProvider yields the merged signals for one category.
type SignalsProvider interface {
	GetSignals(ctx context.Context, category models.Category, profile *models.UserProfile) models.SignalsResult
}

// Generator turns raw signals into the scored opportunity feed. Output is
// never empty: an all-empty signals result produces the single synthetic
// fallback card, and a panicking provider degrades to a fixed mock list.
type Generator struct {
	Signals SignalsProvider
	policy  *bluemonday.Policy
}

func NewGenerator(provider SignalsProvider) *Generator {
	return &Generator{
		Signals: provider,
		policy:  bluemonday.StrictPolicy(),
	}
}

// Generate builds the feed for one category in four ordered passes, each
// capped to keep the list bounded and diverse: trends, community posts,
// sector quotes, trending coins.
func (g *Generator) Generate(ctx context.Context, category models.Category, profile *models.UserProfile) (out []models.Opportunity) {
	// The aggregator is documented not to fail, but the feed must never
	// surface an error or an empty screen. A panic anywhere below
	// degrades to the mock list.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("feed generation panicked: %v", r)
			out = MockOpportunities(category)
		}
	}()

	sig := g.Signals.GetSignals(ctx, category, profile)
	out = []models.Opportunity{}

	for _, t := range capTrends(sig.Trends, 4) {
		o := g.newOpportunity(
			"trend-"+firstNonEmpty(t.ID, t.Title, randomToken()),
			category,
			firstNonEmpty(t.Title, "Emerging topic"),
			"Rising Fast",
			ClampScore(trendBaseScore),
			firstNonEmpty(t.Summary, "Trending topic with strong momentum."),
		)
		if len(t.Tags) > 0 {
			o.Tags = t.Tags
		} else {
			o.Tags = []string{"Trend"}
		}
		if t.Traffic != "" {
			o.Competition = signals.AnalyzeCompetition(t.Traffic)
		}
		out = append(out, o)
	}

	posts := make([]models.RedditPost, 0, 6)
	posts = append(posts, capPosts(sig.Reddit.HotDiscussions, 3)...)
	posts = append(posts, capPosts(sig.Reddit.TrendingTopics, 3)...)
	for _, p := range posts {
		o := g.newOpportunity(
			"reddit-"+firstNonEmpty(p.ID, p.Title, randomToken()),
			category,
			firstNonEmpty(p.Title, "Community discussion gaining traction"),
			"Community Buzz",
			RedditScore(p.Score),
			firstNonEmpty(p.Teaser, "Conversation with growing engagement."),
		)
		o.Tags = []string{firstNonEmpty(p.Subreddit, "Reddit")}
		if p.Score != nil {
			o.Potential = signals.AnalyzeEngagement(p)
		}
		out = append(out, o)
	}

	// Market-derived cards always land in the stocks lane, whatever
	// category the feed was requested for.
	for _, s := range capStocks(sig.Stocks, 3) {
		o := g.newOpportunity(
			"stock-"+firstNonEmpty(s.Symbol, randomToken()),
			models.CategoryStocks,
			fmt.Sprintf("%s momentum via %s", s.Sector, s.Symbol),
			firstNonEmpty(s.Trend, "Market Signal"),
			StockScore(s.Change),
			fmt.Sprintf("Sector ETF %s: %s%% today. Explore content, dashboards or swing ideas.",
				s.Symbol, formatChange(s.Change)),
		)
		o.Tags = dropEmpty([]string{"Markets", s.Sector, s.Symbol})
		out = append(out, o)
	}

	for _, c := range capCrypto(sig.Crypto, 3) {
		o := g.newOpportunity(
			"coin-"+firstNonEmpty(c.ID, randomToken()),
			models.CategoryStocks,
			fmt.Sprintf("%s (%s) trend", c.Name, c.Symbol),
			"Crypto Trending",
			CryptoScore(c.PriceChange24h),
			fmt.Sprintf("Trending coin ranked #%s on CoinGecko.", rankLabel(c.Rank)),
		)
		o.Tags = dropEmpty([]string{"Crypto", c.Symbol})
		out = append(out, o)
	}

	if len(out) == 0 {
		out = append(out, g.newOpportunity(
			"mock-"+randomToken(),
			category,
			"AI-Powered Social Media Content Creation Service",
			"Rising Fast",
			75,
			"Offer content services using AI tools to small businesses.",
		))
		out[0].Tags = []string{"AI", "Content", "SMB"}
	}

	return out
}

// newOpportunity builds a card with the shared defaults. Title and
// description pass through the HTML sanitizer since they can originate
// from scraped or community content.
func (g *Generator) newOpportunity(id string, category models.Category, title, trend string, score int, description string) models.Opportunity {
	return models.Opportunity{
		ID:          id,
		Category:    category,
		Title:       g.clean(title),
		Trend:       trend,
		Score:       score,
		Competition: "Medium",
		Potential:   "Medium",
		Timeframe:   "2-8 weeks",
		Description: g.clean(description),
		Tags:        []string{},
	}
}

func (g *Generator) clean(s string) string {
	return strings.TrimSpace(g.policy.Sanitize(s))
}

// MockOpportunities is the defensive fallback when generation itself
// blows up: a fixed two-item list so the feed still renders.
func MockOpportunities(category models.Category) []models.Opportunity {
	return []models.Opportunity{
		{
			ID:          "mock-1",
			Category:    category,
			Title:       "Short-Form Video Editing for Local Brands",
			Trend:       "Rising Fast",
			Score:       78,
			Competition: "Medium",
			Potential:   "High",
			Timeframe:   "2-4 weeks",
			Description: "Package quick-turnaround vertical video edits for small businesses moving budget into short-form.",
			Tags:        []string{"Video", "SMB", "Service"},
		},
		{
			ID:          "mock-2",
			Category:    category,
			Title:       "Niche Newsletter With Curated AI Tools",
			Trend:       "Steady Growth",
			Score:       72,
			Competition: "Medium",
			Potential:   "Medium",
			Timeframe:   "2-8 weeks",
			Description: "Curate weekly AI tooling picks for one profession and monetize with sponsorships once the list grows.",
			Tags:        []string{"Newsletter", "AI", "Curation"},
		},
	}
}

func randomToken() string {
	return uuid.NewString()[:8]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func dropEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func formatChange(change float64) string {
	return strconv.FormatFloat(change, 'f', -1, 64)
}

func rankLabel(rank int) string {
	if rank <= 0 {
		return "—"
	}
	return strconv.Itoa(rank)
}

func capTrends(items []models.TrendItem, n int) []models.TrendItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func capPosts(items []models.RedditPost, n int) []models.RedditPost {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func capStocks(items []models.StockItem, n int) []models.StockItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func capCrypto(items []models.CryptoItem, n int) []models.CryptoItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}
