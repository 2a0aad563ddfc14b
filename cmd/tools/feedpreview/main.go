package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/maxcole/trendscout/internal/config"
	"github.com/maxcole/trendscout/internal/feed"
	"github.com/maxcole/trendscout/internal/models"
	"github.com/maxcole/trendscout/internal/signals"
)

// feedpreview generates a feed for one category against the live signal
// sources and renders it as a table. No database required.
func main() {
	category := flag.String("category", "social", "feed category (social|hobbies|business|stocks)")
	skill := flag.String("skill", "beginner", "skill level for scoring")
	interests := flag.String("interests", "", "comma-separated interests")
	flag.Parse()

	cat := models.Category(*category)
	if !cat.Valid() {
		log.Fatalf("unknown category: %s", *category)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	aggregator := signals.NewAggregator(
		signals.NewTrendsClient(cfg.Trends),
		signals.NewCommunityClient(cfg.Reddit),
		signals.NewMarketClient(cfg.Market),
		signals.NewMemoryCache(signals.DefaultTTL),
	)
	generator := feed.NewGenerator(aggregator)

	profile := &models.UserProfile{SkillLevel: *skill, TimeAvailable: "casual"}
	if *interests != "" {
		profile.Interests = strings.Split(*interests, ",")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opportunities := generator.Generate(ctx, cat, profile)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Category", "Title", "Trend", "Score", "Competition", "Potential", "Tags"})
	for _, o := range opportunities {
		t.AppendRow(table.Row{o.ID, o.Category, o.Title, o.Trend, o.Score, o.Competition, o.Potential, strings.Join(o.Tags, ", ")})
	}
	t.Render()
}
