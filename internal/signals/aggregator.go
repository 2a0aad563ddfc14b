package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/maxcole/trendscout/internal/models"
)

// TrendSource supplies general trend topics for a category.
type TrendSource interface {
	TrendingTopics(ctx context.Context, category models.Category) ([]models.TrendItem, error)
}

// CommunitySource supplies community discussion signals for a category.
type CommunitySource interface {
	TrendingFromReddit(ctx context.Context, category models.Category) (models.RedditData, error)
}

// MarketSource supplies sector quotes and trending coins.
type MarketSource interface {
	FetchSectorQuotes(ctx context.Context) ([]models.StockItem, error)
	FetchTrendingCrypto(ctx context.Context) ([]models.CryptoItem, error)
}

// Aggregator fans out to every signal source for one category, tolerates
// individual failures, merges the responses and caches the merged result
// per (category, interests) key. GetSignals never returns an error; total
// source failure yields an all-empty result.
type Aggregator struct {
	Trends    TrendSource
	Community CommunitySource
	Market    MarketSource
	Cache     Cache
}

func NewAggregator(trends TrendSource, community CommunitySource, market MarketSource, cache Cache) *Aggregator {
	if cache == nil {
		cache = NewMemoryCache(DefaultTTL)
	}
	return &Aggregator{Trends: trends, Community: community, Market: market, Cache: cache}
}

// CacheKey builds the deterministic cache key for one request: the
// category plus the JSON serialization of the profile's interests (an
// empty list when the profile is absent).
func CacheKey(category models.Category, profile *models.UserProfile) string {
	interests := []string{}
	if profile != nil && profile.Interests != nil {
		interests = profile.Interests
	}
	serialized, err := json.Marshal(interests)
	if err != nil {
		serialized = []byte("[]")
	}
	return fmt.Sprintf("%s:%s", category, serialized)
}

// GetSignals returns the merged signals for a category, reusing a cached
// result when one is fresh. The four source calls run concurrently and
// all settle before the result is assembled: one slow or failing source
// never blocks or nulls out the others.
func (a *Aggregator) GetSignals(ctx context.Context, category models.Category, profile *models.UserProfile) models.SignalsResult {
	key := CacheKey(category, profile)
	if cached, ok := a.Cache.Get(key); ok {
		return cached
	}

	result := models.EmptySignals()

	var g errgroup.Group
	g.Go(func() error {
		trends, err := a.Trends.TrendingTopics(ctx, category)
		if err != nil {
			log.Printf("trend source failed: %v", err)
			return nil
		}
		if trends != nil {
			result.Trends = trends
		}
		return nil
	})
	g.Go(func() error {
		reddit, err := a.Community.TrendingFromReddit(ctx, category)
		if err != nil {
			log.Printf("community source failed: %v", err)
			return nil
		}
		result.Reddit = reddit
		return nil
	})
	g.Go(func() error {
		stocks, err := a.Market.FetchSectorQuotes(ctx)
		if err != nil {
			log.Printf("stock source failed: %v", err)
			return nil
		}
		if stocks != nil {
			result.Stocks = stocks
		}
		return nil
	})
	g.Go(func() error {
		crypto, err := a.Market.FetchTrendingCrypto(ctx)
		if err != nil {
			log.Printf("crypto source failed: %v", err)
			return nil
		}
		if crypto != nil {
			result.Crypto = crypto
		}
		return nil
	})

	// Every goroutine swallows its own error, so Wait only synchronizes.
	_ = g.Wait()

	a.Cache.Set(key, result)
	return result
}
