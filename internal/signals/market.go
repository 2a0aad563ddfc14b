package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/maxcole/trendscout/internal/config"
	"github.com/maxcole/trendscout/internal/models"
)

// MarketClient wraps the two read-only market feeds: sector quotes by
// symbol (Alpha Vantage) and trending coins (CoinGecko). Both fetch
// methods degrade to empty lists on failure; "no data" is a normal
// signal-absence condition downstream.
type MarketClient struct {
	QuoteURL  string
	QuoteKey  string
	CryptoURL string
	Sectors   []config.SectorSpec
	Client    *http.Client

	// The quote API allows 5 calls per minute on the free tier. Sector
	// calls are serialized through this limiter rather than fired
	// concurrently.
	limiter *rate.Limiter
}

func NewMarketClient(cfg config.MarketConfig) *MarketClient {
	sectors := cfg.Sectors
	if len(sectors) == 0 {
		sectors = config.DefaultSectors
	}
	return &MarketClient{
		QuoteURL:  cfg.AlphaVantageURL,
		QuoteKey:  cfg.AlphaVantageKey,
		CryptoURL: cfg.CoinGeckoURL,
		Sectors:   sectors,
		Client:    &http.Client{Timeout: 15 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(12*time.Second), 1),
	}
}

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

// FetchSectorQuotes queries the five sector proxies sequentially,
// respecting the quota limiter between calls. A failed sector is omitted;
// it never aborts the remaining calls.
func (m *MarketClient) FetchSectorQuotes(ctx context.Context) ([]models.StockItem, error) {
	out := []models.StockItem{}

	for _, sector := range m.Sectors {
		if err := m.limiter.Wait(ctx); err != nil {
			log.Printf("sector quote wait aborted: %v", err)
			return out, nil
		}

		item, err := m.fetchQuote(ctx, sector)
		if err != nil {
			log.Printf("error fetching %s quote: %v", sector.Name, err)
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

func (m *MarketClient) fetchQuote(ctx context.Context, sector config.SectorSpec) (models.StockItem, error) {
	endpoint := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		m.QuoteURL, url.QueryEscape(sector.Symbol), url.QueryEscape(m.QuoteKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.StockItem{}, err
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return models.StockItem{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.StockItem{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var parsed globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.StockItem{}, err
	}
	if len(parsed.GlobalQuote) == 0 {
		return models.StockItem{}, fmt.Errorf("no quote data for %s", sector.Symbol)
	}

	change := parsePercent(parsed.GlobalQuote["10. change percent"])
	return models.StockItem{
		Sector: sector.Name,
		Symbol: sector.Symbol,
		Price:  parsed.GlobalQuote["05. price"],
		Change: change,
		Trend:  TrendLabel(change),
	}, nil
}

// TrendLabel maps a daily percent change to the coarse trend label shown
// on stock-derived cards.
func TrendLabel(change float64) string {
	switch {
	case change > 2:
		return "Rising"
	case change < -2:
		return "Falling"
	default:
		return "Stable"
	}
}

func parsePercent(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "%"), 64)
	if err != nil {
		return 0
	}
	return v
}

type trendingCoinsResponse struct {
	Coins []struct {
		Item struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			Symbol        string `json:"symbol"`
			MarketCapRank int    `json:"market_cap_rank"`
			Data          struct {
				PriceChange24h struct {
					USD float64 `json:"usd"`
				} `json:"price_change_percentage_24h"`
			} `json:"data"`
		} `json:"item"`
	} `json:"coins"`
}

// FetchTrendingCrypto queries the trending-coins endpoint and maps the top
// 10 results. Returns an empty list on any failure.
func (m *MarketClient) FetchTrendingCrypto(ctx context.Context) ([]models.CryptoItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.CryptoURL+"/search/trending", nil)
	if err != nil {
		log.Printf("error building crypto request: %v", err)
		return []models.CryptoItem{}, nil
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		log.Printf("error fetching crypto: %v", err)
		return []models.CryptoItem{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("crypto endpoint returned status %d", resp.StatusCode)
		return []models.CryptoItem{}, nil
	}

	var parsed trendingCoinsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("error decoding crypto response: %v", err)
		return []models.CryptoItem{}, nil
	}

	coins := parsed.Coins
	if len(coins) > 10 {
		coins = coins[:10]
	}

	out := make([]models.CryptoItem, 0, len(coins))
	for _, c := range coins {
		out = append(out, models.CryptoItem{
			ID:             c.Item.ID,
			Name:           c.Item.Name,
			Symbol:         c.Item.Symbol,
			Rank:           c.Item.MarketCapRank,
			PriceChange24h: c.Item.Data.PriceChange24h.USD,
		})
	}
	return out, nil
}

type coinDetailResponse struct {
	SentimentVotesUpPercentage   float64 `json:"sentiment_votes_up_percentage"`
	SentimentVotesDownPercentage float64 `json:"sentiment_votes_down_percentage"`
}

// CryptoSentiment fetches the community vote split for one coin. Neutral
// 50/50 on any failure.
func (m *MarketClient) CryptoSentiment(ctx context.Context, coinID string) models.CryptoSentiment {
	neutral := models.CryptoSentiment{Bullish: 50, Bearish: 50, Sentiment: "Neutral"}

	endpoint := fmt.Sprintf("%s/coins/%s?localization=false", m.CryptoURL, url.PathEscape(coinID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return neutral
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		log.Printf("error fetching sentiment for %s: %v", coinID, err)
		return neutral
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return neutral
	}

	var parsed coinDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return neutral
	}

	up := parsed.SentimentVotesUpPercentage
	down := parsed.SentimentVotesDownPercentage
	if up == 0 && down == 0 {
		return neutral
	}

	label := "Bearish"
	if up > 60 {
		label = "Very Bullish"
	} else if up > 50 {
		label = "Bullish"
	}

	return models.CryptoSentiment{Bullish: up, Bearish: down, Sentiment: label}
}
