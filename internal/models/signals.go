package models

// UserProfile is the onboarding output: interests, skill level and time
// budget. Owned by the store; signal and feed code treats it as read-only.
type UserProfile struct {
	Interests     []string `json:"interests"`
	SkillLevel    string   `json:"skill_level"`    // beginner | intermediate | expert
	TimeAvailable string   `json:"time_available"` // casual | serious | fulltime
}

// TrendItem is one raw item from a general trend-topic source. All fields
// are optional; absent values get defaults during feed generation.
type TrendItem struct {
	ID      string   `json:"id,omitempty"`
	Title   string   `json:"title,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Traffic string   `json:"traffic,omitempty"` // e.g. "1.2M", used for competition estimates
	Tags    []string `json:"tags,omitempty"`
}

// RedditPost is one community discussion item. Score is a pointer so a
// missing value can be told apart from zero; generation defaults it to 100.
type RedditPost struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title,omitempty"`
	Teaser    string   `json:"teaser,omitempty"`
	Subreddit string   `json:"subreddit,omitempty"`
	Score     *float64 `json:"score,omitempty"`
	Comments  int      `json:"comments,omitempty"`
}

// RedditData is the community-signal slice of a SignalsResult.
type RedditData struct {
	Subreddits     []string     `json:"subreddits"`
	TrendingTopics []RedditPost `json:"trending_topics"`
	HotDiscussions []RedditPost `json:"hot_discussions"`
}

// EmptyRedditData is the documented empty-shaped default for community
// signal failures.
func EmptyRedditData() RedditData {
	return RedditData{
		Subreddits:     []string{},
		TrendingTopics: []RedditPost{},
		HotDiscussions: []RedditPost{},
	}
}

// StockItem is one sector-proxy quote.
type StockItem struct {
	Sector string  `json:"sector"`
	Symbol string  `json:"symbol"`
	Price  string  `json:"price,omitempty"`
	Change float64 `json:"change"`          // percent move on the day
	Trend  string  `json:"trend,omitempty"` // Rising | Falling | Stable
}

// CryptoItem is one trending coin.
type CryptoItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Symbol         string  `json:"symbol"`
	Rank           int     `json:"rank,omitempty"`
	PriceChange24h float64 `json:"price_change_24h"`
}

// CryptoSentiment is the community vote split for one coin.
type CryptoSentiment struct {
	Bullish   float64 `json:"bullish"`
	Bearish   float64 `json:"bearish"`
	Sentiment string  `json:"sentiment"` // Very Bullish | Bullish | Bearish | Neutral
}

// SignalsResult is the merged output of querying every signal source for
// one category. It lives in the aggregator cache for 60 seconds and is
// never persisted.
type SignalsResult struct {
	Trends []TrendItem  `json:"trends"`
	Reddit RedditData   `json:"reddit"`
	Stocks []StockItem  `json:"stocks"`
	Crypto []CryptoItem `json:"crypto"`
}

// EmptySignals is the all-empty result used when every source fails. It is
// a valid generator input and triggers the fallback opportunity.
func EmptySignals() SignalsResult {
	return SignalsResult{
		Trends: []TrendItem{},
		Reddit: EmptyRedditData(),
		Stocks: []StockItem{},
		Crypto: []CryptoItem{},
	}
}
