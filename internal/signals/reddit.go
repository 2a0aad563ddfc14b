package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/maxcole/trendscout/internal/config"
	"github.com/maxcole/trendscout/internal/models"
)

// subredditMap is the fixed category → community lookup table.
var subredditMap = map[models.Category][]string{
	models.CategorySocial:   {"socialmedia", "content_marketing", "NewTubers", "SmallYTChannel"},
	models.CategoryHobbies:  {"hobbies", "findareddit", "LearnUselessTalents", "IWantToLearn"},
	models.CategoryBusiness: {"Entrepreneur", "smallbusiness", "sidehustle", "passive_income"},
	models.CategoryStocks:   {"investing", "stocks", "cryptocurrency", "wallstreetbets"},
}

// Subreddits returns the community list for a category, defaulting to the
// social set for unknown input.
func Subreddits(category models.Category) []string {
	if subs, ok := subredditMap[category]; ok {
		return subs
	}
	return subredditMap[models.CategorySocial]
}

// CommunityClient wraps the community-discussion source. With Enabled
// false (the default) it returns the subreddit map and empty discussion
// lists; with Enabled true it reads the public listing JSON for the first
// communities in the map. Either way it never returns an error to the
// aggregator: any failure degrades to the empty-shaped default.
type CommunityClient struct {
	Enabled bool
	BaseURL string
	Client  *http.Client
}

func NewCommunityClient(cfg config.RedditConfig) *CommunityClient {
	return &CommunityClient{
		Enabled: cfg.Enabled,
		BaseURL: cfg.BaseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// TrendingFromReddit returns the community signal slice for a category.
func (c *CommunityClient) TrendingFromReddit(ctx context.Context, category models.Category) (models.RedditData, error) {
	data := models.EmptyRedditData()
	data.Subreddits = Subreddits(category)

	if !c.Enabled {
		return data, nil
	}

	// Two communities is enough for a feed pass; the generator caps at
	// 3+3 items anyway.
	for i, sub := range data.Subreddits {
		if i >= 2 {
			break
		}
		posts, err := c.fetchHot(ctx, sub)
		if err != nil {
			log.Printf("error fetching r/%s: %v", sub, err)
			continue
		}
		data.HotDiscussions = append(data.HotDiscussions, posts...)
	}

	return data, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID           string  `json:"id"`
				Title        string  `json:"title"`
				Selftext     string  `json:"selftext"`
				SelftextHTML string  `json:"selftext_html"`
				Subreddit    string  `json:"subreddit"`
				Score        float64 `json:"score"`
				NumComments  int     `json:"num_comments"`
				Stickied     bool    `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *CommunityClient) fetchHot(ctx context.Context, subreddit string) ([]models.RedditPost, error) {
	endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=5", c.BaseURL, subreddit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "trendscout/1.0 (signal aggregation)")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, err
	}

	posts := make([]models.RedditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		p := child.Data
		if p.Stickied {
			continue
		}
		teaser := p.Selftext
		if p.SelftextHTML != "" {
			teaser = htmlToText(p.SelftextHTML)
		}
		score := p.Score
		posts = append(posts, models.RedditPost{
			ID:        p.ID,
			Title:     p.Title,
			Teaser:    truncate(teaser, 200),
			Subreddit: "r/" + p.Subreddit,
			Score:     &score,
			Comments:  p.NumComments,
		})
	}
	return posts, nil
}

// AnalyzeEngagement grades a post's traction from its score and comment
// ratio.
func AnalyzeEngagement(post models.RedditPost) string {
	score := 0.0
	if post.Score != nil {
		score = *post.Score
	}
	ratio := score
	if post.Comments > 0 {
		ratio = score / float64(post.Comments)
	}

	switch {
	case ratio > 10 && score > 1000:
		return "Very High"
	case ratio > 5 && score > 500:
		return "High"
	case score > 100:
		return "Medium"
	default:
		return "Low"
	}
}

// htmlToText strips markup from a post body, collapsing whitespace.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return text[:maxLen-3] + "..."
	}
	return text[:maxLen]
}
