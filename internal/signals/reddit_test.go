package signals

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maxcole/trendscout/internal/config"
	"github.com/maxcole/trendscout/internal/models"
)

func TestSubreddits(t *testing.T) {
	tests := []struct {
		category models.Category
		first    string
		count    int
	}{
		{models.CategorySocial, "socialmedia", 4},
		{models.CategoryHobbies, "hobbies", 4},
		{models.CategoryBusiness, "Entrepreneur", 4},
		{models.CategoryStocks, "investing", 4},
		{models.Category("unknown"), "socialmedia", 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			subs := Subreddits(tt.category)
			if len(subs) != tt.count {
				t.Fatalf("expected %d subreddits, got %d", tt.count, len(subs))
			}
			if subs[0] != tt.first {
				t.Errorf("expected first subreddit %q, got %q", tt.first, subs[0])
			}
		})
	}
}

func TestTrendingFromRedditDisabled(t *testing.T) {
	c := NewCommunityClient(config.RedditConfig{Enabled: false})

	data, err := c.TrendingFromReddit(context.Background(), models.CategoryBusiness)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Subreddits) != 4 {
		t.Errorf("disabled client must still return the subreddit map, got %v", data.Subreddits)
	}
	if data.HotDiscussions == nil || len(data.HotDiscussions) != 0 {
		t.Errorf("expected empty non-nil hot discussions, got %v", data.HotDiscussions)
	}
	if data.TrendingTopics == nil || len(data.TrendingTopics) != 0 {
		t.Errorf("expected empty non-nil trending topics, got %v", data.TrendingTopics)
	}
}

func TestTrendingFromRedditFetchesHotListings(t *testing.T) {
	longBody := strings.Repeat("x", 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/hot.json") {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("listing request must carry a User-Agent")
		}
		fmt.Fprintf(w, `{"data":{"children":[
			{"data":{"id":"sticky","title":"Rules","subreddit":"socialmedia","score":9999,"stickied":true}},
			{"data":{"id":"p1","title":"Hot take","selftext_html":"<p>Hello <b>world</b></p>","subreddit":"socialmedia","score":550,"num_comments":40}},
			{"data":{"id":"p2","title":"Long one","selftext":"%s","subreddit":"socialmedia","score":10,"num_comments":2}}
		]}}`, longBody)
	}))
	defer srv.Close()

	c := NewCommunityClient(config.RedditConfig{Enabled: true, BaseURL: srv.URL})

	data, err := c.TrendingFromReddit(context.Background(), models.CategorySocial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two subreddits polled, sticky skipped in each.
	if len(data.HotDiscussions) != 4 {
		t.Fatalf("expected 4 posts (2 per subreddit, sticky skipped), got %d", len(data.HotDiscussions))
	}

	p := data.HotDiscussions[0]
	if p.ID != "p1" {
		t.Errorf("stickied post must be skipped; first post is %q", p.ID)
	}
	if p.Subreddit != "r/socialmedia" {
		t.Errorf("subreddit must carry the r/ prefix, got %q", p.Subreddit)
	}
	if p.Score == nil || *p.Score != 550 {
		t.Errorf("expected score 550, got %v", p.Score)
	}
	if p.Teaser != "Hello world" {
		t.Errorf("expected markup stripped from teaser, got %q", p.Teaser)
	}

	long := data.HotDiscussions[1]
	if len(long.Teaser) != 200 || !strings.HasSuffix(long.Teaser, "...") {
		t.Errorf("long teaser must be truncated to 200 with ellipsis, got len %d", len(long.Teaser))
	}
}

func TestTrendingFromRedditUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCommunityClient(config.RedditConfig{Enabled: true, BaseURL: srv.URL})

	data, err := c.TrendingFromReddit(context.Background(), models.CategoryStocks)
	if err != nil {
		t.Fatalf("upstream failure must not surface as an error, got %v", err)
	}
	if len(data.HotDiscussions) != 0 {
		t.Errorf("expected empty discussions on upstream failure, got %d", len(data.HotDiscussions))
	}
	if len(data.Subreddits) != 4 {
		t.Errorf("subreddit map must survive upstream failure, got %v", data.Subreddits)
	}
}

func TestAnalyzeEngagement(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		comments int
		want     string
	}{
		{"viral", 2000, 100, "Very High"},
		{"strong", 600, 100, "High"},
		{"steady", 200, 200, "Medium"},
		{"quiet", 50, 5, "Low"},
		{"high score low ratio", 1200, 600, "Medium"},
		{"zero comments keeps raw score as ratio", 1100, 0, "Very High"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := tt.score
			post := models.RedditPost{Score: &score, Comments: tt.comments}
			if got := AnalyzeEngagement(post); got != tt.want {
				t.Errorf("AnalyzeEngagement(score=%v, comments=%d) = %q, want %q", tt.score, tt.comments, got, tt.want)
			}
		})
	}
}

func TestAnalyzeEngagementNilScore(t *testing.T) {
	if got := AnalyzeEngagement(models.RedditPost{Comments: 10}); got != "Low" {
		t.Errorf("nil score must grade Low, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 200); got != "short" {
		t.Errorf("short text must pass through, got %q", got)
	}
	long := strings.Repeat("a", 250)
	got := truncate(long, 200)
	if len(got) != 200 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 200 chars ending in ellipsis, got len %d", len(got))
	}
}
