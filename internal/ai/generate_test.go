package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maxcole/trendscout/internal/models"
)

// newOllamaStub serves /api/generate with a fixed response body, recording
// the prompts it received.
func newOllamaStub(t *testing.T, response string, prompts *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if prompts != nil {
			*prompts = append(*prompts, req.Prompt)
		}
		json.NewEncoder(w).Encode(map[string]any{"response": response, "done": true})
	}))
}

func TestGenerateOpportunities(t *testing.T) {
	body := `[
		{"title": "AI Shorts Factory", "description": "Batch short clips.", "trend": "Exploding",
		 "competition": "Low", "potential": "Very High", "timeframe": "1-2 weeks", "tags": ["AI", "Video"]},
		{"title": "Niche Repair Guides", "description": "How-to content."}
	]`
	srv := newOllamaStub(t, body, nil)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	profile := &models.UserProfile{SkillLevel: "beginner", TimeAvailable: "casual"}

	out, err := c.GenerateOpportunities(context.Background(), models.CategorySocial, profile, models.EmptySignals())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(out))
	}

	first := out[0]
	if first.Title != "AI Shorts Factory" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.Category != models.CategorySocial {
		t.Errorf("category must come from the request, got %s", first.Category)
	}
	if !strings.HasPrefix(first.ID, "ai-social-") {
		t.Errorf("unexpected id %q", first.ID)
	}
	// Exploding(+20) + Low(+15) + Very High(+15) + beginner/Low(+5) + casual/1-2 weeks(+5) caps at 100.
	if first.Score != 100 {
		t.Errorf("expected score 100, got %d", first.Score)
	}

	second := out[1]
	if second.Trend != "Rising Fast" || second.Competition != "Medium" || second.Potential != "Medium" || second.Timeframe != "2-4 weeks" {
		t.Errorf("missing fields must take defaults, got %+v", second)
	}
	if len(second.Tags) != 3 {
		t.Errorf("missing tags must take the default triple, got %v", second.Tags)
	}
}

func TestGenerateOpportunitiesRetriesInTextMode(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req struct {
			Format string `json:"format"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Format == "json" {
			json.NewEncoder(w).Encode(map[string]any{"response": "I refuse to emit arrays.", "done": true})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"response": `Here: [{"title":"Plan B"}]`, "done": true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")

	out, err := c.GenerateOpportunities(context.Background(), models.CategoryBusiness, nil, models.EmptySignals())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected json-mode then text-mode calls, got %d", calls)
	}
	if len(out) != 1 || out[0].Title != "Plan B" {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestGenerateOpportunitiesEmptyArray(t *testing.T) {
	srv := newOllamaStub(t, `[]`, nil)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	if _, err := c.GenerateOpportunities(context.Background(), models.CategorySocial, nil, models.EmptySignals()); err == nil {
		t.Error("empty llm output must be an error so the heuristic path runs")
	}
}

func TestGenerateOpportunitiesStocksPromptCarriesMarketData(t *testing.T) {
	var prompts []string
	srv := newOllamaStub(t, `[{"title":"Sector rotation watch"}]`, &prompts)
	defer srv.Close()

	sig := models.EmptySignals()
	sig.Stocks = []models.StockItem{{Sector: "Technology", Symbol: "XLK", Change: 3.2}}
	sig.Crypto = []models.CryptoItem{{Name: "Bitcoin", Symbol: "BTC", PriceChange24h: 4.5}}

	c := NewClient(srv.URL, "test-model")
	if _, err := c.GenerateOpportunities(context.Background(), models.CategoryStocks, nil, sig); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prompts) == 0 {
		t.Fatal("no prompt recorded")
	}
	prompt := prompts[0]
	if !strings.Contains(prompt, "Technology: +3.20%") {
		t.Errorf("prompt must embed sector performance, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Bitcoin (BTC): +4.50%") {
		t.Errorf("prompt must embed trending crypto, got:\n%s", prompt)
	}
}

func TestGenerateActionPlan(t *testing.T) {
	body := `{"whyMatch": "Fits your editing background.",
		"actionSteps": ["Pick a niche", "Ship a first edit"],
		"challenges": [{"challenge": "Churn", "solution": "Retainers"}]}`
	srv := newOllamaStub(t, body, nil)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	opp := models.Opportunity{Title: "Video editing", Category: models.CategorySocial}

	plan, err := c.GenerateActionPlan(context.Background(), opp, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.WhyMatch != "Fits your editing background." {
		t.Errorf("unexpected whyMatch %q", plan.WhyMatch)
	}
	if len(plan.ActionSteps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(plan.ActionSteps))
	}
	// Keys the model omitted are backfilled so the shape contract holds.
	if len(plan.Resources) == 0 || len(plan.Metrics) == 0 {
		t.Errorf("omitted resources/metrics must be backfilled, got %+v", plan)
	}
	if len(plan.Challenges) != 1 || plan.Challenges[0].Solution != "Retainers" {
		t.Errorf("unexpected challenges: %+v", plan.Challenges)
	}
}

func TestGenerateActionPlanIncomplete(t *testing.T) {
	srv := newOllamaStub(t, `{"actionSteps": []}`, nil)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	opp := models.Opportunity{Title: "X"}

	if _, err := c.GenerateActionPlan(context.Background(), opp, nil); err == nil {
		t.Error("plan without whyMatch/steps must be an error so the template runs")
	}
}

func TestGenerateCompletionNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	if _, err := c.GenerateCompletion(context.Background(), "hi", true); err == nil {
		t.Error("expected error on upstream failure")
	}
}

func TestBuildPromptPerCategory(t *testing.T) {
	tests := []struct {
		category models.Category
		contains string
	}{
		{models.CategorySocial, "social media content"},
		{models.CategoryHobbies, "hobby opportunities"},
		{models.CategoryBusiness, "side hustle"},
		{models.CategoryStocks, "investment opportunities"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			prompt := buildPrompt(tt.category, nil, "")
			if !strings.Contains(prompt, tt.contains) {
				t.Errorf("prompt for %s must mention %q", tt.category, tt.contains)
			}
			if !strings.Contains(prompt, "Skill level: beginner") {
				t.Error("nil profile must default to beginner")
			}
		})
	}
}

func TestNormalizeOpportunityAliases(t *testing.T) {
	m := map[string]any{
		"Title":                    "Aliased",
		"Trend status":             "Steady Growth",
		"Competition level":        "Low",
		"Potential reach/earnings": "High",
		"Timeframe":                "1-3 months",
	}

	o := normalizeOpportunity(m, models.CategoryHobbies)
	if o.Title != "Aliased" || o.Trend != "Steady Growth" || o.Competition != "Low" ||
		o.Potential != "High" || o.Timeframe != "1-3 months" {
		t.Errorf("alias keys not honored: %+v", o)
	}
}
