package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maxcole/trendscout/internal/feed"
	"github.com/maxcole/trendscout/internal/models"
)

// GenerateOpportunities asks the LLM for category-specific opportunity
// cards, grounding the stocks prompt in live market signals. Any
// generation or parse failure returns an error so the caller can fall
// back to the heuristic generator.
func (c *Client) GenerateOpportunities(ctx context.Context, category models.Category, profile *models.UserProfile, sig models.SignalsResult) ([]models.Opportunity, error) {
	prompt := buildPrompt(category, profile, marketContext(sig))

	resp, err := c.GenerateCompletion(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := DecodeArray(resp, &raw); err != nil {
		// Retry in text mode; some models ignore format hints.
		resp, err = c.GenerateCompletion(ctx, prompt, false)
		if err != nil {
			return nil, err
		}
		if err := DecodeArray(resp, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse opportunity list: %w", err)
		}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("llm returned no opportunities")
	}

	batch := time.Now().Unix()
	out := make([]models.Opportunity, 0, len(raw))
	for i, m := range raw {
		o := normalizeOpportunity(m, category)
		o.ID = fmt.Sprintf("ai-%s-%d-%d", category, batch, i)
		o.Score = feed.MatchScore(o.Trend, o.Competition, o.Potential, o.Timeframe, profile)
		out = append(out, o)
	}
	return out, nil
}

// normalizeOpportunity maps one loosely-typed LLM item onto the model,
// with a fixed alias priority per field.
func normalizeOpportunity(m map[string]any, category models.Category) models.Opportunity {
	tags := aliasStrings(m, "tags", "Tags")
	if tags == nil {
		tags = []string{"Trending", "New", "Opportunity"}
	}

	title := aliasString(m, "title", "Title")
	if title == "" {
		title = "Emerging opportunity"
	}

	trend := aliasString(m, "trend", "Trend status")
	if trend == "" {
		trend = "Rising Fast"
	}

	competition := aliasString(m, "competition", "Competition level")
	if competition == "" {
		competition = "Medium"
	}

	potential := aliasString(m, "potential", "Potential reach/earnings", "Potential earnings", "Potential returns")
	if potential == "" {
		potential = "Medium"
	}

	timeframe := aliasString(m, "timeframe", "Timeframe")
	if timeframe == "" {
		timeframe = "2-4 weeks"
	}

	return models.Opportunity{
		Category:    category,
		Title:       title,
		Description: aliasString(m, "description", "Description"),
		Trend:       trend,
		Competition: competition,
		Potential:   potential,
		Timeframe:   timeframe,
		Tags:        tags,
	}
}

// marketContext renders the live market signals as prompt context for the
// stocks category.
func marketContext(sig models.SignalsResult) string {
	var b strings.Builder

	if len(sig.Crypto) > 0 {
		b.WriteString("\n\nTrending Cryptocurrencies:\n")
		for i, c := range sig.Crypto {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "- %s (%s): %+.2f%% (24h)\n", c.Name, c.Symbol, c.PriceChange24h)
		}
	}
	if len(sig.Stocks) > 0 {
		b.WriteString("\nSector Performance:\n")
		for _, s := range sig.Stocks {
			fmt.Fprintf(&b, "- %s: %+.2f%%\n", s.Sector, s.Change)
		}
	}
	return b.String()
}

func buildPrompt(category models.Category, profile *models.UserProfile, trendData string) string {
	skill := "beginner"
	timeAvailable := "casual"
	if profile != nil {
		if profile.SkillLevel != "" {
			skill = profile.SkillLevel
		}
		if profile.TimeAvailable != "" {
			timeAvailable = profile.TimeAvailable
		}
	}

	var intro string
	switch category {
	case models.CategoryStocks:
		intro = "Generate 3 investment opportunities based on REAL current market data and trends. Use the actual market data provided below." + trendData
	case models.CategoryHobbies:
		intro = "Generate 3 hobby opportunities based on emerging trends. Focus on activities gaining popularity."
	case models.CategoryBusiness:
		intro = "Generate 3 business/side hustle opportunities based on current market demand."
	default:
		intro = "Generate 3 trending social media content opportunities."
		if trendData != "" {
			intro += " Use the trending data below:" + trendData
		}
	}

	return fmt.Sprintf(`%s

For each opportunity, provide:
- Title (concise, specific idea)
- Description (2-3 sentences explaining the opportunity and why it's trending NOW)
- Trend status (Rising Fast, Steady Growth, or Exploding)
- Competition level (Low, Medium, or High)
- Potential (Low, Medium, High, or Very High)
- Timeframe to capitalize (1-2 weeks, 2-4 weeks, 1-3 months)
- 3 relevant tags

User profile:
- Skill level: %s
- Time available: %s

Format as JSON array with keys: title, description, trend, competition, potential, timeframe, tags.
Respond ONLY with the JSON array.`, intro, skill, timeAvailable)
}

type rawPlan struct {
	WhyMatch    string   `json:"whyMatch"`
	ActionSteps []string `json:"actionSteps"`
	Resources   []string `json:"resources"`
	Metrics     []string `json:"metrics"`
	Challenges  []struct {
		Challenge string `json:"challenge"`
		Solution  string `json:"solution"`
	} `json:"challenges"`
}

// GenerateActionPlan asks the LLM for a tailored plan. On any failure the
// caller must use the static template; a detail screen always renders.
func (c *Client) GenerateActionPlan(ctx context.Context, opportunity models.Opportunity, profile *models.UserProfile) (models.ActionPlan, error) {
	skill := "beginner"
	if profile != nil && profile.SkillLevel != "" {
		skill = profile.SkillLevel
	}

	prompt := fmt.Sprintf(`Create a detailed action plan for pursuing this opportunity:

Title: %s
Description: %s
Category: %s

The user is %s level. Provide:
- whyMatch: one sentence on why this fits the user
- actionSteps: 5-7 ordered concrete steps
- resources: needed resources
- metrics: success metrics to track
- challenges: array of {challenge, solution} pairs

Format as a JSON object with keys: whyMatch, actionSteps, resources, metrics, challenges.
Respond ONLY with the JSON object.`, opportunity.Title, opportunity.Description, opportunity.Category, skill)

	resp, err := c.GenerateCompletion(ctx, prompt, true)
	if err != nil {
		return models.ActionPlan{}, err
	}

	var raw rawPlan
	if err := DecodeObject(resp, &raw); err != nil {
		return models.ActionPlan{}, fmt.Errorf("failed to parse action plan: %w", err)
	}
	if raw.WhyMatch == "" || len(raw.ActionSteps) == 0 {
		return models.ActionPlan{}, fmt.Errorf("incomplete action plan from llm")
	}

	plan := models.ActionPlan{
		WhyMatch:    raw.WhyMatch,
		ActionSteps: raw.ActionSteps,
		Resources:   raw.Resources,
		Metrics:     raw.Metrics,
	}
	for _, ch := range raw.Challenges {
		plan.Challenges = append(plan.Challenges, models.Challenge{Challenge: ch.Challenge, Solution: ch.Solution})
	}

	// The shape contract: every key populated.
	if len(plan.Resources) == 0 {
		plan.Resources = []string{"Time commitment", "Learning resources", "Platform accounts"}
	}
	if len(plan.Metrics) == 0 {
		plan.Metrics = []string{"Engagement", "Lead volume", "Revenue or pipeline"}
	}
	if len(plan.Challenges) == 0 {
		plan.Challenges = []models.Challenge{{
			Challenge: "Overwhelm / analysis-paralysis",
			Solution:  "Reduce scope; ship smallest possible version.",
		}}
	}

	return plan, nil
}
