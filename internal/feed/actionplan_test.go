package feed

import (
	"strings"
	"testing"

	"github.com/maxcole/trendscout/internal/models"
)

func TestBuildActionPlanShape(t *testing.T) {
	opp := models.Opportunity{ID: "trend-1", Title: "X", Category: models.CategorySocial}

	plan := BuildActionPlan(opp, nil)

	if plan.WhyMatch == "" {
		t.Error("whyMatch must be populated")
	}
	if len(plan.ActionSteps) != 5 {
		t.Errorf("expected 5 action steps, got %d", len(plan.ActionSteps))
	}
	if len(plan.Resources) == 0 {
		t.Error("resources must be populated")
	}
	if len(plan.Metrics) == 0 {
		t.Error("metrics must be populated")
	}
	if len(plan.Challenges) == 0 {
		t.Error("challenges must be populated")
	}
	for i, ch := range plan.Challenges {
		if ch.Challenge == "" || ch.Solution == "" {
			t.Errorf("challenge %d must pair a challenge with a solution", i)
		}
	}
}

func TestBuildActionPlanProfilePersonalization(t *testing.T) {
	opp := models.Opportunity{ID: "trend-1", Title: "X"}

	tests := []struct {
		name    string
		profile *models.UserProfile
		want    string
	}{
		{"nil profile", nil, "This opportunity matches your current level."},
		{"skill only", &models.UserProfile{SkillLevel: "beginner"}, "This opportunity matches your beginner level."},
		{
			"skill and time",
			&models.UserProfile{SkillLevel: "expert", TimeAvailable: "part-time"},
			"This opportunity matches your expert level and part-time time available.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := BuildActionPlan(opp, tt.profile)
			if plan.WhyMatch != tt.want {
				t.Errorf("whyMatch = %q, want %q", plan.WhyMatch, tt.want)
			}
		})
	}
}

func TestBuildActionPlanDeterministic(t *testing.T) {
	opp := models.Opportunity{ID: "trend-1", Title: "X"}
	profile := &models.UserProfile{SkillLevel: "beginner", TimeAvailable: "casual"}

	a := BuildActionPlan(opp, profile)
	b := BuildActionPlan(opp, profile)

	if a.WhyMatch != b.WhyMatch || strings.Join(a.ActionSteps, "|") != strings.Join(b.ActionSteps, "|") {
		t.Error("plan must be deterministic for identical inputs")
	}
}
