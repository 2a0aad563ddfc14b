package feed

import (
	"fmt"

	"github.com/maxcole/trendscout/internal/models"
)

// BuildActionPlan produces the structured detail-view content for one
// opportunity. It is a deterministic template parameterized by the user's
// skill level and time budget, with no external dependency, so a detail
// screen can always render.
func BuildActionPlan(opportunity models.Opportunity, profile *models.UserProfile) models.ActionPlan {
	skill := "current"
	timeNote := "."
	if profile != nil {
		if profile.SkillLevel != "" {
			skill = profile.SkillLevel
		}
		if profile.TimeAvailable != "" {
			timeNote = fmt.Sprintf(" and %s time available.", profile.TimeAvailable)
		}
	}

	return models.ActionPlan{
		WhyMatch: fmt.Sprintf("This opportunity matches your %s level%s", skill, timeNote),
		ActionSteps: []string{
			"Research demand and competitors for 30-60 minutes.",
			"Define a lightweight MVP or first post/offer.",
			"Publish or ship within 48 hours; collect feedback.",
			"Iterate weekly; track a single metric (leads, views, MRR).",
			"Scale the winning path; cut what doesn't move the metric.",
		},
		Resources: []string{"Time commitment", "Learning resources", "Platform accounts"},
		Metrics:   []string{"Engagement", "Lead volume", "Revenue or pipeline"},
		Challenges: []models.Challenge{
			{
				Challenge: "Overwhelm / analysis-paralysis",
				Solution:  "Reduce scope; ship smallest possible version.",
			},
		},
	}
}
