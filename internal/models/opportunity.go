package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is one of the four fixed content verticals in the feed.
type Category string

const (
	CategorySocial   Category = "social"
	CategoryHobbies  Category = "hobbies"
	CategoryBusiness Category = "business"
	CategoryStocks   Category = "stocks"
)

// Categories lists every valid vertical, in display order.
var Categories = []Category{CategorySocial, CategoryHobbies, CategoryBusiness, CategoryStocks}

// Valid reports whether c is one of the known verticals.
func (c Category) Valid() bool {
	switch c {
	case CategorySocial, CategoryHobbies, CategoryBusiness, CategoryStocks:
		return true
	}
	return false
}

// Opportunity is one normalized, scored recommendation card.
// Instances are built fresh on every generation call and never mutated.
// The ID is unique within one generation batch only; it is not stable
// across batches and carries no meaning after persistence.
type Opportunity struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Trend       string   `json:"trend"`
	Score       int      `json:"score"`
	Competition string   `json:"competition"`
	Potential   string   `json:"potential"`
	Timeframe   string   `json:"timeframe"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// ActionPlan is the structured "how to pursue this" content for one
// opportunity's detail view. Built per request, never persisted.
type ActionPlan struct {
	WhyMatch    string      `json:"why_match"`
	ActionSteps []string    `json:"action_steps"`
	Resources   []string    `json:"resources"`
	Metrics     []string    `json:"metrics"`
	Challenges  []Challenge `json:"challenges"`
}

type Challenge struct {
	Challenge string `json:"challenge"`
	Solution  string `json:"solution"`
}

// SavedRecord is the persisted projection of a saved opportunity. Only
// id/category/title/score survive a save; everything else is deliberately
// dropped and reconstructed as placeholders on reopen.
type SavedRecord struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	OpportunityID string    `json:"opportunity_id"`
	Category      Category  `json:"category"`
	Title         string    `json:"title"`
	Score         int       `json:"score"`
	Status        string    `json:"status"`
	SavedAt       time.Time `json:"saved_at"`
}

// Reopen reconstructs a renderable Opportunity from a SavedRecord. Fields
// that were not persisted come back as placeholders.
func (r SavedRecord) Reopen() Opportunity {
	return Opportunity{
		ID:          r.OpportunityID,
		Category:    r.Category,
		Title:       r.Title,
		Score:       r.Score,
		Trend:       "N/A",
		Competition: "N/A",
		Potential:   "N/A",
		Timeframe:   "N/A",
		Description: "N/A",
		Tags:        []string{},
	}
}
