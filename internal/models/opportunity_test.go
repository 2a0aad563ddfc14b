package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("%s must be valid", c)
		}
	}
	for _, c := range []Category{"", "crypto", "Social", "SOCIAL"} {
		if c.Valid() {
			t.Errorf("%q must be invalid", c)
		}
	}
}

func TestSavedRecordReopen(t *testing.T) {
	r := SavedRecord{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		OpportunityID: "trend-abc",
		Category:      CategoryBusiness,
		Title:         "Niche newsletter",
		Score:         82,
		Status:        "saved",
	}

	o := r.Reopen()

	if o.ID != "trend-abc" || o.Category != CategoryBusiness || o.Title != "Niche newsletter" || o.Score != 82 {
		t.Errorf("persisted fields must survive reopen: %+v", o)
	}
	for name, got := range map[string]string{
		"trend":       o.Trend,
		"competition": o.Competition,
		"potential":   o.Potential,
		"timeframe":   o.Timeframe,
		"description": o.Description,
	} {
		if got != "N/A" {
			t.Errorf("%s must come back as placeholder, got %q", name, got)
		}
	}
	if o.Tags == nil || len(o.Tags) != 0 {
		t.Errorf("tags must come back empty non-nil, got %v", o.Tags)
	}
}

func TestEmptySignalsShape(t *testing.T) {
	s := EmptySignals()
	if s.Trends == nil || s.Stocks == nil || s.Crypto == nil {
		t.Error("empty result must use empty lists, not nil")
	}
	if s.Reddit.Subreddits == nil || s.Reddit.HotDiscussions == nil || s.Reddit.TrendingTopics == nil {
		t.Error("empty reddit data must use empty lists, not nil")
	}
}
