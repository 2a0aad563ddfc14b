package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxcole/trendscout/internal/models"
)

// ErrProfileNotFound is returned when a user has not completed
// onboarding yet. Callers surface this; it is a real precondition
// violation, not a soft-empty case.
var ErrProfileNotFound = errors.New("user profile not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// GetUserProfile loads one user's onboarding profile.
func (s *Store) GetUserProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.QueryRow(ctx, `
		SELECT interests, skill_level, time_available
		FROM user_profiles
		WHERE user_id = $1
	`, userID).Scan(&profile.Interests, &profile.SkillLevel, &profile.TimeAvailable)
	if err == pgx.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// SaveUserProfile upserts the onboarding profile.
func (s *Store) SaveUserProfile(ctx context.Context, userID uuid.UUID, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.Interests == nil {
		profile.Interests = []string{}
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_profiles (user_id, interests, skill_level, time_available, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			interests = EXCLUDED.interests,
			skill_level = EXCLUDED.skill_level,
			time_available = EXCLUDED.time_available,
			updated_at = NOW()
	`, userID, profile.Interests, profile.SkillLevel, profile.TimeAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return &profile, nil
}

// SaveOpportunity persists the saved projection of one card. Only
// id/category/title/score are stored; richer fields are rebuilt as
// placeholders if the record is reopened.
func (s *Store) SaveOpportunity(ctx context.Context, userID uuid.UUID, opp models.Opportunity) (*models.SavedRecord, error) {
	var record models.SavedRecord
	err := s.db.QueryRow(ctx, `
		INSERT INTO saved_opportunities (user_id, opportunity_id, category, title, score, status)
		VALUES ($1, $2, $3, $4, $5, 'saved')
		ON CONFLICT (user_id, opportunity_id) DO UPDATE SET
			title = EXCLUDED.title,
			score = EXCLUDED.score,
			saved_at = NOW()
		RETURNING id, user_id, opportunity_id, category, title, score, status, saved_at
	`, userID, opp.ID, opp.Category, opp.Title, opp.Score).Scan(
		&record.ID, &record.UserID, &record.OpportunityID, &record.Category,
		&record.Title, &record.Score, &record.Status, &record.SavedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save opportunity: %w", err)
	}
	return &record, nil
}

// GetSavedOpportunities lists a user's saved records, newest first.
func (s *Store) GetSavedOpportunities(ctx context.Context, userID uuid.UUID) ([]models.SavedRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, opportunity_id, category, title, score, status, saved_at
		FROM saved_opportunities
		WHERE user_id = $1
		ORDER BY saved_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved opportunities: %w", err)
	}
	defer rows.Close()

	records := []models.SavedRecord{}
	for rows.Next() {
		var r models.SavedRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.OpportunityID, &r.Category,
			&r.Title, &r.Score, &r.Status, &r.SavedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteSavedOpportunity removes one saved record owned by the user.
func (s *Store) DeleteSavedOpportunity(ctx context.Context, userID, recordID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM saved_opportunities
		WHERE id = $1 AND user_id = $2
	`, recordID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved opportunity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
