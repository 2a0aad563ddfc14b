package feed

import (
	"math"
	"strings"

	"github.com/maxcole/trendscout/internal/models"
)

// Per-source score formulas. These are the one place where numeric
// semantics matter bit-for-bit; tests pin them down.

const trendBaseScore = 80

// RedditScore maps a raw post score (nil means unknown, treated as 100)
// to a match score. Capped at 90 so community buzz never outranks a
// strong trend plus boosts.
func RedditScore(raw *float64) int {
	base := 100.0
	if raw != nil {
		base = *raw
	}
	score := 65 + roundToInt(base/50)
	if score > 90 {
		score = 90
	}
	return ClampScore(score)
}

// StockScore maps a daily percent change to a match score. The change
// contribution is bounded to [-5, +10] so a single wild session cannot
// dominate the feed.
func StockScore(change float64) int {
	delta := roundToInt(change)
	if delta < -5 {
		delta = -5
	}
	if delta > 10 {
		delta = 10
	}
	return ClampScore(70 + delta)
}

// CryptoScore maps a 24h percent change to a match score.
func CryptoScore(priceChange24h float64) int {
	return ClampScore(72 + roundToInt(priceChange24h/5))
}

// ClampScore bounds a score to the [0,100] invariant. Every pass clamps,
// including the stock and crypto formulas whose raw output can leave the
// range on extreme inputs.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func roundToInt(v float64) int {
	return int(math.Round(v))
}

// MatchScore is the profile-aware heuristic used for LLM-generated
// opportunities, where trend/competition/potential arrive as labels
// rather than numbers. Base 60, boosted by label quality and profile
// fit, capped at 100.
func MatchScore(trend, competition, potential, timeframe string, profile *models.UserProfile) int {
	score := 60

	switch trend {
	case "Exploding":
		score += 20
	case "High Momentum":
		score += 18
	case "Rising Fast":
		score += 15
	case "Rising Interest":
		score += 12
	case "Steady Growth":
		score += 10
	default:
		score += 10
	}

	switch competition {
	case "Low":
		score += 15
	case "Medium":
		score += 5
	case "High":
		score -= 5
	}

	switch potential {
	case "Very High":
		score += 15
	case "High":
		score += 10
	case "Medium":
		score += 5
	case "Low":
		// no boost
	default:
		score += 5
	}

	if profile != nil {
		if profile.SkillLevel == "beginner" && competition == "Low" {
			score += 5
		}
		if profile.SkillLevel == "expert" && competition == "High" {
			score += 3
		}
		if profile.TimeAvailable == "casual" && strings.Contains(timeframe, "1-2 weeks") {
			score += 5
		}
	}

	return ClampScore(score)
}
