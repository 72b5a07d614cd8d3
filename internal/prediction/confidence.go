package prediction

import "math"

const baseConfidenceScore = 50.0

// CalculateConfidence scores how much to trust a prediction from the rating gap, the
// smaller of the two sample sizes and how far the probability sits from a coin flip.
// The score is clamped to [0, 100].
func CalculateConfidence(ratingA, ratingB, finalProb float64, gamesPlayedA, gamesPlayedB int) (Confidence, float64) {
	score := baseConfidenceScore

	ratingDiff := math.Abs(ratingA - ratingB)
	switch {
	case ratingDiff > 15:
		score += 25
	case ratingDiff > 10:
		score += 15
	case ratingDiff > 5:
		score += 5
	default:
		score -= 10
	}

	minGames := gamesPlayedA
	if gamesPlayedB < minGames {
		minGames = gamesPlayedB
	}
	switch {
	case minGames >= 30:
		score += 15
	case minGames >= 20:
		score += 10
	case minGames >= 10:
		score += 5
	default:
		score -= 15 // very early season
	}

	probDistance := math.Abs(finalProb - 0.5)
	if probDistance > 0.25 {
		score += 10
	} else if probDistance < 0.10 {
		score -= 10
	}

	score = clamp(score, 0, 100)
	return ConfidenceLabel(score), score
}

// ConfidenceLabel maps a confidence score to its label
func ConfidenceLabel(score float64) Confidence {
	switch {
	case score >= 75:
		return ConfidenceHigh
	case score >= 50:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
