package prediction

// FourFactors is Dean Oliver's efficiency decomposition for one side of the ball
type FourFactors struct {
	EffectiveFGPct      float64 `json:"effectiveFgPct"`
	TurnoverPct         float64 `json:"turnoverPct"`
	OffensiveReboundPct float64 `json:"offensiveReboundPct"`
	FreeThrowRate       float64 `json:"freeThrowRate"`
}

// TeamFourFactors holds a team's offensive and defensive four factors
type TeamFourFactors struct {
	Offensive FourFactors `json:"offensive"`
	Defensive FourFactors `json:"defensive"`
}

// fourFactorsAdvantage compares team A's offense against team B's defense and vice versa.
// It returns 0 until factor data is ingested; the composite predictor already reserves
// FourFactorsWeight for it.
// TODO: weight eFG% 40%, TOV% 25%, OREB% 20%, FT rate 15% once the advanced box-score feed is stored.
func fourFactorsAdvantage(teamA, teamB TeamFourFactors) float64 {
	return 0
}
