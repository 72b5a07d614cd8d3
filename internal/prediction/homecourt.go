package prediction

// BaseHomeCourtAdvantage is the league-average home edge, in win-probability percentage points
const BaseHomeCourtAdvantage = 10.0

// maxTeamSpecificAdjustment bounds the home-vs-road record adjustment
const maxTeamSpecificAdjustment = 3.0

// highAltitudeTeams adds visiting-team fatigue at elevation.
var highAltitudeTeams = map[int]float64{
	1610612743: 1.5, // Denver, 5,280 ft
	1610612762: 0.8, // Utah, 4,226 ft
}

// HomeCourtBreakdown lists each piece of the home-court advantage
type HomeCourtBreakdown struct {
	Base         float64 `json:"base"`
	Altitude     float64 `json:"altitude"`
	TeamSpecific float64 `json:"teamSpecific"`
}

// HomeCourtResult is the home-court advantage in win-probability percentage points
type HomeCourtResult struct {
	TotalAdvantage float64            `json:"totalAdvantage"`
	Breakdown      HomeCourtBreakdown `json:"breakdown"`
}

// HomeCourtAdvantage returns the home team's advantage in percentage points.
// The team-specific piece is only computed when both splits are supplied: the home team's
// home record against the visitor's road record, scaled by 3 and clamped to [-3, 3].
func HomeCourtAdvantage(homeTeamID, awayTeamID int, homeRecord, awayRecord *HomeAwayRecord) HomeCourtResult {
	altitude := AltitudeBonus(homeTeamID)

	teamSpecific := 0.0
	if homeRecord != nil && awayRecord != nil {
		diff := (homeRecord.WinPct() - awayRecord.WinPct()) * 3
		teamSpecific = clamp(diff, -maxTeamSpecificAdjustment, maxTeamSpecificAdjustment)
	}

	return HomeCourtResult{
		TotalAdvantage: BaseHomeCourtAdvantage + altitude + teamSpecific,
		Breakdown: HomeCourtBreakdown{
			Base:         BaseHomeCourtAdvantage,
			Altitude:     altitude,
			TeamSpecific: teamSpecific,
		},
	}
}

// AltitudeBonus returns the altitude bonus for a home team, zero for most teams
func AltitudeBonus(teamID int) float64 {
	return highAltitudeTeams[teamID]
}

// IsHighAltitudeTeam reports whether the team plays its home games at elevation
func IsHighAltitudeTeam(teamID int) bool {
	_, ok := highAltitudeTeams[teamID]
	return ok
}

// HomeCourtPointEquivalent expresses a home-court result in points of spread, using the
// same weight and points-to-probability factor the composite predictor applies.
func HomeCourtPointEquivalent(result HomeCourtResult) float64 {
	return result.TotalAdvantage * HomeCourtWeight / WinPctPerPoint
}
