package prediction

import "errors"

// ErrMissingRatings is returned when either side lacks an offensive or defensive rating.
// Callers are expected to check TeamSeasonStats.HasRatings before asking for a prediction.
var ErrMissingRatings = errors.New("offensive and defensive ratings are required for both teams")

// HomeAwayRecord is a win/loss split for games played at home or on the road
type HomeAwayRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// WinPct returns the split's win percentage, treating an empty record as zero games
func (r HomeAwayRecord) WinPct() float64 {
	games := r.Wins + r.Losses
	if games < 1 {
		games = 1
	}
	return float64(r.Wins) / float64(games)
}

// TeamSeasonStats is the season-long input record for one team
type TeamSeasonStats struct {
	TeamID       int    `json:"teamId"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`

	OffensiveRating *float64 `json:"offensiveRating"`
	DefensiveRating *float64 `json:"defensiveRating"`
	Pace            *float64 `json:"pace,omitempty"`

	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	TotalPointsScored  float64 `json:"totalPointsScored"`
	TotalPointsAllowed float64 `json:"totalPointsAllowed"`

	HomeRecord *HomeAwayRecord `json:"homeRecord,omitempty"`
	AwayRecord *HomeAwayRecord `json:"awayRecord,omitempty"`

	FourFactors *TeamFourFactors `json:"fourFactors,omitempty"`
}

// HasRatings reports whether both efficiency ratings are present
func (s TeamSeasonStats) HasRatings() bool {
	return s.OffensiveRating != nil && s.DefensiveRating != nil
}

// GamesPlayed returns wins + losses
func (s TeamSeasonStats) GamesPlayed() int {
	return s.Wins + s.Losses
}

// Label returns the abbreviation, falling back to the name
func (s TeamSeasonStats) Label() string {
	if s.Abbreviation != "" {
		return s.Abbreviation
	}
	return s.Name
}

// RecentForm aggregates a trailing window of completed games
type RecentForm struct {
	GamesPlayed           int      `json:"gamesPlayed"`
	Wins                  int      `json:"wins"`
	Losses                int      `json:"losses"`
	WinPct                float64  `json:"winPct"`
	AvgPointsScored       float64  `json:"avgPointsScored"`
	AvgPointsAllowed      float64  `json:"avgPointsAllowed"`
	RecentOffensiveRating *float64 `json:"recentOffensiveRating"`
	RecentDefensiveRating *float64 `json:"recentDefensiveRating"`
}

// HeadToHeadGame is a single meeting between two teams. Scores are nil until the game is final.
type HeadToHeadGame struct {
	GameID     string `json:"gameId"`
	HomeTeamID int    `json:"homeTeamId"`
	AwayTeamID int    `json:"awayTeamId"`
	GameDate   string `json:"gameDate"`
	HomeScore  *int   `json:"homeScore"`
	AwayScore  *int   `json:"awayScore"`
}

// Completed reports whether both scores are known
func (g HeadToHeadGame) Completed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// scoresFor returns (team, opponent) scores from teamID's side
func (g HeadToHeadGame) scoresFor(teamID int) (int, int) {
	if g.HomeTeamID == teamID {
		return *g.HomeScore, *g.AwayScore
	}
	return *g.AwayScore, *g.HomeScore
}

// Confidence is the coarse label attached to a prediction
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Components breaks the final probability for team A into its contributions, in percentage points
type Components struct {
	Base          float64 `json:"base"`
	HomeAdvantage float64 `json:"homeAdvantage"`
	FourFactors   float64 `json:"fourFactors"`
	HeadToHead    float64 `json:"headToHead"`
}

// PredictionResult is the engine output for one matchup
type PredictionResult struct {
	TeamAWinProbability float64    `json:"teamAWinProbability"`
	TeamBWinProbability float64    `json:"teamBWinProbability"`
	Confidence          Confidence `json:"confidence"`
	ConfidenceScore     float64    `json:"confidenceScore"`
	Components          Components `json:"components"`
	KeyInsights         []string   `json:"keyInsights"`

	TeamARating float64   `json:"teamARating"`
	TeamBRating float64   `json:"teamBRating"`
	FormTrendA  FormTrend `json:"formTrendA"`
	FormTrendB  FormTrend `json:"formTrendB"`

	History        *MatchupHistory `json:"history,omitempty"`
	HistoryContext string          `json:"historyContext,omitempty"`
}

// Float returns a pointer to v. Handy when building optional ratings.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v
func Int(v int) *int {
	return &v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
