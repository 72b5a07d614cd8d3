package prediction

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamA() TeamSeasonStats {
	return TeamSeasonStats{
		TeamID:             1,
		Abbreviation:       "AAA",
		OffensiveRating:    Float(115),
		DefensiveRating:    Float(108),
		Wins:               20,
		Losses:             10,
		TotalPointsScored:  2100,
		TotalPointsAllowed: 1950,
	}
}

func teamB() TeamSeasonStats {
	return TeamSeasonStats{
		TeamID:             2,
		Abbreviation:       "BBB",
		OffensiveRating:    Float(110),
		DefensiveRating:    Float(112),
		Wins:               15,
		Losses:             15,
		TotalPointsScored:  1980,
		TotalPointsAllowed: 2000,
	}
}

func evenTeam(id int, abbr string) TeamSeasonStats {
	return TeamSeasonStats{
		TeamID:             id,
		Abbreviation:       abbr,
		OffensiveRating:    Float(110),
		DefensiveRating:    Float(110),
		Wins:               15,
		Losses:             15,
		TotalPointsScored:  2000,
		TotalPointsAllowed: 2000,
	}
}

func TestPredict_StrongerHomeTeam(t *testing.T) {
	result, err := PredictMatchup(teamA(), teamB(), true)
	require.NoError(t, err)

	assert.InDelta(t, 40.28, result.TeamARating, 0.01)
	assert.InDelta(t, 33.95, result.TeamBRating, 0.01)
	assert.Greater(t, result.TeamARating, result.TeamBRating)

	assert.InDelta(t, 54.26, result.Components.Base, 0.01)
	assert.InDelta(t, 1.5, result.Components.HomeAdvantage, 1e-9)
	assert.Equal(t, 0.0, result.Components.FourFactors)
	assert.Equal(t, 0.0, result.Components.HeadToHead)
	assert.InDelta(t, 55.76, result.TeamAWinProbability, 0.01)
	assert.Greater(t, result.TeamAWinProbability, 50.0)

	// +5 rating diff, +15 sample size, -10 close to a coin flip
	assert.Equal(t, 60.0, result.ConfidenceScore)
	assert.Equal(t, ConfidenceMedium, result.Confidence)

	assert.Empty(t, result.KeyInsights)
	assert.NotNil(t, result.KeyInsights)
	assert.Nil(t, result.History)
	assert.Equal(t, FormNeutral, result.FormTrendA)
}

func TestPredict_AwayTeamA(t *testing.T) {
	home, err := PredictMatchup(teamA(), teamB(), true)
	require.NoError(t, err)
	away, err := PredictMatchup(teamA(), teamB(), false)
	require.NoError(t, err)

	assert.InDelta(t, -1.5, away.Components.HomeAdvantage, 1e-9)
	assert.InDelta(t, home.TeamAWinProbability-3.0, away.TeamAWinProbability, 1e-9)
}

func TestPredict_IdenticalTeamsNeutralSite(t *testing.T) {
	result, err := Predict(MatchupInput{
		TeamA:       evenTeam(1, "AAA"),
		TeamB:       evenTeam(2, "BBB"),
		IsTeamAHome: true,
		NeutralSite: true,
	})
	require.NoError(t, err)

	assert.InDelta(t, 50.0, result.TeamAWinProbability, 1e-9)
	assert.Equal(t, 0.0, result.Components.HomeAdvantage)
	// -10 rating diff, +15 sample size, -10 coin flip
	assert.Equal(t, 45.0, result.ConfidenceScore)
	assert.Equal(t, ConfidenceLow, result.Confidence)
}

func TestPredict_IdenticalTeamsHomeCourtOnly(t *testing.T) {
	result, err := PredictMatchup(evenTeam(1, "AAA"), evenTeam(2, "BBB"), true)
	require.NoError(t, err)

	assert.InDelta(t, 51.5, result.TeamAWinProbability, 1e-9)
	assert.Equal(t, ConfidenceLow, result.Confidence)
}

func TestPredict_MissingRatings(t *testing.T) {
	noOffense := teamA()
	noOffense.OffensiveRating = nil
	noDefense := teamB()
	noDefense.DefensiveRating = nil

	_, err := PredictMatchup(noOffense, teamB(), true)
	assert.True(t, errors.Is(err, ErrMissingRatings))

	_, err = PredictMatchup(teamA(), noDefense, true)
	assert.ErrorIs(t, err, ErrMissingRatings)
}

func TestPredict_ComplementaryAndClamped(t *testing.T) {
	ratings := []float64{80, 95, 105, 110, 118, 130, 160}
	records := [][2]float64{{1000, 3000}, {2000, 2000}, {3000, 1000}}

	for _, off := range ratings {
		for _, def := range ratings {
			for _, rec := range records {
				a := TeamSeasonStats{
					TeamID: 1, OffensiveRating: Float(off), DefensiveRating: Float(def),
					Wins: 10, Losses: 10, TotalPointsScored: rec[0], TotalPointsAllowed: rec[1],
				}
				b := teamB()

				for _, home := range []bool{true, false} {
					name := fmt.Sprintf("off=%v def=%v pts=%v home=%v", off, def, rec, home)
					result, err := PredictMatchup(a, b, home)
					require.NoError(t, err, name)

					assert.InDelta(t, 100.0, result.TeamAWinProbability+result.TeamBWinProbability, 1e-9, name)
					assert.GreaterOrEqual(t, result.TeamAWinProbability, 1.0-1e-9, name)
					assert.LessOrEqual(t, result.TeamAWinProbability, 99.0+1e-9, name)
					assert.GreaterOrEqual(t, result.ConfidenceScore, 0.0, name)
					assert.LessOrEqual(t, result.ConfidenceScore, 100.0, name)
				}
			}
		}
	}
}

func TestPredict_ClampsAtCertainty(t *testing.T) {
	juggernaut := TeamSeasonStats{
		TeamID: 1, Abbreviation: "JUG", OffensiveRating: Float(140), DefensiveRating: Float(90),
		Wins: 40, Losses: 0, TotalPointsScored: 5000, TotalPointsAllowed: 3500,
	}
	hopeless := TeamSeasonStats{
		TeamID: 2, Abbreviation: "HOP", OffensiveRating: Float(60), DefensiveRating: Float(160),
		Wins: 0, Losses: 40, TotalPointsScored: 1000, TotalPointsAllowed: 3000,
	}

	result, err := PredictMatchup(juggernaut, hopeless, true)
	require.NoError(t, err)
	assert.InDelta(t, 99.0, result.TeamAWinProbability, 1e-9)
	assert.InDelta(t, 1.0, result.TeamBWinProbability, 1e-9)
	assert.Equal(t, ConfidenceHigh, result.Confidence)
	assert.Contains(t, result.KeyInsights, fmt.Sprintf("Large rating differential (%.1f points) favors JUG",
		result.TeamARating-result.TeamBRating))

	reversed, err := PredictMatchup(hopeless, juggernaut, false)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, reversed.TeamAWinProbability, 1e-9)
}

func TestPredict_Insights(t *testing.T) {
	lucky := evenTeam(1, "LUK")
	lucky.Wins, lucky.Losses = 25, 5
	denver := evenTeam(denverID, "DEN")

	result, err := PredictMatchup(lucky, denver, false)
	require.NoError(t, err)

	assert.Contains(t, result.KeyInsights, "LUK has overperformed their point differential (33.3% luck factor)")
	assert.Contains(t, result.KeyInsights, "DEN gets 1.5% altitude advantage")
	assert.InDelta(t, -1.725, result.Components.HomeAdvantage, 1e-9)

	unlucky := evenTeam(2, "UNL")
	unlucky.Wins, unlucky.Losses = 5, 25
	result, err = PredictMatchup(unlucky, evenTeam(3, "CCC"), true)
	require.NoError(t, err)
	assert.Equal(t, "UNL has underperformed their point differential (-33.3% luck factor)", result.KeyInsights[0])
}

func TestPredict_RecentForm(t *testing.T) {
	hot := &RecentForm{
		GamesPlayed:           10,
		Wins:                  8,
		Losses:                2,
		RecentOffensiveRating: Float(120),
		RecentDefensiveRating: Float(100),
	}

	withForm, err := Predict(MatchupInput{
		TeamA:       evenTeam(1, "AAA"),
		TeamB:       evenTeam(2, "BBB"),
		NeutralSite: true,
		RecentFormA: hot,
	})
	require.NoError(t, err)

	assert.Equal(t, FormHot, withForm.FormTrendA)
	assert.Equal(t, FormNeutral, withForm.FormTrendB)
	// weighted 117/103 instead of 110/110
	assert.InDelta(t, CompositeRating(117, 103, 0.5), withForm.TeamARating, 1e-9)
	assert.Greater(t, withForm.TeamAWinProbability, 50.0)
	assert.Contains(t, withForm.KeyInsights, "AAA is 🔥 Hot (8-2 in last 10)")
}

func TestPredict_HeadToHead(t *testing.T) {
	games := []HeadToHeadGame{
		game("3", 1, 2, 110, 102),
		game("2", 2, 1, 100, 108),
		game("1", 1, 2, 105, 97),
	}

	result, err := Predict(MatchupInput{
		TeamA:       evenTeam(1, "AAA"),
		TeamB:       evenTeam(2, "BBB"),
		NeutralSite: true,
		HeadToHead:  games,
	})
	require.NoError(t, err)

	require.NotNil(t, result.History)
	assert.Equal(t, 3, result.History.GamesPlayed)
	// 6.6 net-rating points * 3 pct per point * 0.10 weight
	assert.InDelta(t, 1.98, result.Components.HeadToHead, 1e-9)
	assert.InDelta(t, 51.98, result.TeamAWinProbability, 1e-9)
	assert.Equal(t, "Leads season series 3-0 (avg margin: +8.0)", result.HistoryContext)
	assert.Contains(t, result.KeyInsights, "AAA: Leads season series 3-0 (avg margin: +8.0)")

	empty, err := Predict(MatchupInput{
		TeamA:       evenTeam(1, "AAA"),
		TeamB:       evenTeam(2, "BBB"),
		NeutralSite: true,
		HeadToHead:  []HeadToHeadGame{},
	})
	require.NoError(t, err)
	assert.Equal(t, "No previous matchups this season", empty.HistoryContext)
	assert.Equal(t, 0.0, empty.Components.HeadToHead)
	assert.Empty(t, empty.KeyInsights)
}

func TestPredict_FourFactorsIsNoOp(t *testing.T) {
	a, b := teamA(), teamB()
	a.FourFactors = &TeamFourFactors{Offensive: FourFactors{EffectiveFGPct: 0.56}}
	b.FourFactors = &TeamFourFactors{Offensive: FourFactors{EffectiveFGPct: 0.50}}

	with, err := PredictMatchup(a, b, true)
	require.NoError(t, err)
	without, err := PredictMatchup(teamA(), teamB(), true)
	require.NoError(t, err)

	assert.Equal(t, without.TeamAWinProbability, with.TeamAWinProbability)
	assert.Equal(t, 0.0, with.Components.FourFactors)
}
