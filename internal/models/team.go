package models

import (
	"database/sql"
	"strings"
	"time"
)

// Team represents an NBA franchise
type Team struct {
	ID           int            `db:"id"`
	TeamID       int            `db:"team_id"` // stats.nba.com TEAM_ID
	Abbreviation string         `db:"abbreviation"`
	Name         string         `db:"name"`
	City         sql.NullString `db:"city"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// TeamInput is one row of a stats.nba.com team result set
type TeamInput struct {
	TeamID   int    `json:"TEAM_ID"`
	TeamName string `json:"TEAM_NAME"`
}

// ToTeam converts TeamInput (from API) to Team model.
// The abbreviation comes from the static franchise table since the stats endpoints omit it.
func (ti *TeamInput) ToTeam() *Team {
	team := &Team{
		TeamID:       ti.TeamID,
		Abbreviation: AbbreviationFor(ti.TeamID),
		Name:         ti.TeamName,
	}

	if city := cityFromName(ti.TeamName); city != "" {
		team.City = sql.NullString{String: city, Valid: true}
	}

	return team
}

// UnknownAbbreviation is used for team IDs missing from the franchise table
const UnknownAbbreviation = "UNK"

// TeamAbbreviations maps stats.nba.com team IDs to their abbreviations
var TeamAbbreviations = map[int]string{
	1610612737: "ATL",
	1610612738: "BOS",
	1610612739: "CLE",
	1610612740: "NOP",
	1610612741: "CHI",
	1610612742: "DAL",
	1610612743: "DEN",
	1610612744: "GSW",
	1610612745: "HOU",
	1610612746: "LAC",
	1610612747: "LAL",
	1610612748: "MIA",
	1610612749: "MIL",
	1610612750: "MIN",
	1610612751: "BKN",
	1610612752: "NYK",
	1610612753: "ORL",
	1610612754: "IND",
	1610612755: "PHI",
	1610612756: "PHX",
	1610612757: "POR",
	1610612758: "SAC",
	1610612759: "SAS",
	1610612760: "OKC",
	1610612761: "TOR",
	1610612762: "UTA",
	1610612763: "MEM",
	1610612764: "WAS",
	1610612765: "DET",
	1610612766: "CHA",
}

// AbbreviationFor returns the team's abbreviation or UnknownAbbreviation
func AbbreviationFor(teamID int) string {
	if abbr, ok := TeamAbbreviations[teamID]; ok {
		return abbr
	}
	return UnknownAbbreviation
}

// TeamIDForAbbreviation is the reverse lookup, case-insensitive
func TeamIDForAbbreviation(abbr string) (int, bool) {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	for id, a := range TeamAbbreviations {
		if a == abbr {
			return id, true
		}
	}
	return 0, false
}

// multiWordNicknames covers franchises whose nickname is more than one word
var multiWordNicknames = []string{"Trail Blazers"}

// cityFromName strips the nickname from a full team name ("Boston Celtics" -> "Boston")
func cityFromName(name string) string {
	name = strings.TrimSpace(name)
	for _, nick := range multiWordNicknames {
		if strings.HasSuffix(name, " "+nick) {
			return strings.TrimSuffix(name, " "+nick)
		}
	}

	idx := strings.LastIndex(name, " ")
	if idx <= 0 {
		return ""
	}
	return name[:idx]
}
