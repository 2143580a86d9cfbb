package models

import "time"

// Game is an immutable record of one completed game: exactly two team stat
// lines, designated home/away by the upstream homeAway tag rather than by
// list position.
type Game struct {
	ID               string        `json:"id"`
	Date             time.Time     `json:"date"`
	Venue            string        `json:"venue"`
	Completed        bool          `json:"completed"`
	IsConferenceGame bool          `json:"isConferenceGame"`
	Home             GameTeamStats `json:"home"`
	Away             GameTeamStats `json:"away"`
}

// IsConferenceMatchup reports whether two teams share a known conference.
// False when either conference identity is unknown or they differ.
func IsConferenceMatchup(a, b *Team) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ConferenceID != "" && a.ConferenceID == b.ConferenceID
}

// TeamStats returns the stat line for the given team ID, or nil if the team
// did not play in this game.
func (g *Game) TeamStats(teamID string) *GameTeamStats {
	switch teamID {
	case g.Home.TeamID:
		return &g.Home
	case g.Away.TeamID:
		return &g.Away
	}
	return nil
}

// OpponentStats returns the other side's stat line for the given team ID
func (g *Game) OpponentStats(teamID string) *GameTeamStats {
	switch teamID {
	case g.Home.TeamID:
		return &g.Away
	case g.Away.TeamID:
		return &g.Home
	}
	return nil
}
