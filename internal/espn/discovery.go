package espn

import (
	"strings"

	"ncaab_factors/ingestion/internal/models"
)

// ParseConferences flattens the conference group payload into a conference
// list. Groups arrive under "groups" or "conferences" depending on endpoint
// version, possibly nested one level under "children"; entries without an id
// and name are skipped.
func ParseConferences(payload map[string]interface{}) []models.Conference {
	var groups []interface{}
	for _, key := range []string{"groups", "conferences"} {
		if arr := extractArray(payload, key); len(arr) > 0 {
			groups = arr
			break
		}
	}

	var conferences []models.Conference
	collectConferences(groups, &conferences)
	return conferences
}

func collectConferences(groups []interface{}, out *[]models.Conference) {
	for _, entry := range groups {
		group, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		if children := extractArray(group, "children"); len(children) > 0 {
			collectConferences(children, out)
			continue
		}

		id := extractString(group, "groupId")
		if id == "" {
			id = extractString(group, "id")
		}
		name := extractString(group, "name")
		if id == "" || name == "" {
			continue
		}

		*out = append(*out, models.Conference{
			ID:        id,
			Name:      name,
			ShortName: extractString(group, "shortName"),
		})
	}
}

// ParseConferenceTeams extracts the member teams of one conference from the
// team listing payload, stamping each with the conference identity.
func ParseConferenceTeams(payload map[string]interface{}, conf models.Conference) []models.Team {
	var teams []models.Team
	for _, entry := range teamEntries(payload) {
		wrapper, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		teamData := extractMap(wrapper, "team")
		if len(teamData) == 0 {
			teamData = wrapper
		}

		id := extractString(teamData, "id")
		if id == "" {
			continue
		}

		teams = append(teams, models.Team{
			ID:             id,
			Name:           extractString(teamData, "displayName"),
			ShortName:      extractString(teamData, "shortDisplayName"),
			Abbreviation:   strings.ToUpper(extractString(teamData, "abbreviation")),
			Logo:           firstLogo(teamData),
			Color:          extractString(teamData, "color"),
			AlternateColor: extractString(teamData, "alternateColor"),
			ConferenceID:   conf.ID,
			ConferenceName: conf.Name,
		})
	}
	return teams
}

// teamEntries digs through the sports/leagues nesting of the team listing,
// falling back to a flat "teams" array for older payloads
func teamEntries(payload map[string]interface{}) []interface{} {
	if teams := extractArray(payload, "teams"); len(teams) > 0 {
		return teams
	}

	sports := extractArray(payload, "sports")
	if len(sports) == 0 {
		return nil
	}
	sport, ok := sports[0].(map[string]interface{})
	if !ok {
		return nil
	}
	leagues := extractArray(sport, "leagues")
	if len(leagues) == 0 {
		return nil
	}
	league, ok := leagues[0].(map[string]interface{})
	if !ok {
		return nil
	}
	return extractArray(league, "teams")
}

func firstLogo(teamData map[string]interface{}) string {
	logos := extractArray(teamData, "logos")
	if len(logos) == 0 {
		return ""
	}
	logo, ok := logos[0].(map[string]interface{})
	if !ok {
		return ""
	}
	return extractString(logo, "href")
}

// ParseCompletedGameIDs extracts the identifiers of completed games from a
// team schedule payload. The completion flag can sit on the event or on its
// competition depending on season.
func ParseCompletedGameIDs(payload map[string]interface{}) []string {
	var ids []string
	for _, entry := range extractArray(payload, "events") {
		event, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		id := extractString(event, "id")
		if id == "" {
			continue
		}
		if eventCompleted(event) {
			ids = append(ids, id)
		}
	}
	return ids
}

func eventCompleted(event map[string]interface{}) bool {
	if completed, ok := extractMap(extractMap(event, "status"), "type")["completed"].(bool); ok {
		return completed
	}
	if comps := extractArray(event, "competitions"); len(comps) > 0 {
		if comp, ok := comps[0].(map[string]interface{}); ok {
			return parseCompleted(comp)
		}
	}
	return false
}
