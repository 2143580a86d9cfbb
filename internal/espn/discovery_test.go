package espn

import (
	"testing"

	"ncaab_factors/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConferences(t *testing.T) {
	payload := map[string]interface{}{
		"groups": []interface{}{
			map[string]interface{}{"groupId": "2", "name": "Atlantic Coast Conference", "shortName": "ACC"},
			map[string]interface{}{"id": "8", "name": "Big Ten Conference", "shortName": "Big Ten"},
			map[string]interface{}{"name": "nameless has no id"},
		},
	}

	conferences := ParseConferences(payload)
	require.Len(t, conferences, 2, "Entries without an id should be skipped")
	assert.Equal(t, "2", conferences[0].ID, "groupId should take priority over id")
	assert.Equal(t, "Atlantic Coast Conference", conferences[0].Name)
	assert.Equal(t, "ACC", conferences[0].ShortName)
	assert.Equal(t, "8", conferences[1].ID, "id should serve as fallback")
}

func TestParseConferences_NestedChildren(t *testing.T) {
	payload := map[string]interface{}{
		"conferences": []interface{}{
			map[string]interface{}{
				"name": "Division I",
				"children": []interface{}{
					map[string]interface{}{"groupId": "2", "name": "ACC"},
					map[string]interface{}{"groupId": "8", "name": "Big Ten"},
				},
			},
		},
	}

	conferences := ParseConferences(payload)
	require.Len(t, conferences, 2, "Children should be flattened, the parent group skipped")
	assert.Equal(t, "2", conferences[0].ID)
	assert.Equal(t, "8", conferences[1].ID)
}

func TestParseConferences_Empty(t *testing.T) {
	assert.Empty(t, ParseConferences(map[string]interface{}{}))
}

func TestParseConferenceTeams(t *testing.T) {
	payload := map[string]interface{}{
		"sports": []interface{}{
			map[string]interface{}{
				"leagues": []interface{}{
					map[string]interface{}{
						"teams": []interface{}{
							map[string]interface{}{
								"team": map[string]interface{}{
									"id":               "52",
									"displayName":      "Duke Blue Devils",
									"shortDisplayName": "Blue Devils",
									"abbreviation":     "duke",
									"color":            "001A57",
									"logos": []interface{}{
										map[string]interface{}{"href": "https://example.com/duke.png"},
									},
								},
							},
							map[string]interface{}{
								"team": map[string]interface{}{"displayName": "no id, skipped"},
							},
						},
					},
				},
			},
		},
	}

	conf := models.Conference{ID: "2", Name: "ACC"}
	teams := ParseConferenceTeams(payload, conf)
	require.Len(t, teams, 1)

	team := teams[0]
	assert.Equal(t, "52", team.ID)
	assert.Equal(t, "Duke Blue Devils", team.Name)
	assert.Equal(t, "Blue Devils", team.ShortName)
	assert.Equal(t, "DUKE", team.Abbreviation, "Abbreviation should be upper-cased")
	assert.Equal(t, "https://example.com/duke.png", team.Logo)
	assert.Equal(t, "2", team.ConferenceID, "Conference identity is stamped at discovery time")
	assert.Equal(t, "ACC", team.ConferenceName)
}

func TestParseConferenceTeams_FlatTeamsArray(t *testing.T) {
	payload := map[string]interface{}{
		"teams": []interface{}{
			map[string]interface{}{"id": "52", "displayName": "Duke Blue Devils"},
		},
	}

	teams := ParseConferenceTeams(payload, models.Conference{ID: "2", Name: "ACC"})
	require.Len(t, teams, 1, "Flat teams arrays without the team wrapper should parse")
	assert.Equal(t, "52", teams[0].ID)
}

func TestParseCompletedGameIDs(t *testing.T) {
	payload := map[string]interface{}{
		"events": []interface{}{
			map[string]interface{}{
				"id": "401",
				"status": map[string]interface{}{
					"type": map[string]interface{}{"completed": true},
				},
			},
			map[string]interface{}{
				"id": "402",
				"status": map[string]interface{}{
					"type": map[string]interface{}{"completed": false},
				},
			},
			map[string]interface{}{
				"id": "403",
				"competitions": []interface{}{
					map[string]interface{}{
						"status": map[string]interface{}{
							"type": map[string]interface{}{"completed": true},
						},
					},
				},
			},
			map[string]interface{}{
				// no id
				"status": map[string]interface{}{
					"type": map[string]interface{}{"completed": true},
				},
			},
		},
	}

	ids := ParseCompletedGameIDs(payload)
	assert.Equal(t, []string{"401", "403"}, ids, "Only completed events with ids should survive, in schedule order")
}

func TestParseCompletedGameIDs_NoEvents(t *testing.T) {
	assert.Empty(t, ParseCompletedGameIDs(map[string]interface{}{}))
}
