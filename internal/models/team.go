package models

// Team represents a college basketball team for one season.
// Teams are re-fetched on every pipeline run, never mutated in place.
type Team struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ShortName      string `json:"shortName"`
	Abbreviation   string `json:"abbreviation"`
	Logo           string `json:"logo"`
	Color          string `json:"color"`
	AlternateColor string `json:"alternateColor"`
	ConferenceID   string `json:"conferenceId"` // empty when unknown
	ConferenceName string `json:"conferenceName"`
}

// Conference represents one conference group for a season
type Conference struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

// Gender selects one of the two upstream sport feeds
type Gender string

const (
	Mens   Gender = "mens"
	Womens Gender = "womens"
)

// Genders lists both feeds in pipeline order
var Genders = []Gender{Mens, Womens}

// SportPath returns the upstream sport path segment for the gender
func (g Gender) SportPath() string {
	if g == Womens {
		return "basketball/womens-college-basketball"
	}
	return "basketball/mens-college-basketball"
}
