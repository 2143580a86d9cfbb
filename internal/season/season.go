// Package season handles the YYYY-YY season selector used on the CLI and
// its mapping onto the upstream season year.
package season

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var selectorPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// Season identifies one college basketball season. The upstream API keys
// seasons by their spring year (the 2024-25 season is season 2025).
type Season struct {
	// StartYear is the calendar year the season tips off in (e.g. 2024)
	StartYear int
}

// Parse validates a YYYY-YY selector such as "2024-25". The two-digit part
// must be the start year plus one.
func Parse(selector string) (Season, error) {
	m := selectorPattern.FindStringSubmatch(selector)
	if m == nil {
		return Season{}, fmt.Errorf("invalid season %q: expected YYYY-YY format", selector)
	}

	start, err := strconv.Atoi(m[1])
	if err != nil {
		return Season{}, fmt.Errorf("invalid season %q: %w", selector, err)
	}
	suffix, err := strconv.Atoi(m[2])
	if err != nil {
		return Season{}, fmt.Errorf("invalid season %q: %w", selector, err)
	}

	if (start+1)%100 != suffix {
		return Season{}, fmt.Errorf("invalid season %q: years must be consecutive", selector)
	}

	return Season{StartYear: start}, nil
}

// Current returns the season in progress (or upcoming) at the given time.
// Seasons roll over in July: before July the spring half of the season is
// still running, so the start year is the previous calendar year.
func Current(now time.Time) Season {
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return Season{StartYear: year}
}

// Year returns the upstream season key (the spring year)
func (s Season) Year() int {
	return s.StartYear + 1
}

// String returns the YYYY-YY selector form
func (s Season) String() string {
	return fmt.Sprintf("%d-%02d", s.StartYear, (s.StartYear+1)%100)
}
