package service

import (
	"fmt"

	"github.com/bamic-rtp-server/internal/domain"
)

// DurationBand maps scores up to and including MaxScore to a day range
type DurationBand struct {
	MaxScore    int    `json:"max_score"`
	MinDays     int    `json:"min_days"`
	MaxDays     int    `json:"max_days"`
	OpenEnded   bool   `json:"open_ended"`
	Description string `json:"description"`
}

var durationBands = []DurationBand{
	{MaxScore: 15, MinDays: 3, MaxDays: 7, Description: "short expected return"},
	{MaxScore: 35, MinDays: 8, MaxDays: 21, Description: "brief return"},
	{MaxScore: 55, MinDays: 22, MaxDays: 42, Description: "moderate return"},
	{MaxScore: 75, MinDays: 43, MaxDays: 90, Description: "prolonged return"},
	{MaxScore: 100, MinDays: 90, MaxDays: 180, OpenEnded: true, Description: "severe injury / possible intervention"},
}

// DurationBands returns a copy of the ordered return-to-play bands
func DurationBands() []DurationBand {
	return append([]DurationBand(nil), durationBands...)
}

// EstimateReturnToPlay maps a severity score onto a return-to-play window.
// Scores above the last band's bound use the last band.
func EstimateReturnToPlay(score int) domain.DurationEstimate {
	band := durationBands[len(durationBands)-1]
	for _, b := range durationBands {
		if score <= b.MaxScore {
			band = b
			break
		}
	}
	return band.estimate()
}

func (b DurationBand) estimate() domain.DurationEstimate {
	plus := ""
	if b.OpenEnded {
		plus = "+"
	}
	return domain.DurationEstimate{
		MinDays: b.MinDays,
		MaxDays: b.MaxDays,
		Text:    fmt.Sprintf("%d-%d%s days (%s)", b.MinDays, b.MaxDays, plus, b.Description),
	}
}
