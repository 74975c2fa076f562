package champs

import (
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
)

// Event type codes from the TBA API v3 event_type enum. Pinned against the
// published tba-api docs: CMP_DIVISION is 3 and CMP_FINALS is 4. Earlier
// iterations of this service had the two swapped; keep these named and
// tested, never inline the literals.
const (
	EventTypeRegional             = 0
	EventTypeDistrict             = 1
	EventTypeDistrictChampionship = 2
	EventTypeChampionshipDivision = 3
	EventTypeChampionshipFinals   = 4
	EventTypeFestivalOfChampions  = 5
	EventTypeOffseason            = 99
)

// Classify partitions a season's event list into championship-finals events
// and championship-division events. Everything else is dropped.
func Classify(events []tba.Event) (finals, divisions []tba.Event) {
	for _, event := range events {
		switch event.EventType {
		case EventTypeChampionshipFinals:
			finals = append(finals, event)
		case EventTypeChampionshipDivision:
			divisions = append(divisions, event)
		}
	}
	return finals, divisions
}

// divisionNames maps the shortcode trailing an event key (the part after the
// 4-digit year, e.g. "new" in "2025new") to the division's display name.
// Content lookup only; extend freely as divisions come and go.
var divisionNames = map[string]string{
	"arc":  "Archimedes",
	"car":  "Carson",
	"carv": "Carver",
	"cur":  "Curie",
	"dal":  "Daly",
	"dar":  "Darwin",
	"gal":  "Galileo",
	"hop":  "Hopper",
	"joh":  "Johnson",
	"mil":  "Milstein",
	"new":  "Newton",
	"roe":  "Roebling",
	"tes":  "Tesla",
	"tur":  "Turing",
}

// DivisionDisplayName derives a human-readable division name from an event
// key, falling back to the event's own upstream name for unknown codes.
func DivisionDisplayName(eventKey, fallbackName string) string {
	if len(eventKey) > 4 {
		if name, ok := divisionNames[eventKey[4:]]; ok {
			return name
		}
	}
	return fallbackName
}
