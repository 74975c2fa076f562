package champs

import (
	"testing"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
)

func TestClassifyPartitionsByEventType(t *testing.T) {
	events := []tba.Event{
		{Key: "2025wasno", EventType: EventTypeRegional},
		{Key: "2025new", EventType: EventTypeChampionshipDivision},
		{Key: "2025arc", EventType: EventTypeChampionshipDivision},
		{Key: "2025cmptx", EventType: EventTypeChampionshipFinals},
		{Key: "2025foc", EventType: EventTypeFestivalOfChampions},
		{Key: "2025mndu", EventType: EventTypeDistrict},
	}

	finals, divisions := Classify(events)

	if len(finals) != 1 || finals[0].Key != "2025cmptx" {
		t.Fatalf("unexpected finals partition: %+v", finals)
	}
	if len(divisions) != 2 {
		t.Fatalf("expected 2 divisions, got %d", len(divisions))
	}
	if divisions[0].Key != "2025new" || divisions[1].Key != "2025arc" {
		t.Fatalf("unexpected division partition: %+v", divisions)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	finals, divisions := Classify(nil)
	if len(finals) != 0 || len(divisions) != 0 {
		t.Fatalf("expected empty partitions, got %d finals and %d divisions", len(finals), len(divisions))
	}
}

func TestDivisionDisplayName(t *testing.T) {
	tests := []struct {
		eventKey string
		fallback string
		want     string
	}{
		{"2025new", "Newton Division presented by X", "Newton"},
		{"2025arc", "Archimedes Division", "Archimedes"},
		{"2025gal", "", "Galileo"},
		{"2023tur", "", "Turing"},
		{"2025xyz", "Mystery Division", "Mystery Division"},
		{"2025", "Bare Year", "Bare Year"},
		{"", "Empty Key", "Empty Key"},
	}

	for _, tt := range tests {
		if got := DivisionDisplayName(tt.eventKey, tt.fallback); got != tt.want {
			t.Errorf("DivisionDisplayName(%q, %q) = %q, want %q", tt.eventKey, tt.fallback, got, tt.want)
		}
	}
}
