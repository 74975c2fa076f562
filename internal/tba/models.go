package tba

import "fmt"

// Event is an upstream competition record. Only the fields this service
// consumes are declared; everything else is dropped at the parse boundary.
type Event struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	EventType       int    `json:"event_type"`
	EventTypeString string `json:"event_type_string"`
	Year            int    `json:"year"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	City            string `json:"city"`
	StateProv       string `json:"state_prov"`
	Country         string `json:"country"`
}

// Team is an upstream participant record.
type Team struct {
	Key        string `json:"key"`
	TeamNumber int    `json:"team_number"`
	Name       string `json:"name"`
	Nickname   string `json:"nickname"`
	City       string `json:"city"`
	StateProv  string `json:"state_prov"`
	Country    string `json:"country"`
	RookieYear *int   `json:"rookie_year"`
}

// WLTRecord is a win-loss-tie tally.
type WLTRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// Add returns the field-wise sum of two records. Used to merge
// qualification-round and playoff-round tallies into one season record.
func (r WLTRecord) Add(other WLTRecord) WLTRecord {
	return WLTRecord{
		Wins:   r.Wins + other.Wins,
		Losses: r.Losses + other.Losses,
		Ties:   r.Ties + other.Ties,
	}
}

// String renders the record in the dashboard's "W-L-T" form.
func (r WLTRecord) String() string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Ties)
}

// Rankings is the response of the event rankings endpoint.
type Rankings struct {
	Rankings []RankingEntry `json:"rankings"`
}

// RankingEntry is one team's row in an event ranking.
type RankingEntry struct {
	TeamKey string     `json:"team_key"`
	Rank    int        `json:"rank"`
	Record  *WLTRecord `json:"record"`
}

// TeamEventStatus is the upstream per-team-per-event status. Read model
// only; never mutated by this service.
type TeamEventStatus struct {
	Qual              *QualStatus     `json:"qual"`
	Playoff           *PlayoffStatus  `json:"playoff"`
	Alliance          *AllianceStatus `json:"alliance"`
	OverallStatusStr  string          `json:"overall_status_str"`
	AllianceStatusStr string          `json:"alliance_status_str"`
}

// QualStatus is the qualification-round block of a team event status.
type QualStatus struct {
	NumTeams int          `json:"num_teams"`
	Ranking  *QualRanking `json:"ranking"`
}

// QualRanking is a team's ranking inside the qualification block.
type QualRanking struct {
	Rank   int        `json:"rank"`
	Record *WLTRecord `json:"record"`
}

// PlayoffStatus is the elimination-round block of a team event status.
type PlayoffStatus struct {
	Level  string     `json:"level"`
	Status string     `json:"status"`
	Record *WLTRecord `json:"record"`
}

// AllianceStatus is the alliance-membership block of a team event status.
type AllianceStatus struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
	Pick   int    `json:"pick"`
}

// CombinedRecord sums the qualification and playoff records of a status.
// If only one sub-record is present the result equals that one.
func (s *TeamEventStatus) CombinedRecord() WLTRecord {
	var combined WLTRecord
	if s.Qual != nil && s.Qual.Ranking != nil && s.Qual.Ranking.Record != nil {
		combined = combined.Add(*s.Qual.Ranking.Record)
	}
	if s.Playoff != nil && s.Playoff.Record != nil {
		combined = combined.Add(*s.Playoff.Record)
	}
	return combined
}

// Award is one award given at an event.
type Award struct {
	Name          string           `json:"name"`
	AwardType     int              `json:"award_type"`
	EventKey      string           `json:"event_key"`
	Year          int              `json:"year"`
	RecipientList []AwardRecipient `json:"recipient_list"`
}

// AwardRecipient names one recipient of an award.
type AwardRecipient struct {
	TeamKey string `json:"team_key"`
	Awardee string `json:"awardee"`
}
