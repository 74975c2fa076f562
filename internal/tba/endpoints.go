package tba

import (
	"context"
	"encoding/json"
	"fmt"
)

// Typed wrappers over Fetch for each upstream endpoint the service uses.
// Parsing happens here, at the fetch boundary; nothing downstream touches
// raw JSON.

// EventsByYear returns every event in a season.
func (c *Client) EventsByYear(ctx context.Context, year int) ([]Event, error) {
	data, err := c.Fetch(ctx, fmt.Sprintf("/events/%d", year))
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("tba: decoding events for %d: %w", year, err)
	}
	return events, nil
}

// GetEvent returns a single event's detail record.
func (c *Client) GetEvent(ctx context.Context, eventKey string) (*Event, error) {
	data, err := c.Fetch(ctx, "/event/"+eventKey)
	if err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("tba: decoding event %s: %w", eventKey, err)
	}
	return &event, nil
}

// EventTeams returns the roster of an event.
func (c *Client) EventTeams(ctx context.Context, eventKey string) ([]Team, error) {
	data, err := c.Fetch(ctx, "/event/"+eventKey+"/teams")
	if err != nil {
		return nil, err
	}

	var teams []Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("tba: decoding teams for %s: %w", eventKey, err)
	}
	return teams, nil
}

// EventTeamStatuses returns the per-team status map of an event in one
// batch call.
func (c *Client) EventTeamStatuses(ctx context.Context, eventKey string) (map[string]*TeamEventStatus, error) {
	data, err := c.Fetch(ctx, "/event/"+eventKey+"/teams/statuses")
	if err != nil {
		return nil, err
	}

	var statuses map[string]*TeamEventStatus
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, fmt.Errorf("tba: decoding team statuses for %s: %w", eventKey, err)
	}
	return statuses, nil
}

// EventRankings returns the qualification rankings of an event.
func (c *Client) EventRankings(ctx context.Context, eventKey string) (*Rankings, error) {
	data, err := c.Fetch(ctx, "/event/"+eventKey+"/rankings")
	if err != nil {
		return nil, err
	}

	var rankings Rankings
	if err := json.Unmarshal(data, &rankings); err != nil {
		return nil, fmt.Errorf("tba: decoding rankings for %s: %w", eventKey, err)
	}
	return &rankings, nil
}

// EventAwards returns all awards given at an event.
func (c *Client) EventAwards(ctx context.Context, eventKey string) ([]Award, error) {
	data, err := c.Fetch(ctx, "/event/"+eventKey+"/awards")
	if err != nil {
		return nil, err
	}

	var awards []Award
	if err := json.Unmarshal(data, &awards); err != nil {
		return nil, fmt.Errorf("tba: decoding awards for %s: %w", eventKey, err)
	}
	return awards, nil
}

// GetTeam returns a single team's info record.
func (c *Client) GetTeam(ctx context.Context, teamKey string) (*Team, error) {
	data, err := c.Fetch(ctx, "/team/"+teamKey)
	if err != nil {
		return nil, err
	}

	var team Team
	if err := json.Unmarshal(data, &team); err != nil {
		return nil, fmt.Errorf("tba: decoding team %s: %w", teamKey, err)
	}
	return &team, nil
}

// TeamEventsByYear returns every event a team attended in a season.
func (c *Client) TeamEventsByYear(ctx context.Context, teamKey string, year int) ([]Event, error) {
	data, err := c.Fetch(ctx, fmt.Sprintf("/team/%s/events/%d", teamKey, year))
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("tba: decoding events for %s in %d: %w", teamKey, year, err)
	}
	return events, nil
}

// TeamEventStatus returns one team's status at one event.
func (c *Client) TeamEventStatus(ctx context.Context, teamKey, eventKey string) (*TeamEventStatus, error) {
	data, err := c.Fetch(ctx, fmt.Sprintf("/team/%s/event/%s/status", teamKey, eventKey))
	if err != nil {
		return nil, err
	}

	// The upstream returns a JSON null for teams with no status yet.
	var status *TeamEventStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("tba: decoding status for %s at %s: %w", teamKey, eventKey, err)
	}
	return status, nil
}

// TeamEventAwards returns the awards one team won at one event.
func (c *Client) TeamEventAwards(ctx context.Context, teamKey, eventKey string) ([]Award, error) {
	data, err := c.Fetch(ctx, fmt.Sprintf("/team/%s/event/%s/awards", teamKey, eventKey))
	if err != nil {
		return nil, err
	}

	var awards []Award
	if err := json.Unmarshal(data, &awards); err != nil {
		return nil, fmt.Errorf("tba: decoding awards for %s at %s: %w", teamKey, eventKey, err)
	}
	return awards, nil
}
