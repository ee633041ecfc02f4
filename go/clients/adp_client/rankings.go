package adp_client

import (
	"context"
	"encoding/json"
	"fmt"
)

type ADPPlayer struct {
	PlayerID     int     `json:"player_id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	Team         string  `json:"team"`
	ADP          float64 `json:"adp"`
	Formatted    string  `json:"adp_formatted"`
	TimesDrafted int     `json:"times_drafted"`
}

type ADPMeta struct {
	Type        string `json:"type"`
	Teams       int    `json:"teams"`
	Rounds      int    `json:"rounds"`
	TotalDrafts int    `json:"total_drafts"`
}

type ADPResponse struct {
	Status  string      `json:"status"`
	Meta    ADPMeta     `json:"meta"`
	Players []ADPPlayer `json:"players"`
}

func (c *ADPClient) GetADP(ctx context.Context, format string, year, teams int) ([]ADPPlayer, error) {
	endpoint := fmt.Sprintf("%s/%s?teams=%d&year=%d", ADPEndpoint, format, teams, year)
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get adp rankings: %w", err)
	}

	var response ADPResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}

	if response.Status != "Success" {
		return nil, fmt.Errorf("API returned status: %s", response.Status)
	}

	return response.Players, nil
}
