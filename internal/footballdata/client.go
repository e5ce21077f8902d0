// Package footballdata reads competition standings and fixtures from the
// football-data.org v4 API.
package footballdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samvad-hq/soccer-hub/internal/domain"
	"github.com/samvad-hq/soccer-hub/pkg/fetch"
)

const (
	authHeader = "X-Auth-Token"

	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
)

// Fetcher is the subset of fetch.Client used here.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers []fetch.Header, params []fetch.Param) (fetch.Value, error)
}

// Client is a football-data API client.
type Client struct {
	fetcher Fetcher
	baseURL string
	token   string
}

// NewClient builds a Client. The token is sent on every request; an empty
// token is rejected by the fetcher as an invalid header.
func NewClient(f Fetcher, baseURL, token string) (*Client, error) {
	if f == nil {
		return nil, fmt.Errorf("fetcher must not be nil")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid football api base url %q", baseURL)
	}
	return &Client{fetcher: f, baseURL: baseURL, token: token}, nil
}

// Standings returns the standings of a competition for a season.
func (c *Client) Standings(ctx context.Context, code string, season int) (domain.Standings, error) {
	var out domain.Standings
	endpoint := fmt.Sprintf("%s/competitions/%s/standings", c.baseURL, url.PathEscape(code))
	if err := c.get(ctx, endpoint, []fetch.Param{seasonParam(season)}, &out); err != nil {
		return domain.Standings{}, fmt.Errorf("standings %s/%d: %w", code, season, err)
	}
	return out, nil
}

// Matches returns the matches of a competition for a season filtered by status.
func (c *Client) Matches(ctx context.Context, code string, season int, status string) ([]domain.Match, error) {
	var out domain.MatchList
	endpoint := fmt.Sprintf("%s/competitions/%s/matches", c.baseURL, url.PathEscape(code))
	params := []fetch.Param{seasonParam(season)}
	if status != "" {
		params = append(params, fetch.Param{Key: "status", Value: status})
	}
	if err := c.get(ctx, endpoint, params, &out); err != nil {
		return nil, fmt.Errorf("matches %s/%d (%s): %w", code, season, status, err)
	}
	return out.Matches, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params []fetch.Param, dst any) error {
	headers := []fetch.Header{{Name: authHeader, Value: c.token}}
	value, err := c.fetcher.Fetch(ctx, endpoint, headers, params)
	if err != nil {
		return err
	}
	return fromValue(value, dst)
}

// fromValue maps a decoded body onto a typed struct.
func fromValue(v fetch.Value, dst any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("map value onto %T: %w", dst, err)
	}
	return nil
}

func seasonParam(season int) fetch.Param {
	return fetch.Param{Key: "season", Value: strconv.Itoa(season)}
}
