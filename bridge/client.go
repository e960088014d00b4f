// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/apperr"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
)

// Client is a Bridge over the HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL. timeout bounds each
// request; the session itself imposes none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateTrip(ctx context.Context, req models.CreateTripRequest) (models.CreateTripResponse, error) {
	var resp models.CreateTripResponse
	err := c.do(ctx, http.MethodPost, "/trips", req, &resp)
	return resp, err
}

func (c *Client) Join(ctx context.Context, req models.JoinRequest) (models.JoinResponse, error) {
	var resp models.JoinResponse
	code := models.NormalizeShareCode(req.ShareCode)
	if code == "" {
		return resp, apperr.Validation("share code is required")
	}
	err := c.do(ctx, http.MethodPost, "/codes/"+url.PathEscape(code)+"/join", req, &resp)
	return resp, err
}

func (c *Client) FetchGroupData(ctx context.Context, tripID string) (models.GroupData, error) {
	var resp models.GroupData
	err := c.do(ctx, http.MethodGet, "/trips/"+url.PathEscape(tripID)+"/group", nil, &resp)
	return resp, err
}

func (c *Client) UpsertSelections(ctx context.Context, participantID string, sels []models.Selection) error {
	body := models.UpsertSelectionsRequest{Selections: sels}
	return c.do(ctx, http.MethodPut, "/participants/"+url.PathEscape(participantID)+"/selections", body, nil)
}

func (c *Client) MarkSubmitted(ctx context.Context, participantID string) (time.Time, error) {
	var resp models.SubmitResponse
	err := c.do(ctx, http.MethodPost, "/participants/"+url.PathEscape(participantID)+"/submit", nil, &resp)
	return resp.SubmittedAt, err
}

func (c *Client) UpdateProgress(ctx context.Context, participantID string, step int) error {
	body := models.UpdateProgressRequest{Step: step}
	return c.do(ctx, http.MethodPut, "/participants/"+url.PathEscape(participantID)+"/progress", body, nil)
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Leaderboard fetches the server-side aggregate for a trip.
func (c *Client) Leaderboard(ctx context.Context, tripID string, limit int) (models.LeaderboardResponse, error) {
	var resp models.LeaderboardResponse
	path := fmt.Sprintf("/trips/%s/leaderboard?limit=%d", url.PathEscape(tripID), limit)
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp, err
}

// do sends one JSON request. Transport failures are TRANSIENT_IO; non-2xx
// answers are classified by status code.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return apperr.Unexpected(err, "failed to encode request")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Unexpected(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Transient(err, fmt.Sprintf("%s %s failed", method, path))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Unexpected(err, "failed to decode response")
	}
	return nil
}

func errorFromResponse(resp *http.Response) error {
	var body models.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	message := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Message != "":
			message = body.Message
		case body.Error != "":
			message = body.Error
		}
	}
	return apperr.FromHTTPStatus(resp.StatusCode, message)
}

var _ Bridge = (*Client)(nil)
