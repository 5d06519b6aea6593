package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/service"
)

// Client plays one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	token     string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends body as JSON and decodes a 2xx response into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + c.sessionID + suffix
}

func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.GameState, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return nil, err
	}

	c.sessionID = session.ID
	c.token = session.Token
	return session.GameState, nil
}

// Resume attaches the client to an existing session
func (c *Client) Resume(ctx context.Context, sessionID, token string) (*engine.GameState, error) {
	c.sessionID = sessionID
	c.token = token
	return c.GetState(ctx)
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) Hints(ctx context.Context) (*service.HintsResponse, error) {
	var hints service.HintsResponse
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/hints"), nil, &hints); err != nil {
		return nil, err
	}
	return &hints, nil
}

func (c *Client) Move(ctx context.Context, card string, to engine.PileID) (*service.MoveResult, error) {
	req := map[string]string{"card": card, "to": string(to)}
	var result service.MoveResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/move"), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Draw(ctx context.Context) (*service.MoveResult, error) {
	var result service.MoveResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/draw"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Apply plays a hinted option
func (c *Client) Apply(ctx context.Context, m engine.MoveOption) (*service.MoveResult, error) {
	if m.Action == engine.ActionDraw || m.Action == engine.ActionRedeal {
		return c.Draw(ctx)
	}
	return c.Move(ctx, m.Card, m.To)
}

type RestartResponse struct {
	Message string            `json:"message"`
	State   *engine.GameState `json:"state"`
}

func (c *Client) Restart(ctx context.Context) (*engine.GameState, error) {
	var resp RestartResponse
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/restart"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}
