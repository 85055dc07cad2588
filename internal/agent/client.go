/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package agent talks to the external animation agent service. The agent
// receives a natural-language prompt plus the current project and answers
// with patch operations; its output is untrusted and goes through the ops
// applier's defensive validation.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"motionforge/internal/domain"
	"motionforge/internal/ops"
)

// Client is a minimal HTTP client for the agent API.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new agent client. baseURL may include a trailing
// slash; it will be normalized.
func NewClient(baseURL string, token string, timeout time.Duration) *Client {
	b := strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("agent %s %s: %s", method, u.Path, resp.Status)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// editRequest is the payload for an edit round-trip.
type editRequest struct {
	Prompt  string         `json:"prompt"`
	SceneID string         `json:"sceneId,omitempty"`
	Project domain.Project `json:"project"`
}

// editResponse matches the agent's answer envelope.
type editResponse struct {
	Operations []ops.Operation `json:"operations"`
	Notes      string          `json:"notes,omitempty"`
}

// RequestEdit sends a prompt plus the current project and returns the
// agent's proposed patch operations. Callers must run the result through
// ops.Apply; nothing here is trusted.
func (c *Client) RequestEdit(ctx context.Context, prompt string, p domain.Project, sceneID string) ([]ops.Operation, string, error) {
	var resp editResponse
	req := editRequest{Prompt: prompt, SceneID: sceneID, Project: p}
	if err := c.doJSON(ctx, http.MethodPost, "/api/edit", req, &resp); err != nil {
		return nil, "", err
	}
	return resp.Operations, resp.Notes, nil
}

// Health checks the agent endpoint.
func (c *Client) Health(ctx context.Context) error {
	var out map[string]any
	return c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out)
}
