/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the publishing API.
// The CLI uses it to publish a schedule and to fetch published snapshots.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// ClientOptions tune transport behavior beyond the defaults.
type ClientOptions struct {
	Timeout     time.Duration // default 10s
	TLSInsecure bool          // skip certificate verification, dev only
}

// NewClient creates a new backend client. baseURL may include a trailing
// slash; it will be normalized.
func NewClient(baseURL, token string, opt ClientOptions) *Client {
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := &http.Client{Timeout: timeout}
	if opt.TLSInsecure {
		hc.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit dev opt-in
		}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  hc,
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Production is a minimal projection for listing.
type Production struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// ListProductions returns productions known to the server.
func (c *Client) ListProductions(ctx context.Context) ([]Production, error) {
	var list []Production
	if err := c.doJSON(ctx, http.MethodGet, "/api/productions", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// PublishReceipt is the server's answer to a publish.
type PublishReceipt struct {
	Production string `json:"production"`
	Version    int64  `json:"version"`
}

// PublishSchedule uploads a schedule snapshot for the named production.
// The snapshot may be any JSON-marshalable value; the CLI sends the derived
// schedule rows together with the project config.
func (c *Client) PublishSchedule(ctx context.Context, production string, snapshot any) (*PublishReceipt, error) {
	var rec PublishReceipt
	p := "/api/productions/" + url.PathEscape(production) + "/schedule"
	if err := c.doJSON(ctx, http.MethodPost, p, snapshot, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ScheduleEnvelope matches the server response for the latest snapshot.
type ScheduleEnvelope struct {
	Production  string      `json:"production"`
	Version     int64       `json:"version"`
	PublishedBy string      `json:"published_by"`
	CreatedAt   string      `json:"created_at"`
	Snapshot    interface{} `json:"snapshot"`
}

// FetchSchedule retrieves the latest published snapshot for a production.
func (c *Client) FetchSchedule(ctx context.Context, production string) (*ScheduleEnvelope, error) {
	var env ScheduleEnvelope
	p := "/api/productions/" + url.PathEscape(production) + "/schedule"
	if err := c.doJSON(ctx, http.MethodGet, p, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// FetchToken requests a bearer token from the server's dev auth endpoint.
func (c *Client) FetchToken(ctx context.Context, subject string, ttl time.Duration) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]any{"subject": subject, "ttl_seconds": int64(ttl.Seconds())}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/token", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
