// Package client talks to the players service over HTTP and its websocket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phturb/domain-randomizer/model"
	modelwebsocket "github.com/phturb/domain-randomizer/model/websocket"
	"github.com/phturb/domain-randomizer/players"
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a client for the service at baseURL. A nil httpClient uses a
// client with a 15 second timeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid players api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid players api url '%s': scheme must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: u,
		http:    httpClient,
	}, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

func (c *Client) FetchPlayers(ctx context.Context) ([]model.Player, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("players"), nil)
	if err != nil {
		return nil, err
	}
	return c.doPlayers(req)
}

// SavePlayer upserts p and discards the returned list.
func (c *Client) SavePlayer(ctx context.Context, p model.Player) error {
	_, err := c.UpsertPlayer(ctx, p)
	return err
}

// UpsertPlayer upserts p and returns the full list held by the service.
func (c *Client) UpsertPlayer(ctx context.Context, p model.Player) ([]model.Player, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("players"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doPlayers(req)
}

func (c *Client) doPlayers(req *http.Request) ([]model.Player, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: unexpected status %d: %s", req.Method, req.URL.Path, res.StatusCode, strings.TrimSpace(string(b)))
	}
	return players.Decode(b)
}

func (c *Client) websocketURL() string {
	u := *c.baseURL.JoinPath("ws")
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String()
}

// Watch calls fn with every players update pushed by the service until ctx is
// done or the connection drops.
func (c *Client) Watch(ctx context.Context, fn func([]model.Player)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		var m modelwebsocket.Message
		if err := conn.ReadJSON(&m); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return nil
			}
			return err
		}
		if !slices.Contains(modelwebsocket.ServerActions, m.Action) {
			slog.Debug(fmt.Sprintf("[Watch] - ignoring '%s' message", m.Action))
			continue
		}
		switch m.Action {
		case modelwebsocket.UpdatePlayers:
			ps, err := players.Decode([]byte(m.Content))
			if err != nil {
				slog.Warn(fmt.Sprintf("[Watch] - unable to decode players : %v", err))
				continue
			}
			fn(ps)
		}
	}
}
