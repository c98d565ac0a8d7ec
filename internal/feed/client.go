package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

// Client reads the live stream of a remote feed.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to a feed. base may be a host:port, an http(s) URL or a
// ws(s) URL; the /ws path is added when missing.
func Dial(ctx context.Context, base string) (*Client, error) {
	u, err := streamURL(base)
	if err != nil {
		return nil, err
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (HTTP %d)", u, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	return &Client{conn: conn}, nil
}

// Next blocks until the next event arrives or the connection fails.
func (c *Client) Next() (AttemptEvent, error) {
	var ev AttemptEvent
	if err := c.conn.ReadJSON(&ev); err != nil {
		return AttemptEvent{}, err
	}
	return ev, nil
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// Recent fetches up to limit stored attempts from a feed, newest first.
func Recent(ctx context.Context, base string, limit int) ([]AttemptEvent, error) {
	u, err := normalize(base, "http")
	if err != nil {
		return nil, err
	}
	u.Path = "/api/attempts"
	u.RawQuery = url.Values{"limit": {strconv.Itoa(limit)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch recent attempts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch recent attempts: HTTP %d", resp.StatusCode)
	}

	var events []AttemptEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode recent attempts: %w", err)
	}
	return events, nil
}

func streamURL(base string) (string, error) {
	u, err := normalize(base, "ws")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// normalize parses base, adding scheme when base is a bare host:port.
func normalize(base, scheme string) (*url.URL, error) {
	if !strings.Contains(base, "://") {
		base = scheme + "://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse feed address %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("feed address %q has no host", base)
	}
	if scheme == "http" {
		switch u.Scheme {
		case "ws":
			u.Scheme = "http"
		case "wss":
			u.Scheme = "https"
		}
	}
	return u, nil
}
