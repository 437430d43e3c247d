package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"notewall/internal/card/model"
	"notewall/pkg/logger"
	"notewall/socket"

	"github.com/gorilla/websocket"
)

// Store is the remote cards table as the client core sees it. StoreClient is
// the real adapter; tests substitute fakes to inject failures and event
// interleavings.
type Store interface {
	Probe(ctx context.Context) error
	ListAll(ctx context.Context) ([]model.Card, error)
	Insert(ctx context.Context, req model.CreateCardRequest) (model.Card, error)
	UpdatePosition(ctx context.Context, id int64, x, y float64) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan socket.WallEvent, error)
}

// StoreClient talks to the wall backend over its REST API and websocket.
type StoreClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewStoreClient(baseURL, token string) *StoreClient {
	return &StoreClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		http:    &http.Client{},
	}
}

func (c *StoreClient) Probe(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *StoreClient) ListAll(ctx context.Context) ([]model.Card, error) {
	cards := []model.Card{}
	if err := c.do(ctx, http.MethodGet, "/api/cards", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *StoreClient) Insert(ctx context.Context, req model.CreateCardRequest) (model.Card, error) {
	var card model.Card
	err := c.do(ctx, http.MethodPost, "/api/cards/create", req, &card)
	return card, err
}

func (c *StoreClient) UpdatePosition(ctx context.Context, id int64, x, y float64) error {
	return c.do(ctx, http.MethodPost, "/api/cards/position", model.MoveCardRequest{ID: id, X: x, Y: y}, nil)
}

func (c *StoreClient) DeleteByID(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cards/delete?id=%d", id), nil, nil)
}

func (c *StoreClient) DeleteAll(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cards/clear", nil, nil)
}

// Subscribe opens the realtime channel. The returned channel closes when the
// connection drops or ctx is done; there is no automatic reconnect.
func (c *StoreClient) Subscribe(ctx context.Context) (<-chan socket.WallEvent, error) {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	events := make(chan socket.WallEvent, 16)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Sugar.Errorf("Realtime channel closed: %v", err)
				}
				return
			}
			var event socket.WallEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				logger.Sugar.Errorf("Error unmarshalling wall event: %v", err)
				continue
			}
			events <- event
		}
	}()

	return events, nil
}

func (c *StoreClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Carry the backend's message so the user sees it verbatim.
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		message := strings.TrimSpace(string(raw))
		if message == "" {
			message = resp.Status
		}
		return errors.New(message)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
