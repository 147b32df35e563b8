package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	TypeEntry = "entry"
	TypeExit  = "exit"
)

type (
	Entry struct {
		ID          int64  `json:"id"`
		Type        string `json:"type"`
		PersonName  string `json:"person_name"`
		PlaceFrom   string `json:"place_from,omitempty"`
		PlaceTo     string `json:"place_to,omitempty"`
		Timestamp   string `json:"timestamp,omitempty"`
		TimeDisplay string `json:"time_display"`
	}

	Stats struct {
		TotalEntries int     `json:"total_entries"`
		TotalExits   int     `json:"total_exits"`
		TotalHours   float64 `json:"total_hours"`
	}

	// NewEntry is the body of a create request. Empty places are left out.
	NewEntry struct {
		Type       string `json:"type"`
		PersonName string `json:"person_name"`
		PlaceFrom  string `json:"place_from,omitempty"`
		PlaceTo    string `json:"place_to,omitempty"`
	}

	Response struct {
		Success bool    `json:"success"`
		Message string  `json:"message,omitempty"`
		Entry   *Entry  `json:"entry,omitempty"`
		Entries []Entry `json:"entries,omitempty"`
		Stats   *Stats  `json:"stats,omitempty"`
	}
)

// ServerError is a well-formed response that reported success=false.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server reported failure (status %d)", e.Status)
	}
	return e.Message
}

// IsServerError reports whether err carries a server-reported failure and
// returns it.
func IsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient returns a client for the service at baseURL. A zero timeout
// leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// creates a new entry or exit record and returns the server message
func (c *Client) CreateEntry(ctx context.Context, e NewEntry) (string, error) {
	reqBody, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("error encoding request: %w", err)
	}

	res, err := c.do(ctx, http.MethodPost, "/api/entry", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// fetches all entries in the order the server stores them
func (c *Client) ListEntries(ctx context.Context) ([]Entry, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/entries", nil)
	if err != nil {
		return nil, err
	}
	// an empty list decodes to a non-nil slice, so nil means the field is
	// absent or null
	if res.Entries == nil {
		return nil, fmt.Errorf("error decoding response: missing entries")
	}
	return res.Entries, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id int64) (string, error) {
	res, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/entries/%d", id), nil)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/stats", nil)
	if err != nil {
		return Stats{}, err
	}
	if res.Stats == nil {
		return Stats{}, fmt.Errorf("error decoding response: missing stats")
	}
	return *res.Stats, nil
}

// removes every entry on the server
func (c *Client) ClearEntries(ctx context.Context) (string, error) {
	res, err := c.do(ctx, http.MethodPost, "/api/clear", nil)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// do sends the request and decodes the envelope. The body is decoded
// whatever the status code is, so error responses keep their message.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*Response, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug().Str("method", method).Str("url", url).Msg("api request")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer res.Body.Close()

	var apiRes *Response
	if err := json.NewDecoder(res.Body).Decode(&apiRes); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	if apiRes == nil {
		return nil, fmt.Errorf("error decoding response: null body")
	}

	c.log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", res.StatusCode).
		Bool("success", apiRes.Success).
		Msg("api response")

	if !apiRes.Success {
		return nil, &ServerError{Status: res.StatusCode, Message: apiRes.Message}
	}

	return apiRes, nil
}
