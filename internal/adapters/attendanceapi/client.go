// Package attendanceapi is the HTTP client for the mess attendance endpoints.
package attendanceapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// CSRFHeader carries the token fetched at login on every state-changing request.
const CSRFHeader = "X-CSRF-Token"

// DefaultTimeout bounds a single request when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// ErrLoginFailed is returned when the server rejects the credentials.
var ErrLoginFailed = errors.New("login rejected: check username and password")

// Update is one attendance change.
type Update struct {
	StudentID string
	MealType  string
	Action    string // mark or unmark
	Date      string // YYYY-MM-DD
}

// Encode renders the form body with fields in a fixed order:
// student_id, meal_type, action, date.
func (u Update) Encode() string {
	var b strings.Builder
	b.WriteString("student_id=")
	b.WriteString(url.QueryEscape(u.StudentID))
	b.WriteString("&meal_type=")
	b.WriteString(url.QueryEscape(u.MealType))
	b.WriteString("&action=")
	b.WriteString(url.QueryEscape(u.Action))
	b.WriteString("&date=")
	b.WriteString(url.QueryEscape(u.Date))
	return b.String()
}

// SheetRow is one student's meals on the attendance sheet.
type SheetRow struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	RollNo    string `json:"roll_no"`
	RoomNo    string `json:"room_no"`
	Breakfast bool   `json:"breakfast"`
	Lunch     bool   `json:"lunch"`
	Dinner    bool   `json:"dinner"`
}

// Sheet is the attendance sheet for one date.
type Sheet struct {
	Date     string     `json:"date"`
	PrevDate string     `json:"prev_date"`
	NextDate string     `json:"next_date"`
	Rows     []SheetRow `json:"students"`
}

// Client talks to the mess server with a cookie session.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	csrfToken string
}

// NewClient constructs a client for baseURL (e.g. http://localhost:8080).
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// BaseURL returns the server root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

// Login fetches a CSRF token and opens a session.
// POST: later requests carry the session cookie and the CSRF header
func (c *Client) Login(ctx context.Context, username, password string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/csrf", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	var body struct {
		Token string `json:"token"`
	}
	err = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &TransportError{StatusCode: resp.StatusCode, Err: errors.New("csrf token request failed")}
	}
	if err != nil || body.Token == "" {
		return &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("no csrf token in response: %v", err)}
	}

	c.mu.Lock()
	c.csrfToken = body.Token
	c.mu.Unlock()

	form := url.Values{"username": {username}, "password": {password}}
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(CSRFHeader, body.Token)
	resp, err = c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrLoginFailed
	case resp.StatusCode/100 != 2:
		return &TransportError{StatusCode: resp.StatusCode, Err: errors.New("login failed")}
	}
	slog.Info("auth_event", "event", "client_login", "username", username, "server", c.baseURL)
	return nil
}

// UpdateAttendance posts one change to the attendance endpoint.
// POST: nil on success; *TransportError or *ApplicationError otherwise
func (c *Client) UpdateAttendance(ctx context.Context, u Update) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/attendance", strings.NewReader(u.Encode()))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set(CSRFHeader, tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		io.Copy(io.Discard, resp.Body)
		return &TransportError{StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	res, err := decodeResult(resp.Body)
	if err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	return res.Err()
}

// Sheet fetches the attendance sheet for date; an empty date means the server's today.
func (c *Client) Sheet(ctx context.Context, date string) (Sheet, error) {
	target := c.baseURL + "/admin/attendance"
	if date != "" {
		target += "?date=" + url.QueryEscape(date)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Sheet{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Sheet{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Sheet{}, &TransportError{StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	var sheet Sheet
	if err := json.NewDecoder(resp.Body).Decode(&sheet); err != nil {
		return Sheet{}, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode sheet: %w", err)}
	}
	return sheet, nil
}
