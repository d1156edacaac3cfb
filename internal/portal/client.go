// Package portal is a typed client of the scolarité REST API. It carries the
// browser-side behavior of the portal: session handling, collection loading
// and filtering, form validation and the single-submission workflow.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ensab/scolarite/internal/app/models/dto"
)

// DefaultTimeout bounds one HTTP round trip.
const DefaultTimeout = 30 * time.Second

// Client talks to one backend on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a client. session is shared, not copied: Login and
// Logout update it in place. A nil session starts logged out.
func NewClient(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = &Session{}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session used by c.
func (c *Client) Session() *Session { return c.session }

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return invalid("username", "Veuillez saisir vos identifiants.")
	}
	var resp dto.LoginResponse
	body := dto.LoginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", nil, body, &resp, false); err != nil {
		return err
	}
	*c.session = Session{Username: body.Username, Token: resp.Token, Role: resp.Role}
	return nil
}

// Logout clears the session.
func (c *Client) Logout() { c.session.Clear() }

// File is a downloaded attachment.
type File struct {
	Name        string
	ContentType string
	Reference   string
	Content     []byte
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any, authed bool) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("portal: encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("portal: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if authed {
		if !c.session.Active() {
			return nil, ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("portal: %s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env); err == nil && env.Error != nil {
		apiErr.Code = string(env.Error.Code)
		apiErr.Message = env.Error.Message
	}
	return apiErr
}

// call sends a JSON request and decodes the data member of the envelope into out.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	req, err := c.newRequest(ctx, method, path, query, body, authed)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("portal: decode %s response: %w", path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("portal: decode %s data: %w", path, err)
	}
	return nil
}

// download fetches a binary attachment.
func (c *Client) download(ctx context.Context, path string) (*File, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("portal: read %s: %w", path, err)
	}
	f := &File{
		ContentType: resp.Header.Get("Content-Type"),
		Reference:   resp.Header.Get("X-Document-Reference"),
		Content:     content,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		f.Name = params["filename"]
	}
	return f, nil
}
