// Package api is a client for the CloudVault HTTP API. The session cookie
// set by Register or Login is kept in a cookie jar and sent with every
// later call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/client/models"
	"github.com/dmitrijs2005/cloudvault/internal/netx"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

type userEnvelope struct {
	User models.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	var out userEnvelope
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out userEnvelope
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout asks the server to expire the cookie; the jar drops it.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Check returns the user the current session belongs to.
func (c *Client) Check(ctx context.Context) (*models.User, error) {
	var out userEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/auth/check", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) List(ctx context.Context) ([]models.File, error) {
	var out []models.File
	if err := c.doJSON(ctx, http.MethodGet, "/files", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateFolder(ctx context.Context, name string, parentID *int64) (*models.File, error) {
	body := map[string]any{"name": name}
	if parentID != nil {
		body["parentId"] = *parentID
	}
	var out models.File
	if err := c.doJSON(ctx, http.MethodPost, "/files/folders", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload streams r as the "file" part of a multipart form.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader, parentID *int64) (*models.File, error) {
	fields := map[string]string{}
	if parentID != nil {
		fields["parentId"] = strconv.FormatInt(*parentID, 10)
	}

	req, err := netx.NewMultipartRequest(ctx, c.baseURL+"/files/upload", "file", name, r, fields)
	if err != nil {
		return nil, err
	}

	var out models.File
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id int64, patch models.Patch) (*models.File, error) {
	var out models.File
	if err := c.doJSON(ctx, http.MethodPut, "/files/"+strconv.FormatInt(id, 10), patch.Body(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/files/"+strconv.FormatInt(id, 10), nil, nil)
}

// Download copies the blob at filepath (as returned in File.Filepath) to w.
func (c *Client) Download(ctx context.Context, filepath string, w io.Writer) (int64, error) {
	if !strings.HasPrefix(filepath, "/") {
		filepath = "/" + filepath
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+filepath, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.send(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download interrupted: %w", err)
	}
	return n, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send performs req and turns transport failures and non-2xx answers into
// errors. On success the caller owns resp.Body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if netx.IsNetworkError(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, decodeError(resp)
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil && body.Error.Code != "" {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
		return apiErr
	}

	apiErr.Code = "HTTP_" + strconv.Itoa(resp.StatusCode)
	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}
