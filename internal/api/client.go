// Package api talks to the canvas server's JSON HTTP API.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/fleet"
	"github.com/nightdriver/ndsmon/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 16 << 20

// Options configures a Client.
type Options struct {
	// HTTPClient is used for all requests. If nil, a client with Timeout
	// is created.
	HTTPClient *http.Client
	// Timeout bounds each request when no context deadline is shorter.
	// Zero means no client-level timeout.
	Timeout time.Duration
	Logger  logger.Logger
}

// Client implements fleet.Backend over HTTP. The base URL is the API
// root, e.g. http://localhost:7777/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient validates baseURL and creates a client.
func NewClient(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid server URL %q", baseURL),
			"Use a full http(s) URL such as http://localhost:7777/api")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

type canvasIDsRequest struct {
	CanvasIDs []int `json:"canvasIds"`
}

// ListCanvases fetches the full fleet snapshot.
func (c *Client) ListCanvases(ctx context.Context) ([]fleet.Canvas, error) {
	body, err := c.do(ctx, http.MethodGet, "/canvases", nil)
	if err != nil {
		return nil, err
	}

	var canvases []fleet.Canvas
	if err := json.Unmarshal(body, &canvases); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			"Server sent an unreadable canvas list",
			"Check that the server URL points at the canvas API")
	}
	if canvases == nil {
		canvases = []fleet.Canvas{}
	}
	return canvases, nil
}

// StartCanvases starts the given canvases.
func (c *Client) StartCanvases(ctx context.Context, canvasIDs []int) error {
	_, err := c.do(ctx, http.MethodPost, "/canvases/start", canvasIDsRequest{CanvasIDs: canvasIDs})
	return err
}

// StopCanvases stops the given canvases.
func (c *Client) StopCanvases(ctx context.Context, canvasIDs []int) error {
	_, err := c.do(ctx, http.MethodPost, "/canvases/stop", canvasIDsRequest{CanvasIDs: canvasIDs})
	return err
}

// DeleteCanvas removes a canvas.
func (c *Client) DeleteCanvas(ctx context.Context, canvasID int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/canvases/%d", canvasID), nil)
	return err
}

// DeleteFeature removes one feature from a canvas.
func (c *Client) DeleteFeature(ctx context.Context, canvasID, featureID int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/canvases/%d/features/%d", canvasID, featureID), nil)
	return err
}

// do performs one request. Transport failures and non-2xx responses come
// back as TRANSPORT errors; for non-2xx the cause is a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrTransport, "Couldn't encode request", "")
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport, "Couldn't build request", "")
	}
	req.Header.Set("Accept", "application/json")
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("%s %s", method, req.URL)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Couldn't reach %s", c.baseURL),
			"Check that the canvas server is running and the server URL is right")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport, "Couldn't read server response", "")
	}
	c.log.Debug("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	statusErr := newStatusError(resp.StatusCode, body)
	return nil, errors.WrapWithCode(statusErr, errors.ErrTransport, statusErr.summary(), "")
}
