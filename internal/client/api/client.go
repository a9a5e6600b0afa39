// Package api is the typed client for the marketplace REST backend.
//
// Each backend resource has its own interface (UserAPI, TaskAPI, PaymentAPI,
// PayoutAPI, WalletAPI) so services and tests can depend on exactly the
// surface they use. *Client implements all of them over a hertz HTTP client.
//
// Every call takes a context.Context. Cancelling the context abandons the
// request immediately; when the context has no deadline the client's default
// timeout applies.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	hclient "github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/taskmarket/internal/common"
	"github.com/dmitrijs2005/taskmarket/internal/logging"
)

const (
	defaultTimeout = 15 * time.Second
	mimeJSON       = "application/json"
)

// TokenSource yields the bearer token for the current session, or "".
type TokenSource func() string

// API is the union of all resource clients.
type API interface {
	UserAPI
	TaskAPI
	PaymentAPI
	PayoutAPI
	WalletAPI
}

type Client struct {
	baseURL string
	timeout time.Duration
	token   TokenSource
	log     logging.Logger
	hc      *hclient.Client
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client for the backend at baseURL (scheme included).
func New(baseURL string, opts ...Option) (*Client, error) {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("api base url must start with http:// or https://, got %q", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		token:   func() string { return "" },
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}

	hc, err := hclient.NewClient(
		hclient.WithDialTimeout(c.timeout),
		hclient.WithClientReadTimeout(c.timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("init http client: %w", err)
	}
	c.hc = hc

	return c, nil
}

var _ API = (*Client)(nil)

// doJSON marshals in (when non-nil) as the request body and decodes the
// response envelope into out (when non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = b
	}
	return c.do(ctx, method, path, mimeJSON, body, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	requestID := uuid.NewString()
	log := c.log.With("method", method, "path", path, "request_id", requestID)

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()

	req.SetRequestURI(c.baseURL + path)
	req.SetMethod(method)
	req.Header.Set("Accept", mimeJSON)
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if tok := c.token(); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+tok)
	}
	if body != nil {
		req.Header.SetContentTypeBytes([]byte(contentType))
		req.SetBody(body)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	done := make(chan error, 1)
	go func() {
		done <- c.hc.DoDeadline(ctx, req, resp, deadline)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		// req and resp stay with the abandoned goroutine, not the pool
		log.Debug(ctx, "request abandoned", "reason", ctx.Err())
		return ctx.Err()
	}
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}

	status := resp.StatusCode()
	log.Debug(ctx, "response", "status", status)

	if err := decodeResponse(status, resp.Body(), out); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			log.Info(ctx, "backend rejected request", "status", apiErr.StatusCode, "message", apiErr.Message)
		}
		return err
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, consts.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, consts.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, consts.MethodPut, path, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, consts.MethodDelete, path, nil, nil)
}

// postRaw sends an already encoded body, e.g. a multipart form.
func (c *Client) postRaw(ctx context.Context, path, contentType string, body *bytes.Buffer, out any) error {
	return c.do(ctx, consts.MethodPost, path, contentType, body.Bytes(), out)
}
