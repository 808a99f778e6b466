// Package apiclient talks to the bookkeeping REST API on behalf of one
// browser session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookkeeping-web/internal/domain/failure"
	"bookkeeping-web/internal/domain/session"
)

const (
	HeaderCSRF = "X-XSRF-TOKEN"

	maxErrorBody = 1 << 20
)

type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// WithCredentials controls whether the session cookie jar is attached.
func WithCredentials(on bool) Option { return func(c *Client) { c.credentials = on } }

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

type Client struct {
	base        string
	hc          *http.Client
	credentials bool
	timeout     time.Duration
	log         *zap.Logger
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:        strings.TrimRight(baseURL, "/"),
		hc:          http.DefaultClient,
		credentials: true,
		log:         zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// call describes one API request.
type call struct {
	method string
	path   string
	in     any
	out    any
	// anonymous calls never carry the bearer token.
	anonymous bool
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func (c *Client) do(ctx context.Context, creds session.Credentials, rc call) error {
	op := rc.method + " " + rc.path

	var body io.Reader
	if rc.in != nil {
		b, err := json.Marshal(rc.in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, rc.method, c.base+rc.path, body)
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if rc.in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil {
		if tok := creds.BearerToken(); tok != "" && !rc.anonymous {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		if csrf := creds.CSRFToken(); csrf != "" && mutating(rc.method) {
			req.Header.Set(HeaderCSRF, csrf)
		}
	}

	hc := *c.hc
	if c.credentials && creds != nil {
		hc.Jar = creds.CookieJar()
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug("api call failed", zap.String("op", op), zap.Error(err))
		return &failure.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.log.Debug("api call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return failure.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return decodeError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &failure.NetworkError{Op: op, Err: err}
	}
	if rc.out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, rc.out); err != nil {
		return fmt.Errorf("decode %s: %w", op, err)
	}
	return nil
}

// decodeError turns a failure body into an APIError. Bodies that are not a
// JSON object leave Message and Fields empty so callers fall back to their
// own generic text. Field errors keep the order of the body.
func decodeError(resp *http.Response) error {
	apiErr := &failure.APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	msg, fields, ok := decodeErrorObject(raw)
	if !ok {
		return apiErr
	}
	if msg != "" {
		apiErr.Message = msg
		return apiErr
	}
	apiErr.Fields = fields
	return apiErr
}

func decodeErrorObject(raw []byte) (msg string, fields []failure.FieldMessage, ok bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return "", nil, false
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, false
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return "", nil, false
		}
		text := ""
		switch tv := v.(type) {
		case nil:
		case string:
			text = tv
		default:
			text = fmt.Sprint(tv)
		}
		if key == "message" {
			if text != "" && msg == "" {
				msg = text
			}
			continue
		}
		fields = append(fields, failure.FieldMessage{Field: key, Message: text})
	}
	if _, err := dec.Token(); err != nil {
		return "", nil, false
	}
	return msg, fields, true
}
