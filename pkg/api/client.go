package api

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
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "http://localhost:5000/api"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Client is the typed gateway to the restaurant service. It attaches the
// session credential to protected calls and normalizes response envelopes.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	logger  aqm.Logger
	timeout time.Duration

	tables       *TableDataAccess
	reservations *ReservationDataAccess
	waitlist     *WaitlistDataAccess
	orders       *OrderDataAccess
	menu         *MenuDataAccess
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// still wrapped for tracing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(logger aqm.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(baseURL string, session *Session, opts ...Option) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if session == nil {
		session = NewSession()
	}

	c := &Client{
		baseURL: trimmed,
		session: session,
		logger:  aqm.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := &http.Client{}
	if c.http != nil {
		copied := *c.http
		hc = &copied
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(base)
	hc.Timeout = timeoutOrDefault(c.timeout)
	c.http = hc

	c.tables = &TableDataAccess{client: c}
	c.reservations = &ReservationDataAccess{client: c}
	c.waitlist = &WaitlistDataAccess{client: c}
	c.orders = &OrderDataAccess{client: c}
	c.menu = &MenuDataAccess{client: c}

	return c
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Tables() *TableDataAccess {
	return c.tables
}

func (c *Client) Reservations() *ReservationDataAccess {
	return c.reservations
}

func (c *Client) Waitlist() *WaitlistDataAccess {
	return c.waitlist
}

func (c *Client) Orders() *OrderDataAccess {
	return c.orders
}

func (c *Client) Menu() *MenuDataAccess {
	return c.menu
}

// call describes one request to the service.
type call struct {
	op        string
	method    string
	path      string
	query     url.Values
	body      any
	protected bool
}

// do runs a call and decodes the normalized payload into dest. Reads are
// retried once on a network failure; mutations are sent exactly once.
func (c *Client) do(ctx context.Context, cl call, dest any) error {
	var cred Credential
	if cl.protected {
		var ok bool
		cred, ok = c.session.Credential()
		if !ok {
			return &Error{Op: cl.op, Kind: ErrUnauthorized, Message: "not signed in"}
		}
	}

	var payload []byte
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return &Error{Op: cl.op, Kind: ErrValidation, Err: err}
		}
		payload = raw
	}

	attempts := 1
	if cl.method == http.MethodGet {
		attempts = 2
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = c.roundTrip(ctx, cl, cred, payload, dest)
		if err == nil || !IsRetryable(err) || ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			c.logger.Debug("retrying read", "op", cl.op, "path", cl.path, "error", err)
		}
	}

	return err
}

func (c *Client) roundTrip(ctx context.Context, cl call, cred Credential, payload []byte, dest any) error {
	target := c.baseURL + "/" + strings.TrimLeft(cl.path, "/")
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return &Error{Op: cl.op, Kind: ErrValidation, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.protected {
		req.Header.Set("Authorization", cred.Header())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: cl.op, Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: cl.op, Kind: ErrNetwork, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{
			Op:      cl.op,
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: serverMessage(raw),
		}
		c.logger.Debug("service rejected call", "op", cl.op, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := decodePayload(raw, dest); err != nil {
		return &Error{Op: cl.op, Kind: ErrValidation, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

// decodePayload unwraps a {"data": ...} envelope when present and decodes
// the payload into dest. Anything else is decoded as-is.
func decodePayload(raw []byte, dest any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return errors.New("empty response body")
	}

	if raw[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil {
			data := bytes.TrimSpace(envelope.Data)
			if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
				raw = data
			}
		}
	}

	return json.Unmarshal(raw, dest)
}

func serverMessage(raw []byte) string {
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}

	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	if s, ok := body.Error.(string); ok {
		return s
	}
	return ""
}

// ValidateID rejects ids that are not Mongo object ids before they are
// placed into a request path.
func ValidateID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return Errorf("validate id", ErrValidation, "invalid id %q", id)
	}
	return nil
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return defaultTimeout
	}
	return value
}
