// Package medscanapi is the HTTP client for the remote MedScan REST API and scan service.
package medscanapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"

	apperrors "github.com/medscan/portal/internal/errors"
	"github.com/medscan/portal/internal/observability/metrics"
	"github.com/medscan/portal/internal/ports"
)

// maxResponseBytes caps how much of any response body is read.
const maxResponseBytes = 4 << 20

var tracer = otel.Tracer("medscan.internal.adapters.medscanapi")

// Config captures what the client needs to reach the remote services.
type Config struct {
	BaseURL   string
	ScanURL   string
	Timeout   time.Duration
	UserAgent string

	// Tokens supplies the bearer token; nil sends every call unauthenticated.
	Tokens  ports.TokenSource
	Metrics *metrics.Portal
	Logger  *slog.Logger
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the MedScan API. It is safe for concurrent use.
type Client struct {
	baseURL   string
	scanURL   string
	userAgent string
	tokens    ports.TokenSource
	metrics   *metrics.Portal
	logger    *slog.Logger
	http      *http.Client
}

var (
	_ ports.AuthAPI         = (*Client)(nil)
	_ ports.NotificationAPI = (*Client)(nil)
	_ ports.AppointmentAPI  = (*Client)(nil)
	_ ports.DoctorAPI       = (*Client)(nil)
	_ ports.ProfileAPI      = (*Client)(nil)
	_ ports.ClinicAPI       = (*Client)(nil)
	_ ports.ScanAPI         = (*Client)(nil)
)

// NewClient builds a Client. BaseURL is required.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("medscan api base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	hc := cfg.HTTPClient
	if hc == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		hc = &http.Client{Timeout: timeout, Jar: jar}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = "medscan-portal"
	}

	return &Client{
		baseURL:   base,
		scanURL:   strings.TrimSpace(cfg.ScanURL),
		userAgent: ua,
		tokens:    cfg.Tokens,
		metrics:   cfg.Metrics,
		logger:    logger.With("component", "medscanapi"),
		http:      hc,
	}, nil
}

// call describes one JSON request.
type call struct {
	op     string
	method string
	path   string
	body   any
	out    any
	// auth attaches the bearer token when one is available.
	auth bool
}

// do sends c and decodes a 2xx JSON answer into c.out (when set).
func (cl *Client) do(ctx context.Context, c call) error {
	var payload io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "encode %s request", c.op)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, cl.baseURL+c.path, payload)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "create %s request", c.op)
	}
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.auth {
		cl.authorize(req)
	}

	body, err := cl.send(ctx, c.op, req)
	if err != nil {
		return err
	}
	if c.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, c.out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeRemoteRejection, "decode %s response", c.op)
	}
	return nil
}

// authorize sets the bearer header when the session holds a token.
func (cl *Client) authorize(req *http.Request) {
	if cl.tokens == nil {
		return
	}
	tok := cl.tokens.Token()
	if tok == "" {
		return
	}
	(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(req)
}

// send executes req inside a span and returns the body of a 2xx response.
func (cl *Client) send(ctx context.Context, op string, req *http.Request) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "medscanapi."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)
	defer span.End()
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", cl.userAgent)

	start := time.Now()
	body, err := cl.roundTrip(op, req, span)
	cl.metrics.ObserveAPI(op, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		cl.logger.DebugContext(ctx, "remote call failed", "op", op, "error", err)
		return nil, err
	}
	return body, nil
}

func (cl *Client) roundTrip(op string, req *http.Request, span trace.Span) ([]byte, error) {
	resp, err := cl.http.Do(req)
	if err != nil {
		return nil, apperrors.MapTransportError(err, op)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.MapTransportError(err, op)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.FromResponse(resp.StatusCode, body)
	}
	return body, nil
}
