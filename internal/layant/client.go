package layant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"wecom-bot/internal/metrics"
)

// TokenSource supplies the bearer credential for authenticated calls.
// Login itself never consults it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config holds the client settings taken from the environment.
type Config struct {
	BaseURL string
	Lang    string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client talks to the Layan-T subscription API.
type Client struct {
	http    *http.Client
	baseURL string
	lang    string
	limiter *rate.Limiter
	tokens  TokenSource
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		lang:    cfg.Lang,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), burst),
		logger:  logger,
		tracer:  otel.Tracer("wecom-bot/layant"),
	}
}

// SetTokenSource wires the credential cache in after construction. The
// cache itself logs in through this client, so the two cannot be built
// in one step.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// Login performs the authentication exchange and returns the raw JWT.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, "Login", http.MethodPost, "Auth/Login", false,
		loginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return "", err
	}
	if out.Data.JWT == "" {
		return "", fmt.Errorf("%w: login response carries no token", ErrRemoteRejected)
	}
	return out.Data.JWT, nil
}

// GetSubscription looks up the subscription window for a number.
func (c *Client) GetSubscription(ctx context.Context, phoneNumber string) ([]SubscriptionEntry, error) {
	var out []SubscriptionEntry
	err := c.do(ctx, "GetSubscription", http.MethodPost, "Subscribtions/GetSubscribtion", true,
		getSubscriptionRequest{PhoneNumber: phoneNumber}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckSubscription returns usage counters and the line status.
func (c *Client) CheckSubscription(ctx context.Context, phoneNumber string) (SubscriptionCheck, error) {
	var out SubscriptionCheck
	err := c.do(ctx, "CheckSubscription", http.MethodPost, "Subscribtions/CheckSubscription", true,
		checkSubscriptionRequest{Number: phoneNumber}, &out)
	if err != nil {
		return SubscriptionCheck{}, err
	}
	return out, nil
}

// Extend extends a subscription. The result body is opaque and dropped.
func (c *Client) Extend(ctx context.Context, params DealParams) error {
	return c.do(ctx, "Extend", http.MethodPost, "Deals/Extend", true, params, nil)
}

// ActivateLine activates an inactive line.
func (c *Client) ActivateLine(ctx context.Context, params DealParams) error {
	return c.do(ctx, "ActivateLine", http.MethodPost, "Deals/ActivateLine", true, params, nil)
}

// Renew renews a subscription on its current package.
func (c *Client) Renew(ctx context.Context, number string) error {
	return c.do(ctx, "Renew", http.MethodPost, "Subscribtions/RenewSubscribtion/"+number, true,
		struct{}{}, nil)
}

// SalesByNumber returns the sales the number is eligible for, most
// relevant first.
func (c *Client) SalesByNumber(ctx context.Context, number string) ([]Sale, error) {
	var out []Sale
	err := c.do(ctx, "SalesByNumber", http.MethodGet, "Subscribtions/GetSalesByNumber/"+number, true,
		nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, authed bool, in, out any) error {
	ctx, span := c.tracer.Start(ctx, "layant."+op)
	defer span.End()

	err := c.roundTrip(ctx, method, path, authed, in, out)
	switch {
	case err == nil:
		metrics.APIRequests.WithLabelValues(op, metrics.OutcomeOK).Inc()
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		outcome := metrics.OutcomeRejected
		if errors.Is(err, ErrNetwork) {
			outcome = metrics.OutcomeNetwork
		}
		metrics.APIRequests.WithLabelValues(op, outcome).Inc()
		c.logger.Error("Layan-T request failed",
			slog.String("operation", op),
			slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, authed bool, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiting: %v", ErrNetwork, err)
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("LANG", c.lang)
	req.Header.Set("X-Request-Id", uuid.New().String())

	if authed {
		if c.tokens == nil {
			return fmt.Errorf("%w: no token source configured", ErrNetwork)
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("obtain credential: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d", ErrRemoteRejected, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRemoteRejected, err)
	}
	return nil
}
