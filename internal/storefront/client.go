package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultAPIVersion  = "2024-10"
	DefaultMinInterval = 100 * time.Millisecond
	tokenHeader        = "X-Shopify-Storefront-Access-Token"
	maxErrorBody       = 512
)

type Config struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
	// Endpoint overrides the URL derived from StoreDomain and APIVersion.
	Endpoint    string
	Timeout     time.Duration
	MinInterval time.Duration
	Breaker     circuitbreaker.Config
}

func (c Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	version := c.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.StoreDomain, version)
}

// Client speaks GraphQL to the Shopify Storefront API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[json.RawMessage]
	log      *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	interval := cfg.MinInterval
	if interval == 0 {
		interval = DefaultMinInterval
	}
	bcfg := cfg.Breaker
	if bcfg.Name == "" {
		bcfg = circuitbreaker.DefaultConfig("storefront")
	}
	bcfg.IsSuccessful = countsAsSuccess

	return &Client{
		endpoint: cfg.endpoint(),
		token:    cfg.AccessToken,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		breaker: circuitbreaker.New[json.RawMessage](bcfg, log),
		log:     log,
	}
}

// countsAsSuccess keeps answers the API produced on purpose from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return !gqlErr.Throttled()
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return !statusErr.Temporary()
	}
	return errors.Is(err, context.Canceled)
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage    `json:"data"`
	Errors []GraphQLErrorItem `json:"errors"`
}

// do sends one GraphQL request and decodes its data into out.
func (c *Client) do(ctx context.Context, operation, query string, vars map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", operation, err)
	}

	start := time.Now()
	data, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.post(ctx, operation, query, vars)
	})
	log := logger.FromContext(ctx, c.log).With(
		zap.String("operation", operation),
		zap.Duration("elapsed", time.Since(start)))
	if err != nil {
		log.Warn("storefront request failed", zap.Error(err))
		return fmt.Errorf("storefront request failed: %w", err)
	}
	log.Debug("storefront request done")

	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("%s: %w", operation, ErrEmptyResponse)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", operation, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, operation, query string, vars map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", operation, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var envelope response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", operation, err)
	}
	if len(envelope.Errors) > 0 {
		return nil, &GraphQLError{Operation: operation, Errors: envelope.Errors}
	}
	return envelope.Data, nil
}
