package viacep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/cep-lookup/internal/domain"
	"github.com/couchcryptid/cep-lookup/internal/observability"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br/ws"

// maxBodyBytes bounds a lookup response; real ones are a few hundred bytes.
const maxBodyBytes = 64 << 10

// Client implements domain.AddressLookup using the ViaCEP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger

	// lastErr holds the most recent transport failure, nil once the
	// upstream answers again.
	lastErr atomic.Pointer[error]
}

// NewClient creates a ViaCEP client. A zero timeout leaves the HTTP client
// without a deadline.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Lookup fetches the address for eight normalized CEP digits.
func (c *Client) Lookup(ctx context.Context, digits string) (domain.Address, error) {
	u := fmt.Sprintf("%s/%s/json/", c.baseURL, url.PathEscape(digits))

	start := time.Now()
	addr, err := c.doRequest(ctx, u)
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.UpstreamRequests.WithLabelValues("success").Inc()
		c.lastErr.Store(nil)
	case errors.Is(err, domain.ErrNotFound):
		c.metrics.UpstreamRequests.WithLabelValues("not_found").Inc()
		c.lastErr.Store(nil)
	default:
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		c.lastErr.Store(&err)
		c.logger.Warn("viacep lookup failed", "cep", digits, "error", err)
	}
	return addr, err
}

// CheckReadiness reports the last transport failure, if the upstream has not
// answered successfully since.
func (c *Client) CheckReadiness(_ context.Context) error {
	if p := c.lastErr.Load(); p != nil {
		return fmt.Errorf("viacep unavailable: %w", *p)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Address, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Address{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Address{}, fmt.Errorf("viacep request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Address{}, fmt.Errorf("viacep API error: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Address{}, fmt.Errorf("read response: %w", err)
	}

	// Unmarshal rejects trailing data after the object; a null body leaves
	// viaResp nil.
	var viaResp *response
	if err := json.Unmarshal(body, &viaResp); err != nil {
		return domain.Address{}, fmt.Errorf("decode response: %w", err)
	}
	if viaResp == nil {
		return domain.Address{}, errors.New("decode response: empty body")
	}

	if viaResp.Erro {
		return domain.Address{}, domain.ErrNotFound
	}

	return domain.Address{
		Street:       viaResp.Logradouro,
		Neighborhood: viaResp.Bairro,
		City:         viaResp.Localidade,
		State:        viaResp.UF,
	}, nil
}

// ViaCEP API response types.

type response struct {
	CEP         string   `json:"cep"`
	Logradouro  string   `json:"logradouro"`
	Complemento string   `json:"complemento"`
	Bairro      string   `json:"bairro"`
	Localidade  string   `json:"localidade"`
	UF          string   `json:"uf"`
	Erro        flexBool `json:"erro"`
}

// flexBool accepts true/false as JSON booleans or strings. ViaCEP has
// served the not-found marker both as `true` and as `"true"`.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true":
		*b = true
	case "false", "null", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}
