package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/omarshaarawi/gameday/internal/config"
	"github.com/omarshaarawi/gameday/internal/metrics"
	"golang.org/x/time/rate"
)

const baseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"

var ErrUnexpectedStatus = errors.New("unexpected status code")

type Client struct {
	httpClient *retryablehttp.Client
	limiter    *rate.Limiter
	baseURL    string
	Config     config.ESPNAPI
}

func NewClient(cfg config.ESPNAPI) *Client {
	return newClient(cfg, baseURL)
}

func newClient(cfg config.ESPNAPI, base string) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = 10 * time.Second
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = 250 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = slog.Default()
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		httpClient: retryClient,
		limiter:    rate.NewLimiter(limit, 1),
		baseURL:    base,
		Config:     cfg,
	}
}

func (c *Client) Get(ctx context.Context, endpoint string, params, headers map[string]string, result interface{}) error {
	view := params["view"]
	if view == "" {
		view = "none"
	}

	start := time.Now()
	err := c.get(ctx, endpoint, params, headers, result)
	metrics.ESPNRequestDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	metrics.ESPNRequestsTotal.WithLabelValues(view, metrics.Outcome(err)).Inc()
	return err
}

func (c *Client) get(ctx context.Context, endpoint string, params, headers map[string]string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	for key, value := range params {
		values := strings.Split(value, ",")
		for _, v := range values {
			q.Add(key, strings.TrimSpace(v))
		}
	}
	req.URL.RawQuery = q.Encode()

	c.setCookies(req.Request)

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

func (c *Client) setCookies(req *http.Request) {
	cookie := fmt.Sprintf("SWID=%s; espn_s2=%s", c.Config.SWID, c.Config.ESPNS2)
	req.Header.Set("Cookie", cookie)
}

func matchupFilter(week int) (map[string]string, error) {
	filters := map[string]interface{}{
		"schedule": map[string]interface{}{
			"filterMatchupPeriodIds": map[string]interface{}{
				"value": []int{week},
			},
		},
	}

	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("error marshalling filters: %w", err)
	}

	return map[string]string{
		"x-fantasy-filter": string(filtersJSON),
	}, nil
}
