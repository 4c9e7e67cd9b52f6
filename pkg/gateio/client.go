package gateio

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	BaseURL       = "https://api.gateio.ws/api/v4"
	DefaultSettle = "usdt"
)

type Client struct {
	client      *resty.Client
	settle      string
	logger      *logrus.Logger
	rateLimiter *RateLimiter
}

type Config struct {
	BaseURL           string
	Settle            string
	Timeout           time.Duration
	RequestsPerSecond int
}

func NewClient(config Config, logger *logrus.Logger) *Client {
	client := resty.New()

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	settle := config.Settle
	if settle == "" {
		settle = DefaultSettle
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &Client{
		client:      client,
		settle:      settle,
		logger:      logger,
		rateLimiter: NewRateLimiter(config.RequestsPerSecond),
	}
}

// GetTickers returns every futures ticker for the configured settle currency.
func (c *Client) GetTickers(ctx context.Context) ([]Ticker, error) {
	endpoint := fmt.Sprintf("/futures/%s/tickers", c.settle)

	var tickers []Ticker
	if err := c.get(ctx, endpoint, nil, &tickers); err != nil {
		c.logger.WithError(err).Error("Failed to fetch tickers")
		return nil, err
	}

	c.logger.WithField("ticker_count", len(tickers)).Debug("Successfully fetched tickers")
	return tickers, nil
}

// GetCandlesticks returns up to limit bars for contract, oldest first.
func (c *Client) GetCandlesticks(ctx context.Context, contract, interval string, limit int) ([]Candlestick, error) {
	endpoint := fmt.Sprintf("/futures/%s/candlesticks", c.settle)
	params := map[string]string{
		"contract": contract,
		"interval": interval,
		"limit":    strconv.Itoa(limit),
	}

	var candles []Candlestick
	if err := c.get(ctx, endpoint, params, &candles); err != nil {
		c.logger.WithFields(logrus.Fields{
			"contract": contract,
			"interval": interval,
		}).WithError(err).Debug("Failed to fetch candlesticks")
		return nil, err
	}

	return candles, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, out interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	req := c.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(endpoint)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to send request: %w", err)}
	}

	if resp.StatusCode()/100 != 2 {
		var apiErr APIError
		if err := sonic.Unmarshal(resp.Body(), &apiErr); err == nil && apiErr.Label != "" {
			return &FetchError{
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode(),
				Err:        fmt.Errorf("API error %s: %s", apiErr.Label, apiErr.Message),
			}
		}
		return &FetchError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected response: %s", string(resp.Body())),
		}
	}

	if err := sonic.Unmarshal(resp.Body(), out); err != nil {
		return &FetchError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	return nil
}
