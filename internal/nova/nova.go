package nova

import (
	"context"
	"time"

	"github.com/Lingikaushikreddy/nova-matches/internal/secrets"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	apiURL    = "http://localhost:8000"
	userAgent = "Lingikaushikreddy/nova-matches (lingikaushikreddy@gmail.com)"
	// Server-side cap for matches per request.
	maxMatchLimit     = 100
	defaultMatchLimit = 10
)

type Client struct {
	// ctx used only for http requests right now
	ctx    context.Context
	creds  secrets.Store
	logger *zap.Logger
	http   *resty.Client
}

func New(ctx context.Context, logger *zap.Logger, creds secrets.Store) *Client {
	c := &Client{
		ctx:    ctx,
		creds:  creds,
		logger: logger,
	}

	c.http = resty.New().
		SetBaseURL(apiURL).
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	// The API serves anonymous reads; the bearer header is attached only
	// when a token is stored.
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		c.logger.Debug("make request", zap.String("url", req.URL))

		if c.creds == nil {
			return nil
		}

		token, err := c.creds.Get()
		if err != nil {
			return err
		}
		if token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}

		return nil
	})

	return c
}

func (c *Client) SetAPIURL(u string) {
	c.http.SetBaseURL(u)
}

func (c *Client) SetUserAgent(ua string) {
	c.http.SetHeader("User-Agent", ua)
}
