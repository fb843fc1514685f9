package kite

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/ekaputhra/kitefarm/config"
)

// Client talks to the Kite testnet services for one account session. It is
// not safe for concurrent use; the runner is strictly sequential.
type Client struct {
	http        *resty.Client
	cfg         *config.Config
	accessToken string
}

// New builds a client, optionally tunneling through proxyURL.
func New(cfg *config.Config, proxyURL string) *Client {
	httpc := resty.New()
	httpc.SetTimeout(cfg.RequestTimeout())
	httpc.SetHeader("User-Agent", cfg.UserAgent)
	if proxyURL != "" {
		httpc.SetProxy(proxyURL)
	}
	return &Client{http: httpc, cfg: cfg}
}

// AccessToken exposes the session bearer acquired by SignIn, mainly for
// tests.
func (c *Client) AccessToken() string {
	return c.accessToken
}

func (c *Client) bearer() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.accessToken}
}

func (c *Client) originHeaders(h map[string]string) map[string]string {
	h["Origin"] = c.cfg.WebOrigin
	h["Referer"] = c.cfg.WebOrigin + "/"
	return h
}

func (c *Client) post(ctx context.Context, url string, body any, headers map[string]string, op string) (*envelope, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	for k, v := range headers {
		req.SetHeader(k, v)
	}
	resp, err := req.Post(url)
	return decode(resp, err, op)
}

func (c *Client) get(ctx context.Context, url string, params, headers map[string]string, op string) (*envelope, error) {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	for k, v := range headers {
		req.SetHeader(k, v)
	}
	resp, err := req.Get(url)
	return decode(resp, err, op)
}
