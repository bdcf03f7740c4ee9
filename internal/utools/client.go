// Package utools talks to the uTools open platform: identity exchange,
// sellable-item registration and payment-status queries. All requests carry
// an HMAC-SHA256 signature over the sorted, URL-encoded parameter set.
package utools

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	baseInfoPath     = "/baseinfo"
	goodsCreatePath  = "/goods"
	paymentQueryPath = "/payments/record"

	// PaymentConfirmed is the platform status code for a settled payment.
	PaymentConfirmed = 10

	requestTimeout = 10 * time.Second
)

var ErrGateway = errors.New("utools gateway error")

type UserInfo struct {
	OpenID   string `json:"open_id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Member   int    `json:"member"`
}

type Goods struct {
	GoodsID string `json:"goods_id"`
	Title   string `json:"title"`
	Fee     int    `json:"fee"`
}

type PaymentRecord struct {
	Status       int    `json:"status"`
	OrderID      string `json:"order_id"`
	OutOrderID   string `json:"out_order_id"`
	TotalFee     int    `json:"total_fee"`
	PaidAtStamp  int64  `json:"paid_at"`
	GoodsID      string `json:"goods_id"`
	PluginUserID string `json:"open_id"`
}

func (p *PaymentRecord) Confirmed() bool {
	return p.Status == PaymentConfirmed
}

type Client struct {
	baseURL    string
	pluginID   string
	secret     string
	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(baseURL, pluginID, secret string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pluginID:   pluginID,
		secret:     secret,
		httpClient: &http.Client{Timeout: requestTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sign computes the platform request signature: parameters are sorted by
// key, URL-encoded into a single query string and HMAC-SHA256-hashed with
// the shared secret. url.Values.Encode already sorts by key.
func (c *Client) Sign(params url.Values) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(params.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) signedParams(extra map[string]string) url.Values {
	params := url.Values{}
	params.Set("plugin_id", c.pluginID)
	params.Set("timestamp", strconv.FormatInt(c.now().Unix(), 10))
	for k, v := range extra {
		params.Set(k, v)
	}
	params.Set("sign", c.Sign(withoutSign(params)))
	return params
}

func withoutSign(params url.Values) url.Values {
	out := url.Values{}
	for k, vs := range params {
		if k == "sign" {
			continue
		}
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out
}

// ExchangeToken trades a plugin access token for the user's profile.
func (c *Client) ExchangeToken(ctx context.Context, accessToken string) (*UserInfo, error) {
	var info UserInfo
	params := c.signedParams(map[string]string{"access_token": accessToken})
	if err := c.get(ctx, baseInfoPath, params, &info); err != nil {
		return nil, err
	}
	if info.OpenID == "" {
		return nil, fmt.Errorf("%w: baseinfo resource missing open_id", ErrGateway)
	}
	return &info, nil
}

// CreateGoods registers a sellable item and returns its platform id.
func (c *Client) CreateGoods(ctx context.Context, title string, feeMinorUnits int) (string, error) {
	var goods Goods
	params := c.signedParams(map[string]string{
		"title": title,
		"fee":   strconv.Itoa(feeMinorUnits),
	})
	if err := c.post(ctx, goodsCreatePath, params, &goods); err != nil {
		return "", err
	}
	if goods.GoodsID == "" {
		return "", fmt.Errorf("%w: goods resource missing goods_id", ErrGateway)
	}
	return goods.GoodsID, nil
}

// QueryPaymentStatus fetches the payment record for a platform order id.
func (c *Client) QueryPaymentStatus(ctx context.Context, utoolsOrderID string) (*PaymentRecord, error) {
	var record PaymentRecord
	params := c.signedParams(map[string]string{"out_order_id": utoolsOrderID})
	if err := c.get(ctx, paymentQueryPath, params, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

type envelope struct {
	Resource json.RawMessage `json:"resource"`
	Message  string          `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, resource any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, resource)
}

func (c *Client) post(ctx context.Context, path string, params url.Values, resource any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, resource)
}

func (c *Client) do(req *http.Request, resource any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrGateway, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrGateway, err)
	}
	if len(env.Resource) == 0 || string(env.Resource) == "null" {
		return fmt.Errorf("%w: resource absent in response", ErrGateway)
	}
	if err := json.Unmarshal(env.Resource, resource); err != nil {
		return fmt.Errorf("%w: decoding resource: %v", ErrGateway, err)
	}
	return nil
}
