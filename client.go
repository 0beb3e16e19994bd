package worldpay_xml

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/hmartin82/worldpay_xml_sdk/models"
)

// redirectCookieName is the session-affinity cookie the gateway sets before
// a 3-D Secure redirect and expects back on the continuation request.
const redirectCookieName = "machine"

// Client submits orders to the WorldPay XML payment service.
//
// A Client is safe for concurrent use; each Purchase call is an independent
// request/response exchange with no shared mutable state.
type Client struct {
	cfg        Config
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

// NewClient creates a new payment service client. It validates the
// configuration, loads the optional P12 client certificate, and prepares the
// HTTP client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	httpClient := options.httpClient
	if httpClient == nil {
		transport := &http.Transport{}
		if cfg.P12Path != "" {
			tlsCert, err := loadP12Certificate(cfg.P12Path, cfg.P12Password)
			if err != nil {
				return nil, fmt.Errorf("worldpay_xml: failed to load P12 certificate: %w", err)
			}
			transport.TLSClientConfig = &tls.Config{
				Certificates: []tls.Certificate{tlsCert},
			}
		}
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		}
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		endpoint:   cfg.DefaultEndpoint(),
		logger:     options.logger,
	}, nil
}

// Purchase submits a single order to the payment service and returns the
// normalized result.
//
// Gateway-reported business failures (declined payments, error elements) are
// returned as data with Successful == false. Go errors are reserved for
// request validation, transport failures, non-2xx statuses, and replies that
// cannot be decoded.
func (c *Client) Purchase(ctx context.Context, req models.PurchaseRequest) (models.PurchaseAPIResponse, error) {
	doc, err := buildPaymentService(c.cfg.MerchantCode, c.cfg.InstallationID, &req)
	if err != nil {
		return models.PurchaseAPIResponse{}, err
	}

	payload, err := doc.WriteToBytes()
	if err != nil {
		return models.PurchaseAPIResponse{}, fmt.Errorf("worldpay_xml: serialize order submission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return models.PurchaseAPIResponse{}, fmt.Errorf("worldpay_xml: create HTTP request: %w", err)
	}
	httpReq.SetBasicAuth(c.cfg.BasicAuthUsername(), c.cfg.Password)
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")

	// The redirect cookie jar is scoped to this one request; it must not
	// leak session affinity across orders.
	httpClient := c.httpClient
	if req.RedirectCookie != "" {
		jar, err := redirectCookieJar(c.endpoint, req.RedirectCookie)
		if err != nil {
			return models.PurchaseAPIResponse{}, err
		}
		clone := *c.httpClient
		clone.Jar = jar
		httpClient = &clone
	}

	c.logger.Debug("submitting order",
		zap.String("order_code", req.TransactionID),
		zap.String("endpoint", c.endpoint),
	)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return models.PurchaseAPIResponse{}, fmt.Errorf("worldpay_xml: send order submission: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PurchaseAPIResponse{HTTPStatus: resp.StatusCode}, fmt.Errorf("worldpay_xml: read response: %w", err)
	}

	c.logger.Debug("received payment service reply",
		zap.String("order_code", req.TransactionID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.PurchaseAPIResponse{HTTPStatus: resp.StatusCode, Body: body}, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
			Headers:    resp.Header,
		}
	}

	parsed, err := ParseResponse(body)
	if err != nil {
		return models.PurchaseAPIResponse{HTTPStatus: resp.StatusCode, Body: body}, err
	}

	result, err := parsed.Result()
	if err != nil {
		return models.PurchaseAPIResponse{HTTPStatus: resp.StatusCode, Body: body}, err
	}

	return models.PurchaseAPIResponse{
		HTTPStatus: resp.StatusCode,
		Body:       body,
		Data:       result,
	}, nil
}

// redirectCookieJar builds a single-request cookie jar carrying the
// "machine" cookie, scoped to the endpoint host with path "/".
func redirectCookieJar(endpoint, value string) (http.CookieJar, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("worldpay_xml: parse endpoint %q: %w", endpoint, err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("worldpay_xml: create cookie jar: %w", err)
	}
	// No Domain attribute: the jar scopes the cookie to the endpoint host,
	// which is exactly the scope the gateway set it with.
	jar.SetCookies(u, []*http.Cookie{{
		Name:  redirectCookieName,
		Value: value,
		Path:  "/",
	}})
	return jar, nil
}
