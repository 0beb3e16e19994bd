package worldpay_xml

import (
	"net/http"

	"go.uber.org/zap"
)

type options struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func defaultOptions() options {
	return options{
		logger: zap.NewNop(),
	}
}

// Option customizes the client behavior.
type Option func(*options)

// WithHTTPClient replaces the default HTTP client. The caller then owns
// timeouts and TLS configuration; the P12 settings in Config are ignored.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithLogger enables debug logging of the request/response cycle.
// Card data and credentials are never logged.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
