package worldpay_xml

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment selects the test or live payment service endpoint.
type Environment string

const (
	EnvTest Environment = "test"
	EnvLive Environment = "live"
)

const (
	epHostLive = "https://secure.worldpay.com"
	epHostTest = "https://secure-test.worldpay.com"
	epPath     = "/jsp/merchant/xml/paymentService.jsp"
)

// Config holds the credentials and settings needed to submit orders to the
// WorldPay XML payment service.
type Config struct {
	// MerchantCode is the WorldPay merchant code, stamped on every
	// paymentService document.
	MerchantCode string

	// Username is the basic-auth username. When empty, MerchantCode is used,
	// which is the common single-credential setup.
	Username string

	// Password is the XML invocation password for the merchant code.
	Password string

	// InstallationID is the optional installation identifier, attached to
	// the order only when set.
	InstallationID string

	// Env selects the test or live endpoint. Defaults to test.
	Env Environment

	// BaseURL optionally overrides the payment service URL.
	// When empty, the URL is derived from Env.
	BaseURL string

	// P12Path is the optional filesystem path to a P12/PFX client
	// certificate, for acquiring setups that require mutual TLS in addition
	// to basic auth.
	P12Path string

	// P12Password is the password that protects the P12 file.
	P12Password string
}

// Validate checks that the required configuration fields are present.
func (c Config) Validate() error {
	if c.MerchantCode == "" {
		return fmt.Errorf("worldpay_xml: MerchantCode is required")
	}
	if c.Password == "" {
		return fmt.Errorf("worldpay_xml: Password is required")
	}
	return nil
}

// BasicAuthUsername returns the username used for HTTP basic auth: the
// configured Username, or the merchant code when none was set.
func (c Config) BasicAuthUsername() string {
	if c.Username != "" {
		return c.Username
	}
	return c.MerchantCode
}

// DefaultEndpoint returns the payment service URL for the configured
// environment.
func (c Config) DefaultEndpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Env == EnvLive {
		return epHostLive + epPath
	}
	return epHostTest + epPath
}

// LoadConfigFromEnv creates a Config from environment variables:
//
//	WORLDPAY_MERCHANT_CODE    – merchant code (required)
//	WORLDPAY_USERNAME         – basic-auth username (defaults to merchant code)
//	WORLDPAY_PASSWORD         – XML invocation password (required)
//	WORLDPAY_INSTALLATION_ID  – optional installation identifier
//	WORLDPAY_ENV              – "test" (default) or "live"
//	WORLDPAY_BASE_URL         – optional endpoint override
//	WORLDPAY_P12_PATH         – optional P12 client certificate file
//	WORLDPAY_P12_PASSWORD     – P12 file password
func LoadConfigFromEnv() Config {
	return configFromEnv()
}

// LoadConfigFromDotEnv loads environment variables from a .env file and then
// reads the Config from them. If the file does not exist it silently falls
// back to the current process environment.
func LoadConfigFromDotEnv(filenames ...string) Config {
	// godotenv.Load does NOT override existing env vars.
	_ = godotenv.Load(filenames...)
	return configFromEnv()
}

func configFromEnv() Config {
	env := EnvTest
	if os.Getenv("WORLDPAY_ENV") == string(EnvLive) {
		env = EnvLive
	}

	return Config{
		MerchantCode:   os.Getenv("WORLDPAY_MERCHANT_CODE"),
		Username:       os.Getenv("WORLDPAY_USERNAME"),
		Password:       os.Getenv("WORLDPAY_PASSWORD"),
		InstallationID: os.Getenv("WORLDPAY_INSTALLATION_ID"),
		Env:            env,
		BaseURL:        os.Getenv("WORLDPAY_BASE_URL"),
		P12Path:        os.Getenv("WORLDPAY_P12_PATH"),
		P12Password:    os.Getenv("WORLDPAY_P12_PASSWORD"),
	}
}
