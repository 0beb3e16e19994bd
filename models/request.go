package models

// PurchaseRequest is the input for a single "submit order" purchase call.
//
// Exactly one of Card or ApplePay must be set. Card payments go through the
// full card validation rules; Apple Pay payments deliberately bypass them,
// since the token carries a cryptogram instead of a PAN.
type PurchaseRequest struct {
	// TransactionID is the merchant-assigned order code. It must be unique
	// per attempt and is echoed back in the gateway reply.
	TransactionID string `validate:"required"`

	// Amount is the order total in minor units (e.g. 745 for GBP 7.45).
	Amount int64 `validate:"required,gt=0"`

	// Currency is the ISO 4217 alphabetic currency code (e.g. "GBP").
	Currency string `validate:"required,iso4217"`

	// CurrencyExponent is the number of decimal places for Currency.
	// Amount must already be expressed consistently with it.
	// See DefaultCurrencyExponent for the usual values.
	CurrencyExponent int `validate:"gte=0,lte=3"`

	// Description is the order description shown in the merchant interface.
	// Defaults to "Merchandise" when empty.
	Description string

	// Card contains the payment card details for a card payment.
	Card *Card

	// ApplePay contains the Apple Pay token for a wallet payment.
	ApplePay *ApplePayToken

	// PaResponse is the 3-D Secure paResponse value. When set, the order
	// carries a 3-D Secure continuation block.
	PaResponse string

	// ClientIP and SessionID identify the shopper session. Both must be set
	// for the session attributes to be emitted; the gateway rejects a
	// session id attribute without an IP.
	ClientIP  string
	SessionID string

	// Email is the shopper email address. Omitted from the order when empty.
	Email string

	// AcceptHeader and UserAgentHeader are echoed into the browser
	// fingerprint block of the order.
	AcceptHeader    string
	UserAgentHeader string

	// EchoData is opaque data round-tripped through the order for 3-D Secure
	// redirect continuation.
	EchoData string

	// RedirectCookie is the session cookie value captured before a 3-D
	// Secure redirect. When set, it is replayed to the gateway as the
	// "machine" cookie.
	RedirectCookie string
}

// Card contains payment card details and the billing address.
type Card struct {
	// Brand is the card brand name (e.g. "visa"). When empty, it is
	// auto-detected from Number.
	Brand string

	// Number is the full card number (PAN).
	Number string `validate:"required,credit_card"`

	// ExpiryMonth is the two-digit expiry month (e.g. "12").
	ExpiryMonth string `validate:"required,numeric,len=2"`

	// ExpiryYear is the four-digit expiry year (e.g. "2027").
	ExpiryYear string `validate:"required,numeric,len=4"`

	// HolderName is the cardholder name as printed on the card.
	HolderName string `validate:"required"`

	// CVV is the card verification value.
	CVV string `validate:"required,numeric,min=3,max=4"`

	// StartMonth, StartYear and IssueNumber are required for Maestro and
	// Switch cards and ignored for every other brand.
	StartMonth  string `validate:"omitempty,numeric,len=2"`
	StartYear   string `validate:"omitempty,numeric,len=4"`
	IssueNumber string `validate:"omitempty,numeric"`

	// Address is the billing address.
	Address Address
}

// Address is a card billing address. Empty fields are still emitted as empty
// elements on the wire, so there is no omission behavior to configure.
type Address struct {
	Address1    string
	Address2    string
	PostalCode  string
	City        string
	State       string
	CountryCode string
}

// ApplePayToken is the decoded Apple Pay payment token for a wallet payment.
// Field names mirror the paymentData structure Apple hands to the merchant.
type ApplePayToken struct {
	// EphemeralPublicKey is the ephemeral public key from the token header.
	EphemeralPublicKey string `validate:"required"`

	// PublicKeyHash is the hash of the merchant public key certificate.
	PublicKeyHash string `validate:"required"`

	// TransactionID is the Apple transaction identifier from the header.
	TransactionID string `validate:"required"`

	// ApplicationData is optional and omitted from the order when empty.
	ApplicationData string

	// Signature is the detached PKCS#7 signature over the payment data.
	Signature string `validate:"required"`

	// Version is the token protocol version (e.g. "EC_v1").
	Version string `validate:"required"`

	// Data is the encrypted payment data blob.
	Data string `validate:"required"`
}

// currencyExponents lists currencies whose exponent is not the usual 2.
var currencyExponents = map[string]int{
	"BHD": 3, "BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "IQD": 3,
	"ISK": 0, "JOD": 3, "JPY": 0, "KMF": 0, "KRW": 0, "KWD": 3,
	"LYD": 3, "OMR": 3, "PYG": 0, "RWF": 0, "TND": 3, "UGX": 0,
	"VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
}

// DefaultCurrencyExponent returns the number of decimal places normally used
// for an ISO 4217 currency code. Most currencies use 2.
func DefaultCurrencyExponent(currency string) int {
	if exp, ok := currencyExponents[currency]; ok {
		return exp
	}
	return 2
}
