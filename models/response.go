package models

// PurchaseAPIResponse wraps the parsed purchase result together with HTTP
// metadata, following the same pattern as the other gateway SDKs.
type PurchaseAPIResponse struct {
	// HTTPStatus is the HTTP status code returned by the gateway.
	HTTPStatus int

	// Body is the raw XML reply body.
	Body []byte

	// Data is the parsed purchase result.
	Data PurchaseResult
}

// PurchaseResult is the normalized outcome of a purchase attempt.
//
// A declined payment or a gateway-reported error is a successfully decoded
// result with Successful == false, never a Go error.
type PurchaseResult struct {
	// Successful reports whether the payment's last event is one of the
	// terminal success statuses.
	Successful bool

	// Redirect reports whether the shopper must be sent to a 3-D Secure
	// issuer URL before the payment can complete.
	Redirect bool

	// RedirectURL is the 3-D Secure issuer URL, empty when Redirect is false.
	RedirectURL string

	// Message is a human-readable outcome: the gateway error text, the
	// ISO 8583 return code description, "AUTHORISED", or "PENDING".
	Message string

	// ErrorCode is the gateway error code, empty when the reply carried no
	// error element.
	ErrorCode string

	// TransactionID is the order code echoed back by the gateway, empty when
	// the reply carried no order node.
	TransactionID string

	// LastEvent is the raw last payment status token from the reply.
	LastEvent string

	// ISO8583ReturnCode is the numeric payment-network response code.
	// Nil when the reply carried none.
	ISO8583ReturnCode *int
}

// Payment status tokens reported in the reply's lastEvent element.
const (
	PaymentStatusAuthorised           = "AUTHORISED"
	PaymentStatusCaptured             = "CAPTURED"
	PaymentStatusSettledByMerchant    = "SETTLED_BY_MERCHANT"
	PaymentStatusSentForAuthorisation = "SENT_FOR_AUTHORISATION"
	PaymentStatusCancelled            = "CANCELLED"
	PaymentStatusRefused              = "REFUSED"
)
