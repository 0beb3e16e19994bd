package worldpay_xml

import (
	"fmt"
	"net/http"
)

// ValidationError is returned when a purchase request fails the required
// field checks before any XML or network work. The caller must fix the
// request before retrying; it never reflects a gateway outcome.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("worldpay_xml: invalid purchase request: %s", e.Message)
}

// InvalidResponseError is returned when the gateway reply is empty, not
// well-formed XML, or carries no reply/notify envelope child. It is fatal for
// the attempt; a declined payment is NOT an InvalidResponseError but a normal
// result with Successful == false.
type InvalidResponseError struct {
	Reason string
	Body   []byte
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("worldpay_xml: invalid gateway response: %s", e.Reason)
}

// HTTPError is returned when the gateway responds with a non-2xx HTTP status.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
	Headers    http.Header
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("worldpay_xml http error %d (%s): %s", e.StatusCode, e.Status, e.Body)
}
