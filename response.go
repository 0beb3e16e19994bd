package worldpay_xml

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/hmartin82/worldpay_xml_sdk/models"
)

// Response is a parsed payment service reply. It is constructed fresh per
// HTTP response body and read-only after that.
//
// The gateway wraps both synchronous replies and asynchronous notifications
// in the same paymentService envelope; Response is rooted at the envelope's
// single child (reply or notify) and treats both identically.
type Response struct {
	data *etree.Element
}

// ParseResponse parses raw reply bytes from the payment service.
//
// An empty body, a body that is not well-formed XML, or an envelope without
// a reply/notify child fails with InvalidResponseError. A reply that carries
// neither an order node nor an error element is NOT a parse failure; the
// gateway produces that shape for unusual error cases.
func ParseResponse(raw []byte) (*Response, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &InvalidResponseError{Reason: "empty response body"}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, &InvalidResponseError{Reason: "malformed XML: " + err.Error(), Body: raw}
	}

	root := doc.Root()
	if root == nil {
		return nil, &InvalidResponseError{Reason: "response is not XML", Body: raw}
	}

	children := root.ChildElements()
	if len(children) == 0 {
		return nil, &InvalidResponseError{Reason: "envelope carries no reply or notify element", Body: raw}
	}

	return &Response{data: children[0]}, nil
}

// Order returns the order node: orderStatusEvent for notifications,
// orderStatus for synchronous replies, nil when the reply carries neither.
func (r *Response) Order() *etree.Element {
	if event := childElement(r.data, "orderStatusEvent"); event != nil {
		return event
	}
	return childElement(r.data, "orderStatus")
}

// IsSuccessful reports whether the payment's last event is one of the
// terminal success statuses (AUTHORISED, CAPTURED, SETTLED_BY_MERCHANT).
// Any other status, including SENT_FOR_AUTHORISATION, is not a success.
func (r *Response) IsSuccessful() bool {
	lastEvent := r.LastEvent()
	if lastEvent == "" {
		return false
	}
	_, ok := successStatuses[strings.ToUpper(lastEvent)]
	return ok
}

// LastEvent returns the raw lastEvent status token, or "" when the reply has
// no order payment status.
func (r *Response) LastEvent() string {
	payment := childElement(r.Order(), "payment")
	lastEvent := childElement(payment, "lastEvent")
	if lastEvent == nil {
		return ""
	}
	return strings.TrimSpace(lastEvent.Text())
}

// IsRedirect reports whether the shopper must be redirected to a 3-D Secure
// issuer URL. Independent of IsSuccessful.
func (r *Response) IsRedirect() bool {
	return r.RedirectURL() != ""
}

// RedirectURL returns the 3-D Secure issuer URL, or "" when none is present.
// The gateway has been observed to attach requestInfo both under the order
// node and directly under the envelope child; both shapes are accepted.
func (r *Response) RedirectURL() string {
	for _, parent := range []*etree.Element{r.Order(), r.data} {
		info := childElement(parent, "requestInfo")
		issuerURL := childElement(childElement(info, "request3DSecure"), "issuerURL")
		if issuerURL != nil {
			return strings.TrimSpace(issuerURL.Text())
		}
	}
	return ""
}

// Message returns the human-readable outcome, resolved in order: the
// gateway error text, the ISO 8583 return code description, "AUTHORISED"
// for a successful payment, and "PENDING" otherwise.
//
// An ISO 8583 code with no entry in the description table is surfaced as an
// error rather than mapped to a guess.
func (r *Response) Message() (string, error) {
	if errNode := childElement(r.data, "error"); errNode != nil {
		return "ERROR: " + strings.TrimSpace(errNode.Text()), nil
	}

	if code, ok, err := r.isoReturnCode(); err != nil {
		return "", err
	} else if ok {
		text, known := isoReturnCodes[code]
		if !known {
			return "", fmt.Errorf("worldpay_xml: unmapped ISO 8583 return code %d", code)
		}
		return text, nil
	}

	if r.IsSuccessful() {
		return isoReturnCodes[0], nil
	}

	return "PENDING", nil
}

// ErrorCode returns the gateway error element's code attribute, or "" when
// the reply has no error element or the attribute is empty. It never looks
// at the ISO 8583 return code.
func (r *Response) ErrorCode() string {
	errNode := childElement(r.data, "error")
	if errNode == nil {
		return ""
	}
	return errNode.SelectAttrValue("code", "")
}

// TransactionID returns the order code echoed back by the gateway, or ""
// when the reply has no order node.
func (r *Response) TransactionID() string {
	order := r.Order()
	if order == nil {
		return ""
	}
	return order.SelectAttrValue("orderCode", "")
}

// ISO8583ReturnCode returns the numeric payment-network response code and
// whether the reply carried one.
func (r *Response) ISO8583ReturnCode() (int, bool) {
	code, ok, err := r.isoReturnCode()
	if err != nil {
		return 0, false
	}
	return code, ok
}

// isoReturnCode extracts the ISO8583ReturnCode code attribute. A present
// element without a code attribute counts as absent; a non-numeric code
// attribute is an error.
func (r *Response) isoReturnCode() (int, bool, error) {
	payment := childElement(r.Order(), "payment")
	returnCode := childElement(payment, "ISO8583ReturnCode")
	if returnCode == nil {
		return 0, false, nil
	}
	attr := returnCode.SelectAttr("code")
	if attr == nil {
		return 0, false, nil
	}
	code, err := strconv.Atoi(strings.TrimSpace(attr.Value))
	if err != nil {
		return 0, false, &InvalidResponseError{Reason: fmt.Sprintf("non-numeric ISO 8583 return code %q", attr.Value)}
	}
	return code, true, nil
}

// Result flattens the reply into the normalized purchase result.
func (r *Response) Result() (models.PurchaseResult, error) {
	message, err := r.Message()
	if err != nil {
		return models.PurchaseResult{}, err
	}

	result := models.PurchaseResult{
		Successful:    r.IsSuccessful(),
		Redirect:      r.IsRedirect(),
		RedirectURL:   r.RedirectURL(),
		Message:       message,
		ErrorCode:     r.ErrorCode(),
		TransactionID: r.TransactionID(),
		LastEvent:     r.LastEvent(),
	}
	if code, ok := r.ISO8583ReturnCode(); ok {
		result.ISO8583ReturnCode = &code
	}
	return result, nil
}

// childElement returns the first child of parent with the given local name,
// tolerating a nil parent so lookups chain through optional substructures.
func childElement(parent *etree.Element, name string) *etree.Element {
	if parent == nil {
		return nil
	}
	for _, c := range parent.ChildElements() {
		if c.Tag == name {
			return c
		}
	}
	return nil
}
