package worldpay_xml

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/hmartin82/worldpay_xml_sdk/models"
)

const (
	// paymentServiceVersion is the DTD schema version declared on the root
	// element.
	paymentServiceVersion = "1.4"

	// The payment service validates submissions against this DTD. The
	// DOCTYPE declaration must match it exactly or the gateway rejects the
	// document.
	doctypePublicID = "-//WorldPay//DTD WorldPay PaymentService v1//EN"
	doctypeSystemID = "http://dtd.worldpay.com/paymentService_v1.dtd"

	defaultDescription = "Merchandise"
)

// buildPaymentService validates the purchase request and assembles the
// paymentService submission document. Element order follows the DTD, which
// the gateway enforces strictly.
func buildPaymentService(merchantCode, installationID string, req *models.PurchaseRequest) (*etree.Document, error) {
	if err := validatePurchase(req); err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(fmt.Sprintf("DOCTYPE paymentService PUBLIC %q %q", doctypePublicID, doctypeSystemID))

	root := doc.CreateElement("paymentService")
	root.CreateAttr("version", paymentServiceVersion)
	root.CreateAttr("merchantCode", merchantCode)

	order := root.CreateElement("submit").CreateElement("order")
	order.CreateAttr("orderCode", req.TransactionID)
	if installationID != "" {
		order.CreateAttr("installationId", installationID)
	}

	description := req.Description
	if description == "" {
		description = defaultDescription
	}
	order.CreateElement("description").SetText(description)

	amount := order.CreateElement("amount")
	amount.CreateAttr("value", strconv.FormatInt(req.Amount, 10))
	amount.CreateAttr("currencyCode", req.Currency)
	amount.CreateAttr("exponent", strconv.Itoa(req.CurrencyExponent))

	payment := order.CreateElement("paymentDetails")

	if req.ApplePay != nil {
		appendApplePayDetails(payment, req.ApplePay)
	} else {
		if err := appendCardDetails(payment, req); err != nil {
			return nil, err
		}
	}

	if req.PaResponse != "" {
		payment.CreateElement("info3DSecure").CreateElement("paResponse").SetText(req.PaResponse)
	}

	shopper := order.CreateElement("shopper")
	if req.Email != "" {
		shopper.CreateElement("shopperEmailAddress").SetText(req.Email)
	}
	browser := shopper.CreateElement("browser")
	browser.CreateElement("acceptHeader").SetText(req.AcceptHeader)
	browser.CreateElement("userAgentHeader").SetText(req.UserAgentHeader)

	if req.EchoData != "" {
		order.CreateElement("echoData").SetText(req.EchoData)
	}

	return doc, nil
}

func appendCardDetails(payment *etree.Element, req *models.PurchaseRequest) error {
	c := req.Card
	brand, err := resolveBrand(c)
	if err != nil {
		return err
	}

	card := payment.CreateElement(PaymentMethodCode[brand])
	card.CreateElement("cardNumber").SetText(c.Number)

	expiry := card.CreateElement("expiryDate").CreateElement("date")
	expiry.CreateAttr("month", c.ExpiryMonth)
	expiry.CreateAttr("year", c.ExpiryYear)

	card.CreateElement("cardHolderName").SetText(c.HolderName)

	// The DTD places start date and issue number between the holder name and
	// the cvc, and only the Maestro scheme carries them.
	if brand == BrandMaestro || brand == BrandSwitch {
		start := card.CreateElement("startDate").CreateElement("date")
		start.CreateAttr("month", c.StartMonth)
		start.CreateAttr("year", c.StartYear)
		card.CreateElement("issueNumber").SetText(c.IssueNumber)
	}

	card.CreateElement("cvc").SetText(c.CVV)

	address := card.CreateElement("cardAddress").CreateElement("address")
	address.CreateElement("address1").SetText(c.Address.Address1)
	address.CreateElement("address2").SetText(c.Address.Address2)
	address.CreateElement("postalCode").SetText(c.Address.PostalCode)
	address.CreateElement("city").SetText(c.Address.City)
	address.CreateElement("state").SetText(c.Address.State)
	address.CreateElement("countryCode").SetText(c.Address.CountryCode)

	// An empty session tag is valid, a present id attribute with no IP (or
	// the reverse) is not. Emit the attributes only as a pair.
	session := payment.CreateElement("session")
	if req.ClientIP != "" && req.SessionID != "" {
		session.CreateAttr("shopperIPAddress", req.ClientIP)
		session.CreateAttr("id", req.SessionID)
	}

	return nil
}

func appendApplePayDetails(payment *etree.Element, token *models.ApplePayToken) {
	card := payment.CreateElement(applePayMethodCode)

	header := card.CreateElement("header")
	header.CreateElement("ephemeralPublicKey").SetText(token.EphemeralPublicKey)
	header.CreateElement("publicKeyHash").SetText(token.PublicKeyHash)
	header.CreateElement("transactionId").SetText(token.TransactionID)
	if token.ApplicationData != "" {
		header.CreateElement("applicationData").SetText(token.ApplicationData)
	}

	card.CreateElement("signature").SetText(token.Signature)
	card.CreateElement("version").SetText(token.Version)
	card.CreateElement("data").SetText(token.Data)
}
