package worldpay_xml

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmartin82/worldpay_xml_sdk/models"
)

func validCardRequest() models.PurchaseRequest {
	return models.PurchaseRequest{
		TransactionID:    "T0211010",
		Amount:           745,
		Currency:         "GBP",
		CurrencyExponent: 2,
		Card: &models.Card{
			Number:      "4111111111111111",
			ExpiryMonth: "12",
			ExpiryYear:  "2030",
			HolderName:  "Vince Staples",
			CVV:         "123",
			Address: models.Address{
				Address1:    "745 THORNBURY CLOSE",
				City:        "LONDON",
				PostalCode:  "N16 8UX",
				CountryCode: "GB",
			},
		},
		AcceptHeader:    "text/html",
		UserAgentHeader: "Mozilla/5.0",
	}
}

func validApplePayRequest() models.PurchaseRequest {
	return models.PurchaseRequest{
		TransactionID:    "T0211011",
		Amount:           745,
		Currency:         "GBP",
		CurrencyExponent: 2,
		ApplePay: &models.ApplePayToken{
			EphemeralPublicKey: "MFkwE..Q==",
			PublicKeyHash:      "dxCK..6o=",
			TransactionID:      "d3b28af..f8",
			ApplicationData:    "94ee0..C2",
			Signature:          "MIAGCSqGSIb3DQEH...AAA",
			Version:            "EC_v1",
			Data:               "kdHd..GQ==",
		},
	}
}

// mustBuild builds and re-parses the submission so assertions can walk the
// tree the same way the gateway's DTD validation does.
func mustBuild(t *testing.T, req models.PurchaseRequest) (*etree.Element, string) {
	t.Helper()

	doc, err := buildPaymentService("ACMECO", "", &req)
	require.NoError(t, err)

	payload, err := doc.WriteToBytes()
	require.NoError(t, err)

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromBytes(payload))
	require.NotNil(t, parsed.Root())

	return parsed.Root(), string(payload)
}

func childNames(el *etree.Element) []string {
	names := make([]string, 0, len(el.ChildElements()))
	for _, c := range el.ChildElements() {
		names = append(names, c.Tag)
	}
	return names
}

func TestBuildCardPayment(t *testing.T) {
	root, payload := mustBuild(t, validCardRequest())

	assert.True(t, strings.HasPrefix(payload, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, payload,
		`<!DOCTYPE paymentService PUBLIC "-//WorldPay//DTD WorldPay PaymentService v1//EN" "http://dtd.worldpay.com/paymentService_v1.dtd">`)

	assert.Equal(t, "paymentService", root.Tag)
	assert.Equal(t, "1.4", root.SelectAttrValue("version", ""))
	assert.Equal(t, "ACMECO", root.SelectAttrValue("merchantCode", ""))

	order := root.SelectElement("submit").SelectElement("order")
	require.NotNil(t, order)
	assert.Equal(t, "T0211010", order.SelectAttrValue("orderCode", ""))
	assert.Nil(t, order.SelectAttr("installationId"))
	assert.Equal(t, "Merchandise", order.SelectElement("description").Text())

	amount := order.SelectElement("amount")
	require.NotNil(t, amount)
	assert.Equal(t, "745", amount.SelectAttrValue("value", ""))
	assert.Equal(t, "GBP", amount.SelectAttrValue("currencyCode", ""))
	assert.Equal(t, "2", amount.SelectAttrValue("exponent", ""))

	payment := order.SelectElement("paymentDetails")
	require.NotNil(t, payment)
	assert.Equal(t, []string{"VISA-SSL", "session"}, childNames(payment))

	card := payment.SelectElement("VISA-SSL")
	assert.Equal(t, []string{"cardNumber", "expiryDate", "cardHolderName", "cvc", "cardAddress"}, childNames(card))
	assert.Equal(t, "4111111111111111", card.SelectElement("cardNumber").Text())

	expiry := card.SelectElement("expiryDate").SelectElement("date")
	assert.Equal(t, "12", expiry.SelectAttrValue("month", ""))
	assert.Equal(t, "2030", expiry.SelectAttrValue("year", ""))

	assert.Equal(t, "Vince Staples", card.SelectElement("cardHolderName").Text())
	assert.Equal(t, "123", card.SelectElement("cvc").Text())

	address := card.SelectElement("cardAddress").SelectElement("address")
	require.NotNil(t, address)
	assert.Equal(t, []string{"address1", "address2", "postalCode", "city", "state", "countryCode"}, childNames(address))
	assert.Equal(t, "745 THORNBURY CLOSE", address.SelectElement("address1").Text())
	// Empty address fields still show up as empty elements.
	assert.Equal(t, "", address.SelectElement("address2").Text())
	assert.Equal(t, "N16 8UX", address.SelectElement("postalCode").Text())
	assert.Equal(t, "GB", address.SelectElement("countryCode").Text())

	// No wallet fields anywhere in a card submission.
	assert.Empty(t, root.FindElements(".//header"))
	assert.Empty(t, root.FindElements(".//signature"))

	shopper := order.SelectElement("shopper")
	require.NotNil(t, shopper)
	assert.Nil(t, shopper.SelectElement("shopperEmailAddress"))
	browser := shopper.SelectElement("browser")
	require.NotNil(t, browser)
	assert.Equal(t, "text/html", browser.SelectElement("acceptHeader").Text())
	assert.Equal(t, "Mozilla/5.0", browser.SelectElement("userAgentHeader").Text())
}

func TestBuildSessionAttributes(t *testing.T) {
	tests := map[string]struct {
		clientIP  string
		sessionID string
		wantAttrs bool
	}{
		"both set":       {clientIP: "203.0.113.7", sessionID: "SESS1", wantAttrs: true},
		"only client ip": {clientIP: "203.0.113.7", wantAttrs: false},
		"only session":   {sessionID: "SESS1", wantAttrs: false},
		"neither":        {wantAttrs: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := validCardRequest()
			req.ClientIP = tt.clientIP
			req.SessionID = tt.sessionID

			root, _ := mustBuild(t, req)
			session := root.FindElement("./submit/order/paymentDetails/session")
			require.NotNil(t, session)

			if tt.wantAttrs {
				assert.Equal(t, tt.clientIP, session.SelectAttrValue("shopperIPAddress", ""))
				assert.Equal(t, tt.sessionID, session.SelectAttrValue("id", ""))
			} else {
				// The gateway rejects a session id attribute without an IP;
				// the attributes must come as a pair or not at all.
				assert.Nil(t, session.SelectAttr("shopperIPAddress"))
				assert.Nil(t, session.SelectAttr("id"))
			}
		})
	}
}

func TestBuildMaestroStartDate(t *testing.T) {
	req := validCardRequest()
	req.Card = &models.Card{
		Number:      "6759649826438453",
		ExpiryMonth: "12",
		ExpiryYear:  "2030",
		HolderName:  "Example User",
		CVV:         "123",
		StartMonth:  "01",
		StartYear:   "2020",
		IssueNumber: "1",
	}

	root, _ := mustBuild(t, req)
	card := root.FindElement("./submit/order/paymentDetails/MAESTRO-SSL")
	require.NotNil(t, card)

	// Start date and issue number sit between the holder name and the cvc.
	assert.Equal(t,
		[]string{"cardNumber", "expiryDate", "cardHolderName", "startDate", "issueNumber", "cvc", "cardAddress"},
		childNames(card))

	start := card.SelectElement("startDate").SelectElement("date")
	assert.Equal(t, "01", start.SelectAttrValue("month", ""))
	assert.Equal(t, "2020", start.SelectAttrValue("year", ""))
	assert.Equal(t, "1", card.SelectElement("issueNumber").Text())
}

func TestBuildApplePayPayment(t *testing.T) {
	root, _ := mustBuild(t, validApplePayRequest())

	payment := root.FindElement("./submit/order/paymentDetails")
	require.NotNil(t, payment)
	assert.Equal(t, []string{"APPLEPAY-SSL"}, childNames(payment))

	card := payment.SelectElement("APPLEPAY-SSL")
	assert.Equal(t, []string{"header", "signature", "version", "data"}, childNames(card))

	header := card.SelectElement("header")
	assert.Equal(t, []string{"ephemeralPublicKey", "publicKeyHash", "transactionId", "applicationData"}, childNames(header))
	assert.Equal(t, "MFkwE..Q==", header.SelectElement("ephemeralPublicKey").Text())
	assert.Equal(t, "dxCK..6o=", header.SelectElement("publicKeyHash").Text())
	assert.Equal(t, "d3b28af..f8", header.SelectElement("transactionId").Text())
	assert.Equal(t, "94ee0..C2", header.SelectElement("applicationData").Text())

	assert.Equal(t, "MIAGCSqGSIb3DQEH...AAA", card.SelectElement("signature").Text())
	assert.Equal(t, "EC_v1", card.SelectElement("version").Text())
	assert.Equal(t, "kdHd..GQ==", card.SelectElement("data").Text())

	// Card-only structures must be structurally absent, not merely empty.
	assert.Empty(t, root.FindElements(".//cardNumber"))
	assert.Empty(t, root.FindElements(".//cvc"))
	assert.Empty(t, root.FindElements(".//cardAddress"))
	assert.Empty(t, root.FindElements(".//session"))
}

func TestBuildApplePayOmitsApplicationData(t *testing.T) {
	req := validApplePayRequest()
	req.ApplePay.ApplicationData = ""

	root, _ := mustBuild(t, req)
	header := root.FindElement("./submit/order/paymentDetails/APPLEPAY-SSL/header")
	require.NotNil(t, header)
	assert.Equal(t, []string{"ephemeralPublicKey", "publicKeyHash", "transactionId"}, childNames(header))
}

func TestBuildOptionalBlocks(t *testing.T) {
	req := validCardRequest()
	req.Description = "Signed vinyl"
	req.PaResponse = "eNrNV0mz..=="
	req.Email = "cr+vs@noellh.com"
	req.EchoData = "echo-12345"

	doc, err := buildPaymentService("ACMECO", "ABC123", &req)
	require.NoError(t, err)
	payload, err := doc.WriteToBytes()
	require.NoError(t, err)

	parsed := etree.NewDocument()
	require.NoError(t, parsed.ReadFromBytes(payload))
	order := parsed.Root().FindElement("./submit/order")
	require.NotNil(t, order)

	assert.Equal(t, "ABC123", order.SelectAttrValue("installationId", ""))
	assert.Equal(t, "Signed vinyl", order.SelectElement("description").Text())

	pa := order.FindElement("./paymentDetails/info3DSecure/paResponse")
	require.NotNil(t, pa)
	assert.Equal(t, "eNrNV0mz..==", pa.Text())

	shopper := order.SelectElement("shopper")
	assert.Equal(t, "cr+vs@noellh.com", shopper.SelectElement("shopperEmailAddress").Text())

	// echoData is a sibling of shopper under order, not nested in it.
	assert.Equal(t, "echo-12345", order.SelectElement("echoData").Text())
	assert.Nil(t, shopper.SelectElement("echoData"))
}

func TestBuildValidationFailures(t *testing.T) {
	tests := map[string]func(*models.PurchaseRequest){
		"no payment method": func(req *models.PurchaseRequest) {
			req.Card = nil
			req.ApplePay = nil
		},
		"both payment methods": func(req *models.PurchaseRequest) {
			req.ApplePay = validApplePayRequest().ApplePay
		},
		"missing transaction id": func(req *models.PurchaseRequest) {
			req.TransactionID = ""
		},
		"zero amount": func(req *models.PurchaseRequest) {
			req.Amount = 0
		},
		"bad currency": func(req *models.PurchaseRequest) {
			req.Currency = "POUNDS"
		},
		"luhn failure": func(req *models.PurchaseRequest) {
			req.Card.Number = "4111111111111112"
		},
		"expired card": func(req *models.PurchaseRequest) {
			req.Card.ExpiryYear = "2020"
		},
		"bad expiry month": func(req *models.PurchaseRequest) {
			req.Card.ExpiryMonth = "13"
		},
		"missing cvv": func(req *models.PurchaseRequest) {
			req.Card.CVV = ""
		},
		"unsupported brand": func(req *models.PurchaseRequest) {
			req.Card.Brand = "solo"
		},
		"maestro without issue number": func(req *models.PurchaseRequest) {
			req.Card.Number = "6759649826438453"
			req.Card.Brand = ""
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := validCardRequest()
			mutate(&req)

			_, err := buildPaymentService("ACMECO", "", &req)
			require.Error(t, err)

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestBuildApplePayTokenRequiredFields(t *testing.T) {
	req := validApplePayRequest()
	req.ApplePay.Signature = ""

	_, err := buildPaymentService("ACMECO", "", &req)
	require.Error(t, err)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

// Card validation is deliberately bypassed for wallet payments; the token
// carries no PAN, expiry, or CVV to check.
func TestBuildApplePaySkipsCardValidation(t *testing.T) {
	req := validApplePayRequest()

	_, err := buildPaymentService("ACMECO", "", &req)
	require.NoError(t, err)
}
