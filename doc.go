// Package worldpay_xml is a client for the WorldPay XML payment service,
// covering the single "submit order" purchase operation.
//
// A purchase is one synchronous exchange: the client encodes a
// [models.PurchaseRequest] into the DTD-validated paymentService document,
// POSTs it with HTTP basic auth, and decodes the XML reply into a
// [models.PurchaseResult].
//
//	cfg := worldpay_xml.LoadConfigFromDotEnv()
//	client, err := worldpay_xml.NewClient(cfg)
//	if err != nil {
//		// credentials or certificate problem
//	}
//	resp, err := client.Purchase(ctx, models.PurchaseRequest{
//		TransactionID: "T0211010",
//		Amount:        745,
//		Currency:      "GBP",
//		CurrencyExponent: models.DefaultCurrencyExponent("GBP"),
//		Card:          &card,
//	})
//
// A declined payment is not a Go error: inspect resp.Data.Successful,
// resp.Data.Message, and resp.Data.ErrorCode. Errors are reserved for
// invalid requests ([ValidationError]), transport and HTTP failures
// ([HTTPError]), and replies that cannot be decoded
// ([InvalidResponseError]).
//
// For 3-D Secure flows, a reply with Redirect == true carries the issuer
// URL; the continuation request is another Purchase call with PaResponse,
// EchoData, and RedirectCookie populated from the redirect round trip.
package worldpay_xml
