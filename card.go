package worldpay_xml

import (
	"fmt"

	"github.com/hmartin82/worldpay_xml_sdk/models"
)

// Card brands accepted by the payment service.
const (
	BrandAmex       = "amex"
	BrandDankort    = "dankort"
	BrandDiners     = "diners"
	BrandDiscover   = "discover"
	BrandJCB        = "jcb"
	BrandLaser      = "laser"
	BrandMaestro    = "maestro"
	BrandMastercard = "mastercard"
	BrandSwitch     = "switch"
	BrandVisa       = "visa"
)

// PaymentMethodCode maps a card brand to the payment method element name used
// inside paymentDetails. Switch cards are submitted under the Maestro scheme.
var PaymentMethodCode = map[string]string{
	BrandAmex:       "AMEX-SSL",
	BrandDankort:    "DANKORT-SSL",
	BrandDiners:     "DINERS-SSL",
	BrandDiscover:   "DISCOVER-SSL",
	BrandJCB:        "JCB-SSL",
	BrandLaser:      "LASER-SSL",
	BrandMaestro:    "MAESTRO-SSL",
	BrandMastercard: "ECMC-SSL",
	BrandSwitch:     "MAESTRO-SSL",
	BrandVisa:       "VISA-SSL",
}

// applePayMethodCode is the payment method element name for wallet payments.
const applePayMethodCode = "APPLEPAY-SSL"

// DetectCardBrand returns the card brand name based on the card number
// (BIN/IIN), or "" if unknown.
func DetectCardBrand(number string) string {
	if len(number) < 1 {
		return ""
	}

	// Visa: starts with 4
	if number[0] == '4' {
		return BrandVisa
	}

	// Amex: starts with 34 or 37
	if len(number) >= 2 {
		p2 := number[:2]
		if p2 == "34" || p2 == "37" {
			return BrandAmex
		}
	}

	// JCB: 3528-3589
	if len(number) >= 4 {
		p4 := number[:4]
		if p4 >= "3528" && p4 <= "3589" {
			return BrandJCB
		}
	}

	// Diners: 300-305, 36, 38
	if len(number) >= 2 {
		p2 := number[:2]
		if p2 == "36" || p2 == "38" {
			return BrandDiners
		}
		if len(number) >= 3 {
			p3 := number[:3]
			if p3 >= "300" && p3 <= "305" {
				return BrandDiners
			}
		}
	}

	// Dankort: 5019
	if len(number) >= 4 && number[:4] == "5019" {
		return BrandDankort
	}

	// Mastercard: 51-55 or 2221-2720
	if len(number) >= 2 {
		p2 := number[:2]
		if p2 >= "51" && p2 <= "55" {
			return BrandMastercard
		}
		if len(number) >= 4 {
			p4 := number[:4]
			if p4 >= "2221" && p4 <= "2720" {
				return BrandMastercard
			}
		}
	}

	// Laser: 6304, 6706, 6709, 6771
	if len(number) >= 4 {
		switch number[:4] {
		case "6304", "6706", "6709", "6771":
			return BrandLaser
		}
	}

	// Discover: 6011, 622126-622925, 644-649, 65
	if len(number) >= 2 {
		if number[:2] == "65" {
			return BrandDiscover
		}
		if len(number) >= 3 {
			p3 := number[:3]
			if p3 >= "644" && p3 <= "649" {
				return BrandDiscover
			}
		}
		if len(number) >= 4 && number[:4] == "6011" {
			return BrandDiscover
		}
		if len(number) >= 6 {
			p6 := number[:6]
			if p6 >= "622126" && p6 <= "622925" {
				return BrandDiscover
			}
		}
	}

	// Maestro: 50, 56-69 (after the more specific 5x/6x ranges above)
	if len(number) >= 2 {
		p2 := number[:2]
		if p2 == "50" || (p2 >= "56" && p2 <= "69") {
			return BrandMaestro
		}
	}

	return ""
}

// resolveBrand returns the effective brand for a card, auto-detecting it from
// the PAN when the caller left Brand empty.
func resolveBrand(card *models.Card) (string, error) {
	brand := card.Brand
	if brand == "" {
		brand = DetectCardBrand(card.Number)
	}
	if _, ok := PaymentMethodCode[brand]; !ok {
		return "", &ValidationError{Message: fmt.Sprintf("unsupported card brand %q", brand)}
	}
	return brand, nil
}
