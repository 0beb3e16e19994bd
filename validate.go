package worldpay_xml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hmartin82/worldpay_xml_sdk/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validatePurchase runs the required-field checks before any XML is built.
// Card payments get the full card rules; Apple Pay payments skip them on
// purpose, since the token carries no PAN to check.
func validatePurchase(req *models.PurchaseRequest) error {
	if req.Card == nil && req.ApplePay == nil {
		return &ValidationError{Message: "a card or an Apple Pay token is required"}
	}
	if req.Card != nil && req.ApplePay != nil {
		return &ValidationError{Message: "card and Apple Pay token are mutually exclusive"}
	}
	if err := validate.Struct(req); err != nil {
		return &ValidationError{Message: normalizeValidationError(err)}
	}
	if req.Card != nil {
		return validateCard(req.Card)
	}
	return nil
}

func validateCard(card *models.Card) error {
	brand, err := resolveBrand(card)
	if err != nil {
		return err
	}

	month, year, err := parseCardDate(card.ExpiryMonth, card.ExpiryYear)
	if err != nil {
		return &ValidationError{Message: "expiry " + err.Error()}
	}
	if cardExpired(month, year, time.Now()) {
		return &ValidationError{Message: "card is expired"}
	}

	if brand == BrandMaestro || brand == BrandSwitch {
		if card.StartMonth == "" || card.StartYear == "" || card.IssueNumber == "" {
			return &ValidationError{Message: brand + " cards require a start date and issue number"}
		}
		if _, _, err := parseCardDate(card.StartMonth, card.StartYear); err != nil {
			return &ValidationError{Message: "start " + err.Error()}
		}
	}

	return nil
}

func parseCardDate(monthStr, yearStr string) (month, year int, err error) {
	month, err = strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("month must be between 01 and 12")
	}
	year, err = strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, errors.New("year must be four digits")
	}
	return month, year, nil
}

// cardExpired reports whether the card's expiry month has fully elapsed.
// Cards are valid through the last day of the expiry month.
func cardExpired(month, year int, now time.Time) bool {
	endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return !now.Before(endOfMonth)
}

// normalizeValidationError flattens a validator error into a single
// human-readable line about the first offending field.
func normalizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}
	first := validationErrs[0]
	return fmt.Sprintf("%s %s", fieldPath(first), validationMessage(first))
}

func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	if path == "" {
		return fe.Field()
	}
	return path
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("cannot exceed %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("cannot exceed %s characters", fe.Param())
	case "numeric":
		return "must contain digits only"
	case "iso4217":
		return "must be a 3-letter ISO 4217 code"
	case "credit_card":
		return "is not a valid card number"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
