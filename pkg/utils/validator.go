package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	vatNumberRegex  = regexp.MustCompile(`^\d{11}$`)
	fiscalCodeRegex = regexp.MustCompile(`^[A-Z0-9]{16}$`)
	ibanRegex       = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]{11,30}$`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateVATNumber validates an Italian VAT number (11 digits)
func ValidateVATNumber(vat string) error {
	if !vatNumberRegex.MatchString(vat) {
		return fmt.Errorf("VAT number must be 11 digits: %s", vat)
	}
	return nil
}

// ValidateFiscalCode validates an Italian fiscal code: 16 alphanumeric
// characters for natural persons, or an 11-digit numeric code for entities.
func ValidateFiscalCode(code string) error {
	upper := strings.ToUpper(code)
	if fiscalCodeRegex.MatchString(upper) || vatNumberRegex.MatchString(code) {
		return nil
	}
	return fmt.Errorf("invalid fiscal code: %s", code)
}

// ValidateIBAN performs a structural IBAN check: country prefix, check
// digits, admitted length. It does not verify the check digits themselves.
func ValidateIBAN(iban string) error {
	normalized := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if !ibanRegex.MatchString(normalized) {
		return fmt.Errorf("invalid IBAN format: %s", iban)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
