// Package identity generates customer identifiers and validates the contact and
// government-ID details collected at the front desk.
package identity

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	CustomerIDLength = 5
	PhoneLength      = 10

	customerIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

const (
	GovtIDTypeUID = "UID"
	GovtIDTypeDL  = "DL"
	GovtIDTypePSP = "PSP"
)

var GovtIDTypes = []string{GovtIDTypeUID, GovtIDTypeDL, GovtIDTypePSP}

var govtIDPatterns = map[string]*regexp.Regexp{
	GovtIDTypeUID: regexp.MustCompile(`^(\d{4} \d{4} \d{4}|\d{12})$`),
	GovtIDTypePSP: regexp.MustCompile(`^[A-Z]-?\d{7}$`),
	GovtIDTypeDL:  regexp.MustCompile(`^([A-Z]{2}-\d{2}-(19|20)\d{2}-\d{7}|[A-Z]{2}\d{13})$`),
}

// GenerateCustomerID returns a random candidate id. Callers own uniqueness.
func GenerateCustomerID() string {
	var b strings.Builder

	b.Grow(CustomerIDLength)

	for range CustomerIDLength {
		b.WriteByte(customerIDAlphabet[rand.IntN(len(customerIDAlphabet))]) //nolint:gosec
	}

	return b.String()
}

// ValidateCustomerID reports whether id has the shape GenerateCustomerID produces.
func ValidateCustomerID(id string) bool {
	if len(id) != CustomerIDLength {
		return false
	}

	for _, r := range id {
		if !strings.ContainsRune(customerIDAlphabet, r) {
			return false
		}
	}

	return true
}

func ValidatePhone(phone string) bool {
	if len(phone) != PhoneLength {
		return false
	}

	for i := range len(phone) {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}

	return true
}

// ValidateGovtID matches number against the pattern of its declared type.
// Unknown types never validate.
func ValidateGovtID(govtIDType, number string) bool {
	pattern, ok := govtIDPatterns[govtIDType]
	if !ok {
		return false
	}

	return pattern.MatchString(number)
}

// FormatGovtID renders a stored id number for display.
func FormatGovtID(govtIDType, number string) string {
	compact := strings.NewReplacer(" ", "", "-", "").Replace(number)

	switch govtIDType {
	case GovtIDTypeUID:
		if len(compact) != 12 {
			return number
		}

		return compact[:4] + " " + compact[4:8] + " " + compact[8:]
	case GovtIDTypePSP:
		if compact == "" {
			return number
		}

		return compact[:1] + "-" + compact[1:]
	case GovtIDTypeDL:
		return compact
	default:
		return strings.ToUpper(compact)
	}
}

// NormalizeName title-cases name. A cases.Caser keeps state between calls, so each call
// builds its own.
func NormalizeName(name string) string {
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

// NormalizeAddress upper-cases the first letter and lower-cases the rest.
func NormalizeAddress(address string) string {
	address = strings.ToLower(strings.TrimSpace(address))
	if address == "" {
		return address
	}

	runes := []rune(address)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

func NormalizeGovtID(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
