package utils

import (
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// OrderNumberPrefix starts every generated order number.
const OrderNumberPrefix = "ORD-"

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateOrderNumber creates a human readable order number.
// Format: ORD-YYYYMMDD-XXXXXX
func GenerateOrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}

	return OrderNumberPrefix + now.Format("20060102") + "-" + string(suffix)
}

// Slugify lowercases name and collapses everything that is not a letter or digit into dashes.
func Slugify(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
