package httphandler

import (
	"net/url"
	"strings"
)

const contactGreeting = "Olá! Tenho interesse na peça: "

// ContactLink builds a WhatsApp chat link about productName. It is empty
// when number has no digits.
func ContactLink(number, productName string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits + "?text=" + encodeComponent(contactGreeting+productName)
}

// encodeComponent percent-encodes s with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

