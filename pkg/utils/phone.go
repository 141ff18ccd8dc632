package utils

import "strings"

// SanitizePhone normalizes a phone number into the provider address format
// ("whatsapp:+50212345678"). Operators paste numbers with spaces and dashes;
// the provider rejects anything but the canonical form.
func SanitizePhone(phone *string) {
	if phone == nil {
		return
	}

	p := strings.TrimSpace(*phone)
	p = strings.TrimPrefix(p, "whatsapp:")

	var b strings.Builder
	for i, r := range p {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	p = b.String()

	if p == "" {
		*phone = ""
		return
	}
	if !strings.HasPrefix(p, "+") {
		p = "+" + p
	}

	*phone = "whatsapp:" + p
}
