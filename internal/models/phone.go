package models

// CanonicalPhone keeps the digits and returns the last nine, which identifies
// a Moroccan number whatever the prefix (+212, 0, 00212).
func CanonicalPhone(phone string) string {
	digits := nonDigit.ReplaceAllString(phone, "")
	if len(digits) > 9 {
		return digits[len(digits)-9:]
	}
	return digits
}
