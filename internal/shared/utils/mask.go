package utils

// MaskToken keeps the first and last two characters of a secret for log correlation.
// Example: "abcdef123456" -> "ab***56"
func MaskToken(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:2] + "***" + token[len(token)-2:]
}
