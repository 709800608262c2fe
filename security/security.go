package security

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecureToken generates a URL-safe random token of n random bytes
func GenerateSecureToken(n int) (string, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ValidateContentType ensures the request has an accepted content type
func ValidateContentType(contentType string) bool {
	validTypes := map[string]bool{
		"application/json":                  true,
		"application/x-www-form-urlencoded": true,
		"multipart/form-data":               true,
	}
	return validTypes[contentType]
}
