// headers/redact/redact.go
package redact

import "strings"

// Redacted replaces every sensitive value in log output.
const Redacted = "REDACTED"

// sensitiveKeys are lower-cased header names and log keys that carry credentials.
var sensitiveKeys = map[string]bool{
	"accesstoken":   true,
	"access_token":  true,
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
}

// RedactSensitiveHeaderData redacts sensitive data based on the hideSensitiveData flag.
func RedactSensitiveHeaderData(hideSensitiveData bool, key, value string) string {
	if hideSensitiveData && sensitiveKeys[strings.ToLower(key)] {
		return Redacted
	}
	return value
}

// Token shortens a credential to a recognisable prefix for correlation in logs,
// or redacts it fully when hideSensitiveData is set.
func Token(hideSensitiveData bool, token string) string {
	if hideSensitiveData {
		return Redacted
	}
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}
