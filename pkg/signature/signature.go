// Package signature holds the request signing primitive shared by the HMAC
// middleware and its clients.
package signature

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

// Sign returns the lowercase hex HMAC-SHA256 of message keyed by secret.
func Sign(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// Equal compares two signatures in constant time.
func Equal(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

// CanonicalJSON rewrites body with sorted object keys, no insignificant
// whitespace and no HTML escaping. Numbers keep their textual form.
// An empty body canonicalises to "{}". Bodies that are not JSON are
// returned trimmed and otherwise untouched.
func CanonicalJSON(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "{}"
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(trimmed)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return string(trimmed)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// CanonicalRequest builds "<ts>:<METHOD>:<request-uri>:<canonical body>",
// the message both sides sign.
func CanonicalRequest(timestamp int64, method, requestURI string, body []byte) string {
	return strconv.FormatInt(timestamp, 10) + ":" +
		strings.ToUpper(method) + ":" +
		requestURI + ":" +
		CanonicalJSON(body)
}

// Header formats the x-hmac-signature value for a signed request.
func Header(secret string, timestamp int64, method, requestURI string, body []byte) string {
	sig := Sign(secret, CanonicalRequest(timestamp, method, requestURI, body))
	return sig + "|" + strconv.FormatInt(timestamp, 10)
}
