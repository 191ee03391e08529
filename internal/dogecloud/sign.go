package dogecloud

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

// Sign returns the hex HMAC-SHA1 of apiPath + "\n" + body keyed by secretKey
func Sign(secretKey, apiPath, body string) string {
	mac := hmac.New(sha1.New, []byte(secretKey))
	mac.Write([]byte(apiPath + "\n" + body))
	return hex.EncodeToString(mac.Sum(nil))
}

// authorization builds the Authorization header value for a signed request
func authorization(accessKey, signature string) string {
	return "TOKEN " + accessKey + ":" + signature
}
