package dogecloud

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	path := "/auth/tmp_token.json"
	body := `{"channel":"OSS_FULL","scopes":["*"]}`

	mac := hmac.New(sha1.New, []byte("secret"))
	mac.Write([]byte(path + "\n" + body))
	want := hex.EncodeToString(mac.Sum(nil))

	got := Sign("secret", path, body)
	assert.Equal(t, want, got)
	assert.Len(t, got, 40)
	assert.Equal(t, got, Sign("secret", path, body), "signature must be deterministic")
}

func TestSignChangesWithInput(t *testing.T) {
	base := Sign("secret", "/auth/tmp_token.json", "a=1")

	tests := []struct {
		name   string
		secret string
		path   string
		body   string
	}{
		{name: "path byte", secret: "secret", path: "/auth/tmp_token.jsoN", body: "a=1"},
		{name: "body byte", secret: "secret", path: "/auth/tmp_token.json", body: "a=2"},
		{name: "secret", secret: "secreT", path: "/auth/tmp_token.json", body: "a=1"},
		{name: "separator moved", secret: "secret", path: "/auth/tmp_token.json\na", body: "=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, Sign(tt.secret, tt.path, tt.body))
		})
	}
}

func TestAuthorization(t *testing.T) {
	assert.Equal(t, "TOKEN ak:abc123", authorization("ak", "abc123"))
}
