package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret, manifest string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	v1 := sign("whsec", "id:123456;request-id:req-1;ts:1704908010;")
	header := "ts=1704908010,v1=" + v1

	assert.True(t, VerifySignature("whsec", header, "req-1", "123456"))
	assert.False(t, VerifySignature("other", header, "req-1", "123456"))
	assert.False(t, VerifySignature("whsec", header, "req-2", "123456"))
	assert.False(t, VerifySignature("whsec", header, "req-1", "999"))
	assert.False(t, VerifySignature("whsec", "v1="+v1, "req-1", "123456"))
	assert.False(t, VerifySignature("whsec", "ts=1,v1=zz", "req-1", "123456"))
}
