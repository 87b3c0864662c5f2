package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret, dataID, requestID, ts string) string {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	const (
		secret    = "whsec_prueba"
		dataID    = "12345"
		requestID = "req-abc"
		ts        = "1756400000"
	)

	v1 := sign(secret, dataID, requestID, ts)
	header := fmt.Sprintf("ts=%s,v1=%s", ts, v1)

	assert.True(t, VerifyWebhookSignature(secret, header, requestID, dataID))

	// Espacios alrededor de las partes no invalidan el header.
	spaced := fmt.Sprintf("ts=%s, v1=%s", ts, v1)
	assert.True(t, VerifyWebhookSignature(secret, spaced, requestID, dataID))
}

func TestVerifyWebhookSignatureRejectsTampering(t *testing.T) {
	const secret = "whsec_prueba"

	v1 := sign(secret, "12345", "req-abc", "1756400000")
	header := "ts=1756400000,v1=" + v1

	// data.id distinto al firmado.
	assert.False(t, VerifyWebhookSignature(secret, header, "req-abc", "99999"))

	// Secreto equivocado.
	assert.False(t, VerifyWebhookSignature("otro", header, "req-abc", "12345"))

	// ts alterado tras firmar.
	assert.False(t, VerifyWebhookSignature(secret, "ts=1756499999,v1="+v1, "req-abc", "12345"))
}

func TestVerifyWebhookSignatureMalformedHeaders(t *testing.T) {
	assert.False(t, VerifyWebhookSignature("s", "", "req", "1"))
	assert.False(t, VerifyWebhookSignature("", "ts=1,v1=abc", "req", "1"))
	assert.False(t, VerifyWebhookSignature("s", "v1=abc", "req", "1"))
	assert.False(t, VerifyWebhookSignature("s", "ts=1", "req", "1"))
	assert.False(t, VerifyWebhookSignature("s", "garbage", "req", "1"))
}
