package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPayment_Valid(t *testing.T) {
	sig := sign([]byte("order_abc|pay_xyz"), "secret1")
	assert.True(t, VerifyPayment("order_abc", "pay_xyz", sig, "secret1"))
}

func TestVerifyPayment_SingleCharacterFlips(t *testing.T) {
	sig := sign([]byte("order_abc|pay_xyz"), "secret1")

	assert.False(t, VerifyPayment("order_abd", "pay_xyz", sig, "secret1"), "altered order id")
	assert.False(t, VerifyPayment("order_abc", "pay_xyy", sig, "secret1"), "altered payment id")

	altered := []byte(sig)
	if altered[0] == 'a' {
		altered[0] = 'b'
	} else {
		altered[0] = 'a'
	}
	assert.False(t, VerifyPayment("order_abc", "pay_xyz", string(altered), "secret1"), "altered signature")
}

func TestVerifyPayment_WrongSecret(t *testing.T) {
	sig := sign([]byte("order_abc|pay_xyz"), "secret1")
	assert.False(t, VerifyPayment("order_abc", "pay_xyz", sig, "secret2"))
}

func TestVerifyPayment_EmptySignatureOrSecret(t *testing.T) {
	assert.False(t, VerifyPayment("order_abc", "pay_xyz", "", "secret1"))
	sig := sign([]byte("order_abc|pay_xyz"), "secret1")
	assert.False(t, VerifyPayment("order_abc", "pay_xyz", sig, ""))
}

func TestVerifyPayment_NonHexSignature(t *testing.T) {
	assert.False(t, VerifyPayment("order_abc", "pay_xyz", "not-hex!!", "secret1"))
}

// A webhook body whose parse→reserialize round trip changes byte content:
// verification must hold for the raw bytes and fail for the reserialized
// form, proving the raw body is what gets checked.
func TestVerifyWebhook_RawBodyNotReserializedJSON(t *testing.T) {
	raw := []byte(`{ "event":  "payment.captured",   "b": 1, "a": 2 }`)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	reserialized, err := json.Marshal(parsed)
	require.NoError(t, err)
	require.NotEqual(t, raw, reserialized, "test body must not survive a round trip byte-identically")

	sig := sign(raw, "whsec")
	assert.True(t, VerifyWebhook(raw, sig, "whsec"))
	assert.False(t, VerifyWebhook(reserialized, sig, "whsec"))
}

func TestVerifyWebhook_Mismatch(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	sig := sign(body, "whsec")

	assert.False(t, VerifyWebhook(body, sig, "other-secret"))
	assert.False(t, VerifyWebhook(append(body, ' '), sig, "whsec"))
	assert.False(t, VerifyWebhook(body, "", "whsec"))
}
