package sign_test

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"testing"
	"time"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto/software"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/sign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) sign.Signer {
	t.Helper()

	key := sha256.Sum256([]byte("test-encryption-key"))
	provider, err := software.NewProvider(key[:], []byte("test-signing-seed"))
	require.NoError(t, err)

	return sign.NewSigner(provider)
}

func testPayload() *sign.ReportPayload {
	return &sign.ReportPayload{
		ReportID:   "3c7d19a2-64e4-44cc-a9f2-4c5a32bf0001",
		Standards:  []string{"GDPR", "HIPAA"},
		RangeStart: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Data: map[string]json.RawMessage{
			"GDPR": json.RawMessage(`{"consent_management_enabled":true}`),
		},
		GeneratedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSigner_SignAndVerify(t *testing.T) {
	ctx := context.Background()
	signer := newTestSigner(t)

	signature, err := signer.SignReport(ctx, testPayload())
	require.NoError(t, err)
	require.NotEmpty(t, signature)

	valid, err := signer.VerifyReport(ctx, testPayload(), signature)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestSigner_TamperedPayloadFailsVerification(t *testing.T) {
	ctx := context.Background()
	signer := newTestSigner(t)

	signature, err := signer.SignReport(ctx, testPayload())
	require.NoError(t, err)

	tampered := testPayload()
	tampered.Data["GDPR"] = json.RawMessage(`{"consent_management_enabled":false}`)

	valid, err := signer.VerifyReport(ctx, tampered, signature)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestSigner_DeterministicDigest(t *testing.T) {
	first, err := testPayload().Digest()
	require.NoError(t, err)

	second, err := testPayload().Digest()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSigner_ReproducibleKeyFromSeed(t *testing.T) {
	ctx := context.Background()

	// 相同种子生成相同签名密钥，跨进程重启签名仍可验证
	signature, err := newTestSigner(t).SignReport(ctx, testPayload())
	require.NoError(t, err)

	valid, err := newTestSigner(t).VerifyReport(ctx, testPayload(), signature)
	require.NoError(t, err)
	assert.True(t, valid)
}
