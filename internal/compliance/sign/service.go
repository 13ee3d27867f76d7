package sign

import (
	"context"
	"crypto/sha256"
	"encoding/json"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto"
	"github.com/pkg/errors"
)

var (
	ErrSignatureFailed  = errors.New("report signing failed")
	ErrInvalidSignature = errors.New("invalid report signature")
)

// Signer 报告签名服务接口
// 对报告的规范化编码计算摘要并通过加密协作方签名，提供防篡改证据
type Signer interface {
	SignReport(ctx context.Context, payload *ReportPayload) ([]byte, error)
	VerifyReport(ctx context.Context, payload *ReportPayload, signature []byte) (bool, error)
}

// signer 报告签名服务实现
type signer struct {
	provider crypto.Provider
}

// NewSigner 创建新的报告签名服务
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewSigner(provider crypto.Provider) Signer {
	return &signer{
		provider: provider,
	}
}

// SignReport 对报告载荷签名
func (s *signer) SignReport(ctx context.Context, payload *ReportPayload) ([]byte, error) {
	digest, err := payload.Digest()
	if err != nil {
		return nil, errors.Wrap(ErrSignatureFailed, err.Error())
	}

	signature, err := s.provider.Sign(ctx, digest)
	if err != nil {
		return nil, errors.Wrap(ErrSignatureFailed, err.Error())
	}

	return signature, nil
}

// VerifyReport 验证报告签名
func (s *signer) VerifyReport(ctx context.Context, payload *ReportPayload, signature []byte) (bool, error) {
	digest, err := payload.Digest()
	if err != nil {
		return false, errors.Wrap(ErrInvalidSignature, err.Error())
	}

	valid, err := s.provider.Verify(ctx, digest, signature)
	if err != nil {
		return false, errors.Wrap(ErrInvalidSignature, err.Error())
	}

	return valid, nil
}

// Digest 计算载荷的规范化摘要
// encoding/json 对 map 键排序，保证同一载荷的摘要可复现
func (p *ReportPayload) Digest() ([]byte, error) {
	canonical, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal report payload")
	}

	sum := sha256.Sum256(canonical)
	return sum[:], nil
}
