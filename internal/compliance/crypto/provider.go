package crypto

import (
	"context"
)

// Provider 定义平台加密协作方接口
// 合规引擎只消费 encrypt/decrypt/sign/verify 能力，
// 算法细节由实现（软件实现、PKCS#11 HSM、云 KMS）负责
type Provider interface {
	// Encrypt 加密导出数据
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)

	// Decrypt 解密导出数据
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)

	// Sign 对报告摘要签名，返回不透明签名数据
	Sign(ctx context.Context, digest []byte) ([]byte, error)

	// Verify 验证报告签名
	Verify(ctx context.Context, digest []byte, signature []byte) (bool, error)

	// Close 释放底层资源（HSM 会话等）
	Close() error
}
