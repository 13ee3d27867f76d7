package software

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"

	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto"
	"github.com/pkg/errors"
)

const (
	keySize = 32 // AES-256
)

var (
	ErrInvalidKeySize    = errors.New("encryption key must be 32 bytes")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// provider 软件加密实现
// AES-256-GCM 用于导出加密，Ed25519 用于报告签名
type provider struct {
	aead       cipher.AEAD
	signingKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewProvider 创建软件加密实现
// encryptionKey 必须为 32 字节；signingSeed 为空时随机生成签名密钥
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewProvider(encryptionKey []byte, signingSeed []byte) (crypto.Provider, error) {
	if len(encryptionKey) != keySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AES cipher")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GCM")
	}

	var signingKey ed25519.PrivateKey
	if len(signingSeed) > 0 {
		// 种子经 SHA-256 规整为固定长度，保证可复现的签名密钥
		seed := sha256.Sum256(signingSeed)
		signingKey = ed25519.NewKeyFromSeed(seed[:])
	} else {
		_, generated, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate signing key")
		}
		signingKey = generated
	}

	return &provider{
		aead:       aead,
		signingKey: signingKey,
		publicKey:  signingKey.Public().(ed25519.PublicKey),
	}, nil
}

// Encrypt AES-256-GCM 加密
func (p *provider) Encrypt(_ context.Context, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, p.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "failed to generate nonce")
	}

	// nonce 前置于密文
	return p.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt AES-256-GCM 解密
func (p *provider) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < p.aead.NonceSize() {
		return nil, ErrInvalidCiphertext
	}

	nonce := ciphertext[:p.aead.NonceSize()]
	plaintext, err := p.aead.Open(nil, nonce, ciphertext[p.aead.NonceSize():], nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt")
	}

	return plaintext, nil
}

// Sign Ed25519 签名
func (p *provider) Sign(_ context.Context, digest []byte) ([]byte, error) {
	return ed25519.Sign(p.signingKey, digest), nil
}

// Verify Ed25519 签名验证
func (p *provider) Verify(_ context.Context, digest []byte, signature []byte) (bool, error) {
	return ed25519.Verify(p.publicKey, digest, signature), nil
}

// Close 软件实现无需释放资源
func (p *provider) Close() error {
	return nil
}
