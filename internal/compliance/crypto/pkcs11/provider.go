package pkcs11

import (
	"context"
	"os"
	"sync"

	p11 "github.com/miekg/pkcs11"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto"
	"github.com/pkg/errors"
)

const (
	// PKCS#11 constants are not exposed by github.com/miekg/pkcs11 yet.
	mechanismECEdwardsKeyPair = uint(0x1055) // CKM_EC_EDWARDS_KEY_PAIR_GEN
	mechanismEDDSA            = uint(0x1057) // CKM_EDDSA
	keyTypeECEdwards          = uint(0x40)   // CKK_EC_EDWARDS

	encryptionKeyLabel = "compliance-export"
	signingKeyLabel    = "compliance-report-sign"

	gcmIVSize  = 12
	gcmTagBits = 128
)

// provider PKCS#11 HSM 加密实现
// 导出加密使用 HSM 内的 AES-256 密钥，报告签名使用 Ed25519 密钥对，
// 密钥材料不离开 HSM
type provider struct {
	ctx     *p11.Ctx
	session p11.SessionHandle
	mu      sync.Mutex
}

// NewProvider 创建 PKCS#11 加密实现
// libraryPath: PKCS#11 库路径（如 /usr/lib/softhsm/libsofthsm2.so）
// slot: Slot ID
// pin: 用户 PIN
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewProvider(libraryPath string, slot uint, pin string) (crypto.Provider, error) {
	if libraryPath == "" {
		return nil, errors.New("PKCS#11 library path is required, set COMPLIANCE_PKCS11_LIBRARY environment variable")
	}

	if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
		return nil, errors.Errorf("PKCS#11 library not found at path: %s", libraryPath)
	}

	ctx := p11.New(libraryPath)
	if ctx == nil {
		return nil, errors.Errorf("failed to load PKCS#11 library from path: %s", libraryPath)
	}

	if err := ctx.Initialize(); err != nil {
		_ = ctx.Finalize()
		return nil, errors.Wrap(err, "failed to initialize PKCS#11")
	}

	slots, err := ctx.GetSlotList(true)
	if err != nil {
		_ = ctx.Finalize()
		return nil, errors.Wrap(err, "failed to get PKCS#11 slot list")
	}

	slotExists := false
	for _, s := range slots {
		if s == slot {
			slotExists = true
			break
		}
	}

	if !slotExists {
		_ = ctx.Finalize()
		return nil, errors.Errorf("PKCS#11 slot %d does not exist, available slots: %v", slot, slots)
	}

	session, err := ctx.OpenSession(slot, p11.CKF_SERIAL_SESSION|p11.CKF_RW_SESSION)
	if err != nil {
		_ = ctx.Finalize()
		return nil, errors.Wrapf(err, "failed to open PKCS#11 session on slot %d", slot)
	}

	if err := ctx.Login(session, p11.CKU_USER, pin); err != nil {
		_ = ctx.CloseSession(session)
		_ = ctx.Finalize()
		return nil, errors.Wrap(err, "failed to login to PKCS#11")
	}

	p := &provider{
		ctx:     ctx,
		session: session,
	}

	// 确保导出加密密钥和签名密钥对存在
	if err := p.ensureKeys(); err != nil {
		_ = p.Close()
		return nil, err
	}

	return p, nil
}

// ensureKeys 查找或生成 HSM 内的工作密钥
func (p *provider) ensureKeys() error {
	if _, err := p.findKey(p11.CKO_SECRET_KEY, encryptionKeyLabel); err != nil {
		if err := p.generateAESKey(); err != nil {
			return errors.Wrap(err, "failed to generate export encryption key")
		}
	}

	if _, err := p.findKey(p11.CKO_PRIVATE_KEY, signingKeyLabel); err != nil {
		if err := p.generateEd25519KeyPair(); err != nil {
			return errors.Wrap(err, "failed to generate report signing key pair")
		}
	}

	return nil
}

func (p *provider) generateAESKey() error {
	template := []*p11.Attribute{
		p11.NewAttribute(p11.CKA_CLASS, p11.CKO_SECRET_KEY),
		p11.NewAttribute(p11.CKA_KEY_TYPE, p11.CKK_AES),
		p11.NewAttribute(p11.CKA_VALUE_LEN, 32),
		p11.NewAttribute(p11.CKA_LABEL, encryptionKeyLabel),
		p11.NewAttribute(p11.CKA_TOKEN, true),
		p11.NewAttribute(p11.CKA_ENCRYPT, true),
		p11.NewAttribute(p11.CKA_DECRYPT, true),
		p11.NewAttribute(p11.CKA_EXTRACTABLE, false),
	}

	_, err := p.ctx.GenerateKey(
		p.session,
		[]*p11.Mechanism{p11.NewMechanism(p11.CKM_AES_KEY_GEN, nil)},
		template,
	)
	return err
}

func (p *provider) generateEd25519KeyPair() error {
	// RFC 8410 curve OID for Ed25519
	ed25519OID := []byte{0x06, 0x03, 0x2b, 0x65, 0x70}

	publicTemplate := []*p11.Attribute{
		p11.NewAttribute(p11.CKA_CLASS, p11.CKO_PUBLIC_KEY),
		p11.NewAttribute(p11.CKA_KEY_TYPE, keyTypeECEdwards),
		p11.NewAttribute(p11.CKA_EC_PARAMS, ed25519OID),
		p11.NewAttribute(p11.CKA_LABEL, signingKeyLabel),
		p11.NewAttribute(p11.CKA_TOKEN, true),
		p11.NewAttribute(p11.CKA_VERIFY, true),
	}
	privateTemplate := []*p11.Attribute{
		p11.NewAttribute(p11.CKA_CLASS, p11.CKO_PRIVATE_KEY),
		p11.NewAttribute(p11.CKA_KEY_TYPE, keyTypeECEdwards),
		p11.NewAttribute(p11.CKA_LABEL, signingKeyLabel),
		p11.NewAttribute(p11.CKA_TOKEN, true),
		p11.NewAttribute(p11.CKA_SIGN, true),
		p11.NewAttribute(p11.CKA_EXTRACTABLE, false),
	}

	mechanism := []*p11.Mechanism{p11.NewMechanism(mechanismECEdwardsKeyPair, nil)}
	_, _, err := p.ctx.GenerateKeyPair(p.session, mechanism, publicTemplate, privateTemplate)
	return err
}

// findKey 按类别和标签查找对象句柄
func (p *provider) findKey(class uint, label string) (p11.ObjectHandle, error) {
	template := []*p11.Attribute{
		p11.NewAttribute(p11.CKA_CLASS, class),
		p11.NewAttribute(p11.CKA_LABEL, label),
	}

	if err := p.ctx.FindObjectsInit(p.session, template); err != nil {
		return 0, errors.Wrap(err, "failed to init object search")
	}
	defer func() { _ = p.ctx.FindObjectsFinal(p.session) }()

	handles, _, err := p.ctx.FindObjects(p.session, 1)
	if err != nil {
		return 0, errors.Wrap(err, "failed to find objects")
	}
	if len(handles) == 0 {
		return 0, errors.Errorf("key %q not found in HSM", label)
	}

	return handles[0], nil
}

// Encrypt 在 HSM 内执行 AES-GCM 加密
func (p *provider) Encrypt(_ context.Context, plaintext []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, err := p.findKey(p11.CKO_SECRET_KEY, encryptionKeyLabel)
	if err != nil {
		return nil, err
	}

	iv, err := p.ctx.GenerateRandom(p.session, gcmIVSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	params := p11.NewGCMParams(iv, nil, gcmTagBits)
	defer params.Free()

	if err := p.ctx.EncryptInit(p.session, []*p11.Mechanism{p11.NewMechanism(p11.CKM_AES_GCM, params)}, key); err != nil {
		return nil, errors.Wrap(err, "failed to init encryption")
	}

	ciphertext, err := p.ctx.Encrypt(p.session, plaintext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt in HSM")
	}

	// IV 前置于密文
	return append(iv, ciphertext...), nil
}

// Decrypt 在 HSM 内执行 AES-GCM 解密
func (p *provider) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(ciphertext) < gcmIVSize {
		return nil, errors.New("invalid ciphertext")
	}

	key, err := p.findKey(p11.CKO_SECRET_KEY, encryptionKeyLabel)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:gcmIVSize]
	params := p11.NewGCMParams(iv, nil, gcmTagBits)
	defer params.Free()

	if err := p.ctx.DecryptInit(p.session, []*p11.Mechanism{p11.NewMechanism(p11.CKM_AES_GCM, params)}, key); err != nil {
		return nil, errors.Wrap(err, "failed to init decryption")
	}

	plaintext, err := p.ctx.Decrypt(p.session, ciphertext[gcmIVSize:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt in HSM")
	}

	return plaintext, nil
}

// Sign 在 HSM 内执行 EDDSA 签名
func (p *provider) Sign(_ context.Context, digest []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, err := p.findKey(p11.CKO_PRIVATE_KEY, signingKeyLabel)
	if err != nil {
		return nil, err
	}

	if err := p.ctx.SignInit(p.session, []*p11.Mechanism{p11.NewMechanism(mechanismEDDSA, nil)}, key); err != nil {
		return nil, errors.Wrap(err, "failed to init signing")
	}

	signature, err := p.ctx.Sign(p.session, digest)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign in HSM")
	}

	return signature, nil
}

// Verify 在 HSM 内验证 EDDSA 签名
func (p *provider) Verify(_ context.Context, digest []byte, signature []byte) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, err := p.findKey(p11.CKO_PUBLIC_KEY, signingKeyLabel)
	if err != nil {
		return false, err
	}

	if err := p.ctx.VerifyInit(p.session, []*p11.Mechanism{p11.NewMechanism(mechanismEDDSA, nil)}, key); err != nil {
		return false, errors.Wrap(err, "failed to init verification")
	}

	if err := p.ctx.Verify(p.session, digest, signature); err != nil {
		if errors.Is(err, p11.Error(p11.CKR_SIGNATURE_INVALID)) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to verify in HSM")
	}

	return true, nil
}

// Close 登出并释放 PKCS#11 会话
func (p *provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx == nil {
		return nil
	}

	if p.session != 0 {
		_ = p.ctx.Logout(p.session)
		_ = p.ctx.CloseSession(p.session)
		p.session = 0
	}

	_ = p.ctx.Finalize()
	p.ctx = nil
	return nil
}
