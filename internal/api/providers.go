package api

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/audit"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/check"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto/pkcs11"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto/software"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/engine"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/export"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/policy"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/sign"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/muhittincamdali/enterprise-security-framework/internal/config"
	"github.com/muhittincamdali/enterprise-security-framework/internal/persistence"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirements for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Now())
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

func NewDB(config config.Server) (*sql.DB, error) {
	return persistence.NewDB(config.Database)
}

func NoTest() []*testing.T {
	return nil
}

// Compliance Providers

// NewTrailStore creates the audit trail store based on configuration
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewTrailStore(cfg config.Server, db *sql.DB) (storage.TrailStore, error) {
	switch cfg.Compliance.StorageBackend {
	case "postgresql":
		return storage.NewPostgreSQLStore(db), nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Compliance.StorageBackend)
	}
}

// NewCryptoProvider creates the crypto provider based on configuration
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewCryptoProvider(cfg config.Server) (crypto.Provider, error) {
	switch cfg.Compliance.CryptoBackend {
	case "software":
		// 密钥材料由 SHA-256 归一化为 32 字节
		encryptionKey := sha256.Sum256([]byte(cfg.Compliance.EncryptionKey))
		return software.NewProvider(encryptionKey[:], []byte(cfg.Compliance.SigningSeed))
	case "pkcs11":
		// SoftHSM 或硬件 HSM
		//nolint:gosec // Slot is a configuration value, overflow is acceptable
		return pkcs11.NewProvider(cfg.PKCS11.Library, uint(cfg.PKCS11.Slot), cfg.PKCS11.PIN)
	default:
		return nil, fmt.Errorf("unsupported crypto backend: %s", cfg.Compliance.CryptoBackend)
	}
}

// NewFactProvider creates the static fact provider backing compliance checks
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewFactProvider(_ config.Server) check.FactProvider {
	// 默认所有检查项通过，运行时事实源可在此替换
	return check.NewStaticFactProvider(nil, true)
}

// NewChecker creates the compliance checker
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewChecker(cfg config.Server, facts check.FactProvider, clock time2.Clock) check.Checker {
	return check.NewChecker(facts, clock, cfg.Compliance.Actor)
}

// NewSigner creates the report signer
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewSigner(cryptoProvider crypto.Provider) sign.Signer {
	return sign.NewSigner(cryptoProvider)
}

// NewExporter creates the report exporter
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewExporter() export.Exporter {
	return export.NewExporter()
}

// NewPolicyEngine creates the export policy engine
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewPolicyEngine(trailStore storage.TrailStore) policy.Engine {
	return policy.NewEngine(trailStore)
}

// NewAuditLogger creates the audit trail logger
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewAuditLogger(trailStore storage.TrailStore) audit.Logger {
	return audit.NewLogger(trailStore)
}

// NewComplianceEngine creates and configures the compliance engine
//
//nolint:ireturn // returning interface is intentional for abstraction
func NewComplianceEngine(
	cfg config.Server,
	checker check.Checker,
	signer sign.Signer,
	exporter export.Exporter,
	cryptoProvider crypto.Provider,
	policyEngine policy.Engine,
	auditLogger audit.Logger,
	clock time2.Clock,
) (engine.Engine, error) {
	standards := make([]standard.Standard, 0, len(cfg.Compliance.Standards))
	for _, name := range cfg.Compliance.Standards {
		s, err := standard.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid configured standard %q: %w", name, err)
		}
		standards = append(standards, s)
	}

	e := engine.NewEngine(checker, signer, exporter, cryptoProvider, policyEngine, auditLogger, clock)

	if err := e.Configure(engine.Configuration{
		Standards:               standards,
		EnableAuditTrail:        cfg.Compliance.EnableAuditTrail,
		EnableDigitalSignature:  cfg.Compliance.EnableDigitalSignature,
		EnableEncryption:        cfg.Compliance.EnableEncryption,
		SensitiveExportPolicyID: cfg.Compliance.SensitiveExportPolicyID,
		DefaultRangeDays:        cfg.Compliance.DefaultRangeDays,
		Actor:                   cfg.Compliance.Actor,
	}); err != nil {
		return nil, fmt.Errorf("failed to configure compliance engine: %w", err)
	}

	return e, nil
}
