package test

import (
	"context"
	"testing"
	"time"

	"github.com/muhittincamdali/enterprise-security-framework/internal/api"
	"github.com/muhittincamdali/enterprise-security-framework/internal/api/router"
	"github.com/muhittincamdali/enterprise-security-framework/internal/config"
	"github.com/stretchr/testify/require"
)

// DefaultTestConfig returns a server config suitable for tests:
// in-memory storage and a deterministic software crypto provider.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.Compliance.StorageBackend = "memory"
	cfg.Compliance.CryptoBackend = "software"
	cfg.Compliance.EncryptionKey = "test-encryption-key"
	cfg.Compliance.SigningSeed = "test-signing-seed"
	cfg.Compliance.EnableEncryption = false

	return cfg
}

// WithTestServer returns a fully initialized server with the default test config.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()
	WithTestServerConfigurable(t, DefaultTestConfig(), closure)
}

// WithTestServerConfigurable returns a fully initialized server with the given config.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	s, err := api.InitNewServerWithDB(cfg, nil, t)
	require.NoError(t, err)

	router.Init(s)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = s.Shutdown(ctx)
	}()

	closure(s)
}
