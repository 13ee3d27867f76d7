package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/audit"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/check"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/crypto"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/engine"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/export"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/policy"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/sign"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/storage"
	"github.com/muhittincamdali/enterprise-security-framework/internal/config"
	"github.com/muhittincamdali/enterprise-security-framework/internal/util"
	"github.com/rs/zerolog/log"
)

type Router struct {
	Routes          []*echo.Route
	Root            *echo.Group
	Management      *echo.Group
	APIV1Compliance *echo.Group
	WellKnown       *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config config.Server
	DB     *sql.DB
	Clock  time2.Clock

	// compliance services
	TrailStore       storage.TrailStore
	CryptoProvider   crypto.Provider
	FactProvider     check.FactProvider
	Checker          check.Checker
	Signer           sign.Signer
	Exporter         export.Exporter
	PolicyEngine     policy.Engine
	AuditLogger      audit.Logger
	ComplianceEngine engine.Engine
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	db *sql.DB,
	clock time2.Clock,
	trailStore storage.TrailStore,
	cryptoProvider crypto.Provider,
	factProvider check.FactProvider,
	checker check.Checker,
	signer sign.Signer,
	exporter export.Exporter,
	policyEngine policy.Engine,
	auditLogger audit.Logger,
	complianceEngine engine.Engine,
) *Server {
	return &Server{
		Config:           cfg,
		DB:               db,
		Clock:            clock,
		TrailStore:       trailStore,
		CryptoProvider:   cryptoProvider,
		FactProvider:     factProvider,
		Checker:          checker,
		Signer:           signer,
		Exporter:         exporter,
		PolicyEngine:     policyEngine,
		AuditLogger:      auditLogger,
		ComplianceEngine: complianceEngine,
	}
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	// 内存存储后端不需要数据库连接，跳过 DB 字段的初始化检查
	checkServer := *s
	if s.Config.Compliance.StorageBackend == "memory" && s.DB == nil {
		checkServer.DB = &sql.DB{}
	}

	if err := util.IsStructInitialized(&checkServer); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.CryptoProvider != nil {
		log.Debug().Msg("Closing crypto provider")

		if err := s.CryptoProvider.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close crypto provider")
			errs = append(errs, err)
		}
	}

	if s.DB != nil {
		log.Debug().Msg("Closing database connection")

		if err := s.DB.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Error().Err(err).Msg("Failed to close database connection")
			errs = append(errs, err)
		}
	}

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	return errs
}
