package config

import (
	"fmt"
	"time"

	"github.com/muhittincamdali/enterprise-security-framework/internal/util"
	"github.com/rs/zerolog"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableCORSMiddleware           bool
	EnableLoggerMiddleware         bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableTrailingSlashMiddleware  bool
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestBody     bool
	LogRequestHeader   bool
	LogRequestQuery    bool
	LogResponseBody    bool
	LogResponseHeader  bool
	PrettyPrintConsole bool
}

type Database struct {
	Host             string
	Port             int
	Username         string
	Password         string            `json:"-"` // sensitive
	Database         string
	AdditionalParams map[string]string `json:",omitempty"`
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ConnectionString generates a connection string to be passed to sql.Open or equivalents, assuming Postgres syntax
func (c Database) ConnectionString() string {
	b := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s", c.Host, c.Port, c.Username, c.Password, c.Database)

	for param, value := range c.AdditionalParams {
		b += fmt.Sprintf(" %s=%s", param, value)
	}

	return b
}

// Compliance 合规引擎配置
type Compliance struct {
	StorageBackend          string   // "memory" | "postgresql"
	CryptoBackend           string   // "software" | "pkcs11"
	EncryptionKey           string   `json:"-"` // sensitive
	SigningSeed             string   `json:"-"` // sensitive
	Standards               []string
	EnableAuditTrail        bool
	EnableDigitalSignature  bool
	EnableEncryption        bool
	SensitiveExportPolicyID string
	Actor                   string
	DefaultRangeDays        int
}

// PKCS11 硬件加密模块配置
type PKCS11 struct {
	Library string
	Slot    int
	PIN     string `json:"-"` // sensitive
}

type PathsServer struct {
	SecurityTxtFile string
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Paths      PathsServer
	Database   Database
	Compliance Compliance
	PKCS11     PKCS11
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			EnableCORSMiddleware:           util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
			EnableLoggerMiddleware:         util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableTrailingSlashMiddleware:  util.GetEnvAsBool("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE", true),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", zerolog.DebugLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			LogRequestBody:     util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_BODY", false),
			LogRequestHeader:   util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_HEADER", false),
			LogRequestQuery:    util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_QUERY", false),
			LogResponseBody:    util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_BODY", false),
			LogResponseHeader:  util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_HEADER", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Paths: PathsServer{
			SecurityTxtFile: util.GetEnv("SERVER_PATHS_SECURITY_TXT_FILE", ""),
		},
		Database: Database{
			Host:     util.GetEnv("PGHOST", "postgres"),
			Port:     util.GetEnvAsInt("PGPORT", 5432),
			Database: util.GetEnv("PGDATABASE", "compliance"),
			Username: util.GetEnv("PGUSER", "dbuser"),
			Password: util.GetEnv("PGPASSWORD", ""),
			AdditionalParams: map[string]string{
				"sslmode": util.GetEnv("PGSSLMODE", "disable"),
			},
			MaxOpenConns:    util.GetEnvAsInt("DB_MAX_OPEN_CONNS", 30),
			MaxIdleConns:    util.GetEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Second * time.Duration(util.GetEnvAsInt("DB_CONN_MAX_LIFETIME_SEC", 300)),
		},
		Compliance: Compliance{
			StorageBackend:          util.GetEnv("COMPLIANCE_STORAGE_BACKEND", "postgresql"),
			CryptoBackend:           util.GetEnv("COMPLIANCE_CRYPTO_BACKEND", "software"),
			EncryptionKey:           util.GetEnv("COMPLIANCE_ENCRYPTION_KEY", ""),
			SigningSeed:             util.GetEnv("COMPLIANCE_SIGNING_SEED", ""),
			Standards:               util.GetEnvAsStringArr("COMPLIANCE_STANDARDS", []string{"GDPR", "HIPAA", "SOX", "PCI-DSS", "ISO-27001"}),
			EnableAuditTrail:        util.GetEnvAsBool("COMPLIANCE_ENABLE_AUDIT_TRAIL", true),
			EnableDigitalSignature:  util.GetEnvAsBool("COMPLIANCE_ENABLE_DIGITAL_SIGNATURE", true),
			EnableEncryption:        util.GetEnvAsBool("COMPLIANCE_ENABLE_ENCRYPTION", false),
			SensitiveExportPolicyID: util.GetEnv("COMPLIANCE_SENSITIVE_EXPORT_POLICY_ID", ""),
			Actor:                   util.GetEnv("COMPLIANCE_ACTOR", "compliance-service"),
			DefaultRangeDays:        util.GetEnvAsInt("COMPLIANCE_DEFAULT_RANGE_DAYS", 30),
		},
		PKCS11: PKCS11{
			Library: util.GetEnv("PKCS11_LIBRARY", "/usr/lib/softhsm/libsofthsm2.so"),
			Slot:    util.GetEnvAsInt("PKCS11_SLOT", 0),
			PIN:     util.GetEnv("PKCS11_PIN", ""),
		},
	}
}
