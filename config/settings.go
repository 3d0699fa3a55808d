package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings is the runtime configuration of the API and the petctl tool.
type Settings struct {
	Environment    string        `mapstructure:"environment"`
	ServerPort     string        `mapstructure:"server_port"`
	GinMode        string        `mapstructure:"gin_mode"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	AppBaseURL     string        `mapstructure:"app_base_url"`

	Database DatabaseSettings `mapstructure:"db"`
	Redis    RedisSettings    `mapstructure:"redis"`
	JWT      JWTSettings      `mapstructure:"jwt"`
	SMTP     SMTPSettings     `mapstructure:"smtp"`
	Google   GoogleSettings   `mapstructure:"google"`
	Log      LogSettings      `mapstructure:"log"`
}

type DatabaseSettings struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	DebugSQL        bool          `mapstructure:"debug_sql"`
}

// DSN returns the MySQL data source name.
func (d DatabaseSettings) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisSettings struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTSettings struct {
	Secret       string `mapstructure:"secret"`
	ExpireHours  int    `mapstructure:"expire_hours"`
	CookieName   string `mapstructure:"cookie_name"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

// TTL is the lifetime of an issued session token.
func (j JWTSettings) TTL() time.Duration {
	if j.ExpireHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(j.ExpireHours) * time.Hour
}

type SMTPSettings struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Pass          string `mapstructure:"pass"`
	From          string `mapstructure:"from"`
	SkipTLSVerify bool   `mapstructure:"skip_tls_verify"`
	LogoURL       string `mapstructure:"logo_url"`
}

// Enabled reports whether enough is configured to send mail.
func (s SMTPSettings) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type GoogleSettings struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	UserInfoURL  string `mapstructure:"userinfo_url"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Cfg holds the settings loaded at startup. It starts with defaults so that
// packages reading it before Load (tests, tools) see sane values.
var Cfg = DefaultSettings()

// DefaultSettings returns the configuration used when nothing is set.
func DefaultSettings() *Settings {
	return &Settings{
		Environment:    "development",
		ServerPort:     "8080",
		RequestTimeout: 15 * time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
		Database: DatabaseSettings{
			Host:            "127.0.0.1",
			Port:            "3306",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		JWT: JWTSettings{
			ExpireHours: 24,
			CookieName:  "token",
		},
		SMTP: SMTPSettings{Port: 587},
		Google: GoogleSettings{
			UserInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
			File:   LogFilePath(),
		},
	}
}

// Load reads .env (if present) and the environment into Cfg and validates
// what the API server needs. Keys map from nested names with underscores,
// e.g. DB_HOST -> db.host.
func Load() (*Settings, error) {
	s, err := read()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	Cfg = s
	return s, nil
}

// LoadForTools is Load without the server-only checks, for petctl.
func LoadForTools() (*Settings, error) {
	s, err := read()
	if err != nil {
		return nil, err
	}
	Cfg = s
	return s, nil
}

func read() (*Settings, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultSettings()
	v.SetDefault("environment", def.Environment)
	v.SetDefault("server_port", def.ServerPort)
	v.SetDefault("gin_mode", def.GinMode)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("allowed_origins", def.AllowedOrigins)
	v.SetDefault("app_base_url", "")
	v.SetDefault("db.host", def.Database.Host)
	v.SetDefault("db.port", def.Database.Port)
	v.SetDefault("db.database", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", def.Database.MaxOpenConns)
	v.SetDefault("db.max_idle_conns", def.Database.MaxIdleConns)
	v.SetDefault("db.conn_max_lifetime", def.Database.ConnMaxLifetime)
	v.SetDefault("db.debug_sql", false)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire_hours", def.JWT.ExpireHours)
	v.SetDefault("jwt.cookie_name", def.JWT.CookieName)
	v.SetDefault("jwt.cookie_secure", false)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", def.SMTP.Port)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.skip_tls_verify", false)
	v.SetDefault("smtp.logo_url", "")
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_url", "")
	v.SetDefault("google.userinfo_url", def.Google.UserInfoURL)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.file", def.Log.File)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// comma separated in the environment
	if len(s.AllowedOrigins) == 1 && strings.Contains(s.AllowedOrigins[0], ",") {
		s.AllowedOrigins = splitList(s.AllowedOrigins[0])
	}

	return &s, nil
}

// Validate checks the settings the server cannot run without.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.JWT.Secret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if s.Environment == "production" && len(s.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	return nil
}

func (s *Settings) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
