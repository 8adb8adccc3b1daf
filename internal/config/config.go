// Package config loads the service settings from a yaml file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the service, e.g. COMMENTSVC_DB_SERVER.
const EnvPrefix = "COMMENTSVC"

// ErrMissingPort is returned when no listening port is configured.
var ErrMissingPort = errors.New("unable to find port number in configuration")

// Settings are the service settings.
type Settings struct {
	// Port is the HTTP listening port of the server. Mandatory.
	Port int `mapstructure:"port"`

	Log    LogSettings    `mapstructure:"log"`
	DB     DBSettings     `mapstructure:"db"`
	PubSub PubSubSettings `mapstructure:"pubsub"`
	Worker WorkerSettings `mapstructure:"worker"`
}

// LogSettings configure logrus.
type LogSettings struct {
	Level  string `mapstructure:"level"`  // logrus level name
	Format string `mapstructure:"format"` // json or text
}

// DBSettings describe how to reach the database.
type DBSettings struct {
	// URL takes precedence over the discrete fields when set.
	URL        string        `mapstructure:"url"`
	Server     string        `mapstructure:"server"` // host:port
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	Database   string        `mapstructure:"database"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Encryption bool          `mapstructure:"encryption"`
	Pool       PoolSettings  `mapstructure:"pool"`
}

// PoolSettings are passed verbatim to the connection pool.
type PoolSettings struct {
	Min         int           `mapstructure:"min"`
	Max         int           `mapstructure:"max"`
	IdleTimeout time.Duration `mapstructure:"idletimeout"`
}

// PubSubSettings configure the change-data-capture pipeline.
type PubSubSettings struct {
	ProjectID       string `mapstructure:"projectid"`
	CDCSubscription string `mapstructure:"cdcsubscription"`
	PublicTopic     string `mapstructure:"publictopic"`
}

// WorkerSettings configure the CDC worker process.
type WorkerSettings struct {
	Port int `mapstructure:"port"`
}

// keys lists every setting so that environment variables are honoured even when the
// yaml file does not mention them.
var keys = []string{
	"port",
	"log.level", "log.format",
	"db.url", "db.server", "db.user", "db.password", "db.database", "db.timeout", "db.encryption",
	"db.pool.min", "db.pool.max", "db.pool.idletimeout",
	"pubsub.projectid", "pubsub.cdcsubscription", "pubsub.publictopic",
	"worker.port",
}

// Load reads the settings. An absent config file or .env file is not an error; an absent port is.
// A missing db section leaves DBSettings zero-valued.
func Load(configPaths ...string) (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, relying on the environment")
	}

	v, err := newViper(configPaths...)
	if err != nil {
		return nil, err
	}

	if !v.IsSet("port") {
		return nil, ErrMissingPort
	}

	settings := new(Settings)
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}
	if settings.Port <= 0 {
		return nil, ErrMissingPort
	}
	return settings, nil
}

func newViper(configPaths ...string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{".", "./config", "/etc/commentsvc"}
	}
	for _, path := range configPaths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding env for %q: %w", key, err)
		}
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("worker.port", 8081)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("fatal error reading config file: %w", err)
		}
		log.Debug("no config file found, relying on the environment")
	} else {
		log.WithField("file", v.ConfigFileUsed()).Debug("read config file")
	}
	return v, nil
}

// ConnectionURL returns the settings as a postgres connection url, for tools that do not
// take discrete fields.
func (s DBSettings) ConnectionURL() string {
	if s.URL != "" {
		return s.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(s.User, s.Password),
		Host:   s.Server,
		Path:   "/" + s.Database,
	}
	sslMode := "disable"
	if s.Encryption {
		sslMode = "require"
	}
	u.RawQuery = url.Values{"sslmode": []string{sslMode}}.Encode()
	return u.String()
}
