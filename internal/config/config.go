package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	Postgres Postgres `mapstructure:"postgres"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

// Postgres — параметры подключения: либо готовый DSN, либо набор опций.
type Postgres struct {
	DSN            string
	DBName         string `mapstructure:"dbname"`
	User           string
	Password       string
	Host           string
	Port           int
	ClientEncoding string `mapstructure:"client_encoding"`
}

// ConnString собирает postgres:// URL из опций, если DSN не задан явно.
func (p Postgres) ConnString() string {
	if p.DSN != "" {
		return p.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   p.Host + ":" + strconv.Itoa(p.Port),
		Path:   "/" + p.DBName,
	}
	q := url.Values{}
	if p.ClientEncoding != "" {
		q.Set("client_encoding", p.ClientEncoding)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.dbname", "obraz_plus")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.client_encoding", "UTF8")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)
}

// Load читает YAML (если path не пустой), затем .env и переменные APP_*
// (APP_POSTGRES_PASSWORD и т.п.), которые перекрывают файл.
func Load(path string) (Config, error) {
	var c Config

	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Postgres.DSN == "" && c.Postgres.DBName == "" {
		return c, errors.New("postgres: dbname or dsn is required")
	}
	return c, nil
}
