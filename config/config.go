package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverRedis  = "redis"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

type Config struct {
	Env string

	Server struct {
		Addr            string
		ShutdownTimeout time.Duration
	}
	Store struct {
		Driver    string
		Prefix    string
		BackupTTL time.Duration
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Badger struct {
		Dir string
	}
	Log struct {
		Level string
		Dev   bool
	}
	SeedDefaults bool
}

func newViper() *viper.Viper {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("store.driver", DriverRedis)
	v.SetDefault("store.prefix", "")
	v.SetDefault("backup.ttl", 24*time.Hour)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 8)
	v.SetDefault("badger.dir", "data")
	v.SetDefault("seed.defaults", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dev", false)

	v.SetEnvPrefix("ROLLCALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration of the current environment (ENV: DEV by default, TEST, PROD).
// config/.env.<env> under dir is loaded first when it exists.
func Load(dir string) (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(dir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}

	v := newViper()
	if env == "TEST" {
		v.SetDefault("store.driver", DriverMemory)
		v.SetDefault("log.dev", true)
	}

	conf := &Config{Env: env}
	conf.Server.Addr = v.GetString("server.addr")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Store.Driver = strings.ToLower(v.GetString("store.driver"))
	conf.Store.Prefix = v.GetString("store.prefix")
	conf.Store.BackupTTL = v.GetDuration("backup.ttl")
	conf.Redis.Addr = v.GetString("redis.addr")
	conf.Redis.Password = v.GetString("redis.password")
	conf.Redis.DB = v.GetInt("redis.db")
	conf.Badger.Dir = v.GetString("badger.dir")
	conf.Log.Level = v.GetString("log.level")
	conf.Log.Dev = v.GetBool("log.dev")
	conf.SeedDefaults = v.GetBool("seed.defaults")

	switch conf.Store.Driver {
	case DriverRedis, DriverBadger, DriverMemory:
	default:
		return nil, errors.Errorf("unknown store driver %q", conf.Store.Driver)
	}
	return conf, nil
}
