package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	GRPCPort int `mapstructure:"GRPC_PORT"`
	HTTPPort int `mapstructure:"HTTP_PORT"`

	BackendURL         string        `mapstructure:"BACKEND_URL"`
	BackendTimeout     time.Duration `mapstructure:"BACKEND_TIMEOUT"`
	OrganizationID     int64         `mapstructure:"ORGANIZATION_ID"`
	Currency           string        `mapstructure:"CURRENCY"`
	PaymentRedirectURL string        `mapstructure:"PAYMENT_REDIRECT_URL"`

	// DeliverySurchargePercent is applied on top of the cart total for delivery orders. 0 disables it.
	DeliverySurchargePercent int64 `mapstructure:"DELIVERY_SURCHARGE_PERCENT"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
	CatalogCacheTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL"`

	KafkaBrokers       string `mapstructure:"KAFKA_BROKERS"`
	KafkaCheckoutTopic string `mapstructure:"KAFKA_CHECKOUT_TOPIC"`

	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	MaxConcurrent int `mapstructure:"MAX_CONCURRENT"`
}

var defaults = map[string]any{
	"APP_ENV":                    "dev",
	"LOG_LEVEL":                  "info",
	"HTTP_PORT":                  8080,
	"GRPC_PORT":                  8081,
	"BACKEND_URL":                "http://localhost:8090",
	"BACKEND_TIMEOUT":            "10s",
	"ORGANIZATION_ID":            1,
	"CURRENCY":                   "ARS",
	"PAYMENT_REDIRECT_URL":       "https://sandbox.mercadopago.com.ar/checkout/v1/redirect",
	"DELIVERY_SURCHARGE_PERCENT": 0,
	"REDIS_ADDR":                 "",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"SESSION_TTL":                "72h",
	"CATALOG_CACHE_TTL":          "1m",
	"KAFKA_BROKERS":              "",
	"KAFKA_CHECKOUT_TOPIC":       "storefront.checkout",
	"POSTGRES_DSN":               "",
	"MAX_CONCURRENT":             10,
}

// Load reads the configuration from the environment, optionally layered over the
// file named by CONFIG_FILE. Missing keys fall back to defaults, and so does any
// key whose value cannot be parsed. The returned Config is always usable; the
// error lists what was ignored.
func Load() (Config, error) {
	cfg, invalid, err := load(viper.New())
	if err != nil {
		// an unreadable file is not fatal, the environment still applies
		var envErr error
		cfg, invalid, envErr = load(viper.New(), withoutFile)
		err = errors.Join(err, envErr)
	}
	return cfg, errors.Join(err, invalid)
}

type loadOption func(v *viper.Viper)

func withoutFile(v *viper.Viper) { v.Set("CONFIG_FILE", "") }

// InvalidKeyError names a key whose value was replaced by its default.
type InvalidKeyError struct {
	Key   string
	Value string
	Err   error
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("config: %s=%q is invalid, using default: %v", e.Key, e.Value, e.Err)
}

func (e *InvalidKeyError) Unwrap() error { return e.Err }

// load returns the config, the keys that were reset to their defaults, and any
// error that made the config unusable.
func load(v *viper.Viper, opts ...loadOption) (Config, error, error) {
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, opt := range opts {
		opt(v)
	}

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	invalid := resetInvalid(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, invalid, fmt.Errorf("config: %w", err)
	}
	return cfg, invalid, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// resetInvalid puts the default back for every numeric or duration key whose
// value does not parse.
func resetInvalid(v *viper.Viper) error {
	var errs []error
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get("mapstructure")

		var err error
		switch {
		case f.Type == durationType:
			_, err = cast.ToDurationE(v.Get(key))
		case f.Type.Kind() == reflect.Int, f.Type.Kind() == reflect.Int64:
			_, err = cast.ToInt64E(v.Get(key))
		default:
			continue
		}
		if err != nil {
			errs = append(errs, &InvalidKeyError{Key: key, Value: v.GetString(key), Err: err})
			v.Set(key, defaults[key])
		}
	}
	return errors.Join(errs...)
}

// Brokers splits KAFKA_BROKERS on commas.
func (c Config) Brokers() []string {
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
