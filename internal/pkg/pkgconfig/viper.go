package pkgconfig

import (
	"path"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding file values,
// for example APP_INSTRUMENT_ENABLED for "instrument.enabled".
const EnvPrefix = "APP"

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// The config file type is inferred by Viper from the filename extension.
// Environment variables prefixed with EnvPrefix take precedence over the file.
func NewViper(pathFile string) (*Viper, error) {
	v := viper.New()

	filename := path.Base(pathFile)
	filePath := path.Dir(pathFile)

	configName := path.Base(filename[:len(filename)-len(path.Ext(filename))])

	v.AddConfigPath(filePath)
	v.SetConfigName(configName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.WatchConfig()

	return &Viper{v: v}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "somegram")
	v.SetDefault("app.env", "development")
	v.SetDefault("server.address.http", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("instrument.enabled", true)
	v.SetDefault("instrument.level", "debug")
	v.SetDefault("instrument.sink", "slog")
	v.SetDefault("goroutine.max", 100)
	v.SetDefault("shutdown.timeout", "10s")
	v.SetDefault("modules.payment.enabled", true)
	v.SetDefault("modules.payment.event_buffer", 512)
	v.SetDefault("modules.payment.event_workers", 4)
}

// GetInt returns the value for key as int64.
func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetDuration returns the value for key parsed as a time.Duration ("10s").
func (vc *Viper) GetDuration(key string) time.Duration {
	return vc.v.GetDuration(key)
}

// GetArray returns the value for key as a list.
//
// YAML sequences are returned as is; scalar values are split by commas.
// Blank items are dropped.
func (vc *Viper) GetArray(key string) []string {
	var items []string
	if _, ok := vc.v.Get(key).([]any); ok {
		items = vc.v.GetStringSlice(key)
	} else {
		items = strings.Split(vc.v.GetString(key), ",")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	// No resources to close for ViperConfig; this is just for interface completeness.
	return nil
}
