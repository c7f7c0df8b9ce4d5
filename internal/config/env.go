package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SITECTL_ALERT_THRESHOLD.
const EnvPrefix = "SITECTL"

// Keys that may be overridden from the environment or bound flags.
const (
	KeyDataset        = "sitectl.dataset"
	KeyThreshold      = "alert.threshold"
	KeyWeighted       = "aggregation.weighted"
	KeyCriticalMargin = "schedule.critical_margin"
	KeyElapsedDays    = "schedule.elapsed_days"
	KeyPlannedDays    = "schedule.planned_days"
	KeyServerAddr     = "server.addr"
	KeyMaxUpload      = "server.max_upload_bytes"
	KeyMaxReports     = "server.max_reports"
	KeyLogLevel       = "log.level"
	KeyLogDev         = "log.development"
)

// NewViper returns a viper instance reading SITECTL_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only answers keys viper already knows about.
	for _, key := range []string{
		KeyDataset, KeyThreshold, KeyWeighted, KeyCriticalMargin,
		KeyElapsedDays, KeyPlannedDays, KeyServerAddr, KeyMaxUpload,
		KeyMaxReports, KeyLogLevel, KeyLogDev,
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// ApplyOverrides copies every key set in v (environment or bound flag)
// onto cfg, then validates the result. A value that does not parse is an
// error naming its key.
func ApplyOverrides(cfg *Config, v *viper.Viper) error {
	if v == nil {
		return cfg.Validate()
	}

	o := overlay{v: v}
	o.setString(KeyDataset, &cfg.Sitectl.Dataset)
	o.setFloat(KeyThreshold, &cfg.Alert.Threshold)
	o.setBool(KeyWeighted, &cfg.Aggregation.Weighted)
	o.setFloat(KeyCriticalMargin, &cfg.Schedule.CriticalMargin)
	o.setFloat(KeyElapsedDays, &cfg.Schedule.ElapsedDays)
	o.setFloat(KeyPlannedDays, &cfg.Schedule.PlannedDays)
	o.setString(KeyServerAddr, &cfg.Server.Addr)
	o.setInt64(KeyMaxUpload, &cfg.Server.MaxUploadBytes)
	o.setInt(KeyMaxReports, &cfg.Server.MaxReports)
	o.setString(KeyLogLevel, &cfg.Log.Level)
	o.setBool(KeyLogDev, &cfg.Log.Development)

	if o.err != nil {
		return o.err
	}
	return cfg.Validate()
}

// overlay copies set keys and keeps the first conversion error.
type overlay struct {
	v   *viper.Viper
	err error
}

func (o *overlay) raw(key string) (any, bool) {
	if o.err != nil || !o.v.IsSet(key) {
		return nil, false
	}
	return o.v.Get(key), true
}

func (o *overlay) fail(key string, value any, err error) {
	o.err = fmt.Errorf("invalid value %q for %s (%s_%s): %w",
		cast.ToString(value), key, EnvPrefix, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), err)
}

func (o *overlay) setString(key string, dst *string) {
	if value, ok := o.raw(key); ok {
		*dst = cast.ToString(value)
	}
}

func (o *overlay) setFloat(key string, dst *float64) {
	if value, ok := o.raw(key); ok {
		f, err := cast.ToFloat64E(value)
		if err != nil {
			o.fail(key, value, err)
			return
		}
		*dst = f
	}
}

func (o *overlay) setBool(key string, dst *bool) {
	if value, ok := o.raw(key); ok {
		b, err := cast.ToBoolE(value)
		if err != nil {
			o.fail(key, value, err)
			return
		}
		*dst = b
	}
}

func (o *overlay) setInt64(key string, dst *int64) {
	if value, ok := o.raw(key); ok {
		n, err := cast.ToInt64E(value)
		if err != nil {
			o.fail(key, value, err)
			return
		}
		*dst = n
	}
}

func (o *overlay) setInt(key string, dst *int) {
	if value, ok := o.raw(key); ok {
		n, err := cast.ToIntE(value)
		if err != nil {
			o.fail(key, value, err)
			return
		}
		*dst = n
	}
}
