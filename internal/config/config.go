package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"thirdcoast.systems/codecfit/pkg/negotiate"
)

type Config struct {
	// Service configuration
	ListenPort int `mapstructure:"CAPD_PORT"`

	// Optional hardware codec gate: when set, negotiation endpoints report
	// the codec as unavailable unless a platform codec name contains this
	// substring.
	GateCodec string `mapstructure:"CAPD_GATE_CODEC"`

	// Capability profile used when a request supplies no caps of its own.
	WidthMin        int     `mapstructure:"CAP_WIDTH_MIN" validate:"gt=0"`
	WidthMax        int     `mapstructure:"CAP_WIDTH_MAX" validate:"gtefield=WidthMin"`
	WidthAlignment  int     `mapstructure:"CAP_WIDTH_ALIGNMENT" validate:"gt=0"`
	HeightMin       int     `mapstructure:"CAP_HEIGHT_MIN" validate:"gt=0"`
	HeightMax       int     `mapstructure:"CAP_HEIGHT_MAX" validate:"gtefield=HeightMin"`
	HeightAlignment int     `mapstructure:"CAP_HEIGHT_ALIGNMENT" validate:"gt=0"`
	FrameRateMin    float64 `mapstructure:"CAP_FPS_MIN" validate:"gt=0"`
	FrameRateMax    float64 `mapstructure:"CAP_FPS_MAX" validate:"gtefield=FrameRateMin"`
	BitrateMin      int     `mapstructure:"CAP_BITRATE_MIN" validate:"gt=0"`
	BitrateMax      int     `mapstructure:"CAP_BITRATE_MAX" validate:"gtefield=BitrateMin"`
}

// Caps assembles the configured capability profile.
func (c *Config) Caps() negotiate.Caps {
	return negotiate.Caps{
		Width:     negotiate.Range{Lower: c.WidthMin, Upper: c.WidthMax, Alignment: c.WidthAlignment},
		Height:    negotiate.Range{Lower: c.HeightMin, Upper: c.HeightMax, Alignment: c.HeightAlignment},
		FrameRate: negotiate.FrameRateRange{Lower: c.FrameRateMin, Upper: c.FrameRateMax},
		Bitrate:   negotiate.Range{Lower: c.BitrateMin, Upper: c.BitrateMax, Alignment: 1},
	}
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag != "" {
			viper.BindEnv(tag)
		}
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults mirror a common hardware AVC encoder profile.
	viper.SetDefault("CAPD_PORT", 8080)
	viper.SetDefault("CAP_WIDTH_MIN", 64)
	viper.SetDefault("CAP_WIDTH_MAX", 4096)
	viper.SetDefault("CAP_WIDTH_ALIGNMENT", 16)
	viper.SetDefault("CAP_HEIGHT_MIN", 64)
	viper.SetDefault("CAP_HEIGHT_MAX", 4096)
	viper.SetDefault("CAP_HEIGHT_ALIGNMENT", 16)
	viper.SetDefault("CAP_FPS_MIN", 1.0)
	viper.SetDefault("CAP_FPS_MAX", 120.0)
	viper.SetDefault("CAP_BITRATE_MIN", 100_000)
	viper.SetDefault("CAP_BITRATE_MAX", 40_000_000)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	slog.Info("Loaded configuration", "config", cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
