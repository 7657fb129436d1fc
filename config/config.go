package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every knob the application resolves once at startup. It is
// never mutated after Load returns; components receive it explicitly instead
// of reaching for package globals.
type Config struct {
	AppName      string `mapstructure:"app_name"`
	WindowWidth  int32  `mapstructure:"window_width"`
	WindowHeight int32  `mapstructure:"window_height"`

	EnableValidation bool     `mapstructure:"enable_validation"`
	ValidationLayers []string `mapstructure:"validation_layers"`
	DeviceExtensions []string `mapstructure:"device_extensions"`

	FramesInFlight int    `mapstructure:"frames_in_flight"`
	ShaderDir      string `mapstructure:"shader_dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "Vulkan Triangle")
	v.SetDefault("window_width", 800)
	v.SetDefault("window_height", 600)
	v.SetDefault("enable_validation", true)
	v.SetDefault("validation_layers", []string{"VK_LAYER_KHRONOS_validation"})
	v.SetDefault("device_extensions", []string{"VK_KHR_swapchain"})
	v.SetDefault("frames_in_flight", 2)
	v.SetDefault("shader_dir", "shaders_spv")
}

// Load resolves the process configuration from defaults, an optional TOML
// file and VKTRI_* environment variables, in increasing order of precedence.
// An empty path makes Load look for 'config.toml' in the working directory;
// a missing file is not an error, every other read failure is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("VKTRI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Printf("Loaded configuration from %s", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window extent must be positive, got %dx%d", c.WindowWidth, c.WindowHeight)
	}
	if c.FramesInFlight < 1 {
		return fmt.Errorf("frames_in_flight must be at least 1, got %d", c.FramesInFlight)
	}
	if c.AppName == "" {
		return errors.New("app_name must not be empty")
	}
	return nil
}
