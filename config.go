package evds

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	cfgMu     sync.Mutex
	cfgLoaded = false
	cfg       KernelConfig
)

// KernelConfig holds the ambient settings read from the file named by
// $EVDS_CONFIG, mirroring the teacher's single viper-backed, load-once
// configuration but scoped to this kernel's own concerns instead of
// SPICE/ephemeris paths.
type KernelConfig struct {
	// MeshTolerance is the tolerance setting for mesh-derived mass
	// properties. Nothing in this package reads it: deriveMassProperties
	// uses a solid-sphere default and does not consult a Mesher.
	MeshTolerance float64
	// CleanupInterval is how often a driver should call
	// System.CleanupObjects.
	CleanupInterval time.Duration
	// DefaultGravityModel names the GravityModel a fresh EnvironmentField
	// should use when a driver does not override it explicitly.
	DefaultGravityModel string
	// LogLevel is the minimum level the system logger emits, one of
	// "debug", "info", "warn", "error".
	LogLevel string
}

func (c KernelConfig) String() string {
	return fmt.Sprintf("[evds:config] mesh_tolerance=%v cleanup_interval=%s gravity_model=%s log_level=%s",
		c.MeshTolerance, c.CleanupInterval, c.DefaultGravityModel, c.LogLevel)
}

func defaultKernelConfig() KernelConfig {
	return KernelConfig{
		MeshTolerance:       1e-6,
		CleanupInterval:     time.Second,
		DefaultGravityModel: "spherical_j2",
		LogLevel:            "info",
	}
}

// LoadConfig reads and caches the kernel configuration from the directory
// named by $EVDS_CONFIG (a "conf.toml"/"conf.yaml"/etc. viper can find),
// exactly once; subsequent calls return the cached value, ported from the
// teacher's smdConfig() singleton pattern.
func LoadConfig() (KernelConfig, error) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	if cfgLoaded {
		return cfg, nil
	}

	confPath := os.Getenv("EVDS_CONFIG")
	if confPath == "" {
		cfg = defaultKernelConfig()
		cfgLoaded = true
		return cfg, nil
	}

	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		return KernelConfig{}, Wrap(File, fmt.Sprintf("reading config from %s", confPath), err)
	}

	c := defaultKernelConfig()
	if viper.IsSet("kernel.mesh_tolerance") {
		c.MeshTolerance = viper.GetFloat64("kernel.mesh_tolerance")
	}
	if viper.IsSet("kernel.cleanup_interval") {
		c.CleanupInterval = viper.GetDuration("kernel.cleanup_interval")
	}
	if viper.IsSet("kernel.default_gravity_model") {
		c.DefaultGravityModel = viper.GetString("kernel.default_gravity_model")
	}
	if viper.IsSet("kernel.log_level") {
		c.LogLevel = viper.GetString("kernel.log_level")
	}

	cfg = c
	cfgLoaded = true
	return cfg, nil
}

// ResetConfigForTesting clears the cached configuration so tests can
// exercise LoadConfig under different $EVDS_CONFIG values.
func ResetConfigForTesting() {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfgLoaded = false
}
