package backend

import (
	"os"
	"strconv"
)

// EnvPrefix is the prefix of the environment variables read by [LoadFromEnv].
const EnvPrefix = "POULPY_"

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvFloat64 returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as float64, or the default value if not set
// or invalid.
func getEnvFloat64(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// LoadFromEnv returns cfg overridden by POULPY_BACKEND, POULPY_KERNELS and
// POULPY_FFT_TOLERANCE when they are set.
func LoadFromEnv(cfg Config) Config {
	cfg.Kind = Kind(getEnvString("BACKEND", string(cfg.Kind)))
	cfg.Kernels = KernelSet(getEnvString("KERNELS", string(cfg.Kernels)))
	cfg.FFTTolerance = getEnvFloat64("FFT_TOLERANCE", cfg.FFTTolerance)
	return cfg
}
