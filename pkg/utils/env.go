package utils

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env and, when env is set, .env.<env> on top of it.
// Variables already present in the process environment win.
func LoadEnv(env string) error {
	files := []string{".env"}
	if env != "" {
		files = append([]string{".env." + env}, files...)
	}

	var loaded int
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		loaded++
	}
	if loaded == 0 {
		return fs.ErrNotExist
	}
	return nil
}

// GetEnv returns the trimmed value of key
func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// GetIntEnv returns 0 when key is unset or not an integer
func GetIntEnv(key string) int64 {
	v, err := strconv.ParseInt(GetEnv(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// GetBoolEnv accepts 1/t/true/yes/on (case-insensitive)
func GetBoolEnv(key string) bool {
	switch strings.ToLower(GetEnv(key)) {
	case "1", "t", "true", "yes", "y", "on":
		return true
	}
	return false
}

// GetDurationEnv parses a Go duration ("30s"). A bare integer is read as seconds.
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
