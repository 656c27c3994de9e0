package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvDB       = "CONNECT4_DB"
	EnvConfig   = "CONNECT4_CONFIG"
	EnvLogLevel = "CONNECT4_LOG_LEVEL"
	EnvSSHAddr  = "CONNECT4_SSH_ADDR"
	EnvWSAddr   = "CONNECT4_WS_ADDR"
)

// Env holds settings taken from the process environment. Empty fields were
// not set.
type Env struct {
	DBPath     string
	ConfigPath string
	LogLevel   string
	SSHAddr    string
	WSAddr     string
}

// LoadEnv loads the given .env files (".env" when none are named) into the
// process environment without overriding variables that are already set,
// then reads the CONNECT4_* variables. Missing files are not an error.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, err
		}
	}
	return Env{
		DBPath:     os.Getenv(EnvDB),
		ConfigPath: os.Getenv(EnvConfig),
		LogLevel:   os.Getenv(EnvLogLevel),
		SSHAddr:    os.Getenv(EnvSSHAddr),
		WSAddr:     os.Getenv(EnvWSAddr),
	}, nil
}

// Or returns v, or fallback when v is empty.
func Or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
