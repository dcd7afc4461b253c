package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ClientConfig drives the crmctl shell.
type ClientConfig struct {
	APIURL       string
	DemoMode     bool
	SessionFile  string
	SessionRedis string
	Verbose      bool
}

func LoadClient() ClientConfig {
	return ClientConfig{
		APIURL:       strings.TrimRight(getEnv("CRM_API_URL", "http://127.0.0.1:8000/api"), "/"),
		DemoMode:     getEnvBool("CRM_DEMO_MODE", false),
		SessionFile:  getEnv("CRM_SESSION_FILE", defaultSessionFile()),
		SessionRedis: getEnv("CRM_SESSION_REDIS", ""),
		Verbose:      getEnvBool("CRM_VERBOSE", false),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".salescrm-session.json"
	}
	return filepath.Join(dir, "salescrm", "session.json")
}
