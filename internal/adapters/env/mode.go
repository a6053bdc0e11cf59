package env

import "os"

const (
	DevVar    = "MFESHELL_DEV"
	AddrVar   = "MFESHELL_ADDR"
	ConfigVar = "MFESHELL_CONFIG"
)

func DevMode() bool {
	return os.Getenv(DevVar) == "1"
}

func Addr() string {
	return os.Getenv(AddrVar)
}

// ConfigPath returns the config file named by the environment, or fallback.
func ConfigPath(fallback string) string {
	if p := os.Getenv(ConfigVar); p != "" {
		return p
	}
	return fallback
}
