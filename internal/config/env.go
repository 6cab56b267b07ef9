// Package config provides configuration helpers for go-repcoach commands.
package config

import "os"

// Default service endpoints.
const (
	DefaultBackendURL    = "http://localhost:8080"
	DefaultEngineURL     = "ws://localhost:8765/landmarks"
	DefaultDashboardPort = "3000"
)

// BackendURL returns the analysis backend URL from BACKEND_URL.
// Falls back to the provided default if not set.
func BackendURL(defaultURL string) string {
	if url := os.Getenv("BACKEND_URL"); url != "" {
		return url
	}
	return defaultURL
}

// EngineURL returns the pose engine feed URL from ENGINE_URL.
// Falls back to the provided default if not set.
func EngineURL(defaultURL string) string {
	if url := os.Getenv("ENGINE_URL"); url != "" {
		return url
	}
	return defaultURL
}

// DashboardPort returns the dashboard port from DASHBOARD_PORT or default.
func DashboardPort() string {
	if port := os.Getenv("DASHBOARD_PORT"); port != "" {
		return port
	}
	return DefaultDashboardPort
}

// RedirectURL returns the inactivity redirect target from REDIRECT_URL.
// Empty means no navigation target: the session still ends, the
// dashboard just stays on the final overlay.
func RedirectURL() string {
	return os.Getenv("REDIRECT_URL")
}
