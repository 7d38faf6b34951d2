package driveapp

import (
	"os"
	"strings"
)

// Config carries the external identifiers the Google integrations need.
// These credentials should be for a "Desktop app" OAuth 2.0 client ID.
type Config struct {
	// ClientID is the OAuth 2.0 client identifier (GOOGLE_CLIENT_ID).
	ClientID string
	// ClientSecret is optional for desktop clients (GOOGLE_CLIENT_SECRET).
	ClientSecret string
	// APIKey is the developer key used by the file picker (GOOGLE_API_KEY).
	APIKey string
}

// ConfigFromEnv reads the configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		APIKey:       os.Getenv("GOOGLE_API_KEY"),
	}
}

// Validate checks the required identifiers for presence and placeholder
// shape. It returns a list of human-readable problems; an empty list means
// the configuration is usable. Validation never reaches the network.
func (c Config) Validate() []string {
	var problems []string

	if c.ClientID == "" {
		problems = append(problems, "Missing Google Client ID (GOOGLE_CLIENT_ID)")
	} else if looksLikePlaceholder(c.ClientID, "your-client-id") {
		problems = append(problems, "Google Client ID appears to be invalid or a placeholder")
	}

	if c.APIKey == "" {
		problems = append(problems, "Missing Google API Key (GOOGLE_API_KEY)")
	} else if looksLikePlaceholder(c.APIKey, "your-api-key") {
		problems = append(problems, "Google API Key appears to be invalid or a placeholder")
	}

	return problems
}

func looksLikePlaceholder(value, marker string) bool {
	return len(value) < 20 || strings.Contains(strings.ToLower(value), marker)
}
