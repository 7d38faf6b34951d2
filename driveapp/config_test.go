package driveapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		ClientID: "999716078375-50cl3182oudsaom3sfhogg0k57m714c5.apps.googleusercontent.com",
		APIKey:   "AIzaSyA0000000000000000000000000000000",
	}
	assert.Empty(t, valid.Validate())

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			"everything missing",
			Config{},
			[]string{
				"Missing Google Client ID (GOOGLE_CLIENT_ID)",
				"Missing Google API Key (GOOGLE_API_KEY)",
			},
		},
		{
			"placeholder client id",
			Config{ClientID: "your-client-id.apps.googleusercontent.com", APIKey: valid.APIKey},
			[]string{"Google Client ID appears to be invalid or a placeholder"},
		},
		{
			"short api key",
			Config{ClientID: valid.ClientID, APIKey: "abc123"},
			[]string{"Google API Key appears to be invalid or a placeholder"},
		},
		{
			"placeholder api key",
			Config{ClientID: valid.ClientID, APIKey: "insert-YOUR-API-KEY-here-please"},
			[]string{"Google API Key appears to be invalid or a placeholder"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Validate())
		})
	}
}
