package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOAuthClient() *OAuthClientConfig {
	return &OAuthClientConfig{
		Installed: OAuthInstalled{
			ClientID:                "allocator.apps.googleusercontent.com",
			ProjectID:               "project-allocator",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}
}

func TestValidateOAuthClient(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*OAuthInstalled)
		wantErr bool
	}{
		{"valid", func(*OAuthInstalled) {}, false},
		{"missing client id", func(o *OAuthInstalled) { o.ClientID = "" }, true},
		{"missing secret", func(o *OAuthInstalled) { o.ClientSecret = "" }, true},
		{"invalid auth uri", func(o *OAuthInstalled) { o.AuthURI = "not-a-valid-url" }, true},
		{"no redirect uris", func(o *OAuthInstalled) { o.RedirectURIs = []string{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validOAuthClient()
			tt.mutate(&cfg.Installed)

			err := ValidateOAuthClient(cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "oauth client validation failed")
		})
	}
}

func TestLoadOAuthClientFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "oauthClient.json")

	content := `{
  "installed": {
    "client_id": "allocator.apps.googleusercontent.com",
    "project_id": "project-allocator",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "secret",
    "redirect_uris": ["http://localhost"]
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadOAuthClientFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "project-allocator", cfg.Installed.ProjectID)
	assert.Equal(t, []string{"http://localhost"}, cfg.Installed.RedirectURIs)
}

func TestLoadOAuthClientFromPath_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "oauthClient.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"installed": `), 0600))

	_, err := LoadOAuthClientFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse oauth client file")
}

func TestLoadOAuthClientWithEnv_NotFound(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := LoadOAuthClientWithEnv("dev")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "oauthClient.dev.json not found")
}
