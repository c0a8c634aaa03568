package credentials_test

import (
	"os"
	"path/filepath"
	"testing"

	"list-sync/core/credentials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "JSON",
			file:    "twitter_keys.json",
			content: `{"api_key":"ck","api_secret_key":"cs","oauth_key":"tk","oauth_secret":"ts"}`,
		},
		{
			name: "TOML",
			file: "twitter_keys.toml",
			content: `api_key = "ck"
api_secret_key = "cs"
oauth_key = "tk"
oauth_secret = "ts"
`,
		},
		{
			name: "YAML",
			file: "twitter_keys.yml",
			content: `api_key: ck
api_secret_key: cs
oauth_key: tk
oauth_secret: ts
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := credentials.Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, &credentials.Credentials{
				APIKey:       "ck",
				APISecretKey: "cs",
				OAuthKey:     "tk",
				OAuthSecret:  "ts",
			}, creds)
			assert.NoError(t, creds.Validate())
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := credentials.Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := credentials.Load(writeFile(t, "keys.json", `{"api_key":`))
		assert.ErrorContains(t, err, "failed to parse credentials file")
	})
}

func TestValidate(t *testing.T) {
	creds := &credentials.Credentials{APIKey: "ck", APISecretKey: "cs"}

	assert.NoError(t, creds.ValidateConsumer())

	err := creds.Validate()
	assert.ErrorIs(t, err, credentials.ErrIncomplete)
	assert.ErrorContains(t, err, "oauth_key, oauth_secret")

	err = (&credentials.Credentials{}).ValidateConsumer()
	assert.ErrorIs(t, err, credentials.ErrIncomplete)
	assert.ErrorContains(t, err, "api_key, api_secret_key")
}

func TestSave_RoundTrip(t *testing.T) {
	creds := &credentials.Credentials{APIKey: "ck", APISecretKey: "cs", OAuthKey: "tk", OAuthSecret: "ts"}

	for _, name := range []string{"keys.json", "keys.toml", "keys.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, creds.Save(path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

			loaded, err := credentials.Load(path)
			require.NoError(t, err)
			assert.Equal(t, creds, loaded)
		})
	}
}

func TestSave_KeepsUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"JSON", "keys.json", `{"api_key":"ck","api_secret_key":"cs","bearer_token":"KEEP"}`},
		{"TOML", "keys.toml", "api_key = \"ck\"\napi_secret_key = \"cs\"\nbearer_token = \"KEEP\"\n"},
		{"YAML", "keys.yaml", "api_key: ck\napi_secret_key: cs\nbearer_token: KEEP\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			creds, err := credentials.Load(path)
			require.NoError(t, err)
			creds.OAuthKey, creds.OAuthSecret = "tk", "ts"
			require.NoError(t, creds.Save(path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "bearer_token")
			assert.Contains(t, string(data), "KEEP")

			loaded, err := credentials.Load(path)
			require.NoError(t, err)
			assert.Equal(t, &credentials.Credentials{APIKey: "ck", APISecretKey: "cs", OAuthKey: "tk", OAuthSecret: "ts"}, loaded)
		})
	}
}

func TestSave_InvalidExistingFile(t *testing.T) {
	path := writeFile(t, "keys.json", "{not json")

	err := (&credentials.Credentials{APIKey: "ck"}).Save(path)
	assert.ErrorContains(t, err, "failed to parse credentials file")
}
