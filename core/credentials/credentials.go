package credentials

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrIncomplete is returned when a required key is missing from the file.
var ErrIncomplete = errors.New("incomplete credentials")

// Credentials holds the OAuth 1.0a keys for the API.
type Credentials struct {
	// APIKey is the consumer key of the registered app.
	APIKey string `json:"api_key" toml:"api_key" yaml:"api_key"`
	// APISecretKey is the consumer secret of the registered app.
	APISecretKey string `json:"api_secret_key" toml:"api_secret_key" yaml:"api_secret_key"`
	// OAuthKey is the user access token.
	OAuthKey string `json:"oauth_key" toml:"oauth_key" yaml:"oauth_key"`
	// OAuthSecret is the user access token secret.
	OAuthSecret string `json:"oauth_secret" toml:"oauth_secret" yaml:"oauth_secret"`
}

// Load reads credentials from path. The format is picked from the extension:
// .toml, .yaml and .yml are decoded accordingly, anything else as JSON.
func Load(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	var creds Credentials
	if err := decode(strings.ToLower(filepath.Ext(path)), data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	return &creds, nil
}

// Save writes the credentials to path in the format picked by its extension.
// Keys already in the file that Credentials does not know about are kept.
// A new file is created with owner-only permissions.
func (c *Credentials) Save(path string) error {
	ext := strings.ToLower(filepath.Ext(path))

	fields := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(ext, data, &fields); err != nil {
			return fmt.Errorf("failed to parse credentials file %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}

	fields["api_key"] = c.APIKey
	fields["api_secret_key"] = c.APISecretKey
	fields["oauth_key"] = c.OAuthKey
	fields["oauth_secret"] = c.OAuthSecret

	switch ext {
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(fields)
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(fields)
	default:
		data, err = json.MarshalIndent(fields, "", "    ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file %s: %w", path, err)
	}
	return nil
}

func decode(ext string, data []byte, v any) error {
	switch ext {
	case ".toml":
		return toml.Unmarshal(data, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// ValidateConsumer checks the app keys needed to start the PIN flow.
func (c *Credentials) ValidateConsumer() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if c.APISecretKey == "" {
		missing = append(missing, "api_secret_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks that both app and user keys are present.
func (c *Credentials) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if c.APISecretKey == "" {
		missing = append(missing, "api_secret_key")
	}
	if c.OAuthKey == "" {
		missing = append(missing, "oauth_key")
	}
	if c.OAuthSecret == "" {
		missing = append(missing, "oauth_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}
