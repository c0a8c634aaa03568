package twitter

import (
	"fmt"
	"net/url"
	"strings"

	"list-sync/core/credentials"

	"github.com/dghubble/oauth1"
)

// PINFlow mints a user access token through the out-of-band (PIN) flow.
type PINFlow struct {
	config        *oauth1.Config
	requestToken  string
	requestSecret string
}

// NewPINFlow prepares a PIN flow for the app identified by creds.
func NewPINFlow(cfg Config, creds *credentials.Credentials) (*PINFlow, error) {
	if err := creds.ValidateConsumer(); err != nil {
		return nil, err
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	return &PINFlow{
		config: &oauth1.Config{
			ConsumerKey:    creds.APIKey,
			ConsumerSecret: creds.APISecretKey,
			CallbackURL:    "oob",
			Endpoint: oauth1.Endpoint{
				RequestTokenURL: base + "/oauth/request_token",
				AuthorizeURL:    base + "/oauth/authorize",
				AccessTokenURL:  base + "/oauth/access_token",
			},
		},
	}, nil
}

// Start obtains a request token and returns the URL the user must visit.
func (f *PINFlow) Start() (*url.URL, error) {
	token, secret, err := f.config.RequestToken()
	if err != nil {
		return nil, fmt.Errorf("failed to get request token: %w", err)
	}
	f.requestToken, f.requestSecret = token, secret

	authURL, err := f.config.AuthorizationURL(token)
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization url: %w", err)
	}
	return authURL, nil
}

// Complete exchanges the PIN shown to the user for an access token pair.
func (f *PINFlow) Complete(verifier string) (token, secret string, err error) {
	if f.requestToken == "" {
		return "", "", fmt.Errorf("pin flow not started")
	}

	token, secret, err = f.config.AccessToken(f.requestToken, f.requestSecret, strings.TrimSpace(verifier))
	if err != nil {
		return "", "", fmt.Errorf("failed to get access token: %w", err)
	}
	return token, secret, nil
}
