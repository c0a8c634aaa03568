package twitter

// Config holds configuration for the API client.
type Config struct {
	// BaseURL is the API root, without trailing slash.
	BaseURL string `mapstructure:"base_url" default:"https://api.twitter.com"`
	// CredentialsFile is the keys file used when none is given on the command line.
	CredentialsFile string `mapstructure:"credentials_file" default:"twitter_keys.json"`
	// TimeoutSeconds bounds a single HTTP exchange.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
