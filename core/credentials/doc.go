// Package credentials loads the API keys file passed on the command line.
//
// The file holds the consumer keys of the registered app and the user access
// token pair minted by the `auth` command. JSON is the default format; TOML
// and YAML files are recognised by extension.
package credentials
