package cmd

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"

	"list-sync/core/config"
	"list-sync/core/credentials"
	"list-sync/core/twitter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var authSave bool

// authCmd mints user access tokens through the PIN flow.
var authCmd = &cobra.Command{
	Use:   "auth [credentials-file]",
	Short: "Obtain user access tokens with the PIN flow",
	Long: `Obtain oauth_key and oauth_secret for the app keys in the credentials file.

Open the printed URL, authorize the app and paste the PIN shown.
With --save the tokens are written back to the credentials file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuth,
}

func init() {
	authCmd.Flags().BoolVar(&authSave, "save", false, "Write the tokens back to the credentials file")

	RootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	return runLogged("auth", func(cfg *config.Config, l *zap.Logger) error {
		return authenticate(cmd, args, cfg, l)
	})
}

func authenticate(cmd *cobra.Command, args []string, cfg *config.Config, l *zap.Logger) error {
	path := credentialsPath(cfg, args)
	creds, err := credentials.Load(path)
	if err != nil {
		return err
	}

	flow, err := twitter.NewPINFlow(cfg.Twitter, creds)
	if err != nil {
		return err
	}

	token, secret, err := authorize(flow, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if !authSave {
		fmt.Fprintf(cmd.OutOrStdout(), "oauth_key:    %s\n", token)
		fmt.Fprintf(cmd.OutOrStdout(), "oauth_secret: %s\n", secret)
		return nil
	}

	creds.OAuthKey, creds.OAuthSecret = token, secret
	if err := creds.Save(path); err != nil {
		return err
	}
	l.Info("Saved access tokens", zap.String("file", path))
	return nil
}

// authorizer is the part of the PIN flow the prompt drives.
type authorizer interface {
	Start() (*url.URL, error)
	Complete(verifier string) (token, secret string, err error)
}

// authorize prints the authorization URL and exchanges the PIN read from in.
func authorize(flow authorizer, in io.Reader, out io.Writer) (string, string, error) {
	authURL, err := flow.Start()
	if err != nil {
		return "", "", err
	}

	headerColor.Fprintln(out, "Open this URL and authorize the app:")
	fmt.Fprintf(out, "  %s\n", authURL)
	fmt.Fprint(out, "PIN: ")

	pin, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", "", fmt.Errorf("failed to read pin: %w", err)
	}
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return "", "", fmt.Errorf("no pin entered")
	}

	return flow.Complete(pin)
}
