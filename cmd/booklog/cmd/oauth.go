package cmd

import (
	"errors"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"booklog/internal/books/google"
)

var oauthPort string

var oauthCmd = &cobra.Command{
	Use:   "oauth-init",
	Short: "Authorize Google Sheets access with a user account",
	Long: `Run the OAuth consent flow for the sheets backend and save the token to
GOOGLE_OAUTH_TOKEN_FILE (default token.json).

The OAuth client comes from GOOGLE_OAUTH_CLIENT_JSON or
GOOGLE_OAUTH_CLIENT_FILE and must allow the redirect URI
http://localhost:{port}/callback.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		clientJSON := []byte(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
		if len(clientJSON) == 0 {
			if cfg.GoogleOAuthClientFile == "" {
				return errors.New("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
			}
			b, err := os.ReadFile(cfg.GoogleOAuthClientFile)
			if err != nil {
				return err
			}
			clientJSON = b
		}

		tokenFile := cfg.GoogleOAuthTokenFile
		if tokenFile == "" {
			tokenFile = "token.json"
		}
		return google.Authorize(cmd.Context(), google.AuthorizeOptions{
			ClientJSON:   clientJSON,
			TokenFile:    tokenFile,
			RedirectPort: oauthPort,
			OpenURL:      browser.OpenURL,
			Out:          cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(oauthCmd)
	oauthCmd.Flags().StringVar(&oauthPort, "port", "8085", "local port for the OAuth redirect")
}
