package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gsheet "google.golang.org/api/sheets/v4"
)

// AuthorizeOptions configures the one-off OAuth consent flow.
type AuthorizeOptions struct {
	ClientJSON []byte
	TokenFile  string
	// RedirectPort must be registered as http://localhost:{port}/callback on
	// the OAuth client.
	RedirectPort string
	Timeout      time.Duration
	// OpenURL shows the consent page; the URL is always printed to Out too.
	OpenURL func(url string) error
	Out     io.Writer
}

// oauthConfig parses an OAuth client file for read-only Sheets access.
func oauthConfig(clientJSON []byte) (*oauth2.Config, error) {
	cfg, err := googleoauth.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	return cfg, nil
}

func oauthTokenSource(ctx context.Context, clientFile, tokenFile string) (oauth2.TokenSource, error) {
	clientJSON, err := os.ReadFile(clientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client file: %w", err)
	}
	cfg, err := oauthConfig(clientJSON)
	if err != nil {
		return nil, err
	}
	tok, err := readToken(tokenFile)
	if err != nil {
		return nil, err
	}
	return cfg.TokenSource(ctx, tok), nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	return &tok, nil
}

func writeToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Authorize runs the OAuth consent flow on a local callback server and
// saves the resulting token to opts.TokenFile.
func Authorize(ctx context.Context, opts AuthorizeOptions) error {
	cfg, err := oauthConfig(opts.ClientJSON)
	if err != nil {
		return err
	}
	if opts.RedirectPort == "" {
		opts.RedirectPort = "8085"
	}
	if opts.TokenFile == "" {
		opts.TokenFile = "token.json"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	cfg.RedirectURL = "http://localhost:" + opts.RedirectPort + "/callback"

	ln, err := net.Listen("tcp", "localhost:"+opts.RedirectPort)
	if err != nil {
		return fmt.Errorf("listen for oauth callback: %w", err)
	}

	type result struct {
		code string
		err  error
	}
	resCh := make(chan result, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "OAuth error: "+errStr, http.StatusBadRequest)
			select {
			case resCh <- result{err: fmt.Errorf("oauth error: %s", errStr)}:
			default:
			}
			return
		}
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		select {
		case resCh <- result{code: r.URL.Query().Get("code")}:
		default:
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(opts.Out, "Open this URL to authorize:\n%s\n", url)
	if opts.OpenURL != nil {
		_ = opts.OpenURL(url)
	}

	select {
	case res := <-resCh:
		if res.err != nil {
			return res.err
		}
		if res.code == "" {
			return errors.New("oauth callback without code")
		}
		tok, err := cfg.Exchange(ctx, res.code)
		if err != nil {
			return fmt.Errorf("token exchange: %w", err)
		}
		if err := writeToken(opts.TokenFile, tok); err != nil {
			return err
		}
		fmt.Fprintf(opts.Out, "Saved token to %s\n", opts.TokenFile)
		return nil
	case <-time.After(opts.Timeout):
		return errors.New("authorization timed out")
	case <-ctx.Done():
		return ctx.Err()
	}
}
