package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultAuthTimeout bounds how long the consent flow waits for the browser redirect.
const DefaultAuthTimeout = 5 * time.Minute

// OAuth2Config describes an installed-app OAuth2 client for the Sheets scope.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string        // token cache; empty disables it
	ListenAddr   string        // callback server address, ":8080" when empty
	Timeout      time.Duration // DefaultAuthTimeout when zero
}

func (c OAuth2Config) listenAddr() string {
	if c.ListenAddr == "" {
		return ":8080"
	}
	return c.ListenAddr
}

func (c OAuth2Config) oauth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://localhost" + c.listenAddr() + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

var callbackPage = template.Must(template.New("callback").Parse(`<html><body>
<h1>{{.Title}}</h1>
<p>{{.Detail}}</p>
<script>window.setTimeout(function(){window.close();}, 3000);</script>
</body></html>`))

// callbackHandler accepts exactly one redirect carrying the expected state and
// delivers its code, or the failure, to the channels.
func callbackHandler(state string, codes chan<- string, errs chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		var err error
		switch {
		case query.Get("error") != "":
			err = fmt.Errorf("authorization denied: %s", query.Get("error"))
		case query.Get("state") != state:
			err = errors.New("state mismatch in oauth callback")
		case query.Get("code") == "":
			err = errors.New("no authorization code received")
		}

		page := struct{ Title, Detail string }{"Authentication successful", "You can close this window and return to the terminal."}
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			page.Title, page.Detail = "Authentication failed", err.Error()
			select {
			case errs <- err:
			default:
			}
		} else {
			select {
			case codes <- query.Get("code"):
			default:
			}
		}
		_ = callbackPage.Execute(w, page)
	})
}

// AuthenticateOAuth2Interactive runs the consent flow: it logs the consent URL,
// waits on a local callback server for the redirect and exchanges the code.
// The token is written to TokenFile when one is configured.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	oauthConfig := config.oauth()
	state := uuid.NewString()

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultAuthTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	listener, err := net.Listen("tcp", config.listenAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	codes := make(chan string, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.Handle("/callback", callbackHandler(state, codes, errs))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("callback server: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("error shutting down callback server", "error", err)
		}
	}()

	slog.Info("google sheets authentication required")
	slog.Info("please visit this URL to authenticate",
		"url", oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("no oauth callback received: %w", ctx.Err())
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, token); err != nil {
			slog.Warn("failed to save token to file", "error", err, "file", config.TokenFile)
		}
	}
	return token, nil
}

// LoadToken reads a token written by a previous consent flow.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("failed to decode token %s: %w", tokenFile, err)
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// GetOrCreateToken returns the cached token when it still carries a refresh
// token, and runs the consent flow otherwise.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		token, err := LoadToken(config.TokenFile)
		if err == nil && token.RefreshToken != "" {
			slog.Info("using cached token", "file", config.TokenFile)
			return token, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("ignoring unreadable token cache", "file", config.TokenFile, "error", err)
		}
	}

	return AuthenticateOAuth2Interactive(ctx, config)
}
