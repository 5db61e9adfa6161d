package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jakechorley/project-allocator/internal/config"
)

const (
	AuthPort     = 3000
	authTimeout  = 5 * time.Minute
	callbackPath = "/oauth/callback"

	// ScopeSheets is the only Google scope the allocator needs: read inputs, write result tabs
	ScopeSheets = "https://www.googleapis.com/auth/spreadsheets"

	tokenDirName   = ".project-allocator/tokens"
	tokenFilePerms = 0600
	tokenDirPerms  = 0700
)

// GetOAuthConfig creates an OAuth2 config for the Sheets scope from the client file
func GetOAuthConfig(oauthCfg *config.OAuthClientConfig) (*oauth2.Config, error) {
	oauthConfigJSON, err := json.Marshal(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal oauth config: %w", err)
	}

	googleConfig, err := google.ConfigFromJSON(oauthConfigJSON, ScopeSheets)
	if err != nil {
		return nil, fmt.Errorf("failed to create google config: %w", err)
	}

	googleConfig.RedirectURL = fmt.Sprintf("http://localhost:%d%s", AuthPort, callbackPath)

	return googleConfig, nil
}

// TokenStore persists one token per environment under Dir
type TokenStore struct {
	Dir string
}

// DefaultTokenStore keeps tokens in ~/.project-allocator/tokens
func DefaultTokenStore() (*TokenStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &TokenStore{Dir: filepath.Join(homeDir, tokenDirName)}, nil
}

func (s *TokenStore) path(env string) string {
	if env == "" {
		env = "default"
	}
	return filepath.Join(s.Dir, fmt.Sprintf("token-%s.json", env))
}

// Load returns nil without error when no token has been saved for env
func (s *TokenStore) Load(env string) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path(env))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

func (s *TokenStore) Save(env string, token *oauth2.Token) error {
	if err := os.MkdirAll(s.Dir, tokenDirPerms); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path(env), data, tokenFilePerms); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *TokenStore) Delete(env string) error {
	if err := os.Remove(s.path(env)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Authenticator hands out an authorized token, running the browser flow at most once at a time
type Authenticator struct {
	Config *oauth2.Config
	Store  *TokenStore
	Logger *zap.Logger

	mu     sync.Mutex
	cached *oauth2.Token
}

func NewAuthenticator(oauthConfig *oauth2.Config, store *TokenStore, logger *zap.Logger) *Authenticator {
	return &Authenticator{Config: oauthConfig, Store: store, Logger: logger}
}

// Client returns an HTTP client that refreshes the token for env as needed
func (a *Authenticator) Client(ctx context.Context, env string) (*http.Client, error) {
	token, err := a.Token(ctx, env)
	if err != nil {
		return nil, err
	}
	return a.Config.Client(ctx, token), nil
}

// Token returns a valid token from memory, disk (refreshing if expired), or a fresh browser flow
func (a *Authenticator) Token(ctx context.Context, env string) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached != nil && a.cached.Valid() {
		return a.cached, nil
	}

	if token := a.storedToken(ctx, env); token != nil {
		a.cached = token
		return token, nil
	}

	a.Logger.Info("No valid token found, starting OAuth flow")

	state := uuid.NewString()
	authURL := a.Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Fprintf(os.Stderr, "\nVisit this URL to authorize the application:\n%s\n\n", authURL)

	code, err := listenForAuthCallback(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}

	token, err := a.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if err := a.Store.Save(env, token); err != nil {
		a.Logger.Warn("Failed to save token", zap.Error(err))
	}

	a.cached = token
	return token, nil
}

func (a *Authenticator) storedToken(ctx context.Context, env string) *oauth2.Token {
	token, err := a.Store.Load(env)
	if err != nil {
		a.Logger.Warn("Failed to load token from file", zap.Error(err))
		return nil
	}
	if token == nil {
		return nil
	}
	if token.Valid() {
		return token
	}
	if token.RefreshToken == "" {
		return nil
	}

	refreshed, err := a.Config.TokenSource(ctx, token).Token()
	if err != nil {
		a.Logger.Warn("Token refresh failed, discarding stored token", zap.Error(err))
		if err := a.Store.Delete(env); err != nil {
			a.Logger.Warn("Failed to delete token", zap.Error(err))
		}
		return nil
	}

	a.Logger.Debug("Token refreshed", zap.Time("expiry", refreshed.Expiry))
	if err := a.Store.Save(env, refreshed); err != nil {
		a.Logger.Warn("Failed to save refreshed token", zap.Error(err))
	}
	return refreshed
}

// listenForAuthCallback serves the redirect URI until a code with the expected state arrives
func listenForAuthCallback(ctx context.Context, state string) (string, error) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, callbackHandler(state, codeChan, errChan))

	server := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", AuthPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sendErr(errChan, fmt.Errorf("server error: %w", err))
		}
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	var code string
	var authErr error

	select {
	case code = <-codeChan:
	case authErr = <-errChan:
	case <-timeoutCtx.Done():
		authErr = fmt.Errorf("authorization timeout after %v", authTimeout)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)

	if authErr != nil {
		return "", authErr
	}
	return code, nil
}

func callbackHandler(state string, codeChan chan<- string, errChan chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			sendErr(errChan, fmt.Errorf("oauth state mismatch"))
			return
		}

		code := query.Get("code")
		if code == "" {
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			sendErr(errChan, fmt.Errorf("no authorization code received"))
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html>
	<head><title>Authorization Successful</title></head>
	<body>
		<h1>Authorization successful!</h1>
		<p>You can close this window and return to the allocator.</p>
	</body>
</html>`)

		select {
		case codeChan <- code:
		default:
		}
	}
}

func sendErr(errChan chan<- error, err error) {
	select {
	case errChan <- err:
	default:
	}
}
