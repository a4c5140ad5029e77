// internal/francetravail/token.go
package francetravail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"jobmap/internal/common/config"
	commonerrors "jobmap/internal/common/errors"
	"jobmap/internal/common/logger"
)

// TokenProvider obtains a bearer credential for the search API. It is
// an interface so the pipeline can be tested with a fake.
type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// ClientCredentialsProvider performs the client-credentials exchange
// against the partner authorization endpoint. The token is cached until
// shortly before expiry; concurrent searches share one credential.
type ClientCredentialsProvider struct {
	authURL      string
	clientID     string
	clientSecret string
	scope        string
	margin       time.Duration
	httpClient   *http.Client
	logger       logger.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenProvider creates a provider from configuration. Credentials
// are injected; no retry happens here, callers decide whether to retry
// the whole request.
func NewTokenProvider(cfg config.FranceTravailConfig, log logger.Logger) *ClientCredentialsProvider {
	return &ClientCredentialsProvider{
		authURL:      cfg.AuthURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scope:        cfg.Scope,
		margin:       config.GetDuration(cfg.TokenMargin),
		httpClient:   &http.Client{Timeout: config.GetDuration(cfg.AuthTimeout)},
		logger:       log.WithFields(map[string]interface{}{"component": "token_provider"}),
	}
}

// GetToken returns a cached token when still valid, otherwise performs
// a fresh exchange.
func (p *ClientCredentialsProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expiry) {
		return p.token, nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", p.clientID)
	data.Set("client_secret", p.clientSecret)
	data.Set("scope", p.scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.authURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", commonerrors.NewAuthenticationFailedError(0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		p.logger.Error("credential exchange rejected", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return "", commonerrors.NewAuthenticationFailedError(resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", commonerrors.NewAuthenticationFailedError(resp.StatusCode, fmt.Sprintf("decode token response: %v", err))
	}
	if tokenResp.AccessToken == "" {
		return "", commonerrors.NewAuthenticationFailedError(resp.StatusCode, "token response missing access_token")
	}

	p.token = tokenResp.AccessToken
	p.expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - p.margin)

	p.logger.Debug("token refreshed", map[string]interface{}{
		"expiresIn": tokenResp.ExpiresIn,
	})

	return p.token, nil
}
