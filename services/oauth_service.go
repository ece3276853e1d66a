package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	defaultAuthorizeEndpoint = "https://github.com/login/oauth/authorize"
	defaultTokenEndpoint     = "https://github.com/login/oauth/access_token"

	// Scope the CMS needs to commit content through the GitHub API.
	oauthScope = "repo,user"

	stateTTL = 10 * time.Minute
)

// ProviderError is an error the identity provider reported during the code
// exchange, as opposed to a transport failure.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %s: %s", e.Code, e.Description)
}

// OAuthService relays the GitHub authorization-code exchange for the CMS
// login popup. No state is persisted between the start and callback legs;
// the state parameter is a signed, short-lived token instead.
type OAuthService struct {
	ClientID          string
	ClientSecret      string
	AuthorizeEndpoint string
	TokenEndpoint     string
	Client            *http.Client
}

func NewOAuthService(clientID, clientSecret string) *OAuthService {
	return &OAuthService{
		ClientID:          clientID,
		ClientSecret:      clientSecret,
		AuthorizeEndpoint: defaultAuthorizeEndpoint,
		TokenEndpoint:     defaultTokenEndpoint,
		Client:            &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthorizeURL builds the provider redirect for the given requesting origin.
func (s *OAuthService) AuthorizeURL(origin string) (string, error) {
	state, err := s.signState(time.Now())
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}

	params := url.Values{
		"client_id":    {s.ClientID},
		"scope":        {oauthScope},
		"redirect_uri": {origin + "/callback"},
		"state":        {state},
	}
	return s.AuthorizeEndpoint + "?" + params.Encode(), nil
}

func (s *OAuthService) signState(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    "arbinq-api",
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.ClientSecret))
}

// VerifyState checks the signature and expiry of a state parameter issued
// by AuthorizeURL.
func (s *OAuthService) VerifyState(state string) error {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.ClientSecret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return fmt.Errorf("invalid or expired state")
	}
	return nil
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchange posts the authorization code and client credentials to the token
// endpoint. The returned token is handed straight back to the caller and is
// never logged or stored.
func (s *OAuthService) Exchange(ctx context.Context, code string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"code":          code,
	})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.TokenEndpoint, strings.NewReader(string(payload)))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	if tr.Error != "" {
		return "", &ProviderError{Code: tr.Error, Description: tr.ErrorDescription}
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response missing access token")
	}
	return tr.AccessToken, nil
}
