package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

// ErrNoVerifiedEmail is returned when a GitHub account exposes no usable email.
var ErrNoVerifiedEmail = errors.New("github account has no email")

const defaultGithubAPIURL = "https://api.github.com"

// GithubProfile is the subset of the GitHub user profile the service needs.
type GithubProfile struct {
	Email     string
	Name      *string
	AvatarURL string
}

// GithubProvider exchanges GitHub OAuth authorization codes for user profiles.
type GithubProvider struct {
	config *oauth2.Config

	// Overridable for tests.
	APIBaseURL string
}

// NewGithubProvider creates a GithubProvider for the given OAuth app credentials.
func NewGithubProvider(clientID, clientSecret, redirectURL string) *GithubProvider {
	return &GithubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     githuboauth.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		APIBaseURL: defaultGithubAPIURL,
	}
}

// SetEndpoint overrides the OAuth token endpoint. Test use only.
func (p *GithubProvider) SetEndpoint(endpoint oauth2.Endpoint) {
	p.config.Endpoint = endpoint
}

// ExchangeCode trades an authorization code for an access token and
// fetches the user's profile. When the profile hides the email, the
// primary address from /user/emails is used instead.
func (p *GithubProvider) ExchangeCode(ctx context.Context, code string) (*GithubProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	client := p.config.Client(ctx, token)

	var user struct {
		Name      *string `json:"name"`
		Email     *string `json:"email"`
		AvatarURL string  `json:"avatar_url"`
	}
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, fmt.Errorf("fetching github user: %w", err)
	}

	profile := &GithubProfile{
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}

	if user.Email != nil && *user.Email != "" {
		profile.Email = *user.Email
		return profile, nil
	}

	var emails []struct {
		Email   string `json:"email"`
		Primary bool   `json:"primary"`
	}
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return nil, fmt.Errorf("fetching github emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary {
			profile.Email = e.Email
			return profile, nil
		}
	}

	return nil, ErrNoVerifiedEmail
}

func (p *GithubProvider) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.APIBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("github API returned %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
