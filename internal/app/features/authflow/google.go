package authflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asilitravel/safarihub/internal/app/store/profiles"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// googleExchanger implements Exchanger against Google's OAuth2 endpoints.
type googleExchanger struct {
	cfg *oauth2.Config
}

// NewGoogleExchanger builds the production Exchanger. The redirect URL is
// the fixed provider callback under the site's base URL.
func NewGoogleExchanger(clientID, clientSecret, baseURL string) Exchanger {
	return &googleExchanger{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/callback",
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (g *googleExchanger) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *googleExchanger) Exchange(ctx context.Context, code string) (*profiles.Identity, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	info, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	return &profiles.Identity{
		Subject: info.ID,
		Email:   info.Email,
		Name:    info.Name,
	}, nil
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &info, nil
}
