package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// FilePermission is the permission for token files
const FilePermission = 0600

var (
	// ErrMissingCredentials is returned when no client ID or secret is configured.
	ErrMissingCredentials = errors.New("spotify client ID and secret are required")
	// ErrStateMismatch is returned when a redirect URL belongs to another authorization flow.
	ErrStateMismatch = errors.New("OAuth state mismatch")
)

type TokenData struct {
	Token *oauth2.Token `json:"token"`
}

// Authenticate obtains an application token for catalog requests and, when
// user authorization is enabled, a user token for library requests. A saved
// user token is reused; otherwise the interactive authorization flow runs.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.config.ClientID == "" || c.config.ClientSecret == "" {
		return ErrMissingCredentials
	}

	credentials := &clientcredentials.Config{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	if _, err := credentials.Token(ctx); err != nil {
		return fmt.Errorf("failed to obtain client credentials token: %w", err)
	}
	c.catalog = spotify.New(credentials.Client(ctx), spotify.WithRetry(true))
	c.logger.Info("Authenticated with client credentials")

	if !c.config.UserAuth {
		return nil
	}
	return c.authenticateUser(ctx)
}

func (c *Client) authenticateUser(ctx context.Context) error {
	token, err := c.loadToken()
	if err != nil {
		c.logger.Info("No saved token found, starting OAuth flow", zap.String("path", c.config.TokenPath))
		return c.startOAuthFlow(ctx)
	}

	client := spotify.New(c.auth.Client(ctx, token), spotify.WithRetry(true))
	user, err := client.CurrentUser(ctx)
	if err != nil {
		c.logger.Warn("Saved token invalid, starting OAuth flow", zap.Error(err))
		return c.startOAuthFlow(ctx)
	}

	c.user = client
	c.logger.Info("Authenticated successfully",
		zap.String("user", user.ID),
		zap.String("displayName", user.DisplayName))
	return nil
}

func (c *Client) startOAuthFlow(ctx context.Context) error {
	state := uuid.NewString()
	authURL := c.auth.AuthURL(state)

	fmt.Printf("Please visit the following URL to authorize the application:\n%s\n", authURL)
	fmt.Print("Enter the authorization code or the URL you were redirected to: ")

	var input string
	if _, err := fmt.Scanln(&input); err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}

	code, err := authorizationCode(input, state)
	if err != nil {
		return err
	}

	token, err := c.auth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}

	if saveErr := c.saveToken(token); saveErr != nil {
		c.logger.Warn("Failed to save token", zap.Error(saveErr))
	}

	client := spotify.New(c.auth.Client(ctx, token), spotify.WithRetry(true))
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	c.user = client
	c.logger.Info("OAuth flow completed successfully", zap.String("user", user.ID))
	return nil
}

// authorizationCode accepts a bare code or the full redirect URL of the flow
// started with state.
func authorizationCode(input, state string) (string, error) {
	input = strings.TrimSpace(input)
	if !strings.Contains(input, "://") {
		if input == "" {
			return "", errors.New("empty authorization code")
		}
		return input, nil
	}

	redirect, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL: %w", err)
	}
	query := redirect.Query()
	if reason := query.Get("error"); reason != "" {
		return "", fmt.Errorf("authorization denied: %s", reason)
	}
	if got := query.Get("state"); got != state {
		return "", fmt.Errorf("%w: got %q", ErrStateMismatch, got)
	}
	code := query.Get("code")
	if code == "" {
		return "", errors.New("redirect URL carries no authorization code")
	}
	return code, nil
}

func (c *Client) loadToken() (*oauth2.Token, error) {
	file, err := os.Open(c.config.TokenPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var tokenData TokenData
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return nil, err
	}
	if tokenData.Token == nil {
		return nil, errors.New("token file holds no token")
	}

	return tokenData.Token, nil
}

func (c *Client) saveToken(token *oauth2.Token) error {
	tokenData := TokenData{Token: token}

	data, err := json.MarshalIndent(tokenData, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.config.TokenPath, data, FilePermission)
}
