// ABOUTME: Builds the GitHub OAuth authorize URL that yields the login code
// ABOUTME: The code is exchanged for an API token by Store.Acquire

package session

import (
	"errors"
	"net/url"
)

const githubAuthorizeURL = "https://github.com/login/oauth/authorize"

// AuthorizeScopes are the GitHub scopes the backend needs to read repositories
const AuthorizeScopes = "read:user,repo"

// AuthorizeURL returns the GitHub page where the user grants access
func AuthorizeURL(clientID string) (string, error) {
	if clientID == "" {
		return "", errors.New("GitHub client ID is not configured, set OPTIFUSE_GITHUB_CLIENT_ID or pass --code")
	}
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("scope", AuthorizeScopes)
	return githubAuthorizeURL + "?" + q.Encode(), nil
}
