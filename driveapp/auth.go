package driveapp

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/browser"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"driveview/session"
)

// revokeEndpoint is Google's OAuth 2.0 token revocation endpoint.
const revokeEndpoint = "https://oauth2.googleapis.com/revoke"

// Authenticate runs the OAuth consent flow and returns the signed-in user's
// profile. It starts a local callback server, opens the system browser to
// the provider's consent page, waits for the redirect, exchanges the code
// for a token and fetches the profile from the userinfo endpoint with it.
//
// Failures come back as *AuthError: cancelling the consent flow (or the
// context) maps to ReasonPopupClosed, a browser that could not be opened to
// ReasonPopupBlocked, a refusal to ReasonAccessDenied, anything else to
// ReasonUnknown. The session store is never touched here; that is the
// caller's job.
func (a *App) Authenticate(ctx context.Context) (session.UserProfile, error) {
	var zero session.UserProfile

	// Random state for CSRF protection.
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return zero, &AuthError{Reason: ReasonUnknown, Err: fmt.Errorf("failed to generate random state: %w", err)}
	}
	state := fmt.Sprintf("%x", stateBytes)

	// The consent redirect settles exactly one of these channels; the
	// select below is the bridge between the provider's callback and this
	// call's return value.
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if errMsg := r.FormValue("error"); errMsg != "" {
			reason := ReasonUnknown
			if errMsg == "access_denied" {
				reason = ReasonAccessDenied
			}
			errChan <- &AuthError{Reason: reason, Err: fmt.Errorf("authentication failed: %s", errMsg)}
			fmt.Fprint(w, "Authentication failed. You can close this window.")
			return
		}
		if r.FormValue("state") != state {
			errChan <- &AuthError{Reason: ReasonUnknown, Err: fmt.Errorf("invalid state parameter received")}
			http.Error(w, "Invalid state parameter.", http.StatusBadRequest)
			return
		}
		codeChan <- r.FormValue("code")
		fmt.Fprint(w, "Authentication successful! You can close this window and return to the application.")
	})

	server := &http.Server{Addr: callbackAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- &AuthError{Reason: ReasonUnknown, Err: fmt.Errorf("callback server error: %w", err)}
		}
	}()
	defer func() {
		if err := server.Shutdown(context.Background()); err != nil {
			a.log.Warn("failed to shut down callback server", zap.Error(err))
		}
	}()

	authURL := a.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
	browserErr := browser.OpenURL(authURL)
	if browserErr != nil {
		a.log.Warn("could not open browser for consent", zap.Error(browserErr))
		fmt.Printf("If your browser didn't open, please open this URL manually:\n\n%s\n\n", authURL)
	}

	var authCode string
	select {
	case authCode = <-codeChan:
	case err := <-errChan:
		return zero, err
	case <-ctx.Done():
		// The user walked away (or the caller gave up) before the consent
		// round-trip finished. If we also failed to open a browser, the
		// flow never had a chance to start.
		if browserErr != nil {
			return zero, &AuthError{Reason: ReasonPopupBlocked, Err: browserErr}
		}
		return zero, &AuthError{Reason: ReasonPopupClosed, Err: ctx.Err()}
	}

	tok, err := a.oauth.Exchange(ctx, authCode)
	if err != nil {
		return zero, &AuthError{Reason: ReasonUnknown, Err: fmt.Errorf("failed to exchange authorization code for token: %w", err)}
	}

	profile, err := a.fetchUserInfo(ctx, tok)
	if err != nil {
		return zero, &AuthError{Reason: ReasonUnknown, Err: err}
	}
	return profile, nil
}

// fetchUserInfo resolves the token into a user profile via the provider's
// userinfo endpoint.
func (a *App) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (session.UserProfile, error) {
	var zero session.UserProfile

	svc, err := goauth2.NewService(ctx, option.WithTokenSource(a.oauth.TokenSource(ctx, tok)))
	if err != nil {
		return zero, fmt.Errorf("failed to create userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return zero, fmt.Errorf("failed to fetch user info: %w", err)
	}

	return session.UserProfile{
		ID:          info.Id,
		Name:        info.Name,
		Email:       info.Email,
		PictureURL:  info.Picture,
		AccessToken: tok.AccessToken,
	}, nil
}

// RevokeToken revokes an access token with the identity provider. Callers
// treat failures as best-effort; logout proceeds regardless.
func (a *App) RevokeToken(ctx context.Context, accessToken string) error {
	form := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("revocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revocation endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
