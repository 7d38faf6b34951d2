// Package driveapp wraps the Google identity provider and Drive API behind a
// small set of operations: sign the user in, pick remote files, list a
// folder, and revoke a token. The rest of the application depends only on
// these operations, never on the Google libraries directly.
package driveapp

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// callbackAddr is the loopback address the OAuth consent flow redirects to.
// It is distinct from the web UI address so the flow also works from the CLI.
const callbackAddr = "127.0.0.1:8422"

// App is the identity/session client. It is constructed once per process.
type App struct {
	cfg         Config
	log         *zap.Logger
	oauth       *oauth2.Config
	pickerReady bool
}

// New constructs the App and its Google API scaffolding. Construction
// failures are reported as an InitializationError with the App still
// returned; callers surface the error as a blocking banner and disable
// sign-in. Configuration problems are not errors here (they only block
// sign-in at the view level).
func New(ctx context.Context, cfg Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		cfg: cfg,
		log: log,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  "http://" + callbackAddr + "/",
			Scopes: []string{
				drive.DriveFileScope,
				drive.DriveReadonlyScope,
				goauth2.UserinfoProfileScope,
				goauth2.UserinfoEmailScope,
			},
			Endpoint: google.Endpoint,
		},
	}

	// The picker carries the developer key; without one it stays unavailable
	// rather than failing every later call in a confusing way.
	if cfg.APIKey != "" {
		if _, err := drive.NewService(ctx, option.WithAPIKey(cfg.APIKey)); err != nil {
			return a, &InitializationError{Err: err}
		}
		a.pickerReady = true
	}

	return a, nil
}
