package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mitchellh/go-wordwrap"
	"github.com/pkg/browser"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"driveview/driveapp"
	"driveview/localstore"
	"driveview/session"
	"driveview/webui"
)

func main() {
	verboseFlag := flag.Bool("v", false, "Print debug logs")
	loginFlag := flag.Bool("login", false, "Sign in with Google and store the session.")
	pickFlag := flag.Bool("pick", false, "Pick Google Drive files or a folder for the application to use.")
	listFlag := flag.Bool("list", false, "List files in the selected Google Drive folder as JSON.")
	logoutFlag := flag.Bool("logout", false, "Sign out, revoke the token and clear stored state.")
	addrFlag := flag.String("addr", "127.0.0.1:8417", "Address the web UI listens on.")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "driveview: your Google Drive files, one folder at a time\n\n")
		fmt.Fprintf(os.Stderr, "Run without flags to open the web UI in your browser.\n\n")
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	ctx := context.Background()

	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if *verboseFlag {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		fatalf("failed to set up logging: %v", err)
	}
	defer logger.Sync()

	kv, err := localstore.OpenDefault()
	if err != nil {
		fatalf("%v", err)
	}
	defer kv.Close()

	cfg := driveapp.ConfigFromEnv()
	store := session.New(kv, logger)

	app, initErr := driveapp.New(ctx, cfg, logger)

	switch {
	case *loginFlag:
		requireUsable(cfg, initErr)
		profile, err := app.Authenticate(ctx)
		if err != nil {
			fatalf("Authentication failed: %v", err)
		}
		store.SetUser(&profile)
		fmt.Printf("Signed in as %s <%s>.\n", profile.Name, profile.Email)

	case *pickFlag:
		requireUsable(cfg, initErr)
		snap := store.Snapshot()
		if !snap.IsAuthenticated() {
			fatalf("Not signed in. Run '%s -login' first.", os.Args[0])
		}
		picker := driveapp.NewTerminalPicker(app, os.Stdout, os.Stdin)
		result, err := picker.PickFiles(ctx, snap.User.AccessToken)
		if err != nil {
			fatalf("File selection failed: %v", err)
		}
		if result.Empty() {
			fmt.Println("Nothing selected.")
			return
		}
		store.SetSelectedFiles(result.Items())
		fmt.Printf("Selected %d item(s).\n", len(result.FileIDs))

	case *listFlag:
		requireUsable(cfg, initErr)
		snap := store.Snapshot()
		if !snap.IsAuthenticated() {
			fatalf("Not signed in. Run '%s -login' first.", os.Args[0])
		}
		if !snap.HasSelectedFiles() {
			fatalf("No folder selected. Run '%s -pick' first.", os.Args[0])
		}
		entries, err := app.ListFolder(ctx, snap.User.AccessToken, snap.SelectedFiles[0].ID)
		if err != nil {
			fatalf("%v", err)
		}
		if err := json.NewEncoder(os.Stdout).Encode(entries); err != nil {
			fatalf("Error encoding files to JSON: %v", err)
		}

	case *logoutFlag:
		store.Logout(ctx, app.RevokeToken)
		fmt.Println("Signed out. Stored session and selection were cleared.")

	default:
		var initMsg string
		if initErr != nil {
			initMsg = initErr.Error()
		}
		server := webui.New(store, app, cfg.Validate(), initMsg, logger)

		uiURL := "http://" + *addrFlag + "/"
		fmt.Printf("driveview is running at %s\n", uiURL)
		if err := browser.OpenURL(uiURL); err != nil {
			logger.Warn("could not open browser", zap.Error(err))
		}
		if err := server.Router().Run(*addrFlag); err != nil {
			fatalf("web UI server error: %v", err)
		}
	}
}

// requireUsable exits with the configuration problems or initialization
// error when the CLI flows cannot proceed. The web UI handles the same
// conditions inline instead.
func requireUsable(cfg driveapp.Config, initErr error) {
	if problems := cfg.Validate(); len(problems) > 0 {
		fmt.Fprintln(os.Stderr, "The application is not configured:")
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "  - %s\n", wordwrap.WrapString(p, 76))
		}
		os.Exit(1)
	}
	if initErr != nil {
		fatalf("%v", initErr)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, wordwrap.WrapString(fmt.Sprintf(format, args...), 80))
	os.Exit(1)
}
