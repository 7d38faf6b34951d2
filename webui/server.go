// Package webui serves the application's views over a localhost HTTP
// server: the login/onboarding flow, the file picker and the Monte Carlo
// page with its file listing. Every protected navigation goes through the
// session route guard.
package webui

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"driveview/driveapp"
	"driveview/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Client is the slice of the identity/session client the views need. It is
// satisfied by *driveapp.App and by fakes in tests.
type Client interface {
	Authenticate(ctx context.Context) (session.UserProfile, error)
	PickerItems(ctx context.Context, accessToken string, view driveapp.PickerView) ([]driveapp.PickerItem, error)
	ListFolder(ctx context.Context, accessToken, folderID string) ([]driveapp.Entry, error)
	RevokeToken(ctx context.Context, accessToken string) error
}

// Server wires the session store and client into HTTP handlers.
type Server struct {
	store    *session.Store
	client   Client
	problems []string // configuration problems; non-empty blocks sign-in
	initErr  string   // initialization failure; blocks sign-in with a banner
	log      *zap.Logger

	// signinBusy is the server-side equivalent of disabling the sign-in
	// control while its action is in flight.
	signinBusy atomic.Bool
}

// New creates the server. problems are the configuration validation
// results; initErr, when non-empty, is shown as a blocking banner.
func New(store *session.Store, client Client, problems []string, initErr string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{store: store, client: client, problems: problems, initErr: initErr, log: log}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/monte_carlo")
	})
	r.GET("/login", s.loginPage)
	r.POST("/login/signin", s.signIn)
	r.GET("/picker", s.pickerPage)
	r.POST("/picker/select", s.pickerSelect)
	r.POST("/logout", s.logout)
	r.GET("/monte_carlo", s.guard(), s.monteCarloPage)

	return r
}

// guard applies the route-guard decision to a protected view: loading
// renders the loading indicator, an incomplete session redirects to the
// login view, otherwise the view renders.
func (s *Server) guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch session.Evaluate(s.store.Snapshot()) {
		case session.ShowLoading:
			c.HTML(http.StatusOK, "loading.html", nil)
			c.Abort()
		case session.RedirectLogin:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		default:
			c.Next()
		}
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
