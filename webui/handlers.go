package webui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"driveview/driveapp"
)

type loginData struct {
	Heading        string
	Description    string
	ButtonText     string
	ButtonAction   string
	Error          string
	Problems       []string
	InitError      string
	SigninDisabled bool
}

// loginPage drives the two-phase onboarding: phase 1 signs the user in,
// phase 2 selects files. Once both phases are complete it redirects to the
// main view (redundant with the guard, which would let the view render
// anyway).
func (s *Server) loginPage(c *gin.Context) {
	snap := s.store.Snapshot()
	if !snap.Loading && snap.IsAuthenticated() && snap.HasSelectedFiles() {
		c.Redirect(http.StatusFound, "/monte_carlo")
		return
	}

	data := loginData{
		Error:          snap.LastError,
		Problems:       s.problems,
		InitError:      s.initErr,
		SigninDisabled: len(s.problems) > 0 || s.initErr != "",
	}
	if !snap.IsAuthenticated() {
		data.Heading = "Welcome"
		data.Description = "This application needs access to your Google Drive. Please click the button below to authorize."
		data.ButtonText = "Sign in with Google"
		data.ButtonAction = "/login/signin"
	} else {
		data.Heading = "Select Files"
		data.Description = "Please select the Google Drive files or folder that you want to use with this application."
		data.ButtonText = "Select Files from Google Drive"
		data.ButtonAction = "/picker"
	}
	c.HTML(http.StatusOK, "login.html", data)
}

// signIn runs phase 1. The signinBusy latch rejects re-invocation while a
// sign-in is already in flight.
func (s *Server) signIn(c *gin.Context) {
	if len(s.problems) > 0 || s.initErr != "" {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if !s.signinBusy.CompareAndSwap(false, true) {
		s.log.Debug("sign-in already in flight, ignoring")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	defer s.signinBusy.Store(false)

	profile, err := s.client.Authenticate(c.Request.Context())
	if err != nil {
		s.log.Warn("sign-in failed", zap.Error(err))
		s.store.SetError(err.Error())
		c.Redirect(http.StatusFound, "/login")
		return
	}

	s.store.SetUser(&profile)
	s.store.SetError("")
	c.Redirect(http.StatusFound, "/login")
}

type pickerData struct {
	Views  []driveapp.PickerView
	Active driveapp.PickerView
	Items  []driveapp.PickerItem
	Error  string
}

// pickerPage renders one of the picker's three views for phase 2. It only
// needs an authenticated user, not a completed selection, so it sits
// outside the route guard.
func (s *Server) pickerPage(c *gin.Context) {
	snap := s.store.Snapshot()
	if !snap.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	data := pickerData{
		Views:  []driveapp.PickerView{driveapp.ViewDatabaseFiles, driveapp.ViewFolders, driveapp.ViewAllFiles},
		Active: driveapp.ParsePickerView(c.Query("view")),
	}

	items, err := s.client.PickerItems(c.Request.Context(), snap.User.AccessToken, data.Active)
	if err != nil {
		s.log.Warn("picker view failed", zap.Error(err))
		data.Error = err.Error()
	} else {
		data.Items = items
	}
	c.HTML(http.StatusOK, "picker.html", data)
}

// pickerSelect completes phase 2 from the confirmed picker form. An empty
// confirmation behaves like picker cancellation: back to phase 2 with a
// "select at least one" message, not an error.
func (s *Server) pickerSelect(c *gin.Context) {
	snap := s.store.Snapshot()
	if !snap.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var result driveapp.SelectionResult
	for _, id := range c.PostFormArray("id") {
		result.FileIDs = append(result.FileIDs, id)
		result.FileNames = append(result.FileNames, c.PostForm("name:"+id))
		result.FileURLs = append(result.FileURLs, c.PostForm("url:"+id))
	}

	if result.Empty() {
		s.store.SetError("Please select at least one file or folder.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	s.store.SetSelectedFiles(result.Items())
	s.store.SetError("")
	c.Redirect(http.StatusFound, "/monte_carlo")
}

type fileRow struct {
	Name     string
	MIMEType string
	Modified string
}

type filesData struct {
	Rows  []fileRow
	Error bool
	Empty bool
}

// monteCarloPage is the main view: a placeholder shell around the listing
// of the selected folder. The guard guarantees an authenticated user with a
// non-empty selection; the first selected item is the listing target. Every
// request re-fetches; nothing is cached between navigations.
func (s *Server) monteCarloPage(c *gin.Context) {
	snap := s.store.Snapshot()
	folderID := snap.SelectedFiles[0].ID

	data := filesData{}
	entries, err := s.client.ListFolder(c.Request.Context(), snap.User.AccessToken, folderID)
	if err != nil {
		s.log.Warn("listing failed", zap.String("folder", folderID), zap.Error(err))
		data.Error = true
	} else if len(entries) == 0 {
		data.Empty = true
	} else {
		for _, e := range entries {
			data.Rows = append(data.Rows, fileRow{
				Name:     e.Name,
				MIMEType: e.MIMEType,
				Modified: e.ModifiedTime.Local().Format("Jan 2, 2006 3:04 PM"),
			})
		}
	}
	c.HTML(http.StatusOK, "files.html", data)
}

// logout revokes the token (best-effort), clears the session and both
// durable entries, and lands on the login view.
func (s *Server) logout(c *gin.Context) {
	s.store.Logout(c.Request.Context(), s.client.RevokeToken)
	c.Redirect(http.StatusFound, "/login")
}
