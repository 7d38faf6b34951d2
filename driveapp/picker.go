package driveapp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"driveview/session"
)

// PickerView selects which of the picker's configured views to browse.
type PickerView int

const (
	// ViewDatabaseFiles shows files filtered to database MIME types.
	ViewDatabaseFiles PickerView = iota
	// ViewFolders shows folders only, with folder selection enabled.
	ViewFolders
	// ViewAllFiles is the unfiltered fallback view.
	ViewAllFiles
)

// ParsePickerView maps a view name to a PickerView, defaulting to the
// database-files view.
func ParsePickerView(name string) PickerView {
	switch name {
	case "folders":
		return ViewFolders
	case "all":
		return ViewAllFiles
	default:
		return ViewDatabaseFiles
	}
}

func (v PickerView) String() string {
	switch v {
	case ViewFolders:
		return "folders"
	case ViewAllFiles:
		return "all"
	default:
		return "db"
	}
}

// Label is the view's human-readable tab title.
func (v PickerView) Label() string {
	switch v {
	case ViewFolders:
		return "Folders"
	case ViewAllFiles:
		return "All Files"
	default:
		return "Database Files"
	}
}

func (v PickerView) query() string {
	switch v {
	case ViewFolders:
		return "mimeType = 'application/vnd.google-apps.folder' and trashed = false"
	case ViewAllFiles:
		return "trashed = false"
	default:
		return "(mimeType = 'application/x-sqlite3' or mimeType = 'application/vnd.sqlite3'" +
			" or name contains '.db' or name contains '.sqlite') and trashed = false"
	}
}

// PickerItem is one choosable item in a picker view.
type PickerItem struct {
	ID       string
	Name     string
	URL      string
	MIMEType string
}

// SelectionResult carries the confirmed picker selection as parallel
// sequences of ids, names and urls. Three empty sequences mean the user
// cancelled, which is success, not an error.
type SelectionResult struct {
	FileIDs   []string
	FileNames []string
	FileURLs  []string
}

// Empty reports whether the user confirmed nothing.
func (r SelectionResult) Empty() bool { return len(r.FileIDs) == 0 }

// Items maps the parallel sequences into selected-item entries, preserving
// order. Missing names or urls are tolerated and left blank.
func (r SelectionResult) Items() []session.SelectedItem {
	items := make([]session.SelectedItem, 0, len(r.FileIDs))
	for i, id := range r.FileIDs {
		item := session.SelectedItem{ID: id}
		if i < len(r.FileNames) {
			item.Name = r.FileNames[i]
		}
		if i < len(r.FileURLs) {
			item.URL = r.FileURLs[i]
		}
		items = append(items, item)
	}
	return items
}

// PickerItems lists the choosable items of one picker view, acting as the
// signed-in user. It returns ErrPickerUnavailable when the picker was never
// initialized (no API key configured).
func (a *App) PickerItems(ctx context.Context, accessToken string, view PickerView) ([]PickerItem, error) {
	if !a.pickerReady {
		return nil, ErrPickerUnavailable
	}

	svc, err := a.driveService(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to open picker view: %w", err)
	}

	list, err := svc.Files.List().
		Q(view.query()).
		Fields("files(id, name, mimeType, webViewLink)").
		OrderBy("modifiedTime desc").
		PageSize(100).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list picker items: %w", err)
	}

	items := make([]PickerItem, 0, len(list.Files))
	for _, f := range list.Files {
		items = append(items, PickerItem{
			ID:       f.Id,
			Name:     f.Name,
			URL:      f.WebViewLink,
			MIMEType: f.MimeType,
		})
	}
	return items, nil
}

// TerminalPicker offers the three picker views over a terminal, for the CLI
// -pick flag. It is the same multi-select contract as the web picker: the
// user confirms any number of items, or cancels for an empty result.
type TerminalPicker struct {
	app *App
	w   io.Writer
	r   *bufio.Reader
}

// NewTerminalPicker creates a picker reading choices from r.
func NewTerminalPicker(app *App, w io.Writer, r io.Reader) *TerminalPicker {
	return &TerminalPicker{app: app, w: w, r: bufio.NewReader(r)}
}

// PickFiles walks the user through view choice and item selection and
// returns the confirmed selection. Pressing enter at either prompt cancels,
// resolving with an empty result.
func (p *TerminalPicker) PickFiles(ctx context.Context, accessToken string) (SelectionResult, error) {
	var result SelectionResult

	fmt.Fprintln(p.w, "Select a view:")
	views := []PickerView{ViewDatabaseFiles, ViewFolders, ViewAllFiles}
	for i, v := range views {
		fmt.Fprintf(p.w, "  %d) %s\n", i+1, v.Label())
	}
	fmt.Fprint(p.w, "View (enter to cancel): ")

	choice, err := p.readLine()
	if err != nil {
		return result, err
	}
	if choice == "" {
		return result, nil
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(views) {
		return result, fmt.Errorf("invalid view choice %q", choice)
	}

	items, err := p.app.PickerItems(ctx, accessToken, views[n-1])
	if err != nil {
		return result, err
	}
	if len(items) == 0 {
		fmt.Fprintln(p.w, "This view has no items.")
		return result, nil
	}

	for i, item := range items {
		fmt.Fprintf(p.w, "  %d) %s (%s)\n", i+1, item.Name, item.MIMEType)
	}
	fmt.Fprint(p.w, "Items, comma-separated (enter to cancel): ")

	line, err := p.readLine()
	if err != nil {
		return result, err
	}
	if line == "" {
		return result, nil
	}

	for _, field := range strings.Split(line, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 || n > len(items) {
			return SelectionResult{}, fmt.Errorf("invalid item choice %q", field)
		}
		item := items[n-1]
		result.FileIDs = append(result.FileIDs, item.ID)
		result.FileNames = append(result.FileNames, item.Name)
		result.FileURLs = append(result.FileURLs, item.URL)
	}
	return result, nil
}

func (p *TerminalPicker) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
