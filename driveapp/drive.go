package driveapp

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Entry is one item of a remote folder listing. It is transient: fetched
// fresh on every request, never cached or persisted.
type Entry struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MIMEType     string    `json:"mimeType"`
	ModifiedTime time.Time `json:"modifiedTime"`
}

// ListFolder lists the non-trashed files directly inside folderID, most
// recently modified first, requesting only the fields the views need.
func (a *App) ListFolder(ctx context.Context, accessToken, folderID string) ([]Entry, error) {
	svc, err := a.driveService(ctx, accessToken)
	if err != nil {
		return nil, &ListingFetchError{Err: err}
	}

	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	list, err := svc.Files.List().
		Q(query).
		Fields("files(id, name, mimeType, modifiedTime)").
		OrderBy("modifiedTime desc").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &ListingFetchError{Err: fmt.Errorf("failed to list files in folder %s: %w", folderID, err)}
	}

	entries := make([]Entry, 0, len(list.Files))
	for _, f := range list.Files {
		modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
		if err != nil {
			return nil, &ListingFetchError{Err: fmt.Errorf("could not parse modified time for file %s: %w", f.Name, err)}
		}
		entries = append(entries, Entry{
			ID:           f.Id,
			Name:         f.Name,
			MIMEType:     f.MimeType,
			ModifiedTime: modified,
		})
	}
	return entries, nil
}

// driveService builds a Drive client acting as the signed-in user.
func (a *App) driveService(ctx context.Context, accessToken string) (*drive.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("could not create drive service: %w", err)
	}
	return svc, nil
}
