package drive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// PDFMimeType is the MIME type used for archived invoices
	PDFMimeType = "application/pdf"

	fileFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents, trashed"
)

// Client wraps the Google Drive API service.
type Client struct {
	service *drive.Service
}

// NewClient creates a Drive client on top of an OAuth2-authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	service, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return &Client{service: service}, nil
}

// escapeQueryValue escapes a string literal for the Drive query language.
func escapeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

// EnsureFolder returns the id of the folder with the given name, creating it
// if absent. The lookup ignores trashed folders. Idempotent.
func (c *Client) EnsureFolder(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("folder name is required")
	}

	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false",
		escapeQueryValue(name), FolderMimeType)
	res, err := c.service.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up folder %q: %w", name, err)
	}
	if len(res.Files) > 0 {
		return res.Files[0].Id, nil
	}

	folder, err := c.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", name, err)
	}
	return folder.Id, nil
}

// FileExists reports whether a non-trashed file with the given name already
// exists in the folder. Used as a duplicate-upload guard independent of the
// processed-set.
func (c *Client) FileExists(ctx context.Context, folderID, name string) (bool, error) {
	query := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false",
		escapeQueryValue(name), folderID)
	res, err := c.service.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("failed to check for existing file %q: %w", name, err)
	}
	return len(res.Files) > 0, nil
}

// UploadPDF uploads an invoice document into the folder and returns its metadata.
func (c *Client) UploadPDF(ctx context.Context, folderID, name string, content []byte) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("file content is required")
	}

	file := &drive.File{
		Name:     name,
		MimeType: PDFMimeType,
		Parents:  []string{folderID},
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Media(bytes.NewReader(content), googleapi.ContentType(PDFMimeType)).
		Fields(googleapi.Field(fileFields)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %q: %w", name, err)
	}

	return convertToFileInfo(driveFile), nil
}

// convertToFileInfo converts a Drive API File to our FileInfo type.
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
		Trashed:     f.Trashed,
	}

	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	return fileInfo
}
