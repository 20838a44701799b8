package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Project-Sylos/DriveLister/internal/types"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultEndpoint is the Drive v3 REST base URL
const DefaultEndpoint = "https://www.googleapis.com/drive/v3/"

// listFields selects exactly the attributes the lister renders
const listFields = "files(id,name,mimeType,webViewLink,iconLink,fileExtension)"

// RequestError is returned when a listing call fails. StatusCode is 0 when no
// HTTP response was received.
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Options configures a Fetcher
type Options struct {
	APIKey   string
	Endpoint string        // Defaults to DefaultEndpoint
	Timeout  time.Duration // Defaults to 10s
	Base     http.RoundTripper
}

// Fetcher lists the children of Drive folders using an API key
type Fetcher struct {
	svc *driveapi.Service
}

// NewFetcher creates a new Drive fetcher
func NewFetcher(ctx context.Context, opts Options) (*Fetcher, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("api key cannot be empty")
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if !strings.HasSuffix(opts.Endpoint, "/") {
		opts.Endpoint += "/"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	client := &http.Client{
		Timeout:   opts.Timeout,
		Transport: newKeyTransport(opts.APIKey, opts.Base),
	}

	svc, err := driveapi.NewService(ctx,
		option.WithHTTPClient(client),
		option.WithEndpoint(opts.Endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Fetcher{svc: svc}, nil
}

// ListChildren returns the non-trashed children of a folder. Only the first
// page the API returns is read.
func (f *Fetcher) ListChildren(ctx context.Context, folderID string) ([]types.Item, error) {
	res, err := f.svc.Files.List().
		Q(ChildrenQuery(folderID)).
		Fields(googleapi.Field(listFields)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, toRequestError(err)
	}

	items := make([]types.Item, 0, len(res.Files))
	for _, file := range res.Files {
		items = append(items, types.Item{
			ID:            file.Id,
			Name:          file.Name,
			MimeType:      file.MimeType,
			WebViewLink:   file.WebViewLink,
			IconLink:      file.IconLink,
			FileExtension: file.FileExtension,
		})
	}
	return items, nil
}

// ChildrenQuery builds the files.list query selecting non-trashed children
func ChildrenQuery(folderID string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(folderID)
	return fmt.Sprintf("'%s' in parents and trashed=false", escaped)
}

// toRequestError maps client errors onto RequestError
func toRequestError(err error) error {
	// Context errors pass through untouched so callers can tell cancellation apart
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fmt.Sprintf("Erro HTTP: %d", apiErr.Code)
		}
		return &RequestError{StatusCode: apiErr.Code, Message: msg, Err: err}
	}

	return &RequestError{Message: err.Error(), Err: err}
}
