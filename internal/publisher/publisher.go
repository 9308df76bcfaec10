// Package publisher defines the remote posting service the republish stages
// talk to. Implementations wrap a concrete social API; the pipeline only sees
// the Client interface and the Response envelope.
package publisher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"reposter/internal/services"
)

// Status is a post as the remote service reports it.
type Status struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Content    string    `json:"content"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}

// Media is an uploaded attachment.
type Media struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// PostOptions mirrors the optional fields of a status post.
type PostOptions struct {
	MediaIDs    []string `json:"media_ids,omitempty"`
	InReplyToID string   `json:"in_reply_to_id,omitempty"`
	Sensitive   bool     `json:"sensitive,omitempty"`
	SpoilerText string   `json:"spoiler_text,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	Language    string   `json:"language,omitempty"`
}

// Response is the envelope every call returns, successful or not.
type Response[T any] struct {
	StatusCode int
	StatusText string
	Data       T
}

// Client is the remote posting service.
type Client interface {
	PostStatus(ctx context.Context, text string, opts PostOptions) (Response[Status], error)
	UploadMedia(ctx context.Context, path, description string) (Response[Media], error)
	DeleteStatus(ctx context.Context, id string) (Response[struct{}], error)
}

// Unwrap returns the payload of a 200 or 202 response. Any other status is
// an ErrExternal failure naming label and the code.
func Unwrap[T any](resp Response[T], label string) (T, error) {
	if label == "" {
		label = "Request"
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		var zero T
		return zero, services.Wrap(services.ErrExternal, label, "unwrap response",
			fmt.Sprintf("%s failed with code %d: %s", label, resp.StatusCode, resp.StatusText), nil)
	}
	return resp.Data, nil
}
