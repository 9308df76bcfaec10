package testsupport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"reposter/internal/publisher"
)

// FakePublisher records calls and answers with canned responses.
type FakePublisher struct {
	mu sync.Mutex

	// FailPosts maps post text to the status code returned for it.
	FailPosts map[string]int

	Posted   []string
	Uploaded []string
	Deleted  []string
	nextID   int
}

func (f *FakePublisher) PostStatus(_ context.Context, text string, opts publisher.PostOptions) (publisher.Response[publisher.Status], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if code, ok := f.FailPosts[text]; ok {
		return publisher.Response[publisher.Status]{StatusCode: code, StatusText: http.StatusText(code)}, nil
	}
	f.nextID++
	f.Posted = append(f.Posted, text)
	id := fmt.Sprintf("status-%d", f.nextID)
	return publisher.Response[publisher.Status]{
		StatusCode: http.StatusOK,
		StatusText: "OK",
		Data: publisher.Status{
			ID:         id,
			URL:        "https://example.invalid/@me/" + id,
			Content:    text,
			Visibility: opts.Visibility,
			CreatedAt:  time.Date(2024, 1, 1, 0, 0, f.nextID, 0, time.UTC),
		},
	}, nil
}

func (f *FakePublisher) UploadMedia(_ context.Context, path, description string) (publisher.Response[publisher.Media], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	f.Uploaded = append(f.Uploaded, path)
	return publisher.Response[publisher.Media]{
		StatusCode: http.StatusAccepted,
		StatusText: "Accepted",
		Data:       publisher.Media{ID: fmt.Sprintf("media-%d", f.nextID), Description: description},
	}, nil
}

func (f *FakePublisher) DeleteStatus(_ context.Context, id string) (publisher.Response[struct{}], error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Deleted = append(f.Deleted, id)
	return publisher.Response[struct{}]{StatusCode: http.StatusOK, StatusText: "OK"}, nil
}
