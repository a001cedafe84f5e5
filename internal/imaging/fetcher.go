package imaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sspacecoding/unfluencer/internal/core/domain"
	"github.com/sspacecoding/unfluencer/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// Fetcher downloads post images and prepares them for inline transport.
type Fetcher struct {
	httpClient *http.Client
	log        *slog.Logger
}

func NewFetcher(log *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
	}
}

var _ ports.ImageFetcher = (*Fetcher)(nil)

// FetchInline downloads the post's representative image (first carousel
// resource if any, else the post thumbnail) and returns it as an inline
// image. Any failure is terminal for the current generation attempt.
func (f *Fetcher) FetchInline(ctx context.Context, post domain.Post) (domain.InlineImage, error) {
	imageURL := post.PrimaryThumbnail()
	if imageURL == "" {
		return domain.InlineImage{}, &domain.FetchError{URL: imageURL, Err: errors.New("post has no thumbnail")}
	}

	if len(post.Resources) > 0 {
		f.log.Info("post is a carousel, using first image", "url", imageURL)
	} else {
		f.log.Info("post is a single image", "url", imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return domain.InlineImage{}, &domain.FetchError{URL: imageURL, Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return domain.InlineImage{}, &domain.FetchError{URL: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.InlineImage{}, &domain.FetchError{URL: imageURL, Err: fmt.Errorf("status code %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.InlineImage{}, &domain.FetchError{URL: imageURL, Err: err}
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}

	f.log.Info("image encoded for inline transport", "bytes", len(data), "mime", mime)
	return domain.InlineImage{MIMEType: mime, Data: data}, nil
}
