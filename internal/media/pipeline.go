package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/stay-booking/internal/httperr"
	"github.com/BruksfildServices01/stay-booking/internal/models"
)

// Target says where a batch of images belongs and how to shape it.
type Target struct {
	Type    string
	Kind    string
	OwnerID string
	Profile Profile
}

func AccommodationImages(id string) Target {
	return Target{Type: "accommodations", Kind: "accommodation", OwnerID: id, Profile: ListingPhoto}
}

func UserPhoto(id string) Target {
	return Target{Type: "users", Kind: "user", OwnerID: id, Profile: ProfilePhoto}
}

// Source is one uploaded file.
type Source struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

func FromFileHeaders(files []*multipart.FileHeader) []Source {
	out := make([]Source, 0, len(files))
	for _, fh := range files {
		out = append(out, Source{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return out
}

// CheckSources rejects batches that are too large or contain anything but images.
func CheckSources(sources []Source, limit int) error {
	if len(sources) > limit {
		return httperr.BadRequest(fmt.Sprintf("You can upload at most %d images", limit))
	}
	for _, s := range sources {
		if !strings.HasPrefix(strings.ToLower(s.ContentType), "image/") {
			return httperr.BadRequest("Not an image! Please upload only images")
		}
	}
	return nil
}

// Pipeline processes and stores batches of images.
type Pipeline struct {
	store  Store
	format Format
	limit  int
	log    *slog.Logger
	now    func() time.Time
}

func NewPipeline(store Store, format Format, limit int, log *slog.Logger) *Pipeline {
	if limit <= 0 {
		limit = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{store: store, format: format, limit: limit, log: log, now: time.Now}
}

// Upload processes every source and stores it under t. The result follows input
// order. If any image fails the whole batch fails and objects already written are
// removed.
func (p *Pipeline) Upload(ctx context.Context, t Target, sources []Source) ([]models.Image, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	if err := CheckSources(sources, len(sources)); err != nil {
		return nil, err
	}

	at := p.now()
	out := make([]models.Image, len(sources))

	var (
		mu      sync.Mutex
		written []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			body, err := p.process(src, t.Profile)
			if err != nil {
				return err
			}

			key := ObjectKey(t.Type, t.Kind, t.OwnerID, at, i+1, p.format.Ext())
			obj, err := p.store.Put(gctx, key, p.format.ContentType(), body)
			if err != nil {
				return err
			}

			mu.Lock()
			written = append(written, obj.Key)
			mu.Unlock()

			out[i] = models.Image{URL: obj.URL, Path: obj.Key}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if len(written) > 0 {
			p.Remove(context.WithoutCancel(ctx), written)
		}
		return nil, err
	}
	return out, nil
}

func (p *Pipeline) process(src Source, profile Profile) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", src.Filename, err)
	}
	defer rc.Close()

	body, err := Process(rc, profile, p.format)
	switch {
	case errors.Is(err, ErrUnsupportedImage):
		return nil, httperr.Wrap(http.StatusBadRequest, fmt.Sprintf("Could not read image %s", src.Filename), err)
	case errors.Is(err, ErrImageTooLarge):
		return nil, httperr.Wrap(http.StatusBadRequest, fmt.Sprintf("Image %s is too large. Please upload at most %d megapixels", src.Filename, MaxPixels/1_000_000), err)
	}
	return body, err
}

// Remove deletes keys best-effort. Failures are logged and returned joined.
func (p *Pipeline) Remove(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := p.store.Delete(ctx, key); err != nil {
			p.log.Warn("failed to delete stored image", "key", key, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
