package accommodation

import (
	"context"
	"slices"

	"github.com/BruksfildServices01/stay-booking/internal/media"
	"github.com/BruksfildServices01/stay-booking/internal/models"
	"github.com/BruksfildServices01/stay-booking/internal/query"
)

// Images is the part of the media pipeline the listing use cases need.
type Images interface {
	Upload(ctx context.Context, t media.Target, sources []media.Source) ([]models.Image, error)
	Remove(ctx context.Context, keys []string) error
}

func ownedBy(hostID string) query.Condition {
	return query.Eq("host_id", hostID)
}

func paths(images []models.Image) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img.Path != "" {
			out = append(out, img.Path)
		}
	}
	return out
}

// stale returns the keys in old that are not reused by kept.
func stale(old, kept []string) []string {
	out := make([]string, 0, len(old))
	for _, k := range old {
		if !slices.Contains(kept, k) {
			out = append(out, k)
		}
	}
	return out
}
