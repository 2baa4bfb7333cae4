package moov

import (
	"context"
	"net/http"
	"strings"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// AvatarsService fetches profile images.
type AvatarsService service

// Get returns the image for uniqueID, which is an account or representative
// ID. The bytes are returned as served, typically PNG or JPEG.
func (s *AvatarsService) Get(ctx context.Context, uniqueID string) ([]byte, error) {
	if strings.TrimSpace(uniqueID) == "" {
		return nil, ErrMissingUniqueID
	}

	return s.client.pipeline.Bytes(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("avatars", uniqueID),
		Auth:   s.client.basicAuth(),
	})
}
