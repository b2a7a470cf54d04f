package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/opacedigital/ai-core/pkg/api"
)

// DataURI wraps base64 image data.
func DataURI(mime, b64 string) string {
	if mime == "" {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, b64)
}

// ParseDataURI splits a base64 data URI into its media type and payload.
func ParseDataURI(uri string) (mime, data string, ok bool) {
	rest, found := strings.CutPrefix(uri, "data:")
	if !found {
		return "", "", false
	}
	header, data, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", "", false
	}
	return mime, data, true
}

// ImageResult assembles a result, failing when no image was decoded.
func ImageResult(provider api.ProviderName, model string, created int64, data []api.ImageData) (*api.ImageResult, error) {
	if len(data) == 0 {
		return nil, &api.NoImageReturnedError{Provider: provider, Model: model}
	}
	if created == 0 {
		created = time.Now().Unix()
	}
	return &api.ImageResult{
		Created:  created,
		Model:    model,
		Provider: provider,
		Data:     data,
	}, nil
}

// ImageCount clamps the requested count to at least one.
func ImageCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
