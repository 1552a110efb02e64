package directory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// lookupResponse is the wire shape of GET {base}/patients/{medKeyID}.
type lookupResponse struct {
	MedKeyID string `json:"med_key_id"`
	Name     string `json:"name"`
}

// httpDirectory queries a remote directory service, falling back to a local
// Directory when the remote has no entry or cannot be reached.
type httpDirectory struct {
	client   *resty.Client
	fallback Directory
	logger   zerolog.Logger
}

// NewHTTP returns a Directory that queries the service at baseURL. fallback
// may be nil; pass NewStatic() to keep the demo identities available when
// the remote is down.
func NewHTTP(baseURL string, fallback Directory, logger zerolog.Logger) Directory {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Accept", "application/json")

	return &httpDirectory{client: client, fallback: fallback, logger: logger}
}

func (d *httpDirectory) Lookup(ctx context.Context, medKeyID string) (string, bool, error) {
	var body lookupResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetResult(&body).
		SetPathParam("id", medKeyID).
		Get("/patients/{id}")

	if err != nil {
		d.logger.Warn().Err(err).Str("med_key_id", medKeyID).Msg("directory unreachable")
		if d.fallback != nil {
			return d.fallback.Lookup(ctx, medKeyID)
		}
		return "", false, fmt.Errorf("directory lookup %s: %w", medKeyID, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		if body.Name == "" {
			return "", false, nil
		}
		return body.Name, true, nil
	case http.StatusNotFound:
		if d.fallback != nil {
			return d.fallback.Lookup(ctx, medKeyID)
		}
		return "", false, nil
	default:
		d.logger.Warn().Int("status", resp.StatusCode()).Str("med_key_id", medKeyID).Msg("directory error response")
		if d.fallback != nil {
			return d.fallback.Lookup(ctx, medKeyID)
		}
		return "", false, fmt.Errorf("directory lookup %s: status %d", medKeyID, resp.StatusCode())
	}
}
