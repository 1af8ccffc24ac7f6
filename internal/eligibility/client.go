package eligibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single remote check. The external service answers
// in well under a second when healthy; anything slower is treated as a
// transient failure.
const DefaultTimeout = 1200 * time.Millisecond

// ErrRemote marks transient failures of the eligibility service: timeouts,
// connection errors, unexpected status codes. Callers decide the fail policy;
// the synchronous gate fails open, the background audit records ERROR.
var ErrRemote = errors.New("eligibility service unavailable")

// Client queries the external eligibility service for an identity given as
// bare digits.
type Client interface {
	Check(ctx context.Context, digits string) (Status, error)
}

// HTTPClient talks to the eligibility service over its fixed contract:
// GET {base}/user/{digits} answers 200 with {"valido": bool} for recognized
// identities and 400/404 when the identity fails server-side validation.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the service at baseURL. A non-positive
// timeout falls back to DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Check(ctx context.Context, digits string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user/"+digits, nil)
	if err != nil {
		return StatusError, fmt.Errorf("%w: build request: %v", ErrRemote, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return StatusError, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var body struct {
			Valido bool `json:"valido"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return StatusError, fmt.Errorf("%w: decode response: %v", ErrRemote, err)
		}
		if body.Valido {
			return StatusEligible, nil
		}
		return StatusIneligible, nil
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusNotFound:
		// The service rejected the identity itself, not the request.
		return StatusIneligible, nil
	default:
		return StatusError, fmt.Errorf("%w: unexpected status %d", ErrRemote, resp.StatusCode)
	}
}
