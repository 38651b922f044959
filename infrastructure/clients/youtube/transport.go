package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ytcollector/domain/model"

	"google.golang.org/api/googleapi"
)

// DefaultBaseURL is the root of the YouTube Data API v3.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Transport performs one list call and returns the decoded JSON body.
// Failures are reported as *model.RemoteServiceError.
type Transport interface {
	Get(ctx context.Context, resource string, params url.Values) (map[string]any, error)
}

// RESTTransport calls the API over HTTP. Bodies are decoded into plain maps
// so that every field the API sent, false and zero included, reaches the
// schema validator.
type RESTTransport struct {
	client  *http.Client
	baseURL string
}

// NewRESTTransportWithClient uses client as is. Authentication, if any, is
// the client's business.
func NewRESTTransportWithClient(client *http.Client, baseURL string) *RESTTransport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RESTTransport{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (t *RESTTransport) Get(ctx context.Context, resource string, params url.Values) (map[string]any, error) {
	op := resource + ".list"
	endpoint := t.baseURL + "/" + resource
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &model.RemoteServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, remoteError(op, err)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &model.RemoteServiceError{Op: op, Status: resp.StatusCode, Reason: "malformedBody", Err: err}
	}
	return body, nil
}

func remoteError(op string, err error) error {
	rerr := &model.RemoteServiceError{Op: op, Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		rerr.Status = gerr.Code
		if len(gerr.Errors) > 0 {
			rerr.Reason = gerr.Errors[0].Reason
		}
	}
	return rerr
}
