package gforms

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const responseSuffix = "/formResponse"

// Submit posts the resolved entry values to the form's response-collection
// endpoint. Values are keyed by the numeric entry id; empty values must be
// filtered out by the caller before this point.
func (c *Client) Submit(ctx context.Context, formURL string, values map[int64]string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no values to submit", ErrSubmission)
	}

	payload := url.Values{}
	for id, value := range values {
		payload.Set(fmt.Sprintf("entry.%d", id), value)
	}

	return c.postForm(ctx, ResponseURL(formURL), payload)
}

// ResponseURL rewrites a view-form URL to the response-collection endpoint.
// The rewrite is idempotent and leaves any query string in place: only the
// path is touched, so share-link parameters cannot break the suffix check.
func ResponseURL(formURL string) string {
	u, err := url.Parse(formURL)
	if err != nil {
		return rewritePath(formURL)
	}

	u.Path = rewritePath(u.Path)
	return u.String()
}

func rewritePath(path string) string {
	rewritten := strings.Replace(path, "/viewform", responseSuffix, 1)
	if strings.HasSuffix(rewritten, responseSuffix) {
		return rewritten
	}

	return strings.TrimSuffix(rewritten, "/") + responseSuffix
}
