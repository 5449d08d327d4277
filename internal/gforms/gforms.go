package gforms

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const userAgent = "spigell/formfill (spigelly@gmail.com)"

// requestTimeout bounds both the schema fetch and the response POST. The
// client never retries; retry policy belongs to callers.
const requestTimeout = 10 * time.Second

// Client talks to the public (unauthenticated) Google Forms endpoints: it
// fetches the form page to decode the embedded schema and posts completed
// responses.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
}

func New(logger *zap.Logger) *Client {
	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		UserAgent: userAgent,
	}
}

// ExtractSchema fetches the form page and decodes its entry list. It returns
// ErrFormNotFound when the page cannot be fetched and ErrSchemaParse when the
// embedded schema is absent or malformed.
func (c *Client) ExtractSchema(ctx context.Context, formURL string) (*Schema, error) {
	formID, err := FormID(formURL)
	if err != nil {
		return nil, err
	}

	html, err := c.getPage(ctx, formURL)
	if err != nil {
		return nil, err
	}

	raw, err := extractScriptVar(schemaVar, html)
	if err != nil {
		return nil, err
	}

	entries, err := decodeSchema(raw)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("decoded form schema",
		zap.String("form_id", formID),
		zap.Int("entries", len(entries)),
	)

	return &Schema{FormID: formID, Entries: entries}, nil
}
