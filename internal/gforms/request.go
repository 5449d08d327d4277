package gforms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

func (c *Client) getPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFormNotFound, err)
	}

	req.Header.Set("User-Agent", c.UserAgent)

	c.logger.Debug("fetching form page", zap.String("url", pageURL))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFormNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: bad status: %s", ErrFormNotFound, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading page body: %v", ErrFormNotFound, err)
	}

	return string(body), nil
}

func (c *Client) postForm(ctx context.Context, postURL string, values url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("posting form response",
		zap.String("url", postURL),
		zap.Int("fields", len(values)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: bad status: %s", ErrSubmission, resp.Status)
	}

	return nil
}
