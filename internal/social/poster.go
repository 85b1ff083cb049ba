package social

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"newsroom_backend/internal/logger"
)

// Poster announces published articles on social platforms. Posting is
// best-effort: failures are logged and never affect the approval flow.
type Poster interface {
	PostArticle(ctx context.Context, title, url string)
}

// Config holds platform credentials. Platforms with empty credentials
// are skipped.
type Config struct {
	XAPIKey             string
	FacebookPageID      string
	FacebookAccessToken string
	Timeout             time.Duration
}

type HTTPPoster struct {
	config Config
	client *resty.Client
}

func NewHTTPPoster(config Config) *HTTPPoster {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(1)

	return &HTTPPoster{
		config: config,
		client: client,
	}
}

// PostArticle announces the article on every configured platform.
func (p *HTTPPoster) PostArticle(ctx context.Context, title, url string) {
	text := fmt.Sprintf("%s %s", title, url)

	if p.config.XAPIKey != "" {
		if err := p.postToX(ctx, text); err != nil {
			logger.CtxWithError(ctx, "failed to post article to X", err, "title", title)
		}
	}

	if p.config.FacebookPageID != "" && p.config.FacebookAccessToken != "" {
		if err := p.postToFacebook(ctx, text, url); err != nil {
			logger.CtxWithError(ctx, "failed to post article to Facebook", err, "title", title)
		}
	}
}

func (p *HTTPPoster) postToX(ctx context.Context, text string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.config.XAPIKey).
		SetBody(map[string]string{"text": text}).
		Post("https://api.twitter.com/2/tweets")
	if err != nil {
		return err
	}

	if resp.IsError() {
		return fmt.Errorf("X API returned %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

func (p *HTTPPoster) postToFacebook(ctx context.Context, message, link string) error {
	endpoint := fmt.Sprintf("https://graph.facebook.com/%s/feed", p.config.FacebookPageID)

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"message":      message,
			"link":         link,
			"access_token": p.config.FacebookAccessToken,
		}).
		Post(endpoint)
	if err != nil {
		return err
	}

	if resp.IsError() {
		return fmt.Errorf("Facebook API returned %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

// NopPoster is used when no platform is configured.
type NopPoster struct{}

func (NopPoster) PostArticle(context.Context, string, string) {}
