package browser

import (
	"context"
	"strings"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/tools"
)

func (t *Toolset) launchDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "launch_browser",
		Description: "Launch a new browser session and navigate to a URL. Returns the session ID for subsequent operations.",
		Params: []tools.Param{
			{
				Name:        "url",
				Description: "HTTP or HTTPS URL to open in the new session",
				Type:        tools.TypeString,
				Required:    true,
			},
		},
	}
}

// launch validates the URL before the driver is touched; a rejected URL
// must never cost a browser launch or a session identifier.
func (t *Toolset) launch(ctx context.Context, args tools.Args) (string, error) {
	url := args.String("url")
	if url == "" {
		return "", tools.InvalidArgumentf("URL is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", tools.InvalidArgumentf("only HTTP/HTTPS URLs are allowed")
	}
	if !t.urlAllowed(url) {
		return "", tools.InvalidArgumentf("URL %q is not permitted by the allowlist", url)
	}

	sess, err := t.store.Create(ctx, func(ctx context.Context) (browser.Page, error) {
		return t.driver.Open(ctx, url)
	})
	if err != nil {
		return "", err
	}

	t.logger.Infof("session %s launched for %s", sess.ID, url)
	return sess.ID, nil
}

// urlAllowed checks the URL against the configured patterns. An empty
// allowlist permits everything.
func (t *Toolset) urlAllowed(url string) bool {
	if len(t.allowed) == 0 {
		return true
	}
	for _, g := range t.allowed {
		if g.Match(url) {
			return true
		}
	}
	return false
}
