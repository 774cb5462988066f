package crawler

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsCache fetches robots.txt once per scheme and host.
type robotsCache struct {
	client    *http.Client
	userAgent string

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

func newRobotsCache(client *http.Client, userAgent string) *robotsCache {
	return &robotsCache{
		client:    client,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether u may be fetched. A robots.txt that cannot be
// downloaded allows everything; robotstxt maps 4xx to allow-all and 5xx to
// disallow-all. A fetch cut short by ctx is not remembered.
func (c *robotsCache) Allowed(ctx context.Context, u *url.URL) bool {
	group := c.group(ctx, u)
	if group == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return group.Test(path)
}

func (c *robotsCache) group(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	c.mu.Lock()
	group, ok := c.groups[key]
	c.mu.Unlock()
	if ok {
		return group
	}

	group = c.fetch(ctx, key+"/robots.txt")
	if ctx.Err() != nil {
		return group
	}

	c.mu.Lock()
	c.groups[key] = group
	c.mu.Unlock()
	return group
}

func (c *robotsCache) fetch(ctx context.Context, robotsURL string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(c.userAgent)
}
