// Package favicon resolves icon URLs for bookmarked pages.
//
// Request answers immediately from the cache or the primary service's URL
// template. Refine then checks the primary and fallback services over HTTP
// and caches whichever answers. Failures degrade to an empty icon.
package favicon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Options configures a Resolver.
type Options struct {
	// Primary is a URL template receiving the escaped page URL.
	Primary string
	// Fallback is a URL template receiving the page host.
	Fallback string
	Timeout  time.Duration
	Cache    *Cache
	Client   *http.Client
	Log      logrus.FieldLogger
}

// Resolver looks up favicons and remembers the latest request per node so
// late answers for superseded requests can be dropped.
type Resolver struct {
	primary  string
	fallback string
	cache    *Cache
	client   *http.Client
	log      logrus.FieldLogger

	mu     sync.Mutex
	latest map[string]string
}

// New creates a Resolver. A nil cache is replaced by an in-memory one.
func New(opts Options) *Resolver {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Cache == nil {
		opts.Cache, _ = OpenCache("")
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Resolver{
		primary:  opts.Primary,
		fallback: opts.Fallback,
		cache:    opts.Cache,
		client:   opts.Client,
		log:      opts.Log,
		latest:   make(map[string]string),
	}
}

// Host returns the lowercase host of a page URL, empty if it has none.
func Host(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Request records pageURL as the latest lookup for nodeID and returns a
// best-effort icon URL without touching the network.
func (r *Resolver) Request(nodeID, pageURL string) string {
	r.mu.Lock()
	r.latest[nodeID] = pageURL
	r.mu.Unlock()

	return r.Lookup(pageURL)
}

// Lookup returns the cached icon for the page's host or the primary
// template URL, empty for URLs without a host.
func (r *Resolver) Lookup(pageURL string) string {
	host := Host(pageURL)
	if host == "" {
		return ""
	}
	if icon, ok := r.cache.Get(host); ok {
		return icon
	}
	return r.primaryURL(pageURL)
}

// Refine checks the icon services for pageURL. ok is false when a newer
// request for nodeID superseded this one; the icon must then be ignored.
// An icon of "" means no service answered.
func (r *Resolver) Refine(ctx context.Context, nodeID, pageURL string) (icon string, ok bool) {
	icon = r.Resolve(ctx, pageURL)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest[nodeID] != pageURL {
		r.log.WithFields(logrus.Fields{"node": nodeID, "url": pageURL}).Debug("dropping stale favicon")
		return "", false
	}
	return icon, true
}

// Resolve tries the primary then the fallback service and caches the
// first that answers.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) string {
	host := Host(pageURL)
	if host == "" {
		return ""
	}
	if icon, ok := r.cache.Get(host); ok {
		return icon
	}

	for _, candidate := range []string{r.primaryURL(pageURL), r.fallbackURL(host)} {
		if candidate == "" {
			continue
		}
		if err := r.check(ctx, candidate); err != nil {
			r.log.WithError(err).WithField("url", candidate).Debug("favicon check failed")
			continue
		}
		if err := r.cache.Set(host, candidate); err != nil {
			r.log.WithError(err).Warn("failed to write favicon cache")
		}
		return candidate
	}
	return ""
}

func (r *Resolver) check(ctx context.Context, iconURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func (r *Resolver) primaryURL(pageURL string) string {
	if r.primary == "" {
		return ""
	}
	return fmt.Sprintf(r.primary, url.QueryEscape(pageURL))
}

func (r *Resolver) fallbackURL(host string) string {
	if r.fallback == "" {
		return ""
	}
	return fmt.Sprintf(r.fallback, host)
}
