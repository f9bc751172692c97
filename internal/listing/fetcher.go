package listing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"homescout/internal/cache"
)

// ErrUnexpectedDomain is returned on a cache miss for a URL outside
// the supported listing site. There is no generic extraction rule, so
// this is unrecoverable.
var ErrUnexpectedDomain = errors.New("unexpected domain")

// The listing page embeds its full data model as JSON inside this
// script element.
const hydrationSelector = "script#js-hydration"

// Fetcher resolves a listing URL to its document, reading the cache
// first and hitting the network only on a miss.
type Fetcher struct {
	logger *logrus.Logger
	store  cache.Store
	client *http.Client
	domain string
}

// NewFetcher returns a fetcher restricted to the given host. A zero
// timeout leaves the transport defaults in place.
func NewFetcher(logger *logrus.Logger, store cache.Store, domain string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		logger: logger,
		store:  store,
		client: &http.Client{Timeout: timeout},
		domain: domain,
	}
}

// GetDocument returns the document for rawURL. A present, non-empty
// cache entry is always trusted over a re-fetch; a miss fetches the
// page, extracts the hydration payload and stores it pretty-printed
// before returning. Nothing is cached when the domain check fails.
func (f *Fetcher) GetDocument(rawURL string) (Document, error) {
	if blob, ok, err := f.store.Get(rawURL); err != nil {
		return nil, fmt.Errorf("failed to read cache for %s: %w", rawURL, err)
	} else if ok {
		var document Document
		if err := json.Unmarshal(blob, &document); err != nil {
			return nil, fmt.Errorf("failed to decode cached document for %s: %w", rawURL, err)
		}
		return document, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing URL %s: %w", rawURL, err)
	}
	if parsed.Host != f.domain {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedDomain, parsed.Host)
	}

	f.logger.Infof("Fetching %s", rawURL)
	resp, err := f.client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, rawURL)
	}

	page, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", rawURL, err)
	}
	payload := strings.TrimSpace(page.Find(hydrationSelector).First().Text())
	if payload == "" {
		return nil, fmt.Errorf("no hydration payload found in %s", rawURL)
	}

	var document Document
	if err := json.Unmarshal([]byte(payload), &document); err != nil {
		return nil, fmt.Errorf("failed to decode hydration payload of %s: %w", rawURL, err)
	}

	pretty, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document for cache: %w", err)
	}
	if err := f.store.Put(rawURL, pretty); err != nil {
		return nil, fmt.Errorf("failed to cache document for %s: %w", rawURL, err)
	}
	return document, nil
}
