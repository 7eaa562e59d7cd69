package postal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"

	"github.com/myreportapp/osm2mrag/internal/address"
)

// Query describes one address to resolve against the lookup service.
type Query struct {
	// Address is the full search string: "no street, City, PR".
	Address string
	// FullAddress is "no street" without the city part.
	FullAddress string
	// StreetFullName is the normalized street alone.
	StreetFullName string
	// CityRegion is the "City, PR," text the suggestion description must
	// contain for the match to count.
	CityRegion string
}

// ClientConfig configures the lookup client.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit
}

// Client resolves postal codes through a third-party address-search page.
// The service is best-effort: a miss, a timeout or an unparseable page
// all mean "no postal code", never a fatal condition for the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a lookup client.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(time.Second)
	}

	return &Client{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(config.RateLimit, 1),
	}
}

var rePostalCode = regexp.MustCompile(`^(\w{3}\s\w{3})\s*`)

// Lookup returns the postal code for the query, or "" when the service
// offers no confident match. Suggestions count only when their title
// matches the expanded address and their description names the expected
// city and region.
func (c *Client) Lookup(ctx context.Context, q Query) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	// The lookup service spells street types out the way early exports
	// did, so expand before comparing.
	searchAddr := address.ExpandForLookup(q.Address)
	fullAddr := foldText(address.ExpandForLookup(q.FullAddress))
	streetFull := foldText(address.ExpandForLookup(q.StreetFullName))
	cityRegion := foldText(q.CityRegion)

	reqURL := fmt.Sprintf("%s?q=%s", c.baseURL, url.QueryEscape(searchAddr))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "osm2mrag/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	postalCode := ""
	doc.Find(".pcaitem").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		title := foldText(item.AttrOr("title", ""))
		if !strings.Contains(title, fullAddr) && title != streetFull {
			return true
		}
		desc := foldText(item.Find(".pcadescription").Text())
		i := strings.LastIndex(desc, cityRegion)
		if i < 0 {
			return true
		}
		rest := strings.ToUpper(strings.TrimSpace(desc[i+len(cityRegion):]))
		if m := rePostalCode.FindStringSubmatch(rest); m != nil {
			postalCode = m[1]
			return false
		}
		return true
	})

	return postalCode, nil
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases, trims and strips diacritics so "Montréal" and
// "Montreal" compare equal.
func foldText(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
