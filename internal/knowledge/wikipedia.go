package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	errx "github.com/deskbot-poc/server/internal/core/error"
	logx "github.com/deskbot-poc/server/pkg/logger"
)

const (
	// DefaultBaseURL is the English Wikipedia action API endpoint.
	DefaultBaseURL = "https://en.wikipedia.org/w/api.php"
	// DefaultMaxResults caps how many documents a single lookup returns.
	DefaultMaxResults = 2
	// searchCandidates is how many titles the search pass considers before
	// the per-page pass filters disambiguation entries out.
	searchCandidates = 10
)

// WikipediaConfig configures the Wikipedia retriever.
type WikipediaConfig struct {
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
}

// WikipediaRetriever resolves topics against the MediaWiki action API. A
// lookup runs a title search and then fetches intro extracts per title,
// skipping disambiguation pages, until MaxResults documents are collected.
type WikipediaRetriever struct {
	baseURL    string
	maxResults int
	client     *http.Client
}

func NewWikipediaRetriever(cfg WikipediaConfig) *WikipediaRetriever {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &WikipediaRetriever{
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type pageResponse struct {
	Query struct {
		Pages map[string]struct {
			Title     string `json:"title"`
			Extract   string `json:"extract"`
			FullURL   string `json:"fullurl"`
			PageProps struct {
				Disambiguation *string `json:"disambiguation"`
			} `json:"pageprops"`
			Missing *string `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
}

func (w *WikipediaRetriever) Retrieve(ctx context.Context, topic string) ([]Document, error) {
	titles, err := w.search(ctx, topic)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, w.maxResults)
	for _, title := range titles {
		doc, ok, err := w.fetchPage(ctx, title)
		if err != nil {
			// A single bad page must not fail the whole lookup.
			logx.Warn().Err(err).Str("title", title).Msg("skipping wikipedia page")
			continue
		}
		if !ok {
			continue
		}
		docs = append(docs, doc)
		if len(docs) >= w.maxResults {
			break
		}
	}
	return docs, nil
}

func (w *WikipediaRetriever) search(ctx context.Context, topic string) ([]string, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {topic},
		"srlimit":  {fmt.Sprint(searchCandidates)},
		"format":   {"json"},
	}

	var resp searchResponse
	if err := w.get(ctx, params, &resp); err != nil {
		return nil, errx.WrapKnowledge(err)
	}

	titles := make([]string, 0, len(resp.Query.Search))
	for _, s := range resp.Query.Search {
		titles = append(titles, s.Title)
	}
	return titles, nil
}

// fetchPage returns the intro extract and canonical URL for a title. The
// second return value is false for disambiguation or missing pages.
func (w *WikipediaRetriever) fetchPage(ctx context.Context, title string) (Document, bool, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts|info|pageprops"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"inprop":      {"url"},
		"redirects":   {"1"},
		"titles":      {title},
		"format":      {"json"},
	}

	var resp pageResponse
	if err := w.get(ctx, params, &resp); err != nil {
		return Document{}, false, errx.WrapKnowledge(err)
	}

	for _, page := range resp.Query.Pages {
		if page.Missing != nil || page.PageProps.Disambiguation != nil {
			return Document{}, false, nil
		}
		if page.Extract == "" {
			return Document{}, false, nil
		}
		return Document{Content: page.Extract, Source: page.FullURL}, true, nil
	}
	return Document{}, false, nil
}

func (w *WikipediaRetriever) get(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "deskbot-poc/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia api status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

var _ Retriever = (*WikipediaRetriever)(nil)
