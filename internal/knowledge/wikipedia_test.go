package knowledge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWiki serves the two action API shapes the retriever issues: a title
// search and a per-title extract fetch.
type fakeWiki struct {
	titles       []string
	pages        map[string]string // title -> extract, absent means missing page
	disambiguous map[string]bool
	searches     int
	fetches      int
}

func (f *fakeWiki) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")

		if q.Get("list") == "search" {
			f.searches++
			out := `{"query":{"search":[`
			for i, t := range f.titles {
				if i > 0 {
					out += ","
				}
				out += fmt.Sprintf(`{"title":%q}`, t)
			}
			out += `]}}`
			fmt.Fprint(w, out)
			return
		}

		f.fetches++
		title := q.Get("titles")
		extract, ok := f.pages[title]
		if !ok {
			fmt.Fprintf(w, `{"query":{"pages":{"-1":{"title":%q,"missing":""}}}}`, title)
			return
		}
		props := `{}`
		if f.disambiguous[title] {
			props = `{"disambiguation":""}`
		}
		fmt.Fprintf(w,
			`{"query":{"pages":{"1":{"title":%q,"extract":%q,"fullurl":"https://wiki.test/%s","pageprops":%s}}}}`,
			title, extract, title, props)
	}
}

func newTestRetriever(t *testing.T, wiki *fakeWiki, maxResults int) *WikipediaRetriever {
	t.Helper()
	srv := httptest.NewServer(wiki.handler())
	t.Cleanup(srv.Close)
	return NewWikipediaRetriever(WikipediaConfig{BaseURL: srv.URL, MaxResults: maxResults})
}

func TestWikipediaRetrieve_CapsResults(t *testing.T) {
	wiki := &fakeWiki{
		titles: []string{"A", "B", "C"},
		pages:  map[string]string{"A": "alpha", "B": "beta", "C": "gamma"},
	}
	r := newTestRetriever(t, wiki, 2)

	docs, err := r.Retrieve(context.Background(), "letters")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "alpha", docs[0].Content)
	assert.Equal(t, "https://wiki.test/A", docs[0].Source)
	assert.Equal(t, "beta", docs[1].Content)
	assert.Equal(t, 2, wiki.fetches, "fetching stops once the cap is reached")
}

func TestWikipediaRetrieve_SkipsDisambiguationAndMissing(t *testing.T) {
	wiki := &fakeWiki{
		titles:       []string{"Mercury", "Gone", "Mercury (planet)"},
		pages:        map[string]string{"Mercury": "several meanings", "Mercury (planet)": "the smallest planet"},
		disambiguous: map[string]bool{"Mercury": true},
	}
	r := newTestRetriever(t, wiki, 2)

	docs, err := r.Retrieve(context.Background(), "mercury")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "the smallest planet", docs[0].Content)
}

func TestWikipediaRetrieve_NoResults(t *testing.T) {
	wiki := &fakeWiki{}
	r := newTestRetriever(t, wiki, 2)

	docs, err := r.Retrieve(context.Background(), "qwzx")
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Zero(t, wiki.fetches)
}

func TestWikipediaRetrieve_SearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	r := NewWikipediaRetriever(WikipediaConfig{BaseURL: srv.URL})

	_, err := r.Retrieve(context.Background(), "anything")
	require.Error(t, err)
}
