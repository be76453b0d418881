package imdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuestream/internal/config"
)

const suggestionBody = `{
  "d": [
    {"id": "tt0111161", "l": "The Shawshank Redemption", "y": 1994, "q": "feature",
     "i": {"imageUrl": "https://img.example/shawshank.jpg"}},
    {"id": "tt9999999", "l": "No Image Entry", "y": 2001, "q": "feature"},
    {"id": "tt0111164", "l": "The Shawshank Redemption Story", "y": 2001, "q": "video",
     "i": {"imageUrl": "https://img.example/story.jpg"}}
  ]
}`

const searchBody = `<html><body>
<div class="dli-parent">
  <a class="ipc-title-link-wrapper" href="/title/tt0111161/?ref_=sr_t_1"><h3 class="ipc-title__text">1. The Shawshank Redemption</h3></a>
  <span class="dli-title-metadata-item">1994</span>
  <span class="dli-title-metadata-item">2h 22m</span>
  <span class="dli-title-metadata-item">R</span>
  <span class="ipc-rating-star--rating">9.3</span>
  <img class="ipc-image" src="https://img.example/shawshank.jpg"/>
  <span class="dli-title-type-data">Movie</span>
  <div class="dli-plot-container">Two imprisoned men bond over a number of years.</div>
</div>
<div class="dli-parent">
  <a class="ipc-title-link-wrapper" href="/title/tt0000001/"><h3 class="ipc-title__text">2. No Metadata Row</h3></a>
</div>
<div class="dli-parent">
  <a class="ipc-title-link-wrapper" href="/title/tt0000002/"><h3 class="ipc-title__text">Malformed Heading</h3></a>
  <span class="dli-title-metadata-item">2005</span>
</div>
<div class="dli-parent">
  <a class="ipc-title-link-wrapper" href="/title/tt0068646/"><h3 class="ipc-title__text">3. The Godfather</h3></a>
  <span class="dli-title-metadata-item">1972</span>
  <span class="dli-title-metadata-item">R</span>
  <span class="dli-title-metadata-item">2h 55m</span>
  <img class="ipc-image" src="https://img.example/godfather.jpg"/>
  <span class="dli-title-type-data">Movie</span>
</div>
</body></html>`

const detailBody = `<html><head>
<meta property="og:image" content="https://img.example/poster-full.jpg"/>
<script type="application/ld+json">{
  "name": "The Shawshank Redemption",
  "alternateName": "Le ali della libertà",
  "description": "Andy Dufresne &amp; Red forge an unlikely friendship.",
  "aggregateRating": {"ratingValue": 9.3},
  "contentRating": "R",
  "duration": "PT2H22M",
  "genre": ["Drama", "Crime"],
  "datePublished": "1994-09-23",
  "actor": [{"name": "Tim Robbins"}, {"name": "Morgan Freeman"}],
  "trailer": {"embedUrl": "https://www.imdb.com/video/vi3877612057"}
}</script>
</head><body>
<span class="hero__primary-text">The Shawshank Redemption</span>
<div class="sc-eb51e184-3">(3,012,438)</div>
<span class="metacritic-score-box">82</span>
<div class="title-cast__grid">
  <div data-testid="title-cast-item">
    <img alt="Tim Robbins" src="https://img.example/robbins.jpg"/>
    <a data-testid="cast-item-characters-link">Andy Dufresne</a>
  </div>
  <div data-testid="title-cast-item">
    <img alt="Morgan Freeman" src="https://img.example/freeman.jpg"/>
    <a data-testid="cast-item-characters-link">Ellis Boyd 'Red' Redding</a>
  </div>
</div>
<section data-testid="MoreLikeThis">
  <div class="ipc-poster-card">
    <a class="ipc-lockup-overlay" href="/title/tt0068646/?ref_=tt_sims"></a>
    <img class="ipc-image" alt="The Godfather" src="https://img.example/godfather.jpg"/>
    <span class="ipc-rating-star--rating">9.2</span>
  </div>
</section>
<li data-testid="title-details-releasedate"><div><a>October 14, 1994 (United States)</a></div></li>
<li data-testid="title-details-origin"><div><a>United States</a></div></li>
<li data-testid="title-details-languages"><div><a>English</a></div></li>
<li data-testid="title-details-akas"><div><a>Le ali della libertà</a></div></li>
<li data-testid="title-details-filminglocations"><div><a>Mansfield, Ohio, USA</a></div></li>
<li data-testid="title-details-companies"><div><a>Castle Rock Entertainment</a></div></li>
</body></html>`

const trailerBody = `<html><body>
<script id="__NEXT_DATA__" type="application/json">{
  "props": {"pageProps": {"videoPlaybackData": {"video": {
    "thumbnail": {"url": "https://img.example/thumb.jpg"},
    "playbackURLs": [{"url": "https://video.example/stream.m3u8"}]
  }}}}
}</script>
</body></html>`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	cfg := &config.IMDBConfig{
		BaseURL:       ts.URL,
		SuggestionURL: ts.URL + "/suggestion",
		UserAgent:     "test-agent",
	}
	return NewClient(cfg, config.HTTPConfig{TimeoutSeconds: 5}, zerolog.Nop())
}

func TestAutocompleteSkipsEntriesWithoutImage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "/suggestion/t/the+shawshank.json", r.URL.Path)
		w.Write([]byte(suggestionBody))
	})

	results, err := c.Autocomplete(context.Background(), "The Shawshank")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "tt0111161", results[0].ID)
	assert.Equal(t, "The Shawshank Redemption", results[0].Title)
	assert.Equal(t, "1994", results[0].Year)
	assert.Equal(t, "https://img.example/shawshank.jpg", results[0].Poster)
	assert.Equal(t, 0.0, results[0].Rating)
	assert.Equal(t, "-/-", results[0].Duration)
	assert.Equal(t, "tt0111164", results[1].ID)
}

func TestAutocompleteEmptyQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty query")
	})

	results, err := c.Autocomplete(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearchSkipsUnusableRows(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/title/", r.URL.Path)
		w.Write([]byte(searchBody))
	})

	results, err := c.Search(context.Background(), "the shawshank")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "tt0111161", first.ID)
	assert.Equal(t, "The Shawshank Redemption", first.Title)
	assert.Equal(t, "1994", first.Year)
	assert.Equal(t, 9.3, first.Rating)
	assert.Equal(t, "2h 22m", first.Duration)
	assert.Equal(t, "R", first.ViewerClass)
	assert.Equal(t, "Movie", first.MediaType)
	assert.Equal(t, "Two imprisoned men bond over a number of years.", first.Plot)

	// Fragments arrive classification-first here; the duration token wins.
	second := results[1]
	assert.Equal(t, "tt0068646", second.ID)
	assert.Equal(t, "2h 55m", second.Duration)
	assert.Equal(t, "R", second.ViewerClass)
	assert.Equal(t, 0.0, second.Rating)
	assert.Equal(t, "N/A", second.Plot)
}

func TestGetDetail(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/title/tt0111161", r.URL.Path)
		w.Write([]byte(detailBody))
	})

	detail, err := c.GetDetail(context.Background(), "tt0111161")
	require.NoError(t, err)

	assert.Equal(t, "tt0111161", detail.ID)
	assert.Equal(t, "The Shawshank Redemption", detail.Title)
	assert.Equal(t, "https://img.example/poster-full.jpg", detail.Poster)
	assert.Equal(t, "Le ali della libertà", detail.AltTitle)
	assert.Equal(t, "Andy Dufresne & Red forge an unlikely friendship.", detail.Description)
	assert.Equal(t, 9.3, detail.Rating)
	assert.Equal(t, "3012438", detail.RatingCount)
	assert.Equal(t, "R", detail.ViewerClass)
	assert.Equal(t, "PT2H22M", detail.Duration)
	assert.Equal(t, "Drama, Crime", detail.Genres)
	assert.Equal(t, "1994-09-23", detail.ReleaseDate)
	assert.Equal(t, "Tim Robbins, Morgan Freeman", detail.Actors)
	assert.Equal(t, "https://www.imdb.com/video/vi3877612057", detail.Trailer)
	assert.Equal(t, 82, detail.MetaScore)

	require.Len(t, detail.Cast, 2)
	assert.Equal(t, "Tim Robbins", detail.Cast[0].Name)
	assert.Equal(t, "Andy Dufresne", detail.Cast[0].Role)
	assert.Equal(t, "https://img.example/robbins.jpg", detail.Cast[0].Portrait)

	require.Len(t, detail.MoreLikeThis, 1)
	assert.Equal(t, "tt0068646", detail.MoreLikeThis[0].ID)
	assert.Equal(t, "The Godfather", detail.MoreLikeThis[0].Title)
	assert.Equal(t, 9.2, detail.MoreLikeThis[0].Rating)

	assert.Equal(t, "October 14, 1994 (United States)", detail.ReleaseDateLong)
	assert.Equal(t, "United States", detail.CountryOfOrigin)
	assert.Equal(t, "English", detail.Languages)
	assert.Equal(t, "Le ali della libertà", detail.AlsoKnownAs)
	assert.Equal(t, "Mansfield, Ohio, USA", detail.FilmingLocations)
	assert.Equal(t, "Castle Rock Entertainment", detail.ProductionCompanies)

	// No critic source is consulted during a detail fetch.
	assert.Equal(t, "N/A", detail.RottenMeter.Sentiment)
	assert.Equal(t, 0, detail.RottenMeter.Critic)
}

func TestGetDetailNoContent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	})

	detail, err := c.GetDetail(context.Background(), "tt0000000")
	assert.Error(t, err)
	assert.Nil(t, detail)
}

func TestGetTrailerSource(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(trailerBody))
	})

	ts, err := c.GetTrailerSource(context.Background(), c.cfg.BaseURL+"/video/vi3877612057")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/thumb.jpg", ts.ThumbnailURL)
	assert.Equal(t, "https://video.example/stream.m3u8", ts.StreamURL)
}

func TestGetTrailerSourceMissingPayload(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body></body></html>`))
	})

	ts, err := c.GetTrailerSource(context.Background(), c.cfg.BaseURL+"/video/vi0")
	require.NoError(t, err)
	assert.Empty(t, ts.ThumbnailURL)
	assert.Empty(t, ts.StreamURL)
}

func TestNonSuccessStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Search(context.Background(), "anything")
	assert.Error(t, err)

	_, err = c.Autocomplete(context.Background(), "anything")
	assert.Error(t, err)

	detail, err := c.GetDetail(context.Background(), "tt0111161")
	assert.Error(t, err)
	assert.Nil(t, detail)
}
