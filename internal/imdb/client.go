// Package imdb is the title-metadata source client. All operations
// scrape unversioned pages; per-record parse failures skip the record,
// total failures yield no result.
package imdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"cuestream/internal/config"
	"cuestream/internal/models"
	"cuestream/internal/scrape"
)

// Client issues the suggestion, search, detail and trailer requests.
// Safe for concurrent use; each call creates its own request and
// completion path.
type Client struct {
	cfg        *config.IMDBConfig
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a title-metadata client.
func NewClient(cfg *config.IMDBConfig, timeout config.HTTPConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout.Timeout()},
		log:        logger.With().Str("source", "imdb").Logger(),
	}
}

// Autocomplete fetches lightweight suggestions for query. Entries
// without an image are skipped. Rating, plot and duration stay at their
// placeholders until the slow search pass patches them.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]models.AutoCompleteResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	q := strings.ToLower(strings.ReplaceAll(query, " ", "+"))
	first := string([]rune(q)[0])
	url := fmt.Sprintf("%s/%s/%s.json", c.cfg.SuggestionURL, first, q)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("suggestion request: %w", err)
	}

	var results []models.AutoCompleteResult
	for _, item := range gjson.GetBytes(body, "d").Array() {
		if !item.Get("i").Exists() {
			continue
		}
		results = append(results, models.AutoCompleteResult{
			ID:        item.Get("id").String(),
			Title:     item.Get("l").String(),
			Year:      item.Get("y").String(),
			Poster:    item.Get("i.imageUrl").String(),
			MediaType: item.Get("q").String(),
			Rating:    0.0,
			Duration:  "-/-",
		})
	}

	return results, nil
}

// Search scrapes the full search-result listing for query. Rows missing
// their metadata fragments are unusable and skipped; a malformed row
// never aborts its siblings.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	url := fmt.Sprintf("%s/search/title/?title=%s", c.cfg.BaseURL, strings.ReplaceAll(query, " ", "+"))

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing search page: %w", err)
	}

	var results []models.SearchResult
	doc.Find("div.dli-parent").Each(func(_ int, row *goquery.Selection) {
		res, ok := c.parseSearchRow(row)
		if !ok {
			return
		}
		results = append(results, res)
	})

	return results, nil
}

func (c *Client) parseSearchRow(row *goquery.Selection) (models.SearchResult, bool) {
	heading := strings.TrimSpace(row.Find("h3.ipc-title__text").First().Text())
	parts := strings.SplitN(heading, ". ", 2)
	if len(parts) != 2 {
		c.log.Debug().Str("heading", heading).Msg("skipping row with unexpected heading")
		return models.SearchResult{}, false
	}
	title := parts[1]

	meta := row.Find("span.dli-title-metadata-item")
	if meta.Length() == 0 {
		return models.SearchResult{}, false
	}
	var fragments []string
	meta.Each(func(_ int, frag *goquery.Selection) {
		fragments = append(fragments, strings.TrimSpace(frag.Text()))
	})
	year := fragments[0]
	duration, viewerClass := scrape.SplitDurationAndClass(fragments)

	rating := 0.0
	if ratingText := strings.TrimSpace(row.Find("span.ipc-rating-star--rating").First().Text()); ratingText != "" {
		v, err := strconv.ParseFloat(ratingText, 64)
		if err != nil {
			c.log.Debug().Str("title", title).Str("rating", ratingText).Msg("skipping row with malformed rating")
			return models.SearchResult{}, false
		}
		rating = v
	}

	id := idFromHref(scrape.Attr(row, "a.ipc-title-link-wrapper", "href", ""))
	if id == "" {
		return models.SearchResult{}, false
	}

	return models.SearchResult{
		ID:          id,
		Title:       title,
		Year:        year,
		Rating:      rating,
		Duration:    duration,
		ViewerClass: viewerClass,
		Plot:        scrape.OrNA(row.Find("div.dli-plot-container").Text()),
		Poster:      scrape.Attr(row, "img.ipc-image", "src", ""),
		MediaType:   scrape.OrNA(row.Find("span.dli-title-type-data").Text()),
	}, true
}

// GetDetail scrapes the full detail record for one title. The page
// carries a JSON-LD block for the structured fields plus scoped DOM
// nodes for everything the block omits. A page with neither a primary
// title nor a metadata block yields no result.
func (c *Client) GetDetail(ctx context.Context, id string) (*models.TitleDetail, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/title/%s", c.cfg.BaseURL, id))
	if err != nil {
		return nil, fmt.Errorf("detail request: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing detail page: %w", err)
	}

	meta := gjson.Parse(doc.Find(`script[type="application/ld+json"]`).First().Text())
	title := strings.TrimSpace(doc.Find("span.hero__primary-text").First().Text())
	if title == "" && !meta.Get("name").Exists() {
		return nil, fmt.Errorf("no detail available for %s", id)
	}

	detail := &models.TitleDetail{
		ID:                  id,
		Title:               scrape.OrNA(title),
		Poster:              scrape.Attr(doc.Selection, `meta[property="og:image"]`, "content", ""),
		AltTitle:            scrape.JSONStr(meta, "alternateName", ""),
		Description:         scrape.UnescapeHTML(scrape.JSONStr(meta, "description", "")),
		Rating:              scrape.JSONFloat(meta, "aggregateRating.ratingValue", 0.0),
		RatingCount:         c.ratingCount(doc),
		ViewerClass:         scrape.JSONStr(meta, "contentRating", ""),
		Duration:            scrape.JSONStr(meta, "duration", ""),
		Genres:              scrape.JSONJoin(meta, "genre", ", ", "N/A"),
		ReleaseDate:         scrape.JSONStr(meta, "datePublished", ""),
		Actors:              scrape.JSONJoin(meta, "actor.#.name", ", ", "N/A"),
		Trailer:             scrape.JSONStr(meta, "trailer.embedUrl", ""),
		Cast:                parseCast(doc),
		MoreLikeThis:        parseMoreLikeThis(doc),
		ReleaseDateLong:     detailField(doc, "title-details-releasedate"),
		CountryOfOrigin:     detailField(doc, "title-details-origin"),
		Languages:           detailField(doc, "title-details-languages"),
		AlsoKnownAs:         detailField(doc, "title-details-akas"),
		FilmingLocations:    detailField(doc, "title-details-filminglocations"),
		ProductionCompanies: detailField(doc, "title-details-companies"),
		MetaScore:           scrape.Int(doc.Selection, "span.metacritic-score-box", 0),
		RottenMeter:         models.UnknownCriticScore(),
	}

	return detail, nil
}

// GetTrailerSource extracts the thumbnail and playable stream URL from
// the embedded payload on a trailer page. Missing fields come back as
// empty strings for the caller to treat as unavailable.
func (c *Client) GetTrailerSource(ctx context.Context, url string) (models.TrailerSource, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return models.TrailerSource{}, fmt.Errorf("trailer request: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return models.TrailerSource{}, fmt.Errorf("parsing trailer page: %w", err)
	}

	payload := gjson.Parse(doc.Find(`script[id="__NEXT_DATA__"]`).First().Text())
	video := payload.Get("props.pageProps.videoPlaybackData.video")

	return models.TrailerSource{
		ThumbnailURL: scrape.JSONStr(video, "thumbnail.url", ""),
		StreamURL:    scrape.JSONStr(video, "playbackURLs.0.url", ""),
	}, nil
}

// get performs a GET with the fixed browser-identifying header.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func parseCast(doc *goquery.Document) []models.CastMember {
	var cast []models.CastMember
	doc.Find("div.title-cast__grid").First().
		Find(`div[data-testid="title-cast-item"]`).
		Each(func(_ int, item *goquery.Selection) {
			cast = append(cast, models.CastMember{
				Name:     scrape.Attr(item, "img", "alt", ""),
				Role:     strings.TrimSpace(item.Find(`a[data-testid="cast-item-characters-link"]`).Text()),
				Portrait: scrape.Attr(item, "img", "src", ""),
			})
		})
	return cast
}

func parseMoreLikeThis(doc *goquery.Document) []models.Recommendation {
	var recs []models.Recommendation
	doc.Find(`section[data-testid="MoreLikeThis"]`).First().
		Find("div.ipc-poster-card").
		Each(func(_ int, card *goquery.Selection) {
			id := idFromHref(scrape.Attr(card, "a.ipc-lockup-overlay", "href", ""))
			if id == "" {
				return
			}
			recs = append(recs, models.Recommendation{
				ID:     id,
				Title:  scrape.Attr(card, "img.ipc-image", "alt", ""),
				Rating: scrape.Float(card, "span.ipc-rating-star--rating", 0.0),
				Poster: scrape.Attr(card, "img.ipc-image", "src", ""),
			})
		})
	return recs
}

// detailField reads one entry of the title-details list by its test id.
func detailField(doc *goquery.Document, testID string) string {
	sel := doc.Find(fmt.Sprintf(`li[data-testid="%s"]`, testID)).Find("div").First()
	return scrape.OrNA(sel.Find("a").Text())
}

// ratingCount strips the display formatting from the vote-count node.
func (c *Client) ratingCount(doc *goquery.Document) string {
	text := strings.TrimSpace(doc.Find("div.sc-eb51e184-3").First().Text())
	if text == "" {
		return "0"
	}
	replacer := strings.NewReplacer("(", "", ")", "", ",", "", " ", "")
	return replacer.Replace(text)
}

// idFromHref pulls the title identifier out of a relative link of the
// form /title/tt0111161/?ref_=...
func idFromHref(href string) string {
	const marker = "title/"
	idx := strings.Index(href, marker)
	if idx < 0 {
		return ""
	}
	rest := href[idx+len(marker):]
	if end := strings.Index(rest, "/"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}
