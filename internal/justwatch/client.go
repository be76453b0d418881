// Package justwatch is the streaming-availability source client. Both
// operations go through one GraphQL endpoint with persisted query text;
// responses are traversed path-wise so partial payloads degrade to
// defaults instead of failing.
package justwatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"cuestream/internal/config"
	"cuestream/internal/models"
	"cuestream/internal/scrape"
)

const suggestedTitlesQuery = `query GetSuggestedTitles($country: Country!, $language: Language!, $first: Int!, $filter: TitleFilter) { popularTitles(country: $country, first: $first, filter: $filter) { edges { node { id objectType content(country: $country, language: $language) { title originalReleaseYear fullPath } } } } }`

const nodeTitleDetailsQuery = `query GetNodeTitleDetails($entityId: ID!, $country: Country!, $language: Language!) { node(id: $entityId) { ... on MovieOrShowOrSeason { objectType content(country: $country, language: $language) { title originalReleaseYear posterUrl fullPath runtime originalTitle ageCertification externalIds { imdbId } scoring { jwRating tomatoMeter } backdrops { backdropUrl } clips { name sourceUrl } credits(role: DIRECTOR) { name role } } offers(country: $country, platform: WEB) { standardWebURL package { clearName } } ... on Show { totalSeasonCount seasons(sortDirection: DESC) { totalEpisodeCount content(country: $country, language: $language) { title posterUrl originalReleaseYear } } } } } }`

// Candidate is one suggestion returned for a free-text query, carrying
// just enough to score and to fetch the full record afterwards.
type Candidate struct {
	EntityID string
	Title    string
	Year     string
	FullPath string
}

type graphqlRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query"`
}

// Client issues the suggestion and node-detail requests.
type Client struct {
	cfg        *config.JustWatchConfig
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates an availability client.
func NewClient(cfg *config.JustWatchConfig, timeout config.HTTPConfig, logger zerolog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout.Timeout()},
		log:        logger.With().Str("source", "justwatch").Logger(),
	}
}

// SuggestedTitles fetches the first page of suggestions for query.
func (c *Client) SuggestedTitles(ctx context.Context, query string) ([]Candidate, error) {
	body, err := c.post(ctx, graphqlRequest{
		OperationName: "GetSuggestedTitles",
		Variables: map[string]any{
			"country":  c.cfg.Country,
			"language": c.cfg.Language,
			"first":    c.cfg.PageSize,
			"filter": map[string]any{
				"searchQuery":             query,
				"includeTitlesWithoutUrl": true,
			},
		},
		Query: suggestedTitlesQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("suggested titles request: %w", err)
	}

	var candidates []Candidate
	for _, edge := range gjson.GetBytes(body, "data.popularTitles.edges").Array() {
		node := edge.Get("node")
		candidates = append(candidates, Candidate{
			EntityID: node.Get("id").String(),
			Title:    node.Get("content.title").String(),
			Year:     node.Get("content.originalReleaseYear").String(),
			FullPath: node.Get("content.fullPath").String(),
		})
	}

	return candidates, nil
}

// TitleDetails fetches the full availability record for one entity. An
// answer without a content block means the entity is not served for the
// configured locale and is an error.
func (c *Client) TitleDetails(ctx context.Context, entityID string) (*models.AvailabilityDetail, error) {
	body, err := c.post(ctx, graphqlRequest{
		OperationName: "GetNodeTitleDetails",
		Variables: map[string]any{
			"entityId": entityID,
			"country":  c.cfg.Country,
			"language": c.cfg.Language,
		},
		Query: nodeTitleDetailsQuery,
	})
	if err != nil {
		return nil, fmt.Errorf("title details request: %w", err)
	}

	node := gjson.GetBytes(body, "data.node")
	content := node.Get("content")
	if !content.Exists() {
		return nil, fmt.Errorf("no title details for %s", entityID)
	}

	detail := &models.AvailabilityDetail{
		ID:               entityID,
		Title:            content.Get("title").String(),
		Year:             content.Get("originalReleaseYear").String(),
		Poster:           content.Get("posterUrl").String(),
		JWRating:         scrape.JSONFloat(content, "scoring.jwRating", 0.0),
		TomatoMeter:      scrape.JSONInt(content, "scoring.tomatoMeter", 0),
		Runtime:          scrape.JSONInt(content, "runtime", 0),
		OriginalTitle:    content.Get("originalTitle").String(),
		AgeCertification: content.Get("ageCertification").String(),
		CrossRefID:       content.Get("externalIds.imdbId").String(),
		SeasonCount:      scrape.JSONInt(node, "totalSeasonCount", 0),
		Director:         directorName(content),
	}

	for _, offer := range node.Get("offers").Array() {
		detail.Offers = append(detail.Offers, models.Offer{
			Name: scrape.JSONStr(offer, "package.clearName", "N/A"),
			URL:  offer.Get("standardWebURL").String(),
		})
	}

	for _, season := range node.Get("seasons").Array() {
		detail.Seasons = append(detail.Seasons, models.Season{
			EpisodeCount: scrape.JSONInt(season, "totalEpisodeCount", 0),
			Name:         season.Get("content.title").String(),
			Poster:       season.Get("content.posterUrl").String(),
			ReleaseYear:  scrape.JSONInt(season, "content.originalReleaseYear", 0),
		})
	}

	for _, backdrop := range content.Get("backdrops").Array() {
		if url := backdrop.Get("backdropUrl").String(); url != "" {
			detail.Backdrops = append(detail.Backdrops, url)
		}
	}

	for _, clip := range content.Get("clips").Array() {
		detail.Clips = append(detail.Clips, models.Clip{
			Title: clip.Get("name").String(),
			URL:   clip.Get("sourceUrl").String(),
		})
	}

	return detail, nil
}

func directorName(content gjson.Result) string {
	for _, credit := range content.Get("credits").Array() {
		if credit.Get("role").String() == "DIRECTOR" {
			return credit.Get("name").String()
		}
	}
	return "N/A"
}

// post sends one GraphQL operation with the fixed client-identifying
// header.
func (c *Client) post(ctx context.Context, payload graphqlRequest) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GraphQLURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
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
