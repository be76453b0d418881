package models

// SearchResult is one row scraped from the bulk title search page.
// Rebuilt on every search, never persisted.
type SearchResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Year        string  `json:"year"`
	Rating      float64 `json:"rating"` // 0.0 means unknown, not zero-rated
	Duration    string  `json:"duration"`
	ViewerClass string  `json:"viewer_class"`
	Plot        string  `json:"plot"`
	Poster      string  `json:"poster"`
	MediaType   string  `json:"media_type"`
}

// AutoCompleteResult is the lightweight suggestion record delivered by the
// fast path. Rating, plot and duration are patched in place by identifier
// once the slower full search completes.
type AutoCompleteResult struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Year      string  `json:"year"`
	Poster    string  `json:"poster"`
	MediaType string  `json:"media_type"`
	Rating    float64 `json:"rating"`
	Plot      string  `json:"plot,omitempty"`
	Duration  string  `json:"duration,omitempty"`
}

// CastMember is one credited cast entry on a title detail page.
type CastMember struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Portrait string `json:"portrait"`
}

// Recommendation is one related-title card from a detail page.
type Recommendation struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
	Poster string  `json:"poster"`
}

// CriticScore is the critic/audience aggregate attached to a title.
type CriticScore struct {
	Critic    int    `json:"critic"`
	Audience  int    `json:"audience"`
	Sentiment string `json:"sentiment"`
}

// UnknownCriticScore returns the neutral sentinel used when no score
// source was consulted.
func UnknownCriticScore() CriticScore {
	return CriticScore{Critic: 0, Audience: 0, Sentiment: "N/A"}
}

// TitleDetail is the full record for one title, built once per detail
// fetch and replaced wholesale when the active title changes.
type TitleDetail struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	Poster              string           `json:"poster"`
	AltTitle            string           `json:"alt_title"`
	Description         string           `json:"description"`
	Rating              float64          `json:"rating"`
	RatingCount         string           `json:"rating_count"`
	ViewerClass         string           `json:"viewer_class"`
	Duration            string           `json:"duration"`
	Genres              string           `json:"genres"`
	ReleaseDate         string           `json:"release_date"`
	Actors              string           `json:"actors"`
	Trailer             string           `json:"trailer"`
	Cast                []CastMember     `json:"cast"`
	MoreLikeThis        []Recommendation `json:"more_like_this"`
	ReleaseDateLong     string           `json:"release_date_long"`
	CountryOfOrigin     string           `json:"country_of_origin"`
	Languages           string           `json:"languages"`
	AlsoKnownAs         string           `json:"also_known_as"`
	FilmingLocations    string           `json:"filming_locations"`
	ProductionCompanies string           `json:"production_companies"`
	MetaScore           int              `json:"meta_score"`
	RottenMeter         CriticScore      `json:"rotten_meter"`
}

// Offer is a single watch offer on a streaming service.
type Offer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Season summarizes one season of a show.
type Season struct {
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name"`
	Poster       string `json:"poster"`
	ReleaseYear  int    `json:"release_year"`
}

// Clip is a promotional clip reference.
type Clip struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// AvailabilityDetail is the cross-source-matched availability record.
// Absent until reconciliation succeeds; discarded when the active title
// changes. CrossRefID carries the title-database identifier embedded in
// the availability payload and is used to validate the fuzzy match.
type AvailabilityDetail struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Year             string   `json:"year"`
	Poster           string   `json:"poster"`
	Offers           []Offer  `json:"offers"`
	JWRating         float64  `json:"jw_rating"`
	TomatoMeter      int      `json:"tomato_meter"`
	Runtime          int      `json:"runtime"`
	OriginalTitle    string   `json:"original_title"`
	AgeCertification string   `json:"age_certification"`
	CrossRefID       string   `json:"cross_ref_id"`
	SeasonCount      int      `json:"season_count"`
	Seasons          []Season `json:"seasons"`
	Backdrops        []string `json:"backdrops"`
	Clips            []Clip   `json:"clips"`
	Director         string   `json:"director"`
}

// TrailerSource is the playable pair extracted from a trailer page.
// Either field may be empty when the payload lacks it; the caller treats
// empty as unavailable.
type TrailerSource struct {
	ThumbnailURL string `json:"thumbnail_url"`
	StreamURL    string `json:"stream_url"`
}
