package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"cuestream/internal/aggregate"
	"cuestream/internal/config"
	"cuestream/internal/imdb"
	"cuestream/internal/justwatch"
	"cuestream/internal/models"
	"cuestream/internal/reconcile"
	"cuestream/internal/watchlist"
)

func main() {
	var (
		configPath    = flag.String("config", "configs/config.yaml", "Path to configuration file")
		autocomplete  = flag.String("autocomplete", "", "Run the two-phase suggestion lookup for a query")
		search        = flag.String("search", "", "Run the full title search for a query")
		titleID       = flag.String("title", "", "Fetch the full record for a title identifier")
		trailerURL    = flag.String("trailer", "", "Resolve a trailer page into its playable stream")
		addID         = flag.String("add", "", "Add a title to the watchlist by identifier")
		removeID      = flag.String("remove", "", "Remove a watchlist entry by identifier")
		list          = flag.Bool("list", false, "Print every watchlist entry")
		status        = flag.String("status", string(watchlist.StatusNotStarted), "Status for -add")
		priority      = flag.Int("priority", 0, "Priority for -add")
		priorityClass = flag.String("priority-class", "", "Priority class for -add (#FP, #SP or #TP)")
		mediaType     = flag.String("media-type", "Movie", "Media type for -add")
		comment       = flag.String("comment", "", "Comment for -add")
		verbose       = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	godotenv.Load()

	logger := newLogger(*verbose)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	titles := imdb.NewClient(&cfg.IMDB, cfg.HTTP, logger)
	availability := justwatch.NewClient(&cfg.JustWatch, cfg.HTTP, logger)
	resolver := reconcile.New(availability, logger)
	facade := aggregate.NewFacade(titles, resolver, logger)

	store, err := watchlist.NewStore(cfg.Watchlist.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open watchlist store")
	}

	ctx := context.Background()

	switch {
	case *autocomplete != "":
		runAutocomplete(ctx, facade, *autocomplete)
	case *search != "":
		runSearch(ctx, facade, *search)
	case *titleID != "":
		runTitle(ctx, facade, *titleID)
	case *trailerURL != "":
		runTrailer(ctx, facade, *trailerURL)
	case *addID != "":
		runAdd(ctx, facade, store, addOptions{
			id:            *addID,
			status:        *status,
			priority:      *priority,
			priorityClass: *priorityClass,
			mediaType:     *mediaType,
			comment:       *comment,
		}, logger)
	case *removeID != "":
		if err := store.Delete(*removeID); err != nil {
			logger.Fatal().Err(err).Msg("Failed to remove entry")
		}
		fmt.Printf("Removed %s\n", *removeID)
	case *list:
		runList(store, logger)
	default:
		fmt.Println("Usage: cuestream [options]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		fmt.Println("\nExamples:")
		fmt.Println("  cuestream -autocomplete \"the shaw\"")
		fmt.Println("  cuestream -search \"the shawshank redemption\"")
		fmt.Println("  cuestream -title tt0111161")
		fmt.Println("  cuestream -add tt0111161 -status Watching -priority-class \"#FP\"")
		fmt.Println("  cuestream -list")
		os.Exit(1)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig reads the file named by CUESTREAM_CONFIG or the -config
// flag, falling back to built-in defaults when neither file exists.
func loadConfig(path string) (*config.Config, error) {
	if env := os.Getenv("CUESTREAM_CONFIG"); env != "" {
		path = env
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func runAutocomplete(ctx context.Context, facade *aggregate.Facade, query string) {
	session := aggregate.NewSession(facade)
	done := make(chan struct{})

	session.Query(ctx, query,
		func(results []models.AutoCompleteResult) {
			fmt.Printf("Suggestions (%d):\n", len(results))
			for _, r := range results {
				fmt.Printf("  %s  %s (%s)\n", r.ID, r.Title, r.Year)
			}
		},
		func(results []models.AutoCompleteResult) {
			fmt.Println("\nEnriched:")
			for _, r := range results {
				fmt.Printf("  %s  %s (%s)  %.1f  %s\n", r.ID, r.Title, r.Year, r.Rating, r.Duration)
			}
			close(done)
		},
	)

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		fmt.Println("Timed out waiting for enrichment")
	}
}

func runSearch(ctx context.Context, facade *aggregate.Facade, query string) {
	results, err := facade.Search(ctx, query)
	if err != nil {
		fmt.Printf("Search failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Results (%d):\n", len(results))
	for _, r := range results {
		fmt.Printf("  %s  %s (%s)  %.1f  %s  %s\n", r.ID, r.Title, r.Year, r.Rating, r.Duration, r.MediaType)
	}
}

func runTitle(ctx context.Context, facade *aggregate.Facade, id string) {
	detail, availability, err := facade.GetTitle(ctx, id)
	if err != nil {
		fmt.Printf("Title lookup failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s (%s)\n", detail.Title, detail.ReleaseDate)
	fmt.Printf("Rating: %.1f (%s votes)\n", detail.Rating, detail.RatingCount)
	fmt.Printf("Genres: %s\n", detail.Genres)
	fmt.Printf("Plot: %s\n", detail.Description)
	fmt.Printf("Actors: %s\n", detail.Actors)
	if detail.MetaScore > 0 {
		fmt.Printf("Metascore: %d\n", detail.MetaScore)
	}

	fmt.Println("\nResolving availability...")
	matched, ok := <-availability
	if !ok || matched == nil {
		fmt.Println("No confident availability match.")
		return
	}

	fmt.Printf("Matched %s (%s)\n", matched.Title, matched.Year)
	if matched.Director != "N/A" {
		fmt.Printf("Director: %s\n", matched.Director)
	}
	if matched.SeasonCount > 0 {
		fmt.Printf("Seasons: %d\n", matched.SeasonCount)
	}
	for _, offer := range matched.Offers {
		fmt.Printf("  %s  %s\n", offer.Name, offer.URL)
	}
}

func runTrailer(ctx context.Context, facade *aggregate.Facade, url string) {
	source, err := facade.GetTrailerSource(ctx, url)
	if err != nil {
		fmt.Printf("Trailer lookup failed: %v\n", err)
		os.Exit(1)
	}
	if source.StreamURL == "" {
		fmt.Println("No playable stream found.")
		return
	}
	fmt.Printf("Thumbnail: %s\n", source.ThumbnailURL)
	fmt.Printf("Stream: %s\n", source.StreamURL)
}

type addOptions struct {
	id            string
	status        string
	priority      int
	priorityClass string
	mediaType     string
	comment       string
}

// runAdd fetches the full record for the title and stores it as a
// watchlist entry with the requested viewing state.
func runAdd(ctx context.Context, facade *aggregate.Facade, store *watchlist.Store, opts addOptions, logger zerolog.Logger) {
	detail, _, err := facade.GetTitle(ctx, opts.id)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to fetch title")
	}

	var genres []string
	for _, g := range strings.Split(detail.Genres, ",") {
		if g = strings.TrimSpace(g); g != "" && g != "N/A" {
			genres = append(genres, g)
		}
	}

	entry := &watchlist.Entry{
		Title:         detail.Title,
		Poster:        detail.Poster,
		Rating:        detail.Rating,
		Plot:          detail.Description,
		Duration:      detail.Duration,
		Status:        watchlist.Status(opts.status),
		Genres:        genres,
		Year:          yearOf(detail.ReleaseDate),
		CrossRefID:    detail.ID,
		MediaType:     opts.mediaType,
		AddedAt:       time.Now().Format("2006-01-02"),
		Priority:      opts.priority,
		DoneTill:      "N/A",
		PriorityClass: watchlist.PriorityClass(opts.priorityClass),
		Comment:       opts.comment,
	}

	if err := store.Save(entry); err != nil {
		logger.Fatal().Err(err).Msg("Failed to save entry")
	}
	fmt.Printf("Added %s (%s)\n", entry.Title, entry.CrossRefID)
}

func runList(store *watchlist.Store, logger zerolog.Logger) {
	entries, err := store.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load watchlist")
	}

	if len(entries) == 0 {
		fmt.Println("Watchlist is empty.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %s (%s)  %s", e.CrossRefID, e.Title, e.Year, e.Status)
		if e.PriorityClass != "" {
			fmt.Printf("  %s", e.PriorityClass)
		}
		fmt.Println()
	}
	fmt.Printf("\nTotal entries: %d\n", len(entries))
}

func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}
