// Package watchlist persists the user's saved titles as one JSON file
// per entry. Files from the older positional text format are migrated
// to JSON on first load.
package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Status is the viewing state of a saved entry.
type Status string

const (
	StatusWatching   Status = "Watching"
	StatusNotStarted Status = "Not Started"
	StatusCompleted  Status = "Completed"
	StatusDropped    Status = "Dropped"
	StatusOnHold     Status = "On Hold"
)

// PriorityClass buckets entries into first, second and third priority.
type PriorityClass string

const (
	FirstPriority  PriorityClass = "#FP"
	SecondPriority PriorityClass = "#SP"
	ThirdPriority  PriorityClass = "#TP"
)

var validStatuses = map[Status]bool{
	StatusWatching:   true,
	StatusNotStarted: true,
	StatusCompleted:  true,
	StatusDropped:    true,
	StatusOnHold:     true,
}

var validPriorityClasses = map[PriorityClass]bool{
	FirstPriority:  true,
	SecondPriority: true,
	ThirdPriority:  true,
}

// Entry is one saved title. CrossRefID doubles as the storage key.
type Entry struct {
	Title         string        `json:"title"`
	Poster        string        `json:"poster"`
	Rating        float64       `json:"rating"`
	Plot          string        `json:"plot"`
	Duration      string        `json:"duration"`
	Status        Status        `json:"status"`
	Genres        []string      `json:"genres"`
	Year          string        `json:"year"`
	CrossRefID    string        `json:"cross_ref_id"`
	MediaType     string        `json:"media_type"`
	AddedAt       string        `json:"added_at"`
	Priority      int           `json:"priority"`
	DoneTill      string        `json:"done_till"`
	PriorityClass PriorityClass `json:"priority_class"`
	Comment       string        `json:"comment"`
}

// Validate checks that the entry can be stored and later retrieved.
func (e *Entry) Validate() error {
	if e.CrossRefID == "" {
		return fmt.Errorf("entry has no identifier")
	}
	if e.Title == "" {
		return fmt.Errorf("entry %s has no title", e.CrossRefID)
	}
	if !validStatuses[e.Status] {
		return fmt.Errorf("entry %s has unknown status %q", e.CrossRefID, e.Status)
	}
	if e.PriorityClass != "" && !validPriorityClasses[e.PriorityClass] {
		return fmt.Errorf("entry %s has unknown priority class %q", e.CrossRefID, e.PriorityClass)
	}
	return nil
}

// Store reads and writes entries under a single directory.
type Store struct {
	dir string
}

// NewStore creates the storage directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating watchlist directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) entryPath(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("entry_%s.json", id))
}

// Save validates and writes one entry. The write goes through a
// temporary file and a rename so a crash never leaves a torn entry.
func (s *Store) Save(entry *Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding entry %s: %w", entry.CrossRefID, err)
	}

	path := s.entryPath(entry.CrossRefID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing entry %s: %w", entry.CrossRefID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing entry %s: %w", entry.CrossRefID, err)
	}

	return nil
}

// Delete removes one entry. Deleting an absent entry is not an error.
func (s *Store) Delete(id string) error {
	err := os.Remove(s.entryPath(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	return nil
}

// Load reads every entry in the directory. Files still in the old
// positional text format are parsed, rewritten as JSON and returned
// alongside the rest. Unreadable files are skipped, never fatal.
func (s *Store) Load() ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading watchlist directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasPrefix(f.Name(), "entry_") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, f.Name()))
		if err != nil {
			continue
		}

		text := strings.TrimSpace(string(data))
		if strings.HasPrefix(text, "WLEntry(") {
			entry, err := ParseLegacyEntry(text)
			if err != nil {
				continue
			}
			if err := s.Save(entry); err == nil {
				entries = append(entries, *entry)
			}
			continue
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Merge combines in-memory entries with loaded ones, keeping the first
// occurrence per identifier. Active entries win over loaded ones.
func Merge(active, loaded []Entry) []Entry {
	seen := make(map[string]bool, len(active)+len(loaded))
	var merged []Entry
	for _, e := range append(append([]Entry{}, active...), loaded...) {
		if seen[e.CrossRefID] {
			continue
		}
		seen[e.CrossRefID] = true
		merged = append(merged, e)
	}
	return merged
}

var legacyEntryRe = regexp.MustCompile(
	`WLEntry\(title=(.*?), image=(.*?), rating=(.*?), plot=(.*?), duration=(.*?), status=(.*?), ` +
		`genres=\[(.*?)\], year=(.*?), imdbID=(.*?), type=(.*?), date=(.*?), priority=(.*?), ` +
		`doneTill=(.*?), priorityClass=(.*?), comment=(.*?)\)`)

// ParseLegacyEntry decodes the old positional text serialization. The
// lazy field patterns mean a comma inside a free-text field can shift
// everything after it; entries written that way were already corrupt
// in the old format and fail validation here.
func ParseLegacyEntry(text string) (*Entry, error) {
	m := legacyEntryRe.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("unrecognized legacy entry")
	}

	rating, _ := strconv.ParseFloat(m[3], 64)
	priority, _ := strconv.Atoi(m[12])

	var genres []string
	for _, g := range strings.Split(m[7], ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}

	entry := &Entry{
		Title:         m[1],
		Poster:        m[2],
		Rating:        rating,
		Plot:          m[4],
		Duration:      m[5],
		Status:        Status(m[6]),
		Genres:        genres,
		Year:          m[8],
		CrossRefID:    m[9],
		MediaType:     m[10],
		AddedAt:       m[11],
		Priority:      priority,
		DoneTill:      m[13],
		PriorityClass: PriorityClass(m[14]),
		Comment:       m[15],
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("legacy entry: %w", err)
	}

	return entry, nil
}
