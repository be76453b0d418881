package main

import (
	"flag"
	"fmt"
	"os"

	"cuestream/internal/watchlist"
)

func main() {
	var (
		dir      = flag.String("dir", "watchlist", "Watchlist directory to read")
		detailed = flag.Bool("detailed", false, "Show plot, comment and progress per entry")
	)
	flag.Parse()

	store, err := watchlist.NewStore(*dir)
	if err != nil {
		fmt.Printf("Error opening watchlist: %v\n", err)
		os.Exit(1)
	}

	entries, err := store.Load()
	if err != nil {
		fmt.Printf("Error reading watchlist: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Watchlist Summary\n")
	fmt.Printf("=================\n\n")

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return
	}

	byStatus := make(map[watchlist.Status]int)
	for _, e := range entries {
		byStatus[e.Status]++

		fmt.Printf("%s (%s)\n", e.Title, e.Year)
		fmt.Printf("   ID: %s\n", e.CrossRefID)
		fmt.Printf("   Status: %s", e.Status)
		if e.PriorityClass != "" {
			fmt.Printf("  %s", e.PriorityClass)
		}
		fmt.Printf("\n")
		if e.Rating > 0 {
			fmt.Printf("   Rating: %.1f\n", e.Rating)
		}
		if *detailed {
			if e.Plot != "" {
				fmt.Printf("   Plot: %s\n", e.Plot)
			}
			if e.DoneTill != "" && e.DoneTill != "N/A" {
				fmt.Printf("   Watched up to: %s\n", e.DoneTill)
			}
			if e.Comment != "" {
				fmt.Printf("   Comment: %s\n", e.Comment)
			}
			fmt.Printf("   Added: %s\n", e.AddedAt)
		}
		fmt.Printf("\n")
	}

	fmt.Printf("Total entries: %d\n", len(entries))
	for status, count := range byStatus {
		fmt.Printf("  %s: %d\n", status, count)
	}
}
