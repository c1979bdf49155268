package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/pkg/search"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	adapter := flag.String("adapter", murmur.AdapterFS, "Storage adapter to benchmark (fs, sqlite)")
	query := flag.String("query", "note 42", "Search query for the filter run")
	keep := flag.Bool("keep", false, "Keep the benchmark store after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "murmur_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	opts := []murmur.Option{
		murmur.WithLogger(logger),
		murmur.WithAdapter(*adapter),
		murmur.WithDevSafety(false),
	}

	b, err := murmur.New(benchDir, opts...)
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	// Every Add rewrites the whole record, so generation is quadratic in I/O.
	fmt.Printf("Adding %d notes to %s (%s)...\n", *count, benchDir, *adapter)
	startAdd := time.Now()
	for i := 0; i < *count; i++ {
		b.OnBufferEdited(fmt.Sprintf("Benchmark note %d: remember to buy milk", i))
		if err := b.OnSaveRequested(ctx); err != nil {
			panic(err)
		}
	}
	addDuration := time.Since(startAdd)

	fmt.Println("Reopening store (cold load)...")
	startLoad := time.Now()
	reopened, err := murmur.New(benchDir, opts...)
	if err != nil {
		panic(err)
	}
	loadDuration := time.Since(startLoad)
	notes := reopened.Notes()

	fmt.Printf("Filtering with %q...\n", *query)
	startFilter := time.Now()
	matches := search.Filter(notes, *query)
	filterDuration := time.Since(startFilter)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, %s):\n", *count, *adapter)
	fmt.Printf("  Add:    %v (%v per note)\n", addDuration, addDuration/time.Duration(max(*count, 1)))
	fmt.Printf("  Load:   %v (Items: %d)\n", loadDuration, len(notes))
	fmt.Printf("  Filter: %v (Matches: %d)\n", filterDuration, len(matches))
	fmt.Printf("--------------------------------------------------\n")
}
