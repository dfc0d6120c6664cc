package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/budgetwise/internal/catalog"
)

// ImportResult summarizes an import run.
type ImportResult struct {
	TotalFiles   int
	ParsedFiles  int
	Unchanged    int
	FileErrors   int
	ParseErrors  int
	Transactions int
}

// ProgressFunc is called during import to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// ImportOptions controls Import.
type ImportOptions struct {
	// Force re-imports files whose size and mtime are unchanged.
	Force    bool
	Progress ProgressFunc
}

// Import parses the given CSV files with a bounded worker pool and stores
// their transactions. Files already imported with the same size and mtime
// are skipped unless opts.Force is set; re-importing a changed file replaces
// its earlier rows.
func Import(s *Store, cat *catalog.Catalog, paths []string, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{TotalFiles: len(paths)}
	if len(paths) == 0 {
		return result, nil
	}

	tracked, err := s.TrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	type pending struct {
		path          string
		mtimeNs, size int64
	}

	// Diff: partition into changed and unchanged
	var toParse []pending
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			result.FileErrors++
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			result.FileErrors++
			continue
		}

		f := pending{path: abs, mtimeNs: info.ModTime().UnixNano(), size: info.Size()}
		if cached, ok := tracked[abs]; ok && !opts.Force && cached.MtimeNs == f.mtimeNs && cached.SizeBytes == f.size {
			result.Unchanged++
			continue
		}
		toParse = append(toParse, f)
	}

	if len(toParse) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(toParse) {
		numWorkers = len(toParse)
	}

	work := make(chan int, len(toParse))
	results := make([]ParseResult, len(toParse))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range toParse {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ParseFile(toParse[idx].path, cat)
				n := processed.Add(1)
				if opts.Progress != nil {
					opts.Progress(int(n)+result.Unchanged, result.TotalFiles)
				}
			}
		}()
	}

	wg.Wait()

	for i, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		f := toParse[i]
		if err := s.ReplaceFile(f.path, pr.Transactions, f.mtimeNs, f.size); err != nil {
			return result, fmt.Errorf("storing %s: %w", f.path, err)
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.Transactions += len(pr.Transactions)
	}

	return result, nil
}
