package extractor

import (
	"context"
	"sync"

	"newsdigest/app/archive"
	"newsdigest/app/config"
)

// Result is the per-article outcome of an extraction batch. A failed
// article carries its error and never aborts the batch.
type Result struct {
	URL    string
	Record archive.ArticleRecord
	Err    error
}

type job struct {
	index int
	url   string
}

// RunAll extracts every URL concurrently with at most workers in flight.
// Results come back in input order, so the merge sees new articles in the
// order discovery produced them.
func (e *Extractor) RunAll(ctx context.Context, urls []string, sourceConfig *config.SourceConfig, reference archive.Date, workers int) []Result {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(urls) {
		workers = len(urls)
	}

	results := make([]Result, len(urls))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case <-ctx.Done():
					results[j.index] = Result{URL: j.url, Err: ctx.Err()}
					continue
				default:
				}

				record, err := e.Run(ctx, j.url, sourceConfig, reference)
				results[j.index] = Result{URL: j.url, Record: record, Err: err}
			}
		}()
	}

	for i, articleURL := range urls {
		jobs <- job{index: i, url: articleURL}
	}
	close(jobs)
	wg.Wait()

	return results
}
