// Package pipeline is the dispatcher: it reads and filters lines in order,
// prints the ones that match, and fans them out to the worker pool for
// counting.
package pipeline

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/atikulmunna/logtally/internal/aggregator"
	"github.com/atikulmunna/logtally/internal/filter"
	"github.com/atikulmunna/logtally/internal/model"
	"github.com/atikulmunna/logtally/internal/output"
	"github.com/atikulmunna/logtally/internal/queue"
	"github.com/atikulmunna/logtally/internal/worker"
)

// ErrReadFailed wraps any I/O failure on the input or output side of a run.
var ErrReadFailed = errors.New("read failed")

// ErrInvalidUTF8 marks an input line that is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

// LineSource yields raw text lines in order. *bufio.Scanner and *source.File
// both satisfy it.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// Config controls a single run.
type Config struct {
	Criteria model.Criteria
	Workers  int                // defaults to worker.DefaultPoolSize
	Out      output.LinePrinter // receives matching lines in source order
	Logger   *zap.Logger
}

// Run dispatches every line of src that passes cfg.Criteria to a pool of
// workers and returns the final counts once all of them have finished.
// On any error no summary is produced.
func Run(src LineSource, cfg Config) (model.Summary, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = worker.DefaultPoolSize
	}

	q := queue.New()
	counters := aggregator.New()
	pool := worker.NewPool(workers, q, counters, log)
	pool.Start()

	total, dispatchErr := dispatch(src, cfg, q)

	// Workers only stop once the queue is closed, so close it on every path.
	q.Close()
	joinErr := pool.Wait()

	if dispatchErr != nil {
		return model.Summary{}, dispatchErr
	}
	if joinErr != nil {
		return model.Summary{}, joinErr
	}

	stats := counters.Snapshot()
	if stats.Processed != total {
		return model.Summary{}, fmt.Errorf("dispatched %d lines but workers processed %d", total, stats.Processed)
	}

	summary := model.Summary{
		TotalLines: total,
		Processed:  stats.Processed,
		Info:       stats.Info,
		Warn:       stats.Warn,
		Error:      stats.Error,
	}
	log.Debug("run finished",
		zap.Int("workers", pool.Size()),
		zap.Int64("total_lines", summary.TotalLines),
		zap.Int64("processed", summary.Processed),
		zap.Int64("other", summary.Other()),
	)
	return summary, nil
}

// dispatch is the sequential producer. It returns the number of lines enqueued.
func dispatch(src LineSource, cfg Config, q *queue.Queue) (int64, error) {
	var (
		total  int64
		number int
	)
	for src.Scan() {
		number++
		text := src.Text()
		if !utf8.ValidString(text) {
			return total, fmt.Errorf("%w: line %d: %w", ErrReadFailed, number, ErrInvalidUTF8)
		}
		if !filter.Passes(text, cfg.Criteria) {
			continue
		}

		line := model.RawLine{Text: text, Number: number}
		if cfg.Out != nil {
			if err := cfg.Out.PrintLine(line); err != nil {
				return total, fmt.Errorf("%w: write line %d: %w", ErrReadFailed, number, err)
			}
		}
		if err := q.Send(line); err != nil {
			return total, fmt.Errorf("dispatch line %d: %w", number, err)
		}
		total++
	}
	if err := src.Err(); err != nil {
		return total, fmt.Errorf("%w after line %d: %w", ErrReadFailed, number, err)
	}
	return total, nil
}
