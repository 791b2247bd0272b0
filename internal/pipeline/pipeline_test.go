package pipeline

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/atikulmunna/logtally/internal/model"
	"github.com/atikulmunna/logtally/internal/output"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleLog = "INFO start\nWARN low disk\nERROR disk full\nDEBUG noop\n"

// run executes the pipeline over input and returns the printed lines.
func run(t *testing.T, input string, cfg Config) (model.Summary, []string, error) {
	t.Helper()
	var buf bytes.Buffer
	printer, err := output.NewLinePrinter(&buf, output.FormatText)
	require.NoError(t, err)
	cfg.Out = printer
	if cfg.Logger == nil {
		cfg.Logger = zaptest.NewLogger(t)
	}

	summary, err := Run(bufio.NewScanner(strings.NewReader(input)), cfg)

	var printed []string
	if buf.Len() > 0 {
		printed = strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	}
	return summary, printed, err
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		criteria model.Criteria
		printed  []string
		summary  model.Summary
	}{
		{
			name:    "no filters",
			input:   sampleLog,
			printed: []string{"INFO start", "WARN low disk", "ERROR disk full", "DEBUG noop"},
			summary: model.Summary{TotalLines: 4, Processed: 4, Info: 1, Warn: 1, Error: 1},
		},
		{
			name:     "category error",
			input:    sampleLog,
			criteria: model.Criteria{HasCategory: true, Category: model.Error},
			printed:  []string{"ERROR disk full"},
			summary:  model.Summary{TotalLines: 1, Processed: 1, Error: 1},
		},
		{
			name:     "keyword disk",
			input:    sampleLog,
			criteria: model.Criteria{Keyword: "disk"},
			printed:  []string{"WARN low disk", "ERROR disk full"},
			summary:  model.Summary{TotalLines: 2, Processed: 2, Warn: 1, Error: 1},
		},
		{
			name:    "empty input",
			input:   "",
			printed: nil,
			summary: model.Summary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, printed, err := run(t, tt.input, Config{Criteria: tt.criteria})
			require.NoError(t, err)
			assert.Equal(t, tt.printed, printed)
			assert.Equal(t, tt.summary, summary)
		})
	}
}

func bigLog(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		switch i % 5 {
		case 0:
			fmt.Fprintf(&b, "INFO 2026-02-17 request %d ok\n", i)
		case 1:
			fmt.Fprintf(&b, "WARN 2026-02-18 slow request %d\n", i)
		case 2:
			fmt.Fprintf(&b, "ERROR 2026-02-17 request %d failed: Disk quota\n", i)
		case 3:
			fmt.Fprintf(&b, "DEBUG 2026-02-18 tick %d\n", i)
		default:
			fmt.Fprintf(&b, "continuation of %d\n", i)
		}
	}
	return b.String()
}

func TestPrintedInSourceOrder(t *testing.T) {
	input := bigLog(5000)
	_, printed, err := run(t, input, Config{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, strings.Split(strings.TrimSuffix(input, "\n"), "\n"), printed)
}

func TestProcessedMatchesDispatchedForAnyPoolSize(t *testing.T) {
	input := bigLog(10000)
	for _, workers := range []int{1, 2, 4, 7, 32} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			summary, _, err := run(t, input, Config{Workers: workers})
			require.NoError(t, err)
			assert.Equal(t, int64(10000), summary.TotalLines)
			assert.Equal(t, summary.TotalLines, summary.Processed)
			assert.Equal(t, int64(2000), summary.Info)
			assert.Equal(t, int64(2000), summary.Warn)
			assert.Equal(t, int64(2000), summary.Error)
			assert.Equal(t, int64(4000), summary.Other())
			assert.LessOrEqual(t, summary.Info+summary.Warn+summary.Error, summary.Processed)
		})
	}
}

func TestCountsAreDeterministic(t *testing.T) {
	input := bigLog(3000)
	criteria := model.Criteria{Date: "2026-02-17", Keyword: "DISK"}

	first, _, err := run(t, input, Config{Criteria: criteria})
	require.NoError(t, err)
	assert.Equal(t, int64(600), first.Error)

	for i := 0; i < 20; i++ {
		again, _, err := run(t, input, Config{Criteria: criteria})
		require.NoError(t, err)
		require.Equal(t, first, again, "run %d", i)
	}
}

func TestNoOtherLinesMeansEquality(t *testing.T) {
	summary, _, err := run(t, "INFO a\nWARN b\nERROR c\nINFO d\n", Config{})
	require.NoError(t, err)
	assert.Equal(t, summary.Processed, summary.Info+summary.Warn+summary.Error)
	assert.Zero(t, summary.Other())
}

func TestReadFailureAbortsRun(t *testing.T) {
	boom := errors.New("disk unplugged")
	r := io.MultiReader(strings.NewReader("INFO first\nWARN second\n"), iotest.ErrReader(boom))

	var buf bytes.Buffer
	printer, err := output.NewLinePrinter(&buf, output.FormatText)
	require.NoError(t, err)

	summary, err := Run(bufio.NewScanner(r), Config{Out: printer})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, model.Summary{}, summary, "no summary on a failed run")
	// Lines before the failure were already printed as they were found.
	assert.Equal(t, "INFO first\nWARN second\n", buf.String())
}

type failingPrinter struct{ err error }

func (p failingPrinter) PrintLine(model.RawLine) error { return p.err }

func TestWriteFailureAbortsRun(t *testing.T) {
	closed := errors.New("stdout closed")
	_, err := Run(bufio.NewScanner(strings.NewReader(sampleLog)), Config{Out: failingPrinter{closed}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.ErrorIs(t, err, closed)
}

func TestNilPrinterStillCounts(t *testing.T) {
	summary, err := Run(bufio.NewScanner(strings.NewReader(sampleLog)), Config{Workers: -1})
	require.NoError(t, err)
	assert.Equal(t, model.Summary{TotalLines: 4, Processed: 4, Info: 1, Warn: 1, Error: 1}, summary)
}

func TestInvalidUTF8AbortsRun(t *testing.T) {
	var buf bytes.Buffer
	printer, err := output.NewLinePrinter(&buf, output.FormatText)
	require.NoError(t, err)

	input := "INFO ok\nWARN bad \xff\xfe byte\nERROR never reached\n"
	summary, err := Run(bufio.NewScanner(strings.NewReader(input)), Config{Out: printer})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, model.Summary{}, summary, "no summary on a failed run")
	assert.Equal(t, "INFO ok\n", buf.String())
}

func TestInvalidUTF8AbortsEvenWhenFilteredOut(t *testing.T) {
	input := "INFO ok\nDEBUG \xc3\x28\n"
	_, err := Run(bufio.NewScanner(strings.NewReader(input)), Config{
		Criteria: model.Criteria{HasCategory: true, Category: model.Info},
	})
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
