package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atikulmunna/logtally/internal/model"
	"github.com/atikulmunna/logtally/internal/output"
	"github.com/atikulmunna/logtally/internal/parser"
	"github.com/atikulmunna/logtally/internal/pipeline"
	"github.com/atikulmunna/logtally/internal/source"
)

// errNoFile is returned when neither --file nor LOGTALLY_FILE is set.
var errNoFile = errors.New("no log file given: use --file or " + envPrefix + "_FILE")

type options struct {
	File    string
	Workers int
	Output  string
}

func runAnalyze(cmd *cobra.Command, args []string, opts options, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(opts.File) == "" {
		return errNoFile
	}
	if opts.Workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", opts.Workers)
	}

	stdout := cmd.OutOrStdout()
	lines, err := output.NewLinePrinter(stdout, opts.Output)
	if err != nil {
		return err
	}
	summaryOut, err := output.NewSummaryRenderer(stdout, opts.Output)
	if err != nil {
		return err
	}

	criteria := criteriaFromArgs(args, log)

	src, err := source.Open(opts.File)
	if err != nil {
		return err
	}
	defer src.Close()

	log.Debug("analyzing",
		zap.String("file", src.Path()),
		zap.Int("workers", opts.Workers),
		zap.Stringer("category", categoryField(criteria)),
		zap.String("date", criteria.Date),
		zap.String("keyword", criteria.Keyword),
	)

	summary, err := pipeline.Run(src, pipeline.Config{
		Criteria: criteria,
		Workers:  opts.Workers,
		Out:      lines,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", src.Path(), err)
	}

	return summaryOut.RenderSummary(summary)
}

// criteriaFromArgs maps the positional arguments to filter criteria.
// An unrecognised category disables the category check.
func criteriaFromArgs(args []string, log *zap.Logger) model.Criteria {
	var c model.Criteria
	if len(args) > 0 {
		cat, ok := parser.ParseCategory(args[0])
		if ok {
			c.HasCategory, c.Category = true, cat
		} else if args[0] != "" {
			log.Debug("category filter not recognised, ignoring", zap.String("category", args[0]))
		}
	}
	if len(args) > 1 {
		c.Date = args[1]
	}
	if len(args) > 2 {
		c.Keyword = args[2]
	}
	return c
}

type categoryField model.Criteria

func (c categoryField) String() string {
	if !c.HasCategory {
		return "any"
	}
	return c.Category.String()
}
