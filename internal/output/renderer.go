package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atikulmunna/logtally/internal/model"
	"github.com/atikulmunna/logtally/internal/parser"
)

// Output formats accepted by the constructors.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for an output format other than text or json.
var ErrUnknownFormat = errors.New("unknown output format")

// LinePrinter writes lines that passed the filter, as they are found.
type LinePrinter interface {
	PrintLine(line model.RawLine) error
}

// SummaryRenderer writes the final counts of a run.
type SummaryRenderer interface {
	RenderSummary(s model.Summary) error
}

// NewLinePrinter returns a LinePrinter for the given format.
func NewLinePrinter(w io.Writer, format string) (LinePrinter, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return &TextLinePrinter{w: w}, nil
	case FormatJSON:
		return &JSONLinePrinter{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// NewSummaryRenderer returns a SummaryRenderer for the given format.
func NewSummaryRenderer(w io.Writer, format string) (SummaryRenderer, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return &TextSummaryRenderer{w: w}, nil
	case FormatJSON:
		return &JSONSummaryRenderer{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleInfo   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))  // cyan
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// TextLinePrinter writes each line verbatim.
type TextLinePrinter struct {
	w io.Writer
}

func (p *TextLinePrinter) PrintLine(line model.RawLine) error {
	_, err := fmt.Fprintln(p.w, line.Text)
	return err
}

// TextSummaryRenderer prints one labelled metric per line.
type TextSummaryRenderer struct {
	w io.Writer
}

func (r *TextSummaryRenderer) RenderSummary(s model.Summary) error {
	rows := []struct {
		label string
		style lipgloss.Style
		value int64
	}{
		{"Filtered lines read:", styleLabel, s.TotalLines},
		{"Filtered log lines processed:", styleLabel, s.Processed},
		{"INFO lines:", styleInfo, s.Info},
		{"WARN lines:", styleWarn, s.Warn},
		{"ERROR lines:", styleError, s.Error},
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styleHeader.Render("----------Summary----------"))
	b.WriteString("\n\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %d\n", row.style.Render(row.label), row.value)
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

// JSONLinePrinter writes each line as a JSON object with its category.
type JSONLinePrinter struct {
	enc *json.Encoder
}

type jsonLine struct {
	Number   int            `json:"number"`
	Category model.Category `json:"category"`
	Line     string         `json:"line"`
}

func (p *JSONLinePrinter) PrintLine(line model.RawLine) error {
	return p.enc.Encode(jsonLine{
		Number:   line.Number,
		Category: parser.Classify(line.Text),
		Line:     line.Text,
	})
}

// JSONSummaryRenderer writes the summary as one JSON object, including the
// derived count of uncategorised lines.
type JSONSummaryRenderer struct {
	enc *json.Encoder
}

func (r *JSONSummaryRenderer) RenderSummary(s model.Summary) error {
	return r.enc.Encode(struct {
		model.Summary
		Other int64 `json:"other"`
	}{s, s.Other()})
}
