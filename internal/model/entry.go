package model

// Category is the severity class of a log line, derived from its prefix.
type Category int

const (
	Other Category = iota
	Info
	Warn
	Error
)

// String returns the upper-case tag used in log lines and summaries.
func (c Category) String() string {
	switch c {
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "OTHER"
	}
}

// MarshalText lets categories appear as tags in JSON output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Criteria selects which lines are printed and counted.
// An empty Date or Keyword means that check is disabled.
type Criteria struct {
	HasCategory bool
	Category    Category
	Date        string // literal, case-sensitive substring
	Keyword     string // case-insensitive substring
}

// RawLine is a single line of input handed from the dispatcher to one worker.
type RawLine struct {
	Text   string `json:"text"`
	Number int    `json:"number"` // 1-based position in the source
}

// Summary is the result of a completed run.
type Summary struct {
	TotalLines int64 `json:"total_lines"` // lines that passed the filter and were dispatched
	Processed  int64 `json:"processed"`   // lines counted by workers
	Info       int64 `json:"info"`
	Warn       int64 `json:"warn"`
	Error      int64 `json:"error"`
}

// Other is the number of processed lines outside the tracked categories.
func (s Summary) Other() int64 {
	return s.Processed - (s.Info + s.Warn + s.Error)
}
