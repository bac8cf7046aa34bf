package types

// SearchRequest fully determines a single search operation.
// Immutable once constructed.
type SearchRequest struct {
	// Path is the logical path relative to the session sandbox root.
	// May reference a file or a directory.
	Path string

	// Pattern is the regular expression to match against each line.
	Pattern string

	// Sandbox coordinates identifying the confined filesystem root.
	WorkspaceID string
	AgentID     string
	SessionID   string

	// Recursive controls whether directory targets are walked as a full
	// subtree or limited to their immediate files.
	Recursive bool
}

// Match is a single matching line. Records are appended in discovery
// order and never mutated after creation.
type Match struct {
	// File is the display path, relative to the session root whenever
	// computable; absolute only as a degenerate fallback.
	File string `json:"file"`

	// LineNumber is 1-based.
	LineNumber int `json:"line_number"`

	// LineContent is the matching line with surrounding whitespace removed.
	LineContent string `json:"line_content"`
}

// SearchResult is the success envelope returned to the caller.
// Failure is reported as an ordinary Go error and rendered as a separate
// error envelope by the transport layer; a result is never both.
type SearchResult struct {
	Success      bool    `json:"success"`
	Pattern      string  `json:"pattern"`
	Path         string  `json:"path"`
	Recursive    bool    `json:"recursive"`
	Matches      []Match `json:"matches"`
	TotalMatches int     `json:"total_matches"`

	// Warning is set only when the match cap truncated output.
	Warning string `json:"warning,omitempty"`
}

// Validate checks result envelope consistency.
func (sr *SearchResult) Validate() error {
	if !sr.Success {
		return ErrNotSuccess
	}

	if sr.TotalMatches != len(sr.Matches) {
		return ErrCountMismatch
	}

	for i := range sr.Matches {
		if sr.Matches[i].LineNumber < 1 {
			return ErrInvalidLineNumber
		}
		if sr.Matches[i].File == "" {
			return ErrMissingFile
		}
	}

	return nil
}
