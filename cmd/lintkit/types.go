package main

// CLIResult is the top-level JSON envelope for every command.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIImport reports a finished import.
type CLIImport struct {
	Path        string `json:"path"`
	Fingerprint string `json:"fingerprint"`
}

// CLIDef is a JSON-friendly definition.
type CLIDef struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Crate uint32 `json:"crate"`
	Index uint32 `json:"index"`
}

// CLISpan is a span with its file position and source text resolved.
// Line and Col are 1-based; File is empty when the span lies outside
// every file.
type CLISpan struct {
	Lo      uint32 `json:"lo"`
	Hi      uint32 `json:"hi"`
	Ctxt    uint32 `json:"ctxt"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// CLIExpansion is one layer of a span's expansion history.
type CLIExpansion struct {
	Callee     string   `json:"callee"`
	Format     string   `json:"format"`
	CallSite   CLISpan  `json:"call_site"`
	CalleeSpan *CLISpan `json:"callee_span,omitempty"`
}

// CLIFinding is a JSON-friendly finding.
type CLIFinding struct {
	Check   string  `json:"check"`
	Span    CLISpan `json:"span"`
	Message string  `json:"message"`
}
