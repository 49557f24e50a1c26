package main

type LogEntry struct {
	Food    string  `json:"food"`
	Amount  float64 `json:"amount"`
	Protein float64 `json:"protein"`
}

// LogRecord is the result of one successful calculation
type LogRecord struct {
	Target           float64    `json:"target"`
	Entries          []LogEntry `json:"entries"`
	TotalProtein     float64    `json:"total_protein"`
	RemainingProtein float64    `json:"remaining_protein"`
}

type Selection struct {
	Food     string
	Included bool
	Amount   string // raw text as typed, parsed on calculate
}
