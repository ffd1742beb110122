package entities

// ParsedMeetingResult is the structured output extracted from a language
// model answer: summary lines, decisions and todo drafts.
type ParsedMeetingResult struct {
	Summary   []string    `json:"summary"`
	Decisions []string    `json:"decisions"`
	Todos     []TodoDraft `json:"todos"`
}

// TodoDraft is a todo before it is confirmed and saved
type TodoDraft struct {
	Assignee   string  `json:"assignee"`
	AssigneeID *string `json:"assignee_id,omitempty"`
	DueDate    string  `json:"due_date"`
	Task       string  `json:"task"`
}

// NewParsedMeetingResult returns a result with empty, non-nil slices
func NewParsedMeetingResult() *ParsedMeetingResult {
	return &ParsedMeetingResult{
		Summary:   []string{},
		Decisions: []string{},
		Todos:     []TodoDraft{},
	}
}
