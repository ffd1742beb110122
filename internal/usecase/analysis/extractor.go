package analysis

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// ExtractionStatus tells whether a structured result was recovered
type ExtractionStatus string

const (
	ExtractionParsed   ExtractionStatus = "parsed"
	ExtractionUnparsed ExtractionStatus = "unparsed"
)

// ExtractionSource records which attempt produced the result
type ExtractionSource string

const (
	SourceNone   ExtractionSource = ""
	SourceDirect ExtractionSource = "direct"
	SourceFenced ExtractionSource = "fenced"
	SourceBrace  ExtractionSource = "brace"
)

// Extraction is the outcome of reading a language model answer.
// Raw is always the trimmed answer; Result is set only when Status is
// ExtractionParsed.
type Extraction struct {
	Status ExtractionStatus
	Result *entities.ParsedMeetingResult
	Raw    string
	Source ExtractionSource
}

// Parsed reports whether a structured result was recovered
func (e Extraction) Parsed() bool {
	return e.Status == ExtractionParsed && e.Result != nil
}

var (
	jsonFence = regexp.MustCompile("(?is)```json\\s*(.*?)```")
	anyFence  = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// Extractor recovers a ParsedMeetingResult from free text. It holds no
// state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor instance
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract tries, in order: the whole answer as JSON, the first fenced
// block (json-tagged blocks win over untagged ones), then the span from
// the first '{' to a '}' that ends the answer. The first candidate that
// passes validation wins.
func (x *Extractor) Extract(answer string) Extraction {
	text := strings.TrimSpace(answer)
	out := Extraction{Status: ExtractionUnparsed, Raw: text, Source: SourceNone}
	if text == "" {
		return out
	}

	if result, ok := validate(text); ok {
		return parsed(out, result, SourceDirect)
	}

	if block, ok := fencedBlock(text); ok {
		if result, ok := validate(strings.TrimSpace(block)); ok {
			return parsed(out, result, SourceFenced)
		}
	}

	if span, ok := trailingObject(text); ok {
		if result, ok := validate(span); ok {
			return parsed(out, result, SourceBrace)
		}
	}

	return out
}

// ExtractMeetingResult is the two-value form of Extract: the parsed
// result (nil when nothing validated) and the trimmed answer.
func ExtractMeetingResult(answer string) (*entities.ParsedMeetingResult, string) {
	e := NewExtractor().Extract(answer)
	return e.Result, e.Raw
}

func parsed(e Extraction, result *entities.ParsedMeetingResult, source ExtractionSource) Extraction {
	e.Status = ExtractionParsed
	e.Result = result
	e.Source = source
	return e
}

func fencedBlock(text string) (string, bool) {
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := anyFence.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// trailingObject returns text from its first '{' when text ends with '}'
func trailingObject(text string) (string, bool) {
	if !strings.HasSuffix(text, "}") {
		return "", false
	}
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	return text[start:], true
}

// validate checks the three-array shape and coerces elements
func validate(candidate string) (*entities.ParsedMeetingResult, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil || obj == nil {
		return nil, false
	}

	summary, ok := arrayField(obj, "summary")
	if !ok {
		return nil, false
	}
	decisions, ok := arrayField(obj, "decisions")
	if !ok {
		return nil, false
	}
	todos, ok := arrayField(obj, "todos")
	if !ok {
		return nil, false
	}

	result := entities.NewParsedMeetingResult()
	for _, el := range summary {
		result.Summary = append(result.Summary, coerceString(el))
	}
	for _, el := range decisions {
		result.Decisions = append(result.Decisions, coerceString(el))
	}
	for _, el := range todos {
		result.Todos = append(result.Todos, coerceTodo(el))
	}
	return result, true
}

func arrayField(obj map[string]json.RawMessage, key string) ([]json.RawMessage, bool) {
	raw, ok := obj[key]
	if !ok {
		return nil, false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, false
	}
	return elems, true
}

// coerceString maps a JSON value to text: strings as-is, null to "",
// anything else to its compact JSON encoding.
func coerceString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

func coerceTodo(raw json.RawMessage) entities.TodoDraft {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return entities.TodoDraft{Task: coerceString(raw)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return entities.TodoDraft{Task: coerceString(raw)}
	}

	field := func(key string) string {
		v, ok := fields[key]
		if !ok {
			return ""
		}
		return coerceString(v)
	}

	draft := entities.TodoDraft{
		Assignee: field("assignee"),
		DueDate:  field("due_date"),
		Task:     field("task"),
	}
	if id := field("assignee_id"); id != "" {
		draft.AssigneeID = &id
	}
	return draft
}
