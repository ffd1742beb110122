package analysis

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

const sampleObject = `{"summary":["s1","s2"],"decisions":["d1"],"todos":[{"assignee":"Ann","due_date":"2024-06-12","task":"T"}]}`

func sampleResult() *entities.ParsedMeetingResult {
	return &entities.ParsedMeetingResult{
		Summary:   []string{"s1", "s2"},
		Decisions: []string{"d1"},
		Todos:     []entities.TodoDraft{{Assignee: "Ann", DueDate: "2024-06-12", Task: "T"}},
	}
}

func TestExtractDirectObject(t *testing.T) {
	x := NewExtractor()
	e := x.Extract("  " + sampleObject + "\n")

	require.True(t, e.Parsed())
	assert.Equal(t, ExtractionParsed, e.Status)
	assert.Equal(t, SourceDirect, e.Source)
	assert.Equal(t, sampleResult(), e.Result)
	assert.Equal(t, sampleObject, e.Raw)
}

func TestExtractIsIdempotent(t *testing.T) {
	first, _ := ExtractMeetingResult(sampleObject)
	require.NotNil(t, first)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second, _ := ExtractMeetingResult(string(encoded))
	assert.Equal(t, first, second)
}

func TestExtractFencedMatchesBareObject(t *testing.T) {
	bare, _ := ExtractMeetingResult(sampleObject)

	tests := []struct {
		name   string
		answer string
	}{
		{name: "json fence", answer: "```json\n" + sampleObject + "\n```"},
		{name: "upper-case tag", answer: "```JSON\n" + sampleObject + "\n```"},
		{name: "untagged fence", answer: "```\n" + sampleObject + "\n```"},
		{name: "prose around fence", answer: "Here you go:\n```json\n" + sampleObject + "\n```\nThanks!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor().Extract(tt.answer)
			require.True(t, e.Parsed())
			assert.Equal(t, SourceFenced, e.Source)
			assert.Equal(t, bare, e.Result)
		})
	}
}

func TestExtractPrefersJSONTaggedFence(t *testing.T) {
	answer := "```\nnot json\n```\n```json\n" + sampleObject + "\n```"
	e := NewExtractor().Extract(answer)

	require.True(t, e.Parsed())
	assert.Equal(t, SourceFenced, e.Source)
}

func TestExtractBraceFallback(t *testing.T) {
	answer := "Here is the result: " + sampleObject
	e := NewExtractor().Extract(answer)

	require.True(t, e.Parsed())
	assert.Equal(t, SourceBrace, e.Source)
	assert.Equal(t, sampleResult(), e.Result)
	assert.Equal(t, answer, e.Raw)
}

func TestExtractBraceRequiresTrailingBrace(t *testing.T) {
	answer := "Result: " + sampleObject + " hope this helps"
	e := NewExtractor().Extract(answer)

	assert.False(t, e.Parsed())
	assert.Equal(t, SourceNone, e.Source)
}

func TestExtractUnparsed(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{name: "empty", answer: ""},
		{name: "blank", answer: "   \n\t"},
		{name: "prose", answer: "  Sorry, I could not analyse this meeting.  "},
		{name: "wrong shape", answer: `{"summary":"one line","decisions":[],"todos":[]}`},
		{name: "missing key", answer: `{"summary":[],"decisions":[]}`},
		{name: "array at top level", answer: `[{"summary":[],"decisions":[],"todos":[]}]`},
		{name: "null", answer: "null"},
		{name: "todos is object", answer: `{"summary":[],"decisions":[],"todos":{}}`},
		{name: "broken json", answer: `{"summary":[],"decisions":[],"todos":[}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, raw := ExtractMeetingResult(tt.answer)
			assert.Nil(t, parsed)
			assert.Equal(t, strings.TrimSpace(tt.answer), raw)
		})
	}
}

func TestExtractCoercesElements(t *testing.T) {
	answer := `{
		"summary": ["text", null, 42, {"k": "v"}],
		"decisions": [true, " spaced "],
		"todos": [
			{"task": "only task"},
			{"assignee": null, "due_date": 20240612, "task": "numbers", "assignee_id": "abc"},
			"bare string todo",
			7
		]
	}`

	parsed, _ := ExtractMeetingResult(answer)
	require.NotNil(t, parsed)

	assert.Equal(t, []string{"text", "", "42", `{"k":"v"}`}, parsed.Summary)
	assert.Equal(t, []string{"true", " spaced "}, parsed.Decisions)

	require.Len(t, parsed.Todos, 4)
	assert.Equal(t, entities.TodoDraft{Task: "only task"}, parsed.Todos[0])

	assert.Equal(t, "", parsed.Todos[1].Assignee)
	assert.Equal(t, "20240612", parsed.Todos[1].DueDate)
	require.NotNil(t, parsed.Todos[1].AssigneeID)
	assert.Equal(t, "abc", *parsed.Todos[1].AssigneeID)

	assert.Equal(t, entities.TodoDraft{Task: "bare string todo"}, parsed.Todos[2])
	assert.Equal(t, entities.TodoDraft{Task: "7"}, parsed.Todos[3])
}

func TestExtractEmptyArraysAreNotNil(t *testing.T) {
	parsed, _ := ExtractMeetingResult(`{"summary":[],"decisions":[],"todos":[]}`)
	require.NotNil(t, parsed)

	out, err := json.Marshal(parsed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":[],"decisions":[],"todos":[]}`, string(out))
}

func TestExtractConcurrentUse(t *testing.T) {
	x := NewExtractor()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := x.Extract("```json\n" + sampleObject + "\n```")
			assert.True(t, e.Parsed())
		}()
	}
	wg.Wait()
}
