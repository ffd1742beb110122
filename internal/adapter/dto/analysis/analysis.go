package analysis

import "github.com/johnquangdev/meeting-notes/internal/domain/entities"

// AnalyzeRequest is a transcript submitted for analysis
type AnalyzeRequest struct {
	Title          string `json:"title" validate:"max=500"`
	MeetingDate    string `json:"meeting_date"`
	Transcript     string `json:"transcript"`
	ConversationID string `json:"conversation_id"`
}

// AnalyzeResponse carries the recovered result, or only the raw text when
// the answer could not be parsed
type AnalyzeResponse struct {
	Status         string                        `json:"status"`
	Parsed         *entities.ParsedMeetingResult `json:"parsed,omitempty"`
	RawText        string                        `json:"raw_text"`
	Source         string                        `json:"source,omitempty"`
	ConversationID string                        `json:"conversation_id,omitempty"`
	MessageID      string                        `json:"message_id,omitempty"`
	Cached         bool                          `json:"cached"`
}

// StatusResponse reports LLM readiness
type StatusResponse struct {
	OK     bool `json:"ok"`
	HasKey bool `json:"has_key"`
}

// TranscriptUploadResponse is the text read from an uploaded .txt file
type TranscriptUploadResponse struct {
	FileName string `json:"file_name"`
	Text     string `json:"text"`
}
