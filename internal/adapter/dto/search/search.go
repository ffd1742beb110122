package search

import "time"

// SearchRequest is a keyword search; q may come from the query string or
// a JSON body
type SearchRequest struct {
	Q string `json:"q" query:"q" validate:"max=200"`
}

// HitResponse is one search match
type HitResponse struct {
	Kind         string     `json:"kind"`
	ID           string     `json:"id"`
	MeetingID    string     `json:"meeting_id"`
	MeetingTitle string     `json:"meeting_title"`
	MeetingDate  *time.Time `json:"meeting_date"`
	Text         string     `json:"text"`
	Status       string     `json:"status,omitempty"`
}

// SearchResponse groups matches in meeting, decision, todo order
type SearchResponse struct {
	Query string         `json:"q"`
	Hits  []*HitResponse `json:"hits"`
}
