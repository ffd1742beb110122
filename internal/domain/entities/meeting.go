package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Meeting is a saved, reviewed meeting analysis
type Meeting struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string                      `json:"title" gorm:"type:varchar(500);not null"`
	MeetingDate *time.Time                  `json:"meeting_date,omitempty" gorm:"type:timestamptz;index"`
	Transcript  string                      `json:"transcript" gorm:"type:text;not null;default:''"`
	Summary     datatypes.JSONSlice[string] `json:"summary" gorm:"type:jsonb;not null;default:'[]'"`
	// TranscriptObject is the object storage key of the archived transcript
	TranscriptObject *string   `json:"transcript_object,omitempty" gorm:"column:transcript_object;type:varchar(500)"`
	CreatedBy        uuid.UUID `json:"created_by" gorm:"type:uuid;not null;index"`

	Decisions []Decision `json:"decisions,omitempty" gorm:"foreignKey:MeetingID"`
	Todos     []Todo     `json:"todos,omitempty" gorm:"foreignKey:MeetingID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting owned by createdBy
func NewMeeting(title string, meetingDate *time.Time, transcript string, summary []string, createdBy uuid.UUID) *Meeting {
	now := time.Now()
	if summary == nil {
		summary = []string{}
	}
	return &Meeting{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		MeetingDate: meetingDate,
		Transcript:  transcript,
		Summary:     datatypes.NewJSONSlice(summary),
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate validates meeting data
func (m *Meeting) Validate() error {
	if m.Title == "" {
		return ErrInvalidTitle
	}
	return nil
}

// Decision is one decision recorded in a meeting
type Decision struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Decision) TableName() string {
	return "decisions"
}

// NewDecisions builds decision rows for a meeting. Contents are trimmed
// and blank ones are dropped; position follows the surviving order.
func NewDecisions(meetingID uuid.UUID, contents []string) []Decision {
	decisions := make([]Decision, 0, len(contents))
	for _, c := range contents {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		decisions = append(decisions, Decision{
			ID:        uuid.New(),
			MeetingID: meetingID,
			Content:   c,
			Position:  len(decisions),
			CreatedAt: time.Now(),
		})
	}
	return decisions
}
