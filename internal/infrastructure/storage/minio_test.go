package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTranscriptObjectName(t *testing.T) {
	id := uuid.MustParse("6f1c1e1a-2b3c-4d5e-8f90-123456789abc")
	at := time.Date(2024, 6, 10, 23, 30, 0, 0, time.FixedZone("JST", 9*3600))

	assert.Equal(t, "transcripts/2024/06/6f1c1e1a-2b3c-4d5e-8f90-123456789abc.txt", TranscriptObjectName(id, at))
}
