package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notes/errors"
	analysisDTO "github.com/johnquangdev/meeting-notes/internal/adapter/dto/analysis"
	"github.com/johnquangdev/meeting-notes/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-notes/internal/usecase/analysis"
)

const (
	// MaxTranscriptBytes caps uploaded transcript files
	MaxTranscriptBytes = 2 << 20
	transcriptFormField = "file"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Analysis handles transcript analysis requests
type Analysis struct {
	svc    analysis.Service
	logger *zap.Logger
}

// NewAnalysis creates a new analysis handler
func NewAnalysis(svc analysis.Service, logger *zap.Logger) *Analysis {
	return &Analysis{svc: svc, logger: logger}
}

// Status reports whether the language model is configured
// @Summary      Analysis readiness
// @Tags         Analysis
// @Produce      json
// @Success      200  {object}  analysisDTO.StatusResponse
// @Router       /analyze [get]
func (h *Analysis) Status(c echo.Context) error {
	st := h.svc.Status()
	return HandleSuccess(h.logger, c, analysisDTO.StatusResponse{OK: st.OK, HasKey: st.HasKey})
}

// Analyze runs a transcript through the language model and returns the
// extracted summary, decisions and todos. When the answer cannot be
// parsed, status is "unparsed" and only raw_text is set.
// @Summary      Analyze transcript
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      analysisDTO.AnalyzeRequest  true  "Transcript"
// @Success      200      {object}  analysisDTO.AnalyzeResponse
// @Failure      400      {object}  map[string]interface{}  "Empty transcript"
// @Failure      401      {object}  map[string]interface{}  "LLM key rejected"
// @Failure      429      {object}  map[string]interface{}  "Rate limited"
// @Failure      502      {object}  map[string]interface{}  "LLM call failed"
// @Router       /analyze [post]
func (h *Analysis) Analyze(c echo.Context) error {
	var req analysisDTO.AnalyzeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.svc.Analyze(c.Request().Context(), analysis.Request{
		Title:          req.Title,
		MeetingDate:    req.MeetingDate,
		Transcript:     req.Transcript,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToAnalyzeResponse(result))
}

// UploadTranscript reads a .txt transcript from a multipart form
// POST /v1/transcripts/upload (field "file")
func (h *Analysis) UploadTranscript(c echo.Context) error {
	fh, err := c.FormFile(transcriptFormField)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("multipart field \"file\" is required"))
	}

	if !isTextUpload(fh.Filename, fh.Header.Get(echo.HeaderContentType)) {
		return HandleError(h.logger, c, errors.ErrTranscriptNotText(fh.Filename))
	}
	if fh.Size > MaxTranscriptBytes {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(
			fmt.Sprintf("transcript must be at most %d bytes", MaxTranscriptBytes)))
	}

	f, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrTranscriptReadFailed(err))
	}
	defer f.Close()

	text, err := readTranscript(f)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, analysisDTO.TranscriptUploadResponse{
		FileName: filepath.Base(fh.Filename),
		Text:     text,
	})
}

// isTextUpload accepts text/plain parts. Parts without a usable content
// type are accepted when the name ends in .txt.
func isTextUpload(filename, contentType string) bool {
	isTxt := strings.EqualFold(filepath.Ext(filename), ".txt")
	if contentType == "" {
		return isTxt
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/plain":
		return true
	case "application/octet-stream":
		return isTxt
	}
	return false
}

func readTranscript(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTranscriptBytes+1))
	if err != nil {
		return "", errors.ErrTranscriptReadFailed(err)
	}
	if len(data) > MaxTranscriptBytes {
		return "", errors.ErrInvalidArgument(fmt.Sprintf("transcript must be at most %d bytes", MaxTranscriptBytes))
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", errors.ErrTranscriptReadFailed(fmt.Errorf("transcript is not valid UTF-8"))
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.ErrTranscriptEmpty()
	}
	return string(data), nil
}
