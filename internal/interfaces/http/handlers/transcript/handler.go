// Package transcript serves the ingest API and the public transcript pages.
package transcript

import (
	"encoding/hex"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zeebo/blake3"

	"github.com/velorie/ticketarchive/internal/application/transcript/dto"
	"github.com/velorie/ticketarchive/internal/application/transcript/usecases"
	"github.com/velorie/ticketarchive/internal/infrastructure/metrics"
	"github.com/velorie/ticketarchive/internal/shared/errors"
	"github.com/velorie/ticketarchive/internal/shared/logger"
	"github.com/velorie/ticketarchive/internal/shared/utils"
)

// Observer receives per-operation outcomes. *metrics.Metrics implements it.
type Observer interface {
	ObserveSubmission(outcome string, messageCount int)
	ObserveView(outcome string)
}

type Handler struct {
	submitUC usecases.SubmitTranscriptExecutor
	viewUC   usecases.ViewTranscriptExecutor
	observer Observer
	logger   logger.Interface
}

func NewHandler(
	submitUC usecases.SubmitTranscriptExecutor,
	viewUC usecases.ViewTranscriptExecutor,
	observer Observer,
	logger logger.Interface,
) *Handler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Handler{
		submitUC: submitUC,
		viewUC:   viewUC,
		observer: observer,
		logger:   logger,
	}
}

// Submit handles POST /api/ticket
// @Summary Archive a closed ticket
// @Description Store a ticket and its messages and return the public transcript URL
// @Tags transcripts
// @Accept json
// @Produce json
// @Security ApiSecret
// @Param transcript body dto.SubmitTranscriptRequest true "Ticket and messages"
// @Success 200 {object} dto.SubmitTranscriptResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 413 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /api/ticket [post]
func (h *Handler) Submit(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			h.observer.ObserveSubmission(metrics.OutcomeInvalid, 0)
			utils.ErrorResponseWithError(c, errors.NewPayloadTooLargeError("request body too large"))
			return
		}
		h.logger.Warnw("failed to read transcript submission body", "error", err)
		h.observer.ObserveSubmission(metrics.OutcomeInvalid, 0)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read request body"))
		return
	}

	result, err := h.submitUC.Execute(c.Request.Context(), usecases.SubmitTranscriptCommand{
		AuthToken: c.GetHeader("Authorization"),
		Payload:   payload,
	})
	if err != nil {
		h.observer.ObserveSubmission(submissionOutcome(err), 0)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.observer.ObserveSubmission(metrics.OutcomeStored, result.MessageCount)
	c.JSON(http.StatusOK, dto.SubmitTranscriptResponse{
		Success:      true,
		URL:          result.URL,
		TranscriptID: result.TranscriptID,
	})
}

// View handles GET /:id
// @Summary View a transcript
// @Description Render an archived transcript as a standalone HTML page
// @Tags transcripts
// @Produce html
// @Param id path string true "Transcript ID"
// @Success 200 {string} string "HTML document"
// @Success 304 {string} string "Not modified"
// @Failure 404 {string} string "HTML error page"
// @Failure 500 {string} string "HTML error page"
// @Router /{id} [get]
func (h *Handler) View(c *gin.Context) {
	result, err := h.viewUC.Execute(c.Request.Context(), usecases.ViewTranscriptQuery{
		TranscriptID: c.Param("id"),
	})
	if err != nil {
		if errors.IsNotFoundError(err) {
			h.observer.ObserveView(metrics.OutcomeNotFound)
			writePage(c, http.StatusNotFound, notFoundPage)
			return
		}
		h.observer.ObserveView(metrics.OutcomeError)
		writePage(c, http.StatusInternalServerError, internalErrorPage)
		return
	}

	etag := documentETag(result.Document)
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")

	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		h.observer.ObserveView(metrics.OutcomeNotModified)
		c.Status(http.StatusNotModified)
		return
	}

	h.observer.ObserveView(metrics.OutcomeServed)
	writePage(c, http.StatusOK, result.Document)
}

func writePage(c *gin.Context, status int, document string) {
	c.Data(status, "text/html; charset=utf-8", []byte(document))
}

func submissionOutcome(err error) string {
	switch {
	case errors.IsUnauthorizedError(err):
		return metrics.OutcomeUnauthorized
	case errors.IsValidationError(err):
		return metrics.OutcomeInvalid
	case errors.IsConflictError(err):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}

// documentETag is a strong validator over the rendered bytes. A transcript
// overwritten with different content gets a different tag.
func documentETag(document string) string {
	sum := blake3.Sum256([]byte(document))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

type nopObserver struct{}

func (nopObserver) ObserveSubmission(string, int) {}
func (nopObserver) ObserveView(string)            {}

// NotFound answers unmatched paths with the transcript 404 page.
func (h *Handler) NotFound(c *gin.Context) {
	writePage(c, http.StatusNotFound, notFoundPage)
}
