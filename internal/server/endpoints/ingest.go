package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drillbook/drillbook/internal/api"
	"github.com/drillbook/drillbook/internal/ingest"
	"github.com/drillbook/drillbook/internal/plan"
	"github.com/drillbook/drillbook/internal/svcctx"
)

// IngestResponse is returned after a PDF has been processed.
type IngestResponse struct {
	Status      string            `json:"status"`
	PlanID      uuid.UUID         `json:"plan_id"`
	Indexed     bool              `json:"indexed"`
	SessionPlan *plan.SessionPlan `json:"session_plan"`
}

// IngestEndpoint handles POST /api/ingest with a multipart PDF upload.
// The upload is saved, decomposed, extracted, and stored before the
// response is written.
type IngestEndpoint struct {
	// MaxBytes caps upload size. Zero uses the ingest default.
	MaxBytes int64
}

var _ api.Endpoint = (*IngestEndpoint)(nil)

func (e *IngestEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/ingest", e.handler
}

func (e *IngestEndpoint) RequiresInit() bool { return true }

func (e *IngestEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 32 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	saver := svcctx.SaverFrom(r.Context())
	processor := svcctx.ProcessorFrom(r.Context())
	if saver == nil || processor == nil {
		writeError(w, http.StatusServiceUnavailable, "ingest pipeline not initialized")
		return
	}

	saved, err := saver.Save(ingest.Request{
		Filename: header.Filename,
		Reader:   file,
		MaxBytes: e.MaxBytes,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ingest.ErrNotPDF) || errors.Is(err, ingest.ErrTooLarge) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	result, err := processor.Process(r.Context(), saved.PDFPath)
	if err != nil {
		saver.Discard(saved)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("extraction failed: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Status:      "completed",
		PlanID:      result.Plan.ID,
		Indexed:     result.Indexed,
		SessionPlan: result.Plan,
	})
}

func (e *IngestEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <pdf>",
		Short: "Upload a session plan PDF for extraction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp IngestResponse
			if err := client.PostFile(cmd.Context(), "/api/ingest", "file", args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
