package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drillbook/drillbook/internal/api"
	"github.com/drillbook/drillbook/internal/plan"
	"github.com/drillbook/drillbook/internal/store"
	"github.com/drillbook/drillbook/internal/svcctx"
)

// UpdateSessionEndpoint handles PUT /api/sessions/{id}. The submitted
// plan replaces the stored one and is re-enriched before persisting, so
// manual edits to drill text refresh the tactical classification.
type UpdateSessionEndpoint struct{}

var _ api.Endpoint = (*UpdateSessionEndpoint)(nil)

func (e *UpdateSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/sessions/{id}", e.handler
}

func (e *UpdateSessionEndpoint) RequiresInit() bool { return true }

func (e *UpdateSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	st := svcctx.StoreFrom(r.Context())
	processor := svcctx.ProcessorFrom(r.Context())
	if st == nil || processor == nil {
		writeError(w, http.StatusServiceUnavailable, "store not configured")
		return
	}

	var p plan.SessionPlan
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid session plan body")
		return
	}
	// The URL wins over whatever ID the body carries.
	p.ID = id

	if _, err := st.Get(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := processor.Reprocess(r.Context(), &p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, &p)
}

func (e *UpdateSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <plan.json>",
		Short: "Replace a stored session plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var body map[string]any
			if err := json.Unmarshal(data, &body); err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var resp map[string]any
			if err := client.Put(cmd.Context(), "/api/sessions/"+args[0], body, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
