package endpoints

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drillbook/drillbook/internal/api"
	"github.com/drillbook/drillbook/internal/store"
	"github.com/drillbook/drillbook/internal/svcctx"
)

// GetSessionEndpoint handles GET /api/sessions/{id}.
type GetSessionEndpoint struct{}

var _ api.Endpoint = (*GetSessionEndpoint)(nil)

func (e *GetSessionEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}", e.handler
}

func (e *GetSessionEndpoint) RequiresInit() bool { return true }

func (e *GetSessionEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	st := svcctx.StoreFrom(r.Context())
	if st == nil {
		writeError(w, http.StatusServiceUnavailable, "store not configured")
		return
	}

	p, err := st.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (e *GetSessionEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a session plan by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp map[string]any
			if err := client.Get(cmd.Context(), "/api/sessions/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
