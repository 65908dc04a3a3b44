package endpoints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/drillbook/drillbook/internal/api"
	"github.com/drillbook/drillbook/internal/store"
	"github.com/drillbook/drillbook/internal/svcctx"
)

// SessionListResponse is the response for session listing.
type SessionListResponse struct {
	Sessions []store.Summary `json:"sessions"`
	Count    int             `json:"count"`
}

// ListSessionsEndpoint handles GET /api/sessions.
type ListSessionsEndpoint struct{}

var _ api.Endpoint = (*ListSessionsEndpoint)(nil)

func (e *ListSessionsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions", e.handler
}

func (e *ListSessionsEndpoint) RequiresInit() bool { return true }

func (e *ListSessionsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	st := svcctx.StoreFrom(r.Context())
	if st == nil {
		writeError(w, http.StatusServiceUnavailable, "store not configured")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "offset must be non-negative")
			return
		}
		offset = n
	}

	sessions, err := st.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sessions == nil {
		sessions = []store.Summary{}
	}

	writeJSON(w, http.StatusOK, SessionListResponse{Sessions: sessions, Count: len(sessions)})
}

func (e *ListSessionsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List extracted session plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SessionListResponse
			path := fmt.Sprintf("/api/sessions?limit=%d&offset=%d", limit, offset)
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of sessions to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of sessions to skip")
	return cmd
}
