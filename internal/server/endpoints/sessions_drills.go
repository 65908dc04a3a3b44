package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drillbook/drillbook/internal/api"
	"github.com/drillbook/drillbook/internal/plan"
	"github.com/drillbook/drillbook/internal/store"
	"github.com/drillbook/drillbook/internal/svcctx"
)

// DrillSummary is one row in a drill listing.
type DrillSummary struct {
	Index        int       `json:"index"`
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	HasPositions bool      `json:"has_positions"`
}

// DrillListResponse is the response for drill listing.
type DrillListResponse struct {
	SessionID uuid.UUID      `json:"session_id"`
	Drills    []DrillSummary `json:"drills"`
	Count     int            `json:"count"`
}

func fetchPlan(w http.ResponseWriter, r *http.Request) *plan.SessionPlan {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return nil
	}

	st := svcctx.StoreFrom(r.Context())
	if st == nil {
		writeError(w, http.StatusServiceUnavailable, "store not configured")
		return nil
	}

	p, err := st.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return nil
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	return p
}

// ListDrillsEndpoint handles GET /api/sessions/{id}/drills.
type ListDrillsEndpoint struct{}

var _ api.Endpoint = (*ListDrillsEndpoint)(nil)

func (e *ListDrillsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/drills", e.handler
}

func (e *ListDrillsEndpoint) RequiresInit() bool { return true }

func (e *ListDrillsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	p := fetchPlan(w, r)
	if p == nil {
		return
	}

	drills := make([]DrillSummary, len(p.Drills))
	for i, d := range p.Drills {
		drills[i] = DrillSummary{
			Index:        i,
			ID:           d.ID,
			Name:         d.Name,
			HasPositions: len(d.Diagram.PlayerPositions) > 0,
		}
	}

	writeJSON(w, http.StatusOK, DrillListResponse{
		SessionID: p.ID,
		Drills:    drills,
		Count:     len(drills),
	})
}

func (e *ListDrillsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "drills <session-id>",
		Short: "List drills within a session plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp DrillListResponse
			if err := client.Get(cmd.Context(), "/api/sessions/"+args[0]+"/drills", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetDrillEndpoint handles GET /api/sessions/{id}/drills/{index}.
type GetDrillEndpoint struct{}

var _ api.Endpoint = (*GetDrillEndpoint)(nil)

func (e *GetDrillEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/sessions/{id}/drills/{index}", e.handler
}

func (e *GetDrillEndpoint) RequiresInit() bool { return true }

func (e *GetDrillEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	p := fetchPlan(w, r)
	if p == nil {
		return
	}

	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || idx < 0 || idx >= len(p.Drills) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("drill index out of range (session has %d drills)", len(p.Drills)))
		return
	}

	writeJSON(w, http.StatusOK, p.Drills[idx])
}

func (e *GetDrillEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "drill <session-id> <index>",
		Short: "Get a single drill from a session plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp map[string]any
			path := "/api/sessions/" + args[0] + "/drills/" + args[1]
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
