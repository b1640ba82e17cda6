package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matchday/matchday-server-go/internal/errors"
	"github.com/matchday/matchday-server-go/internal/httputil"
	"github.com/matchday/matchday-server-go/internal/util"
)

// PartnerLookup is a read-only pairing lookup for relay-side tooling. Unlike
// the webhook surface it speaks plain HTTP status codes.
func (h *WebhookHandler) PartnerLookup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	userID := chi.URLParam(r, "userID")
	if !util.IsValidParticipantID(userID) {
		httputil.WriteError(w, apperrors.InvalidInput("userId", "must be a numeric id"))
		return
	}

	rec, err := h.svc.Query(groupID, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}
