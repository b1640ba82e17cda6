package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	apperrors "github.com/matchday/matchday-server-go/internal/errors"
	"github.com/matchday/matchday-server-go/internal/service"
	"github.com/matchday/matchday-server-go/internal/util"
)

// WebhookHandler turns inbound chat messages into game operations. Replies
// always go back with HTTP 200; failures of the game itself surface as
// user-facing reply text, never as transport errors.
type WebhookHandler struct {
	svc        *service.Service
	adminToken string
}

func NewWebhookHandler(svc *service.Service, adminToken string) *WebhookHandler {
	return &WebhookHandler{svc: svc, adminToken: adminToken}
}

func (h *WebhookHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("invalid webhook request")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.GroupID == "" || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "groupId and userId are required"})
		return
	}

	isAdmin := h.adminToken != "" && util.ConstantTimeEqual(r.Header.Get("X-Admin-Token"), h.adminToken)

	cmd := parseCommand(req.Text)
	if cmd == nil {
		// Not a command; it may still be the advanced-enable confirmation.
		confirmed, err := h.svc.ConfirmAdvanced(req.GroupID, req.UserID, req.Text)
		if err != nil {
			writeJSON(w, http.StatusOK, WebhookResponse{Reply: replyForError(err)})
			return
		}
		reply := ""
		if confirmed {
			reply = "Advanced features are now enabled for this group."
		}
		writeJSON(w, http.StatusOK, WebhookResponse{Reply: reply})
		return
	}

	if cmd.adminOnly() && !isAdmin {
		writeJSON(w, http.StatusOK, WebhookResponse{Reply: "This command is restricted to administrators."})
		return
	}

	writeJSON(w, http.StatusOK, WebhookResponse{Reply: h.dispatch(r, &req, cmd, isAdmin)})
}

func (h *WebhookHandler) dispatch(r *http.Request, req *WebhookRequest, cmd *Command, isAdmin bool) string {
	ctx := r.Context()

	switch cmd.Type {
	case CmdPair:
		rec, err := h.svc.Match(ctx, req.GroupID, req.UserID, req.UserName, req.BotID)
		if err != nil {
			return replyForError(err)
		}
		return fmt.Sprintf("Matched! Your partner today is %s. Treat them well — use /partner for details.", rec.DisplayName)

	case CmdPartner:
		rec, err := h.svc.Query(req.GroupID, req.UserID)
		if err != nil {
			return replyForError(err)
		}
		return fmt.Sprintf("Your partner today: %s", rec.DisplayName)

	case CmdBreakup:
		res, err := h.svc.Breakup(req.GroupID, req.UserID)
		if err != nil {
			return replyForError(err)
		}
		if res.Refused {
			return fmt.Sprintf(
				"Unusual activity detected: %d breakups today already. Matchmaking disabled for %d hours.",
				res.Count, res.BlockHours,
			)
		}
		return fmt.Sprintf(
			"Pairing dissolved. You cannot be matched with them again for %d hours.",
			res.CooldownHours,
		)

	case CmdWish:
		if !util.IsValidParticipantID(cmd.Arg) {
			return "Usage: /wish <member id>"
		}
		if _, err := h.svc.Wish(ctx, req.GroupID, req.UserID, req.UserName, cmd.Arg); err != nil {
			return replyForError(err)
		}
		return "Wish granted: your partner has been assigned."

	case CmdRob:
		if !util.IsValidParticipantID(cmd.Arg) {
			return "Usage: /rob <member id>"
		}
		if _, err := h.svc.Rob(ctx, req.GroupID, req.UserID, req.UserName, cmd.Arg); err != nil {
			return replyForError(err)
		}
		return "Rob succeeded: you took over the pairing."

	case CmdLock:
		if err := h.svc.Lock(req.GroupID, req.UserID); err != nil {
			return replyForError(err)
		}
		return "Pairing locked for the rest of the day; rob attempts will fail."

	case CmdAdvancedOn:
		if h.svc.RequestAdvanced(req.GroupID, req.UserID, sessionRef(req)) {
			return "Advanced features are already enabled."
		}
		return fmt.Sprintf("Send the following within 30 seconds to confirm:\n%s", service.ConfirmPhrase)

	case CmdAdvancedOff:
		if err := h.svc.DisableAdvanced(req.GroupID); err != nil {
			return replyForError(err)
		}
		return "Advanced features are now disabled for this group."

	case CmdMenu:
		return h.menu(req.GroupID, isAdmin)

	case CmdAdminReset:
		return h.adminReset(req.GroupID, cmd.Arg)

	case CmdAdminBlock:
		if !util.IsValidParticipantID(cmd.Arg) {
			return "Usage: /admin block <member id>"
		}
		added, err := h.svc.BlockUser(cmd.Arg)
		if err != nil {
			return replyForError(err)
		}
		if !added {
			return fmt.Sprintf("User %s is already blocked.", cmd.Arg)
		}
		return fmt.Sprintf("User %s is now blocked.", cmd.Arg)

	case CmdAdminCooldown:
		hours, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			return "Usage: /admin cooldown <hours>"
		}
		if err := h.svc.SetCooldownHours(hours); err != nil {
			return replyForError(err)
		}
		return fmt.Sprintf("Default cooldown set to %d hours.", hours)
	}

	return ""
}

func (h *WebhookHandler) adminReset(groupID, arg string) string {
	var err error
	switch {
	case arg == "-a":
		if err = h.svc.ResetAll(); err == nil {
			return "All data has been reset."
		}
	case arg == "-p":
		if err = h.svc.ResetPairs(); err == nil {
			return "Pairing data has been reset."
		}
	case arg == "-c":
		if err = h.svc.ResetCooldowns(); err == nil {
			return "Cooldown data has been reset."
		}
	case arg == "-b":
		if err = h.svc.ResetBlocks(); err == nil {
			return "Block list and related cooldowns have been reset."
		}
	case arg == "-d":
		if err = h.svc.ResetBreakups(); err == nil {
			return "Breakup counters have been reset."
		}
	case arg == "-e":
		if err = h.svc.ResetAdvanced(groupID); err == nil {
			return "Advanced feature state for this group has been reset."
		}
	case util.IsValidParticipantID(arg):
		var found bool
		if found, err = h.svc.ResetGroup(arg); err == nil {
			if !found {
				return fmt.Sprintf("No pairing data for group %s.", arg)
			}
			return fmt.Sprintf("Pairing data for group %s has been reset.", arg)
		}
	default:
		return "Usage: /admin reset [-a|-p|-c|-b|-d|-e|<group id>]"
	}
	return replyForError(err)
}

func (h *WebhookHandler) menu(groupID string, isAdmin bool) string {
	cfg := h.svc.Config()
	base := "Matchday commands:\n" +
		"/pair — get a random partner for today\n" +
		"/partner — show your current partner\n" +
		"/breakup — dissolve your pairing\n"

	advanced := ""
	if h.svc.AdvancedEnabled(groupID) {
		advanced = "Advanced commands:\n" +
			fmt.Sprintf("/wish <id> — assign a partner directly (%d/day)\n", cfg.MaxDailyWishes) +
			fmt.Sprintf("/rob <id> — take over someone's partner (%d/day)\n", cfg.MaxDailyRobs) +
			fmt.Sprintf("/lock — protect your pairing from rob (%d/day)\n", cfg.MaxDailyLocks)
	}

	admin := ""
	if isAdmin {
		admin = "Admin commands:\n" +
			"/admin reset [-a|-p|-c|-b|-d|-e|<group id>]\n" +
			"/admin block <id>\n" +
			"/admin cooldown <hours>\n" +
			"/advanced on|off\n"
	}

	settings := fmt.Sprintf(
		"Current settings:\n"+
			"- max breakups per day: %d\n"+
			"- auto-block duration: %dh\n"+
			"- re-match cooldown: %dh",
		cfg.MaxDailyBreakups, cfg.BlockHours, cfg.CooldownHours,
	)

	return base + advanced + admin + settings
}

// replyForError converts an operation failure into user-facing reply text.
func replyForError(err error) string {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		log.Error().Err(err).Msg("unexpected operation failure")
		return "Something went wrong, please try again later."
	}

	switch appErr.Code {
	case apperrors.ErrCodeNotFound:
		return "You don't have a partner today."
	case apperrors.ErrCodeAlreadyPaired:
		return "You already have a partner today — use /partner to see them."
	case apperrors.ErrCodeNoCandidate:
		return "No eligible partner right now, try again later."
	case apperrors.ErrCodeQuotaExceeded:
		return "You've used up today's quota for that."
	case apperrors.ErrCodeTargetUnpaired:
		return "That member has no partner to take over — use /wish instead."
	case apperrors.ErrCodeTargetLocked:
		return "That pairing is locked; rob is not possible."
	case apperrors.ErrCodeOnlyResponderCanLock:
		return "Only the chosen side of a pairing can lock it."
	case apperrors.ErrCodeFeatureDisabled:
		return "Advanced features are not enabled in this group."
	case apperrors.ErrCodeNoSuchTarget:
		return "There's no such member in this group."
	case apperrors.ErrCodeUserBlocked:
		return "You are temporarily suspended from matchmaking."
	case apperrors.ErrCodeUpstreamUnavailable:
		return "The member service is unavailable right now, try again later."
	case apperrors.ErrCodeValidation, apperrors.ErrCodeInvalidInput:
		return appErr.Message
	case apperrors.ErrCodePersistenceFailure:
		log.Error().Err(err).Msg("persistence failure")
		return "Could not save the result, nothing was changed. Try again."
	default:
		log.Error().Err(err).Msg("operation failed")
		return "Something went wrong, please try again later."
	}
}

// sessionRef identifies the requesting context for timeout notifications.
func sessionRef(req *WebhookRequest) string {
	return req.GroupID + ":" + req.UserID
}
