package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchday/matchday-server-go/internal/roster"
	"github.com/matchday/matchday-server-go/internal/service"
	"github.com/matchday/matchday-server-go/internal/store"
)

const testAdminToken = "test-admin-token"

type stubRoster struct {
	members []roster.Member
}

func (s *stubRoster) ListMembers(ctx context.Context, groupID string) ([]roster.Member, error) {
	return s.members, nil
}

func (s *stubRoster) MemberInfo(ctx context.Context, groupID, userID string) (*roster.Member, error) {
	for _, m := range s.members {
		if m.ID == userID {
			return &m, nil
		}
	}
	return nil, nil
}

func newTestHandler(t *testing.T, members []roster.Member) (*WebhookHandler, *service.Service) {
	t.Helper()
	snap, err := store.NewSnapshot(t.TempDir())
	require.NoError(t, err)

	svc := service.New(
		store.NewPairStore(snap),
		store.NewCooldownStore(snap),
		store.NewBlockStore(snap),
		store.NewBreakupStore(snap),
		store.NewFlagStore(snap),
		&stubRoster{members: members},
		service.Options{},
	)
	return NewWebhookHandler(svc, testAdminToken), svc
}

func groupMembers() []roster.Member {
	return []roster.Member{
		{ID: "1", Nickname: "alice"},
		{ID: "2", Nickname: "bob"},
		{ID: "9000", Nickname: "bot"},
	}
}

func post(t *testing.T, h *WebhookHandler, req WebhookRequest, admin bool) (int, WebhookResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	if admin {
		r.Header.Set("X-Admin-Token", testAdminToken)
	}
	w := httptest.NewRecorder()
	h.Webhook(w, r)

	var resp WebhookResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	}
	return w.Code, resp
}

func msg(userID, text string) WebhookRequest {
	return WebhookRequest{
		GroupID:  "g1",
		UserID:   userID,
		UserName: "user" + userID,
		BotID:    "9000",
		Text:     text,
	}
}

func TestWebhookValidation(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		h.Webhook(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing identifiers", func(t *testing.T) {
		code, _ := post(t, h, WebhookRequest{Text: "/pair"}, false)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestWebhookPairFlow(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	code, resp := post(t, h, msg("1", "/pair"), false)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, resp.Reply, "Matched!")
	assert.Contains(t, resp.Reply, "bob")

	// Partner query reflects the pairing from both sides.
	_, resp = post(t, h, msg("2", "/partner"), false)
	assert.Contains(t, resp.Reply, "alice")

	// Re-pairing the same day is refused with reply text, not an HTTP error.
	code, resp = post(t, h, msg("1", "/pair"), false)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, resp.Reply, "already have a partner")
}

func TestWebhookPartnerWithoutPairing(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	_, resp := post(t, h, msg("1", "/partner"), false)
	assert.Equal(t, "You don't have a partner today.", resp.Reply)
}

func TestWebhookBreakup(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	_, _ = post(t, h, msg("1", "/pair"), false)
	_, resp := post(t, h, msg("2", "/breakup"), false)
	assert.Contains(t, resp.Reply, "dissolved")
	assert.Contains(t, resp.Reply, "48 hours")
}

func TestWebhookAdminGate(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	restricted := []string{
		"/advanced on",
		"/advanced off",
		"/admin reset -a",
		"/admin block 2",
		"/admin cooldown 24",
	}
	for _, text := range restricted {
		_, resp := post(t, h, msg("1", text), false)
		assert.Equal(t, "This command is restricted to administrators.", resp.Reply, text)
	}
}

func TestWebhookAdvancedEnableFlow(t *testing.T) {
	h, svc := newTestHandler(t, groupMembers())

	// Advanced ops are off by default.
	_, resp := post(t, h, msg("1", "/wish 2"), false)
	assert.Contains(t, resp.Reply, "not enabled")

	_, resp = post(t, h, msg("1", "/advanced on"), true)
	assert.Contains(t, resp.Reply, service.ConfirmPhrase)

	// A wrong phrase changes nothing and yields no reply.
	_, resp = post(t, h, msg("1", "sure, enable it"), false)
	assert.Empty(t, resp.Reply)
	assert.False(t, svc.AdvancedEnabled("g1"))

	_, resp = post(t, h, msg("1", service.ConfirmPhrase), false)
	assert.Contains(t, resp.Reply, "now enabled")
	assert.True(t, svc.AdvancedEnabled("g1"))

	// Wish now works.
	_, resp = post(t, h, msg("1", "/wish 2"), false)
	assert.Contains(t, resp.Reply, "Wish granted")

	// And can be turned off again.
	_, resp = post(t, h, msg("1", "/advanced off"), true)
	assert.Contains(t, resp.Reply, "now disabled")
	assert.False(t, svc.AdvancedEnabled("g1"))
}

func TestWebhookWishValidation(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	_, resp := post(t, h, msg("1", "/wish not-an-id"), false)
	assert.Equal(t, "Usage: /wish <member id>", resp.Reply)
}

func TestWebhookAdminReset(t *testing.T) {
	h, svc := newTestHandler(t, groupMembers())

	_, _ = post(t, h, msg("1", "/pair"), false)
	require.NotNil(t, svc)

	_, resp := post(t, h, msg("1", "/admin reset -p"), true)
	assert.Equal(t, "Pairing data has been reset.", resp.Reply)

	_, resp = post(t, h, msg("1", "/partner"), false)
	assert.Equal(t, "You don't have a partner today.", resp.Reply)

	_, resp = post(t, h, msg("1", "/admin reset bogus-arg"), true)
	assert.Contains(t, resp.Reply, "Usage: /admin reset")
}

func TestWebhookAdminCooldown(t *testing.T) {
	h, svc := newTestHandler(t, groupMembers())

	_, resp := post(t, h, msg("1", "/admin cooldown 12"), true)
	assert.Equal(t, "Default cooldown set to 12 hours.", resp.Reply)
	assert.Equal(t, 12, svc.Config().CooldownHours)

	_, resp = post(t, h, msg("1", "/admin cooldown 9999"), true)
	assert.NotContains(t, resp.Reply, "set to")

	_, resp = post(t, h, msg("1", "/admin cooldown abc"), true)
	assert.Equal(t, "Usage: /admin cooldown <hours>", resp.Reply)
}

func TestWebhookAdminBlock(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	_, resp := post(t, h, msg("1", "/admin block 2"), true)
	assert.Equal(t, "User 2 is now blocked.", resp.Reply)

	_, resp = post(t, h, msg("1", "/admin block 2"), true)
	assert.Equal(t, "User 2 is already blocked.", resp.Reply)

	// The blocked member cannot be matched.
	_, resp = post(t, h, msg("2", "/pair"), false)
	assert.Contains(t, resp.Reply, "suspended")
}

func TestWebhookMenu(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	_, resp := post(t, h, msg("1", "/menu"), false)
	assert.Contains(t, resp.Reply, "/pair")
	assert.Contains(t, resp.Reply, "max breakups per day: 3")
	assert.NotContains(t, resp.Reply, "/wish")
	assert.NotContains(t, resp.Reply, "/admin")

	_, resp = post(t, h, msg("1", "/menu"), true)
	assert.Contains(t, resp.Reply, "/admin block")
}

func TestWebhookPlainChatter(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	_, resp := post(t, h, msg("1", "good morning everyone"), false)
	assert.Empty(t, resp.Reply)
}

func TestPartnerLookup(t *testing.T) {
	h, _ := newTestHandler(t, groupMembers())

	r := chi.NewRouter()
	r.Get("/groups/{groupID}/partners/{userID}", h.PartnerLookup)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	t.Run("unpaired member returns 404", func(t *testing.T) {
		w := get("/groups/g1/partners/1")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		w := get("/groups/g1/partners/not-an-id")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("paired member returns the record", func(t *testing.T) {
		_, _ = post(t, h, msg("1", "/pair"), false)

		w := get("/groups/g1/partners/1")
		require.Equal(t, http.StatusOK, w.Code)

		var rec struct {
			PartnerID   string `json:"partnerId"`
			DisplayName string `json:"displayName"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
		assert.Equal(t, "2", rec.PartnerID)
		assert.Equal(t, "bob(2)", rec.DisplayName)
	})
}
