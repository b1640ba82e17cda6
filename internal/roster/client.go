package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/matchday/matchday-server-go/internal/errors"
)

const defaultTimeout = 10 * time.Second

// Client talks to the chat platform's roster API. Every failure mode
// (transport error, timeout, non-ok status, malformed payload) surfaces as
// UPSTREAM_UNAVAILABLE; a lookup for an id the group does not contain is a
// nil member, not an error.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, opts ...Option) *Client {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if s.timeout > 0 {
		s.httpClient.Timeout = s.timeout
	}
	return &Client{
		baseURL: baseURL,
		http:    s.httpClient,
	}
}

type memberDTO struct {
	UserID   json.Number `json:"user_id"`
	Nickname string      `json:"nickname"`
	Card     string      `json:"card"`
}

func (d memberDTO) toMember() Member {
	return Member{
		ID:       d.UserID.String(),
		Nickname: d.Nickname,
		Card:     d.Card,
	}
}

type listMembersDTO struct {
	Status string      `json:"status"`
	Data   []memberDTO `json:"data"`
}

type memberInfoDTO struct {
	Status string     `json:"status"`
	Data   *memberDTO `json:"data"`
}

// ListMembers fetches the full roster of a group.
func (c *Client) ListMembers(ctx context.Context, groupID string) ([]Member, error) {
	var dto listMembersDTO
	if err := c.post(ctx, "/get_group_member_list", map[string]any{
		"group_id": groupID,
	}, &dto); err != nil {
		return nil, err
	}
	if dto.Data == nil {
		log.Warn().Str("group", groupID).Msg("roster list returned no member array")
		return nil, apperrors.UpstreamUnavailable(fmt.Errorf("missing member list in response"))
	}
	members := make([]Member, 0, len(dto.Data))
	for _, d := range dto.Data {
		if d.UserID.String() == "" {
			continue
		}
		members = append(members, d.toMember())
	}
	return members, nil
}

// MemberInfo fetches a single member. A (nil, nil) return means the platform
// reports no such member in the group.
func (c *Client) MemberInfo(ctx context.Context, groupID, userID string) (*Member, error) {
	var dto memberInfoDTO
	if err := c.post(ctx, "/get_group_member_info", map[string]any{
		"group_id": groupID,
		"user_id":  userID,
		"no_cache": false,
	}, &dto); err != nil {
		return nil, err
	}
	if dto.Status == "failed" {
		return nil, nil
	}
	if dto.Status != "ok" || dto.Data == nil {
		return nil, apperrors.UpstreamUnavailable(fmt.Errorf("unexpected roster status %q", dto.Status))
	}
	m := dto.Data.toMember()
	if m.ID == "" {
		m.ID = userID
	}
	return &m, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.UpstreamUnavailable(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apperrors.UpstreamUnavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("roster request failed")
		return apperrors.UpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("roster returned non-200")
		return apperrors.UpstreamUnavailable(fmt.Errorf("roster status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("roster returned malformed payload")
		return apperrors.UpstreamUnavailable(err)
	}
	return nil
}
