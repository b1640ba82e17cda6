package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matchday/matchday-server-go/internal/roster"
	"github.com/matchday/matchday-server-go/internal/store"
)

var testBase = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeRoster struct {
	members []roster.Member
	listErr error
	infoErr error
}

func (f *fakeRoster) ListMembers(ctx context.Context, groupID string) ([]roster.Member, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.members, nil
}

func (f *fakeRoster) MemberInfo(ctx context.Context, groupID, userID string) (*roster.Member, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	for _, m := range f.members {
		if m.ID == userID {
			return &m, nil
		}
	}
	return nil, nil
}

// testDataDirs remembers each test service's snapshot directory so
// reopenService can rebuild over the same files.
var testDataDirs = map[*Service]string{}

func newTestService(t *testing.T, fr *fakeRoster, opts Options) (*Service, *fakeClock) {
	t.Helper()
	svc, clock := newTestServiceAt(t, t.TempDir(), fr, opts)
	return svc, clock
}

func newTestServiceAt(t *testing.T, dir string, fr *fakeRoster, opts Options) (*Service, *fakeClock) {
	t.Helper()
	snap, err := store.NewSnapshot(dir)
	require.NoError(t, err)

	svc := New(
		store.NewPairStore(snap),
		store.NewCooldownStore(snap),
		store.NewBlockStore(snap),
		store.NewBreakupStore(snap),
		store.NewFlagStore(snap),
		fr,
		opts,
	)
	clock := &fakeClock{t: testBase}
	svc.now = clock.Now
	svc.intn = func(n int) int { return 0 }
	testDataDirs[svc] = dir
	return svc, clock
}

// reopenService simulates a restart: a fresh service stack loaded from the
// same snapshot directory.
func reopenService(t *testing.T, svc *Service) *Service {
	t.Helper()
	dir, ok := testDataDirs[svc]
	require.True(t, ok, "service was not built by newTestService")
	reloaded, _ := newTestServiceAt(t, dir, svc.roster.(*fakeRoster), svc.opts)
	return reloaded
}

func member(id, nickname string) roster.Member {
	return roster.Member{ID: id, Nickname: nickname}
}

func enableAdvanced(t *testing.T, svc *Service, groupID string) {
	t.Helper()
	svc.flags.Set(groupID, true)
	require.NoError(t, svc.flags.Save())
}
