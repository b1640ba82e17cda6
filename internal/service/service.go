package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/matchday/matchday-server-go/internal/model"
	"github.com/matchday/matchday-server-go/internal/roster"
	"github.com/matchday/matchday-server-go/internal/store"
)

const dayFormat = "2006-01-02"

// RosterClient is the outbound collaborator that resolves group membership.
// Calls may suspend; the service never holds its lock while one is in
// flight.
type RosterClient interface {
	ListMembers(ctx context.Context, groupID string) ([]roster.Member, error)
	MemberInfo(ctx context.Context, groupID, userID string) (*roster.Member, error)
}

// Options are the tunable quotas and durations of the game.
type Options struct {
	CooldownHours     int
	BlockHours        int
	MaxDailyBreakups  int
	MaxDailyWishes    int
	MaxDailyRobs      int
	MaxDailyLocks     int
	DisplayNameMaxLen int
}

func (o *Options) applyDefaults() {
	if o.CooldownHours <= 0 {
		o.CooldownHours = 48
	}
	if o.BlockHours <= 0 {
		o.BlockHours = 24
	}
	if o.MaxDailyBreakups <= 0 {
		o.MaxDailyBreakups = 3
	}
	if o.MaxDailyWishes <= 0 {
		o.MaxDailyWishes = 1
	}
	if o.MaxDailyRobs <= 0 {
		o.MaxDailyRobs = 2
	}
	if o.MaxDailyLocks <= 0 {
		o.MaxDailyLocks = 1
	}
	if o.DisplayNameMaxLen <= 0 {
		o.DisplayNameMaxLen = 10
	}
}

// Service is the matchmaking engine. A single mutex serializes every
// read-modify-write across all stores, including the persistence write, so
// the pairing symmetry invariant holds under concurrent commands.
type Service struct {
	mu        sync.Mutex
	pairs     *store.PairStore
	cooldowns *store.CooldownStore
	blocks    *store.BlockStore
	breakups  *store.BreakupStore
	flags     *store.FlagStore
	roster    RosterClient
	opts      Options

	usage   map[string]map[string]*model.AdvancedUsage
	pending map[string]pendingConfirmation

	now  func() time.Time
	intn func(n int) int
}

func New(
	pairs *store.PairStore,
	cooldowns *store.CooldownStore,
	blocks *store.BlockStore,
	breakups *store.BreakupStore,
	flags *store.FlagStore,
	rosterClient RosterClient,
	opts Options,
) *Service {
	opts.applyDefaults()
	return &Service{
		pairs:     pairs,
		cooldowns: cooldowns,
		blocks:    blocks,
		breakups:  breakups,
		flags:     flags,
		roster:    rosterClient,
		opts:      opts,
		usage:     make(map[string]map[string]*model.AdvancedUsage),
		pending:   make(map[string]pendingConfirmation),
		now:       time.Now,
		intn:      rand.Intn,
	}
}

// Config returns the current quota and duration settings.
func (s *Service) Config() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

func (s *Service) today() string {
	return s.now().Format(dayFormat)
}

func (s *Service) cooldownDuration() time.Duration {
	return time.Duration(s.opts.CooldownHours) * time.Hour
}

func (s *Service) blockDuration() time.Duration {
	return time.Duration(s.opts.BlockHours) * time.Hour
}

func (s *Service) usageFor(groupID, userID string) *model.AdvancedUsage {
	group, ok := s.usage[groupID]
	if !ok {
		group = make(map[string]*model.AdvancedUsage)
		s.usage[groupID] = group
	}
	u, ok := group[userID]
	if !ok {
		u = &model.AdvancedUsage{}
		group[userID] = u
	}
	return u
}

func (s *Service) display(name, id string) string {
	return roster.FormatDisplay(name, id, s.opts.DisplayNameMaxLen)
}
