package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provincewar/internal/game"
	"provincewar/pkg/maps"
)

// memStore keeps snapshots in memory, copying through Snapshot/Restore semantics.
type memStore struct {
	saves map[string]*game.Snapshot
}

func newMemStore() *memStore {
	return &memStore{saves: make(map[string]*game.Snapshot)}
}

func (m *memStore) Save(_ context.Context, slot string, snap *game.Snapshot) error {
	c := *snap
	c.Regions = make(map[string]game.RegionSnapshot, len(snap.Regions))
	for k, v := range snap.Regions {
		c.Regions[k] = v
	}
	m.saves[slot] = &c
	return nil
}

func (m *memStore) Load(_ context.Context, slot string) (*game.Snapshot, error) {
	snap, ok := m.saves[slot]
	if !ok {
		return nil, fmt.Errorf("slot %q: %w", slot, game.ErrPersistenceUnavailable)
	}
	return snap, nil
}

type journalEntry struct {
	slot   string
	turn   int
	kind   string
	region string
}

type memJournal struct {
	entries []journalEntry
}

func (j *memJournal) Record(_ context.Context, slot string, turn int, kind, region string, _ any) error {
	j.entries = append(j.entries, journalEntry{slot, turn, kind, region})
	return nil
}

func (j *memJournal) kinds() []string {
	out := make([]string, len(j.entries))
	for i, e := range j.entries {
		out[i] = e.kind
	}
	return out
}

func newTestSession(t *testing.T, store Store, journal Journal) *Session {
	t.Helper()
	m, err := maps.Load("korea.json")
	require.NoError(t, err)

	s, err := New(Options{
		Map:     m,
		Rules:   game.DefaultRules(),
		Random:  game.NewRandom(1),
		Store:   store,
		Journal: journal,
	})
	require.NoError(t, err)
	return s
}

func TestNew_Validation(t *testing.T) {
	m, err := maps.Load("korea.json")
	require.NoError(t, err)

	_, err = New(Options{Rules: game.DefaultRules(), Random: game.NewRandom(1)})
	assert.Error(t, err, "map required")

	_, err = New(Options{Map: m, Rules: game.DefaultRules()})
	assert.Error(t, err, "random source required")

	bad := game.DefaultRules()
	bad.UpkeepDivisor = 0
	_, err = New(Options{Map: m, Rules: bad, Random: game.NewRandom(1)})
	assert.Error(t, err, "rules validated")
}

func TestNewGame(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil, nil)

	res, err := s.NewGame(ctx, "Hong", "")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, ActionNewGame, res.Action)
	assert.Equal(t, "Gyeonggi", res.Region)
	assert.Equal(t, game.StatusInProgress, res.Status)

	w := s.World()
	require.NotNil(t, w)
	assert.Equal(t, 14, w.Len())
	assert.Equal(t, []string{"Gyeonggi"}, w.OwnedRegions("Hong"))
	for _, r := range w.Regions() {
		assert.NotEmpty(t, r.Owner, r.Name)
	}
}

func TestNewGame_ResolvesRegionInput(t *testing.T) {
	s := newTestSession(t, nil, nil)

	res, err := s.NewGame(context.Background(), "", "제주도")
	require.NoError(t, err)

	assert.Equal(t, "Jeju", res.Region)
	assert.Equal(t, game.DefaultPlayerName, s.World().PlayerID)
}

func TestNewGame_UnknownRegion(t *testing.T) {
	s := newTestSession(t, nil, nil)

	res, err := s.NewGame(context.Background(), "Hong", "Kyushu")

	assert.ErrorIs(t, err, game.ErrUnknownRegion)
	assert.False(t, res.Success)
	assert.Equal(t, game.OutcomeUnknownRegion, res.Outcome)
	assert.Nil(t, s.World())
}

func TestOperationsWithoutGame(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newMemStore(), nil)

	checks := []func() (*Result, error){
		s.SelectNextOwnedRegion,
		func() (*Result, error) { return s.Invest(ctx, "Gyeonggi", game.DevCommerce) },
		func() (*Result, error) { return s.Recruit(ctx, "Gyeonggi", 5) },
		func() (*Result, error) { return s.Attack(ctx, "Gyeonggi") },
		func() (*Result, error) { return s.AdvanceTurn(ctx) },
		func() (*Result, error) { return s.Save(ctx) },
	}
	for _, check := range checks {
		res, err := check()
		assert.ErrorIs(t, err, ErrNoGame)
		assert.Equal(t, OutcomeNoGame, res.Outcome)
	}
}

func TestSelectedRegionActions(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil, nil)
	_, err := s.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)

	res, err := s.Invest(ctx, "", game.DevCommerce)
	assert.ErrorIs(t, err, game.ErrInvalidSelection, "nothing selected yet")
	assert.Equal(t, game.OutcomeInvalidSelection, res.Outcome)

	sel, err := s.SelectNextOwnedRegion()
	require.NoError(t, err)
	assert.Equal(t, "Gyeonggi", sel.Region)

	res, err = s.Invest(ctx, "", game.DevCommerce)
	require.NoError(t, err)
	assert.Equal(t, "Gyeonggi", res.Region)
	assert.Equal(t, &Deltas{Gold: -100, Commerce: 1}, res.Deltas)

	res, err = s.Recruit(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Amount, "zero means the shell recruit amount")
	assert.Equal(t, &Deltas{Food: -50, Population: -10, Army: 10}, res.Deltas)
}

func TestRejectedActions(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil, nil)
	_, err := s.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)
	before := s.World().Snapshot()

	_, err = s.Invest(ctx, "Gangwon", game.DevCommerce)
	assert.ErrorIs(t, err, game.ErrInvalidSelection, "enemy region")

	_, err = s.Invest(ctx, "Atlantis", game.DevCommerce)
	assert.ErrorIs(t, err, game.ErrInvalidSelection, "unknown region")

	_, err = s.Recruit(ctx, "Gyeonggi", -1)
	assert.ErrorIs(t, err, game.ErrInvalidAmount)

	_, err = s.Recruit(ctx, "Gyeonggi", 100000)
	assert.ErrorIs(t, err, game.ErrInsufficientResources)

	res, err := s.Attack(ctx, "Gyeonggi")
	assert.ErrorIs(t, err, game.ErrNoArmy)
	assert.Equal(t, game.OutcomeNoArmy, res.Outcome)

	assert.Equal(t, before, s.World().Snapshot())
}

func TestAttackOrder_Occupy(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil, nil)
	_, err := s.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)
	_, err = s.Recruit(ctx, "Gyeonggi", 10)
	require.NoError(t, err)

	res, err := s.AttackOrder(ctx, game.AttackOrder{From: "gyeonggi", Target: "north-chungcheong", Mode: game.ModeOccupy})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, game.OutcomeOccupied, res.Outcome)
	require.NotNil(t, res.Attack)
	assert.Equal(t, "North Chungcheong", res.Attack.Target)
	assert.Equal(t, "Hong", s.World().Region("North Chungcheong").Owner)
}

func TestAdvanceTurn(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil, nil)
	_, err := s.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)

	res, err := s.AdvanceTurn(ctx)
	require.NoError(t, err)

	require.NotNil(t, res.TurnReport)
	assert.Equal(t, 1, res.TurnReport.Turn)
	assert.Equal(t, 1, s.World().Turn)
	assert.Equal(t, 2100, s.World().Region("Gyeonggi").Gold)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newTestSession(t, store, nil)
	_, err := s.NewGame(ctx, "Hong", "Jeju")
	require.NoError(t, err)
	_, err = s.Recruit(ctx, "Jeju", 20)
	require.NoError(t, err)
	_, err = s.AdvanceTurn(ctx)
	require.NoError(t, err)

	res, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSlot, res.Slot)
	saved := s.World().Snapshot()

	other := newTestSession(t, store, nil)
	_, err = other.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, saved, other.World().Snapshot())
	assert.Equal(t, s.World().RegionNames(), other.World().RegionNames())
	assert.Empty(t, other.World().Selected())
}

func TestLoad_MissingKeepsWorld(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newMemStore(), nil)
	_, err := s.NewGame(ctx, "Hong", "Jeju")
	require.NoError(t, err)
	world := s.World()

	res, err := s.LoadFrom(ctx, "elsewhere")

	assert.ErrorIs(t, err, game.ErrPersistenceUnavailable)
	assert.Equal(t, game.OutcomePersistenceUnavailable, res.Outcome)
	assert.Same(t, world, s.World())
}

func TestLoadFrom_FailureKeepsSlot(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newTestSession(t, store, nil)
	_, err := s.NewGame(ctx, "Hong", "Jeju")
	require.NoError(t, err)

	_, err = s.LoadFrom(ctx, "nope")
	assert.ErrorIs(t, err, game.ErrPersistenceUnavailable)
	assert.Equal(t, DefaultSlot, s.Slot())

	res, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSlot, res.Slot)
	assert.Contains(t, store.saves, DefaultSlot)
	assert.NotContains(t, store.saves, "nope")
}

func TestSaveTo_SwitchesSlot(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newTestSession(t, store, nil)

	// Nothing to save yet, so the slot stays put
	_, err := s.SaveTo(ctx, "campaign")
	assert.ErrorIs(t, err, ErrNoGame)
	assert.Equal(t, DefaultSlot, s.Slot())

	_, err = s.NewGame(ctx, "Hong", "Jeju")
	require.NoError(t, err)
	res, err := s.SaveTo(ctx, "campaign")
	require.NoError(t, err)
	assert.Equal(t, "campaign", res.Slot)
	assert.Equal(t, "campaign", s.Slot())

	_, err = s.AdvanceTurn(ctx)
	require.NoError(t, err)
	res, err = s.LoadFrom(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "campaign", res.Slot)
	assert.Equal(t, 0, s.World().Turn)
}

func TestLoad_UnknownRegionTolerated(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.saves[DefaultSlot] = &game.Snapshot{
		PlayerName:        "Hong",
		PlayerStartRegion: "Jeju",
		Regions: map[string]game.RegionSnapshot{
			"Jeju":     {Owner: "Hong", Gold: 10},
			"Tsushima": {Owner: "Kim Minju", Gold: 20},
		},
	}
	s := newTestSession(t, store, nil)

	_, err := s.Load(ctx)
	require.NoError(t, err)

	require.NotNil(t, s.World().Region("Tsushima"))
	assert.Empty(t, s.World().Neighbors("Tsushima"))
	assert.Equal(t, 10, s.World().Region("Jeju").Gold)
}

func TestSaveWithoutStore(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, nil, nil)
	_, err := s.NewGame(ctx, "Hong", "Jeju")
	require.NoError(t, err)

	_, err = s.Save(ctx)
	assert.ErrorIs(t, err, game.ErrPersistenceUnavailable)
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, game.ErrPersistenceUnavailable)
}

func TestJournal(t *testing.T) {
	ctx := context.Background()
	journal := &memJournal{}
	s := newTestSession(t, newMemStore(), journal)
	s.slot = "campaign"

	_, err := s.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)
	_, err = s.Invest(ctx, "Gyeonggi", game.DevAgriculture)
	require.NoError(t, err)
	_, err = s.Recruit(ctx, "Gyeonggi", 10)
	require.NoError(t, err)
	_, err = s.Attack(ctx, "Gyeonggi")
	require.NoError(t, err)
	_, err = s.AdvanceTurn(ctx)
	require.NoError(t, err)
	_, err = s.Save(ctx)
	require.NoError(t, err)
	_, err = s.Load(ctx)
	require.NoError(t, err)

	// Rejected actions are not journaled
	_, err = s.Invest(ctx, "Jeju", game.DevAgriculture)
	require.Error(t, err)

	assert.Equal(t, []string{
		EventNewGame, EventInvest, EventRecruit, EventAttack, EventTurnEnd, EventSave, EventLoad,
	}, journal.kinds())
	for _, e := range journal.entries {
		assert.Equal(t, "campaign", e.slot)
	}
	assert.Equal(t, 1, journal.entries[len(journal.entries)-1].turn)
}
