package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provincewar/internal/client"
	"provincewar/internal/database"
	"provincewar/internal/game"
	"provincewar/internal/protocol"
	"provincewar/internal/savefile"
	"provincewar/internal/session"
	"provincewar/pkg/maps"
)

func testMap(t *testing.T) *maps.Map {
	t.Helper()
	require.NoError(t, maps.LoadAll())
	m := maps.Get(maps.DefaultMapID)
	require.NotNil(t, m)
	return m
}

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg.Map == nil {
		cfg.Map = testMap(t)
	}
	if cfg.Rules == (game.Rules{}) {
		cfg.Rules = game.DefaultRules()
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *client.NetworkClient {
	t.Helper()
	c, err := client.Dial(context.Background(), ts.URL)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func errorCode(t *testing.T, err error) protocol.ErrorCode {
	t.Helper()
	var e protocol.ErrorPayload
	require.True(t, errors.As(err, &e), "expected an error reply, got %v", err)
	return e.Code
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func deleteSave(t *testing.T, url string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Rules: game.DefaultRules()})
	assert.Error(t, err)

	rules := game.DefaultRules()
	rules.UpkeepDivisor = 0
	_, err = New(Config{Map: testMap(t), Rules: rules})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListMaps(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	var infos []maps.MapInfo
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/maps", &infos))

	var found bool
	for _, info := range infos {
		if info.ID == maps.DefaultMapID {
			found = true
			assert.Equal(t, 14, info.RegionCount)
		}
	}
	assert.True(t, found)
}

func TestWebSocket_Upgrade(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	ctx := testContext(t)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var msg protocol.Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, protocol.TypeWelcome, msg.Type)

	var welcome protocol.WelcomePayload
	require.NoError(t, msg.ParsePayload(&welcome))
	assert.Equal(t, Version, welcome.ServerVersion)
}

func TestWebSocket_Welcome(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	c := dial(t, ts)

	welcome, err := c.Welcome(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, Version, welcome.ServerVersion)
	assert.NotEmpty(t, welcome.SessionID)
	assert.Equal(t, maps.DefaultMapID, welcome.Map.ID)
	assert.Len(t, welcome.Map.Regions, 14)
	assert.Equal(t, session.DefaultSlot, welcome.Slot)
}

func TestWebSocket_GameFlow(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	c := dial(t, ts)
	ctx := testContext(t)

	state, err := c.State(ctx)
	require.NoError(t, err)
	assert.False(t, state.Started)

	res, err := c.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Gyeonggi", res.Region)

	state, err = c.State(ctx)
	require.NoError(t, err)
	require.True(t, state.Started)
	assert.Equal(t, "Hong", state.PlayerName)
	assert.Equal(t, game.StatusInProgress, state.Status)
	require.Len(t, state.Regions, 14)

	selected, err := c.SelectRegion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Gyeonggi", selected.Name)
	assert.Equal(t, "Hong", selected.Owner)
	assert.NotEmpty(t, selected.Neighbors)

	res, err = c.Invest(ctx, "", game.DevCommerce)
	require.NoError(t, err)
	assert.Equal(t, -100, res.Deltas.Gold)
	assert.Equal(t, 1, res.Deltas.Commerce)

	res, err = c.Recruit(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Amount)
	assert.Equal(t, 10, res.Deltas.Army)
	assert.Equal(t, -50, res.Deltas.Food)

	report, err := c.EndTurn(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Report.Turn)
	assert.Equal(t, 1, report.State.Turn)
}

func TestWebSocket_Attack(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	c := dial(t, ts)
	ctx := testContext(t)

	_, err := c.NewGame(ctx, "", "Jeju")
	require.NoError(t, err)

	// Jeju starts without an army
	_, err = c.Attack(ctx, protocol.AttackPayload{Region: "Jeju"})
	assert.Equal(t, protocol.ErrCodeNoArmy, errorCode(t, err))

	_, err = c.Recruit(ctx, "Jeju", 100)
	require.NoError(t, err)

	res, err := c.Attack(ctx, protocol.AttackPayload{Region: "Jeju", Mode: game.ModeOccupy})
	require.NoError(t, err)
	require.NotNil(t, res.Attack)
	assert.Equal(t, game.ModeOccupy, res.Attack.Mode)
	assert.Equal(t, 100, res.Attack.AttackerArmyBefore)
}

func TestWebSocket_Errors(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	c := dial(t, ts)
	ctx := testContext(t)

	_, err := c.Invest(ctx, "", game.DevAgriculture)
	assert.Equal(t, protocol.ErrCodeNoGame, errorCode(t, err))

	_, err = c.Call(ctx, "dance", nil, nil)
	assert.Equal(t, protocol.ErrCodeUnknownMessage, errorCode(t, err))

	_, err = c.Call(ctx, protocol.TypeRecruit, map[string]string{"amount": "many"}, nil)
	assert.Equal(t, protocol.ErrCodeInvalidPayload, errorCode(t, err))

	_, err = c.NewGame(ctx, "Hong", "Atlantis")
	assert.Equal(t, protocol.ErrCodeUnknownRegion, errorCode(t, err))

	_, err = c.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)

	_, err = c.Invest(ctx, "Jeju", game.DevAgriculture)
	assert.Equal(t, protocol.ErrCodeInvalidSelection, errorCode(t, err))

	_, err = c.Invest(ctx, "Gyeonggi", "mining")
	assert.Equal(t, protocol.ErrCodeInvalidTarget, errorCode(t, err))

	_, err = c.Recruit(ctx, "Gyeonggi", -5)
	assert.Equal(t, protocol.ErrCodeInvalidAmount, errorCode(t, err))

	_, err = c.Save(ctx, "")
	assert.Equal(t, protocol.ErrCodePersistenceUnavailable, errorCode(t, err))

	// The connection survives rejected requests
	state, err := c.State(ctx)
	require.NoError(t, err)
	assert.True(t, state.Started)
}

func TestWebSocket_SaveLoadWithFileStore(t *testing.T) {
	store := savefile.New(t.TempDir())
	_, ts := newTestServer(t, Config{Store: store})
	c := dial(t, ts)
	ctx := testContext(t)

	_, err := c.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)
	res, err := c.Save(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, "first", res.Slot)

	_, err = c.EndTurn(ctx)
	require.NoError(t, err)

	_, err = c.Load(ctx, "")
	require.NoError(t, err)
	state, err := c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Turn)
	assert.Equal(t, "first", state.Slot)

	_, err = c.Load(ctx, "missing")
	assert.Equal(t, protocol.ErrCodePersistenceUnavailable, errorCode(t, err))

	// A rejected load keeps the slot, so the next save still goes to "first"
	state, err = c.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", state.Slot)
	res, err = c.Save(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "first", res.Slot)
	assert.NoFileExists(t, store.Path("missing"))

	// A second connection can load what the first saved
	other := dial(t, ts)
	_, err = other.Load(ctx, "first")
	require.NoError(t, err)
	state, err = other.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hong", state.PlayerName)

	var saves []session.SaveInfo
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/saves", &saves))
	require.Len(t, saves, 1)
	assert.Equal(t, "first", saves[0].Slot)

	var snap game.Snapshot
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/saves/first", &snap))
	assert.Equal(t, "Hong", snap.PlayerName)
	assert.Len(t, snap.Regions, 14)

	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/saves/missing", nil))
	assert.Equal(t, http.StatusNotImplemented, getJSON(t, ts.URL+"/api/saves/first/history", nil))
}

func TestWebSocket_DatabaseHistory(t *testing.T) {
	db, err := database.New(database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, ts := newTestServer(t, Config{Store: db, Journal: db, History: db})
	c := dial(t, ts)
	ctx := testContext(t)

	_, err = c.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)
	_, err = c.EndTurn(ctx)
	require.NoError(t, err)
	_, err = c.Save(ctx, "")
	require.NoError(t, err)

	var events []database.HistoryEvent
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/saves/"+session.DefaultSlot+"/history", &events))
	require.Len(t, events, 3)
	assert.Equal(t, session.EventNewGame, events[0].Kind)
	assert.Equal(t, session.EventTurnEnd, events[1].Kind)
	assert.Equal(t, session.EventSave, events[2].Kind)

	var saves []session.SaveInfo
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/saves", &saves))
	require.Len(t, saves, 1)
	assert.Equal(t, 1, saves[0].Turn)
}

func TestDeleteSave(t *testing.T) {
	db, err := database.New(database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, ts := newTestServer(t, Config{Store: db, Journal: db, History: db})
	c := dial(t, ts)
	ctx := testContext(t)

	_, err = c.NewGame(ctx, "Hong", "Gyeonggi")
	require.NoError(t, err)
	_, err = c.Save(ctx, "doomed")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, deleteSave(t, ts.URL+"/api/saves/doomed"))
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/saves/doomed", nil))

	var events []database.HistoryEvent
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/saves/doomed/history", &events))
	assert.Empty(t, events)

	assert.Equal(t, http.StatusNotFound, deleteSave(t, ts.URL+"/api/saves/doomed"))

	_, err = c.Load(ctx, "doomed")
	assert.Equal(t, protocol.ErrCodePersistenceUnavailable, errorCode(t, err))
}

func TestListSaves_NoStore(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	assert.Equal(t, http.StatusNotImplemented, getJSON(t, ts.URL+"/api/saves", nil))
	assert.Equal(t, http.StatusNotImplemented, getJSON(t, ts.URL+"/api/saves/any", nil))
	assert.Equal(t, http.StatusNotImplemented, deleteSave(t, ts.URL+"/api/saves/any"))
}

func TestMetrics(t *testing.T) {
	srv, ts := newTestServer(t, Config{})
	c := dial(t, ts)
	ctx := testContext(t)

	_, err := c.NewGame(ctx, "", "")
	require.NoError(t, err)
	_, err = c.EndTurn(ctx)
	require.NoError(t, err)
	_, err = c.Invest(ctx, "Jeju", game.DevCommerce)
	require.Error(t, err)

	m := srv.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("new_game", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("invest", "invalid_selection")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
