package bancho

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
	"github.com/herbe-rt/bancho/internal/store"
)

// testRoom is the settings blob a client would send for CREATE_MATCH
// and CHANGE_SETTINGS.
func testRoom() protocol.OsuMatch {
	return protocol.OsuMatch{
		Name:     "herbert's game",
		Password: "pw",
		MapName:  "FREEDOM DiVE",
		MapID:    1234,
		MapMD5:   "deadbeefdeadbeefdeadbeefdeadbeef",
		Seed:     42,
	}
}

func matchSettingsPacket(id protocol.PacketID, m protocol.OsuMatch) []byte {
	return clientPacket(id, func(w *protocol.Writer) {
		m.WriteTo(w, true)
	})
}

func joinMatchPacket(matchID int32, password string) []byte {
	return clientPacket(protocol.OsuJoinMatch, func(w *protocol.Writer) {
		w.WriteI32(matchID)
		w.WriteString(password)
	})
}

func slotPacket(id protocol.PacketID, slotID int32) []byte {
	return clientPacket(id, func(w *protocol.Writer) {
		w.WriteI32(slotID)
	})
}

func fetchMatch(t *testing.T, env *testEnv, id int32) *model.Match {
	t.Helper()

	match, err := env.matches.FetchByID(context.Background(), id)
	require.NoError(t, err)
	return match
}

// seatTwo creates a room hosted by the first session and seats the
// second one in it.
func seatTwo(t *testing.T, env *testEnv, host, guest *model.Session) {
	t.Helper()

	dispatch(t, env, host, matchSettingsPacket(protocol.OsuCreateMatch, testRoom()))
	dispatch(t, env, guest, joinMatchPacket(1, "pw"))
}

func TestMatch_CreateSeatsHost(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	alice.Status.Mods = model.ModHidden | model.ModDoubleTime
	alice.Status.Mode = model.ModeTaiko
	drainQueues(t, env, 1)

	out := dispatch(t, env, alice, matchSettingsPacket(protocol.OsuCreateMatch, testRoom()))

	ids := packetIDs(t, out)
	assert.Contains(t, ids, protocol.ChoMatchJoinSuccess)
	assert.Contains(t, ids, protocol.ChoChannelJoinSuccess, "the host lands in the match chat")

	match := fetchMatch(t, env, 1)
	assert.Equal(t, "herbert's game", match.Name)
	assert.Equal(t, "pw", match.Password)
	assert.Equal(t, int32(1), match.HostID)
	assert.Equal(t, int32(1234), match.MapID)
	assert.Equal(t, model.ModHidden|model.ModDoubleTime, match.Mods, "the host's active mods carry over")
	assert.Equal(t, model.ModeTaiko, match.Mode)

	assert.Equal(t, int32(1), match.Slots[0].SessionID, "the host takes slot zero")
	assert.Equal(t, model.SlotNotReady, match.Slots[0].Status)

	assert.Equal(t, int32(1), alice.Match)
	assert.Contains(t, refetch(t, env, 1).Channels, "#multi_1")

	channel, err := env.channels.FetchByName(context.Background(), "#multi_1")
	require.NoError(t, err)
	assert.True(t, channel.HasMember(1))
}

func TestMatch_CreateWhileSilencedRefused(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	alice.SilenceEnd = time.Now().Add(time.Hour).Unix()
	drainQueues(t, env, 1)

	out := dispatch(t, env, alice, matchSettingsPacket(protocol.OsuCreateMatch, testRoom()))

	ids := packetIDs(t, out)
	assert.Contains(t, ids, protocol.ChoMatchJoinFail)
	assert.Contains(t, ids, protocol.ChoNotification)

	matches, err := env.matches.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatch_JoinSeatsGuest(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuCreateMatch, testRoom()))
	drainQueues(t, env, 1, 2)

	out := dispatch(t, env, bob, joinMatchPacket(1, "pw"))

	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchJoinSuccess)
	assert.Equal(t, int32(1), bob.Match)

	match := fetchMatch(t, env, 1)
	assert.Equal(t, int32(2), match.Slots[1].SessionID, "the guest takes the first open slot")
	assert.Equal(t, model.SlotNotReady, match.Slots[1].Status)

	// The host sees the refreshed room state.
	assert.Contains(t, packetIDs(t, dequeue(t, env, 1)), protocol.ChoUpdateMatch)
}

func TestMatch_JoinWrongPasswordRejected(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuCreateMatch, testRoom()))
	drainQueues(t, env, 1, 2)

	out := dispatch(t, env, bob, joinMatchPacket(1, "hunter2"))

	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchJoinFail)
	assert.Zero(t, bob.Match)
	assert.Equal(t, -1, fetchMatch(t, env, 1).SlotIndex(2))
}

func TestMatch_JoinFullMatchRejected(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))
	ctx := context.Background()

	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuCreateMatch, testRoom()))

	match := fetchMatch(t, env, 1)
	for i := 1; i < model.MatchSlots; i++ {
		match.Slots[i].Reset(model.SlotLocked)
	}
	require.NoError(t, env.matches.Update(ctx, match, false))
	drainQueues(t, env, 1, 2)

	out := dispatch(t, env, bob, joinMatchPacket(1, "pw"))

	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchJoinFail)
	assert.Zero(t, bob.Match)
}

func TestMatch_JoinWhileSeatedRejected(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)
	drainQueues(t, env, 1, 2)

	out := dispatch(t, env, bob, joinMatchPacket(1, "pw"))

	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchJoinFail)
	assert.Equal(t, int32(1), bob.Match, "the existing seat is untouched")
}

func TestMatch_HostLeaveTransfersHost(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)
	drainQueues(t, env, 1, 2)

	dispatch(t, env, alice, clientPacket(protocol.OsuPartMatch, nil))

	match := fetchMatch(t, env, 1)
	assert.Equal(t, int32(2), match.HostID, "host duties fall to the remaining player")
	assert.Equal(t, -1, match.SlotIndex(1))
	assert.Zero(t, alice.Match)
	assert.Contains(t, packetIDs(t, dequeue(t, env, 2)), protocol.ChoMatchTransferHost)
}

func TestMatch_LastLeaveDisposesMatch(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"), testAccount(3, "Carol"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))
	carol := loginSession(t, env, testAccount(3, "Carol"))
	ctx := context.Background()

	seatTwo(t, env, alice, bob)
	dispatch(t, env, carol,
		clientPacket(protocol.OsuJoinLobby, nil),
		joinChannelPacket("#lobby"),
	)
	drainQueues(t, env, 1, 2, 3)

	dispatch(t, env, alice, clientPacket(protocol.OsuPartMatch, nil))
	dispatch(t, env, bob, clientPacket(protocol.OsuPartMatch, nil))

	_, err := env.matches.FetchByID(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.channels.FetchByName(ctx, "#multi_1")
	assert.ErrorIs(t, err, store.ErrNotFound, "the match chat dissolves with the room")

	assert.Contains(t, packetIDs(t, dequeue(t, env, 3)), protocol.ChoDisposeMatch,
		"lobby watchers learn the room is gone")
}

func TestMatch_ChangeSlotMovesOccupant(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)

	dispatch(t, env, bob, slotPacket(protocol.OsuMatchChangeSlot, 5))

	match := fetchMatch(t, env, 1)
	assert.Equal(t, model.SlotOpen, match.Slots[1].Status)
	assert.Equal(t, int32(2), match.Slots[5].SessionID)
	assert.Equal(t, model.SlotNotReady, match.Slots[5].Status)

	// Occupied targets and out-of-range indexes are ignored.
	dispatch(t, env, bob, slotPacket(protocol.OsuMatchChangeSlot, 0))
	dispatch(t, env, bob, slotPacket(protocol.OsuMatchChangeSlot, 20))

	match = fetchMatch(t, env, 1)
	assert.Equal(t, int32(2), match.Slots[5].SessionID)
	assert.Equal(t, int32(1), match.Slots[0].SessionID)
}

func TestMatch_ReadyStateFlips(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)

	steps := []struct {
		packet protocol.PacketID
		want   model.SlotStatus
	}{
		{protocol.OsuMatchReady, model.SlotReady},
		{protocol.OsuMatchNotReady, model.SlotNotReady},
		{protocol.OsuMatchNoBeatmap, model.SlotNoMap},
		{protocol.OsuMatchHasBeatmap, model.SlotNotReady},
	}
	for _, step := range steps {
		dispatch(t, env, bob, clientPacket(step.packet, nil))
		assert.Equal(t, step.want, fetchMatch(t, env, 1).Slots[1].Status,
			"after %s", step.packet)
	}
}

func TestMatch_LockSlotToggles(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)

	dispatch(t, env, alice, slotPacket(protocol.OsuMatchLock, 5))
	assert.Equal(t, model.SlotLocked, fetchMatch(t, env, 1).Slots[5].Status)

	dispatch(t, env, alice, slotPacket(protocol.OsuMatchLock, 5))
	assert.Equal(t, model.SlotOpen, fetchMatch(t, env, 1).Slots[5].Status)

	// Locking an occupied slot freezes the occupant in place rather
	// than kicking them.
	dispatch(t, env, alice, slotPacket(protocol.OsuMatchLock, 1))
	match := fetchMatch(t, env, 1)
	assert.Equal(t, model.SlotLocked, match.Slots[1].Status)
	assert.Equal(t, int32(2), match.Slots[1].SessionID)

	// The host cannot lock themselves out.
	dispatch(t, env, alice, slotPacket(protocol.OsuMatchLock, 0))
	assert.Equal(t, model.SlotNotReady, fetchMatch(t, env, 1).Slots[0].Status)

	// Non-hosts cannot lock at all.
	dispatch(t, env, bob, slotPacket(protocol.OsuMatchLock, 6))
	assert.Equal(t, model.SlotOpen, fetchMatch(t, env, 1).Slots[6].Status)
}

func TestMatch_FreemodSplitsMods(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	alice.Status.Mods = model.ModHidden | model.ModDoubleTime
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)

	settings := testRoom()
	settings.Freemod = true
	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuMatchChangeSettings, settings))

	match := fetchMatch(t, env, 1)
	require.True(t, match.Freemod)
	assert.Equal(t, model.ModDoubleTime, match.Mods, "only speed-changing mods stay global")
	assert.Equal(t, model.ModHidden, match.Slots[0].Mods)
	assert.Equal(t, model.ModHidden, match.Slots[1].Mods, "the rest moves onto every occupant")

	// Under freemod everyone picks their own mods; the host also
	// steers the global speed mods.
	dispatch(t, env, bob, clientPacket(protocol.OsuMatchChangeMods, func(w *protocol.Writer) {
		w.WriteI32(int32(model.ModHardRock))
	}))
	dispatch(t, env, alice, clientPacket(protocol.OsuMatchChangeMods, func(w *protocol.Writer) {
		w.WriteI32(int32(model.ModHidden | model.ModHalfTime))
	}))

	match = fetchMatch(t, env, 1)
	assert.Equal(t, model.ModHalfTime, match.Mods)
	assert.Equal(t, model.ModHidden, match.Slots[0].Mods)
	assert.Equal(t, model.ModHardRock, match.Slots[1].Mods)

	settings.Freemod = false
	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuMatchChangeSettings, settings))

	match = fetchMatch(t, env, 1)
	assert.False(t, match.Freemod)
	assert.Equal(t, model.ModHalfTime, match.Mods, "the host's speed mods fold back into the match")
	assert.Zero(t, match.Slots[0].Mods)
	assert.Zero(t, match.Slots[1].Mods)
}

func TestMatch_NonHostCannotChangeSettings(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)

	settings := testRoom()
	settings.Name = "hijacked"
	dispatch(t, env, bob, matchSettingsPacket(protocol.OsuMatchChangeSettings, settings))

	assert.Equal(t, "herbert's game", fetchMatch(t, env, 1).Name)
}

func TestMatch_MapRemovalUnreadiesPlayers(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)
	dispatch(t, env, bob, clientPacket(protocol.OsuMatchReady, nil))

	// The host entering map selection sends the settings with map id
	// -1; picking a new map sends them again with the chosen map.
	settings := testRoom()
	settings.MapID = -1
	settings.MapName, settings.MapMD5 = "", ""
	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuMatchChangeSettings, settings))

	match := fetchMatch(t, env, 1)
	assert.Equal(t, int32(-1), match.MapID)
	assert.Equal(t, int32(1234), match.PreviousMapID)
	assert.Equal(t, model.SlotNotReady, match.Slots[1].Status, "ready players drop back to not ready")

	picked := testRoom()
	picked.MapID = 777
	picked.MapName = "Blue Zenith"
	picked.MapMD5 = "0123456789abcdef0123456789abcdef"
	picked.Mode = model.ModeCatch
	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuMatchChangeSettings, picked))

	match = fetchMatch(t, env, 1)
	assert.Equal(t, int32(777), match.MapID)
	assert.Equal(t, "Blue Zenith", match.MapName)
	assert.Equal(t, model.ModeCatch, match.Mode)
}

func TestMatch_TeamModeAssignsTeams(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)

	settings := testRoom()
	settings.TeamType = model.TeamTypeTeamVS
	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuMatchChangeSettings, settings))

	match := fetchMatch(t, env, 1)
	assert.Equal(t, model.TeamRed, match.Slots[0].Team)
	assert.Equal(t, model.TeamRed, match.Slots[1].Team)

	dispatch(t, env, bob, clientPacket(protocol.OsuMatchChangeTeam, nil))
	assert.Equal(t, model.TeamBlue, fetchMatch(t, env, 1).Slots[1].Team)

	settings.TeamType = model.TeamTypeHeadToHead
	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuMatchChangeSettings, settings))
	assert.Equal(t, model.TeamNeutral, fetchMatch(t, env, 1).Slots[1].Team)
}

func TestMatch_StartSkipsPlayersWithoutMap(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)
	dispatch(t, env, bob, clientPacket(protocol.OsuMatchNoBeatmap, nil))
	drainQueues(t, env, 1, 2)

	out := dispatch(t, env, alice, clientPacket(protocol.OsuMatchStart, nil))

	match := fetchMatch(t, env, 1)
	assert.True(t, match.InProgress)
	assert.Equal(t, model.SlotPlaying, match.Slots[0].Status)
	assert.Equal(t, model.SlotNoMap, match.Slots[1].Status)

	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchStart)
	assert.NotContains(t, packetIDs(t, dequeue(t, env, 2)), protocol.ChoMatchStart,
		"players without the map are not pulled into gameplay")
}

func TestMatch_LoadAndCompleteBarriers(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)
	dispatch(t, env, alice, clientPacket(protocol.OsuMatchStart, nil))
	drainQueues(t, env, 1, 2)

	out := dispatch(t, env, bob, clientPacket(protocol.OsuMatchLoadComplete, nil))
	assert.NotContains(t, packetIDs(t, out), protocol.ChoMatchAllPlayersLoaded,
		"one loaded player is not enough")

	out = dispatch(t, env, alice, clientPacket(protocol.OsuMatchLoadComplete, nil))
	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchAllPlayersLoaded)
	assert.Contains(t, packetIDs(t, dequeue(t, env, 2)), protocol.ChoMatchAllPlayersLoaded)
	drainQueues(t, env, 1, 2)

	out = dispatch(t, env, alice, clientPacket(protocol.OsuMatchComplete, nil))
	assert.NotContains(t, packetIDs(t, out), protocol.ChoMatchComplete,
		"completion waits for every playing slot")
	assert.True(t, fetchMatch(t, env, 1).InProgress)
	drainQueues(t, env, 1, 2)

	out = dispatch(t, env, bob, clientPacket(protocol.OsuMatchComplete, nil))
	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchComplete)
	assert.Contains(t, packetIDs(t, dequeue(t, env, 1)), protocol.ChoMatchComplete)

	match := fetchMatch(t, env, 1)
	assert.False(t, match.InProgress)
	assert.Equal(t, model.SlotNotReady, match.Slots[0].Status)
	assert.Equal(t, model.SlotNotReady, match.Slots[1].Status)
}

func TestMatch_SkipBarrier(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)
	dispatch(t, env, alice, clientPacket(protocol.OsuMatchStart, nil))
	drainQueues(t, env, 1, 2)

	out := dispatch(t, env, alice, clientPacket(protocol.OsuMatchSkipRequest, nil))
	ids := packetIDs(t, out)
	assert.Contains(t, ids, protocol.ChoMatchPlayerSkipped)
	assert.NotContains(t, ids, protocol.ChoMatchSkip)
	drainQueues(t, env, 1, 2)

	out = dispatch(t, env, bob, clientPacket(protocol.OsuMatchSkipRequest, nil))
	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchSkip)
	assert.Contains(t, packetIDs(t, dequeue(t, env, 1)), protocol.ChoMatchSkip)
}

func TestMatch_ScoreFramesTagSlot(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)
	dispatch(t, env, alice, clientPacket(protocol.OsuMatchStart, nil))
	drainQueues(t, env, 1, 2)

	frame := protocol.NewWriter(64)
	protocol.ScoreFrame{
		Time:         1000,
		Num300:       5,
		TotalScore:   7777,
		CurrentCombo: 5,
		MaxCombo:     5,
		CurrentHP:    100,
	}.WriteTo(frame)
	raw := append([]byte(nil), frame.Bytes()...)
	frame.Put()

	dispatch(t, env, bob, clientPacket(protocol.OsuMatchScoreUpdate, func(w *protocol.Writer) {
		w.WriteBytes(raw)
	}))

	payloads := packetPayloads(t, dequeue(t, env, 1), protocol.ChoMatchScoreUpdate)
	require.Len(t, payloads, 1)

	want := append([]byte(nil), raw...)
	want[4] = 1
	assert.Equal(t, want, payloads[0], "the frame carries the sender's slot index")
}

func TestMatch_TransferHostBySlot(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)
	drainQueues(t, env, 1, 2)

	dispatch(t, env, bob, slotPacket(protocol.OsuMatchTransferHost, 0))
	assert.Equal(t, int32(1), fetchMatch(t, env, 1).HostID, "non-hosts cannot hand off the host")

	dispatch(t, env, alice, slotPacket(protocol.OsuMatchTransferHost, 1))
	assert.Equal(t, int32(2), fetchMatch(t, env, 1).HostID)
	assert.Contains(t, packetIDs(t, dequeue(t, env, 2)), protocol.ChoMatchTransferHost)
}

func TestMatch_ChangePasswordBroadcast(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	bob := loginSession(t, env, testAccount(2, "Bob"))

	seatTwo(t, env, alice, bob)
	drainQueues(t, env, 1, 2)

	settings := testRoom()
	settings.Password = "sekrit"
	out := dispatch(t, env, alice, matchSettingsPacket(protocol.OsuMatchChangePassword, settings))

	assert.Equal(t, "sekrit", fetchMatch(t, env, 1).Password)
	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchChangePassword)
	assert.Contains(t, packetIDs(t, dequeue(t, env, 2)), protocol.ChoMatchChangePassword)
}

func TestMatch_InviteCarriesJoinLink(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(2, "Bob"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	loginSession(t, env, testAccount(2, "Bob"))

	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuCreateMatch, testRoom()))
	drainQueues(t, env, 1, 2)

	dispatch(t, env, alice, clientPacket(protocol.OsuMatchInvite, func(w *protocol.Writer) {
		w.WriteI32(2)
	}))

	payloads := packetPayloads(t, dequeue(t, env, 2), protocol.ChoMatchInvite)
	require.Len(t, payloads, 1)

	msg, err := protocol.ReadMessage(protocol.NewReader(payloads[0]))
	require.NoError(t, err)
	assert.Equal(t, "Alice", msg.SenderName)
	assert.Contains(t, msg.Content, "osump://1/pw")
}

func TestMatch_TourneyClientFlow(t *testing.T) {
	env := newTestEnv(t, testAccount(1, "Alice"), testAccount(3, "Carol"))
	alice := loginSession(t, env, testAccount(1, "Alice"))
	carol := loginSession(t, env, testAccount(3, "Carol"))
	ctx := context.Background()

	dispatch(t, env, alice, matchSettingsPacket(protocol.OsuCreateMatch, testRoom()))
	drainQueues(t, env, 1, 3)

	out := dispatch(t, env, carol, clientPacket(protocol.OsuTournamentMatchInfoRequest, func(w *protocol.Writer) {
		w.WriteI32(1)
	}))
	assert.Contains(t, packetIDs(t, out), protocol.ChoUpdateMatch)

	dispatch(t, env, carol, clientPacket(protocol.OsuTournamentJoinMatchChannel, func(w *protocol.Writer) {
		w.WriteI32(1)
	}))

	channel, err := env.channels.FetchByName(ctx, "#multi_1")
	require.NoError(t, err)
	assert.True(t, channel.HasMember(3))
	assert.Contains(t, fetchMatch(t, env, 1).TourneyClients, int32(3))

	// Watching through the tourney client rules out taking a slot.
	out = dispatch(t, env, carol, joinMatchPacket(1, "pw"))
	assert.Contains(t, packetIDs(t, out), protocol.ChoMatchJoinFail)
	assert.Zero(t, carol.Match)

	dispatch(t, env, carol, clientPacket(protocol.OsuTournamentLeaveMatchChannel, func(w *protocol.Writer) {
		w.WriteI32(1)
	}))

	channel, err = env.channels.FetchByName(ctx, "#multi_1")
	require.NoError(t, err)
	assert.False(t, channel.HasMember(3))
	assert.Empty(t, fetchMatch(t, env, 1).TourneyClients)
}
