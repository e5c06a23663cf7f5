package serverpackets

import (
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
)

// MatchComposite converts a stored match into its wire shape. The mode
// is flattened to the vanilla value the client understands.
func MatchComposite(m *model.Match) protocol.OsuMatch {
	osu := protocol.OsuMatch{
		ID:           m.ID,
		InProgress:   m.InProgress,
		Mods:         m.Mods,
		Name:         m.Name,
		Password:     m.Password,
		MapName:      m.MapName,
		MapID:        m.MapID,
		MapMD5:       m.MapMD5,
		HostID:       m.HostID,
		Mode:         m.Mode.AsVanilla(),
		WinCondition: m.WinCondition,
		TeamType:     m.TeamType,
		Freemod:      m.Freemod,
		Seed:         m.Seed,
	}
	for i, slot := range m.Slots {
		osu.SlotStatuses[i] = slot.Status
		osu.SlotTeams[i] = slot.Team
		osu.SlotIDs[i] = slot.SessionID
		osu.SlotMods[i] = slot.Mods
	}
	return osu
}

// NewMatch announces a freshly created match to lobby watchers.
//
// Payload: OsuMatch composite.
func NewMatch(m *model.Match, sendPW bool) []byte {
	w := protocol.Get()
	defer w.Put()

	MatchComposite(m).WriteTo(w, sendPW)
	return w.Serialise(protocol.ChoNewMatch)
}

// UpdateMatch pushes the current room state.
//
// Payload: OsuMatch composite.
func UpdateMatch(m *model.Match, sendPW bool) []byte {
	w := protocol.Get()
	defer w.Put()

	MatchComposite(m).WriteTo(w, sendPW)
	return w.Serialise(protocol.ChoUpdateMatch)
}

// DisposeMatch removes a match from the lobby listing.
//
// Payload: i32 match_id.
func DisposeMatch(id int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(id)
	return w.Serialise(protocol.ChoDisposeMatch)
}

// MatchJoinSuccess confirms a join, password included so the client
// can rejoin after a restart.
//
// Payload: OsuMatch composite.
func MatchJoinSuccess(m *model.Match) []byte {
	w := protocol.Get()
	defer w.Put()

	MatchComposite(m).WriteTo(w, true)
	return w.Serialise(protocol.ChoMatchJoinSuccess)
}

// MatchJoinFail rejects a join attempt.
func MatchJoinFail() []byte {
	w := protocol.Get()
	defer w.Put()
	return w.Serialise(protocol.ChoMatchJoinFail)
}

// MatchStart moves everyone into gameplay.
//
// Payload: OsuMatch composite.
func MatchStart(m *model.Match) []byte {
	w := protocol.Get()
	defer w.Put()

	MatchComposite(m).WriteTo(w, true)
	return w.Serialise(protocol.ChoMatchStart)
}

// MatchScoreUpdate forwards a score frame to the other players. The
// frame's id byte (payload offset 4, absolute offset 11) is rewritten
// to the sender's slot index so clients attribute it correctly.
//
// Payload: the client's ScoreFrame bytes, slot-stamped.
func MatchScoreUpdate(frame []byte, slotIdx int) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteBytes(frame)
	out := w.Serialise(protocol.ChoMatchScoreUpdate)
	if len(out) > 11 {
		out[11] = uint8(slotIdx)
	}
	return out
}

// MatchTransferHost makes the receiving client the room host.
func MatchTransferHost() []byte {
	w := protocol.Get()
	defer w.Put()
	return w.Serialise(protocol.ChoMatchTransferHost)
}

// MatchAllPlayersLoaded releases the loading barrier.
func MatchAllPlayersLoaded() []byte {
	w := protocol.Get()
	defer w.Put()
	return w.Serialise(protocol.ChoMatchAllPlayersLoaded)
}

// MatchPlayerFailed shows the fail overlay for one slot.
//
// Payload: i32 slot index.
func MatchPlayerFailed(slotIdx int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(slotIdx)
	return w.Serialise(protocol.ChoMatchPlayerFailed)
}

// MatchComplete ends the round for the receiving client.
func MatchComplete() []byte {
	w := protocol.Get()
	defer w.Put()
	return w.Serialise(protocol.ChoMatchComplete)
}

// MatchPlayerSkipped marks one player as having hit skip.
//
// Payload: i32 user_id.
func MatchPlayerSkipped(id int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(id)
	return w.Serialise(protocol.ChoMatchPlayerSkipped)
}

// MatchSkip releases the intro-skip barrier.
func MatchSkip() []byte {
	w := protocol.Get()
	defer w.Put()
	return w.Serialise(protocol.ChoMatchSkip)
}

// MatchInvite carries an osump:// invite as a chat message.
//
// Payload: Message composite.
func MatchInvite(sender string, senderID int32, target string, content string) []byte {
	w := protocol.Get()
	defer w.Put()

	protocol.Message{
		SenderName: sender,
		Content:    content,
		Target:     target,
		SenderID:   senderID,
	}.WriteTo(w)
	return w.Serialise(protocol.ChoMatchInvite)
}

// MatchChangePassword tells room members the new password.
//
// Payload: String password.
func MatchChangePassword(password string) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteString(password)
	return w.Serialise(protocol.ChoMatchChangePassword)
}
