package serverpackets

import "github.com/herbe-rt/bancho/internal/protocol"

// SpectatorJoined tells the spectated host about a new watcher.
//
// Payload: i32 user_id.
func SpectatorJoined(id int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(id)
	return w.Serialise(protocol.ChoSpectatorJoined)
}

// SpectatorLeft tells the spectated host a watcher is gone.
//
// Payload: i32 user_id.
func SpectatorLeft(id int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(id)
	return w.Serialise(protocol.ChoSpectatorLeft)
}

// FellowSpectatorJoined tells the other watchers about a new one.
//
// Payload: i32 user_id.
func FellowSpectatorJoined(id int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(id)
	return w.Serialise(protocol.ChoFellowSpectatorJoined)
}

// FellowSpectatorLeft tells the other watchers a fellow is gone.
//
// Payload: i32 user_id.
func FellowSpectatorLeft(id int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(id)
	return w.Serialise(protocol.ChoFellowSpectatorLeft)
}

// SpectateFrames relays a replay frame bundle verbatim to watchers.
//
// Payload: the client's SPECTATE_FRAMES payload, untouched.
func SpectateFrames(raw []byte) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteBytes(raw)
	return w.Serialise(protocol.ChoSpectateFrames)
}

// SpectatorCantSpectate reports a watcher without the current map.
//
// Payload: i32 user_id.
func SpectatorCantSpectate(id int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(id)
	return w.Serialise(protocol.ChoSpectatorCantSpectate)
}
