// Package serverpackets builds the framed server-to-client packets.
// Every constructor returns a complete packet: 7-byte header plus
// payload, ready to be appended to a session queue.
package serverpackets

import (
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
)

// Login reply sentinels carried in CHO_USER_ID.
const (
	LoginFailed        int32 = -1
	LoginOldClient     int32 = -2
	LoginInvalidParams int32 = -5
)

// UserID reports the login outcome: the user id on success, a negative
// sentinel otherwise.
//
// Payload: i32 user_id.
func UserID(id int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(id)
	return w.Serialise(protocol.ChoUserID)
}

// ProtocolVersion tells the client which bancho protocol revision the
// server speaks. Always 19.
//
// Payload: i32 version.
func ProtocolVersion(version int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(version)
	return w.Serialise(protocol.ChoProtocolVersion)
}

// BanchoPrivileges sends the client-facing privilege bitmask.
//
// Payload: i32 privileges.
func BanchoPrivileges(privs model.BanchoPrivileges) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(int32(privs))
	return w.Serialise(protocol.ChoPrivileges)
}

// FriendsList sends the user ids of the account's friends.
//
// Payload: i32 list.
func FriendsList(friends []int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32List(friends)
	return w.Serialise(protocol.ChoFriendsList)
}

// SilenceEnd tells the client how many seconds of silence remain.
//
// Payload: i32 seconds.
func SilenceEnd(seconds int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(seconds)
	return w.Serialise(protocol.ChoSilenceEnd)
}

// UserPresence describes who a user is: name, location and rank.
//
// Payload: i32 user_id, String username, u8 utc_offset+24, u8 country
// code, u8 bancho_privileges|(vanilla mode << 5), f32 longitude,
// f32 latitude, i32 global_rank.
func UserPresence(s *model.Session, rank int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(s.ID)
	w.WriteString(s.Name)
	w.WriteU8(uint8(s.UTCOffset + 24))
	w.WriteU8(s.Geolocation.Country.Code)
	w.WriteU8(uint8(s.BanchoPrivileges()) | uint8(s.Status.Mode.AsVanilla())<<5)
	w.WriteF32(s.Geolocation.Longitude)
	w.WriteF32(s.Geolocation.Latitude)
	w.WriteI32(rank)
	return w.Serialise(protocol.ChoUserPresence)
}

// UserStats carries a user's live status plus a stats snapshot. The pp
// field is an i16 on the wire; when pp exceeds its range the value is
// shown through the ranked-score slot instead and pp is zeroed, which
// old clients render correctly.
//
// Payload: i32 user_id, u8 action, String action_text, String map_md5,
// i32 mods, u8 vanilla mode, i32 map_id, i64 ranked_score,
// f32 accuracy (0..1), i32 playcount, i64 total_score, i32 global_rank,
// i16 pp.
func UserStats(s *model.Session, stats *model.Stats) []byte {
	w := protocol.Get()
	defer w.Put()

	rankedScore := stats.RankedScore
	pp := int64(stats.PP)
	if pp > 0x7FFF {
		rankedScore = pp
		pp = 0
	}

	w.WriteI32(s.ID)
	w.WriteU8(uint8(s.Status.Action))
	w.WriteString(s.Status.ActionText)
	w.WriteString(s.Status.MapMD5)
	w.WriteI32(int32(s.Status.Mods))
	w.WriteU8(uint8(s.Status.Mode.AsVanilla()))
	w.WriteI32(s.Status.MapID)
	w.WriteI64(rankedScore)
	w.WriteF32(float32(stats.Accuracy / 100))
	w.WriteI32(stats.Playcount)
	w.WriteI64(stats.TotalScore)
	w.WriteI32(stats.Rank)
	w.WriteI16(int16(pp))
	return w.Serialise(protocol.ChoUserStats)
}

// UserLogout announces that a user went offline.
//
// Payload: i32 user_id, u8 0.
func UserLogout(id int32) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteI32(id)
	w.WriteU8(0)
	return w.Serialise(protocol.ChoUserLogout)
}

// AccountRestricted flags the session as restricted to its own client.
func AccountRestricted() []byte {
	w := protocol.Get()
	defer w.Put()
	return w.Serialise(protocol.ChoAccountRestricted)
}
