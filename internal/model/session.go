package model

import "time"

// Action is the client activity reported through status updates.
type Action uint8

const (
	ActionIdle Action = iota
	ActionAFK
	ActionPlaying
	ActionEditing
	ActionModding
	ActionMultiplayer
	ActionWatching
	ActionUnknown
	ActionTesting
	ActionSubmitting
	ActionPaused
	ActionLobby
	ActionMultiplaying
	ActionOsuDirect
)

// PresenceFilter narrows which presences a client wants pushed.
type PresenceFilter int32

const (
	PresenceFilterNil PresenceFilter = iota
	PresenceFilterAll
	PresenceFilterFriends
)

// Status is the client's self-reported activity.
type Status struct {
	Action     Action `json:"action"`
	ActionText string `json:"action_text"`
	MapMD5     string `json:"map_md5"`
	MapID      int32  `json:"map_id"`
	Mods       Mods   `json:"mods"`
	Mode       Mode   `json:"mode"`
}

// Session is a logged-in client. It carries the account it
// authenticated as plus all runtime state; SpectatorHost and Match are
// zero while unset.
type Session struct {
	Account

	Token          string
	LoginTime      int64
	UTCOffset      int32
	Geolocation    Geolocation
	Status         Status
	Channels       []string
	Spectators     []int32
	SpectatorHost  int32
	Match          int32
	FriendOnlyDMs  bool
	InLobby        bool
	AwayMessage    string
	PresenceFilter PresenceFilter
	LastNpID       int32
	LastNpMode     Mode
	ClientVersion  OsuVersion
	Hardware       HardwareInfo
}

// Silenced reports whether the session's silence is still running.
func (s *Session) Silenced() bool {
	return s.SilenceEnd > time.Now().Unix()
}

// SilenceExpire is the number of seconds of silence left.
func (s *Session) SilenceExpire() int32 {
	if remaining := s.SilenceEnd - time.Now().Unix(); remaining > 0 {
		return int32(remaining)
	}
	return 0
}

func (s *Session) InChannel(name string) bool {
	for _, c := range s.Channels {
		if c == name {
			return true
		}
	}
	return false
}

func (s *Session) HasSpectator(id int32) bool {
	for _, sp := range s.Spectators {
		if sp == id {
			return true
		}
	}
	return false
}
