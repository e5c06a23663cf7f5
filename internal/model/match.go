package model

import "fmt"

// SlotStatus describes the occupancy of a multiplayer slot.
type SlotStatus uint8

const (
	SlotOpen SlotStatus = 1 << iota
	SlotLocked
	SlotNotReady
	SlotReady
	SlotNoMap
	SlotPlaying
	SlotComplete
	SlotQuit
)

// SlotHasUser matches every status a slot can hold while occupied.
const SlotHasUser = SlotNotReady | SlotReady | SlotNoMap | SlotPlaying | SlotComplete

// MatchTeam is the team a slot belongs to in team modes.
type MatchTeam uint8

const (
	TeamNeutral MatchTeam = iota
	TeamBlue
	TeamRed
)

// WinCondition decides how multiplayer scores are compared.
type WinCondition uint8

const (
	WinScore WinCondition = iota
	WinAccuracy
	WinCombo
	WinScoreV2
)

// TeamType is the multiplayer team arrangement.
type TeamType uint8

const (
	TeamTypeHeadToHead TeamType = iota
	TeamTypeTagCoop
	TeamTypeTeamVS
	TeamTypeTagTeamVS
)

// MatchSlots is the fixed slot count of a multiplayer match.
const MatchSlots = 16

// Slot is a single seat in a multiplayer match. SessionID is zero
// while the slot is unoccupied.
type Slot struct {
	SessionID int32      `json:"session_id"`
	Status    SlotStatus `json:"status"`
	Team      MatchTeam  `json:"team"`
	Mods      Mods       `json:"mods"`
	Loaded    bool       `json:"loaded"`
	Skipped   bool       `json:"skipped"`
}

func (s *Slot) Occupied() bool {
	return s.Status&SlotHasUser != 0
}

// CopyFrom moves another slot's occupant into this slot.
func (s *Slot) CopyFrom(other Slot) {
	s.SessionID = other.SessionID
	s.Status = other.Status
	s.Team = other.Team
	s.Mods = other.Mods
}

// Reset vacates the slot, leaving it in the given status.
func (s *Slot) Reset(status SlotStatus) {
	s.SessionID = 0
	s.Status = status
	s.Team = TeamNeutral
	s.Mods = 0
	s.Loaded = false
	s.Skipped = false
}

// Match is a multiplayer room.
type Match struct {
	ID             int32            `json:"id"`
	Name           string           `json:"name"`
	Password       string           `json:"password"`
	HostID         int32            `json:"host_id"`
	Mode           Mode             `json:"mode"`
	Mods           Mods             `json:"mods"`
	Freemod        bool             `json:"freemod"`
	WinCondition   WinCondition     `json:"win_condition"`
	TeamType       TeamType         `json:"team_type"`
	MapName        string           `json:"map_name"`
	MapID          int32            `json:"map_id"`
	MapMD5         string           `json:"map_md5"`
	PreviousMapID  int32            `json:"previous_map_id"`
	InProgress     bool             `json:"in_progress"`
	Seed           int32            `json:"seed"`
	Slots          [MatchSlots]Slot `json:"slots"`
	Referees       []int32          `json:"referees"`
	TourneyClients []int32          `json:"tourney_clients"`
}

// NewMatch returns a match with every slot open.
func NewMatch() *Match {
	m := &Match{MapID: -1, PreviousMapID: -1}
	for i := range m.Slots {
		m.Slots[i].Reset(SlotOpen)
	}
	return m
}

// ChatName is the name of the match's private chat channel.
func (m *Match) ChatName() string {
	return fmt.Sprintf("#multi_%d", m.ID)
}

// SlotIndex returns the slot index occupied by the session, or -1.
func (m *Match) SlotIndex(sessionID int32) int {
	for i := range m.Slots {
		if m.Slots[i].Occupied() && m.Slots[i].SessionID == sessionID {
			return i
		}
	}
	return -1
}

// Slot returns the slot occupied by the session, or nil.
func (m *Match) Slot(sessionID int32) *Slot {
	if i := m.SlotIndex(sessionID); i >= 0 {
		return &m.Slots[i]
	}
	return nil
}

// FirstOpenSlot returns the index of the first open slot, or -1.
func (m *Match) FirstOpenSlot() int {
	for i := range m.Slots {
		if m.Slots[i].Status == SlotOpen {
			return i
		}
	}
	return -1
}

// Empty reports whether no slot is occupied.
func (m *Match) Empty() bool {
	for i := range m.Slots {
		if m.Slots[i].Occupied() {
			return false
		}
	}
	return true
}

// HasTourneyClient reports whether the session watches the match
// through a tournament client.
func (m *Match) HasTourneyClient(sessionID int32) bool {
	for _, id := range m.TourneyClients {
		if id == sessionID {
			return true
		}
	}
	return false
}

// UnreadyUsers drops every slot with the expected status back to not
// ready.
func (m *Match) UnreadyUsers(expected SlotStatus) {
	for i := range m.Slots {
		if m.Slots[i].Status == expected {
			m.Slots[i].Status = SlotNotReady
		}
	}
}
