package protocol

import (
	"fmt"

	"github.com/herbe-rt/bancho/internal/model"
)

// Message is the chat message composite used by SEND_MESSAGE in both
// directions. Target is a channel name or recipient username.
type Message struct {
	SenderName string
	Content    string
	Target     string
	SenderID   int32
}

func ReadMessage(r *Reader) (Message, error) {
	var m Message
	var err error
	if m.SenderName, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("read message sender: %w", err)
	}
	if m.Content, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("read message content: %w", err)
	}
	if m.Target, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("read message target: %w", err)
	}
	if m.SenderID, err = r.ReadI32(); err != nil {
		return m, fmt.Errorf("read message sender id: %w", err)
	}
	return m, nil
}

func (m Message) WriteTo(w *Writer) {
	w.WriteString(m.SenderName)
	w.WriteString(m.Content)
	w.WriteString(m.Target)
	w.WriteI32(m.SenderID)
}

// OsuChannel is the channel listing composite sent by CHANNEL_INFO.
type OsuChannel struct {
	Name        string
	Topic       string
	PlayerCount int32
}

func ReadOsuChannel(r *Reader) (OsuChannel, error) {
	var c OsuChannel
	var err error
	if c.Name, err = r.ReadString(); err != nil {
		return c, fmt.Errorf("read channel name: %w", err)
	}
	if c.Topic, err = r.ReadString(); err != nil {
		return c, fmt.Errorf("read channel topic: %w", err)
	}
	if c.PlayerCount, err = r.ReadI32(); err != nil {
		return c, fmt.Errorf("read channel player count: %w", err)
	}
	return c, nil
}

func (c OsuChannel) WriteTo(w *Writer) {
	w.WriteString(c.Name)
	w.WriteString(c.Topic)
	w.WriteI32(c.PlayerCount)
}

// ScoreFrame is the 29-byte gameplay snapshot embedded in replay
// bundles and match score updates, plus two f64 portions when the
// score-v2 flag is set.
type ScoreFrame struct {
	Time         int32
	ID           uint8
	Num300       uint16
	Num100       uint16
	Num50        uint16
	NumGeki      uint16
	NumKatu      uint16
	NumMiss      uint16
	TotalScore   int32
	CurrentCombo uint16
	MaxCombo     uint16
	Perfect      bool
	CurrentHP    uint8
	TagByte      uint8
	ScoreV2      bool
	ComboPortion float64
	BonusPortion float64
}

func ReadScoreFrame(r *Reader) (ScoreFrame, error) {
	var f ScoreFrame
	var err error
	if f.Time, err = r.ReadI32(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.ID, err = r.ReadU8(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.Num300, err = r.ReadU16(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.Num100, err = r.ReadU16(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.Num50, err = r.ReadU16(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.NumGeki, err = r.ReadU16(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.NumKatu, err = r.ReadU16(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.NumMiss, err = r.ReadU16(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.TotalScore, err = r.ReadI32(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.CurrentCombo, err = r.ReadU16(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.MaxCombo, err = r.ReadU16(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.Perfect, err = r.ReadBool(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.CurrentHP, err = r.ReadU8(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.TagByte, err = r.ReadU8(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.ScoreV2, err = r.ReadBool(); err != nil {
		return f, fmt.Errorf("read score frame: %w", err)
	}
	if f.ScoreV2 {
		if f.ComboPortion, err = r.ReadF64(); err != nil {
			return f, fmt.Errorf("read score frame: %w", err)
		}
		if f.BonusPortion, err = r.ReadF64(); err != nil {
			return f, fmt.Errorf("read score frame: %w", err)
		}
	}
	return f, nil
}

func (f ScoreFrame) WriteTo(w *Writer) {
	w.WriteI32(f.Time)
	w.WriteU8(f.ID)
	w.WriteU16(f.Num300)
	w.WriteU16(f.Num100)
	w.WriteU16(f.Num50)
	w.WriteU16(f.NumGeki)
	w.WriteU16(f.NumKatu)
	w.WriteU16(f.NumMiss)
	w.WriteI32(f.TotalScore)
	w.WriteU16(f.CurrentCombo)
	w.WriteU16(f.MaxCombo)
	w.WriteBool(f.Perfect)
	w.WriteU8(f.CurrentHP)
	w.WriteU8(f.TagByte)
	w.WriteBool(f.ScoreV2)
	if f.ScoreV2 {
		w.WriteF64(f.ComboPortion)
		w.WriteF64(f.BonusPortion)
	}
}

// ReplayFrame is a single input sample inside a replay bundle.
type ReplayFrame struct {
	ButtonState uint8
	TaikoByte   uint8
	X           float32
	Y           float32
	Time        int32
}

func ReadReplayFrame(r *Reader) (ReplayFrame, error) {
	var f ReplayFrame
	var err error
	if f.ButtonState, err = r.ReadU8(); err != nil {
		return f, fmt.Errorf("read replay frame: %w", err)
	}
	if f.TaikoByte, err = r.ReadU8(); err != nil {
		return f, fmt.Errorf("read replay frame: %w", err)
	}
	if f.X, err = r.ReadF32(); err != nil {
		return f, fmt.Errorf("read replay frame: %w", err)
	}
	if f.Y, err = r.ReadF32(); err != nil {
		return f, fmt.Errorf("read replay frame: %w", err)
	}
	if f.Time, err = r.ReadI32(); err != nil {
		return f, fmt.Errorf("read replay frame: %w", err)
	}
	return f, nil
}

func (f ReplayFrame) WriteTo(w *Writer) {
	w.WriteU8(f.ButtonState)
	w.WriteU8(f.TaikoByte)
	w.WriteF32(f.X)
	w.WriteF32(f.Y)
	w.WriteI32(f.Time)
}

// ReplayFrameBundle is the SPECTATE_FRAMES payload. RawData keeps the
// undecoded payload so spectator forwarding stays byte-identical.
type ReplayFrameBundle struct {
	Extra      int32
	Frames     []ReplayFrame
	Action     uint8
	ScoreFrame ScoreFrame
	Sequence   uint16
	RawData    []byte
}

func ReadReplayFrameBundle(r *Reader) (ReplayFrameBundle, error) {
	var b ReplayFrameBundle
	b.RawData = append([]byte(nil), r.data[r.pos:]...)

	var err error
	if b.Extra, err = r.ReadI32(); err != nil {
		return b, fmt.Errorf("read frame bundle: %w", err)
	}
	count, err := r.ReadU16()
	if err != nil {
		return b, fmt.Errorf("read frame bundle: %w", err)
	}
	b.Frames = make([]ReplayFrame, 0, count)
	for i := 0; i < int(count); i++ {
		frame, err := ReadReplayFrame(r)
		if err != nil {
			return b, fmt.Errorf("read frame bundle: %w", err)
		}
		b.Frames = append(b.Frames, frame)
	}
	if b.Action, err = r.ReadU8(); err != nil {
		return b, fmt.Errorf("read frame bundle: %w", err)
	}
	if b.ScoreFrame, err = ReadScoreFrame(r); err != nil {
		return b, fmt.Errorf("read frame bundle: %w", err)
	}
	if b.Sequence, err = r.ReadU16(); err != nil {
		return b, fmt.Errorf("read frame bundle: %w", err)
	}
	return b, nil
}

func (b ReplayFrameBundle) WriteTo(w *Writer) {
	w.WriteI32(b.Extra)
	w.WriteU16(uint16(len(b.Frames)))
	for _, frame := range b.Frames {
		frame.WriteTo(w)
	}
	w.WriteU8(b.Action)
	b.ScoreFrame.WriteTo(w)
	w.WriteU16(b.Sequence)
}

// OsuMatch is the multiplayer room composite used by CREATE_MATCH,
// CHANGE_SETTINGS, CHANGE_PASSWORD and every match broadcast. SlotIDs
// is indexed by slot and only meaningful where the status has a user.
type OsuMatch struct {
	ID           int32
	InProgress   bool
	Mods         model.Mods
	Name         string
	Password     string
	MapName      string
	MapID        int32
	MapMD5       string
	SlotStatuses [16]model.SlotStatus
	SlotTeams    [16]model.MatchTeam
	SlotIDs      [16]int32
	HostID       int32
	Mode         model.Mode
	WinCondition model.WinCondition
	TeamType     model.TeamType
	Freemod      bool
	SlotMods     [16]model.Mods
	Seed         int32
}

func ReadOsuMatch(r *Reader) (OsuMatch, error) {
	var m OsuMatch

	id, err := r.ReadU16()
	if err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	m.ID = int32(id)

	inProgress, err := r.ReadU8()
	if err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	m.InProgress = inProgress == 1

	// Powerplay byte, unused.
	if _, err = r.ReadU8(); err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}

	mods, err := r.ReadI32()
	if err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	m.Mods = model.Mods(mods)

	if m.Name, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	if m.Password, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	if m.MapName, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	if m.MapID, err = r.ReadI32(); err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	if m.MapMD5, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}

	for i := range m.SlotStatuses {
		st, err := r.ReadU8()
		if err != nil {
			return m, fmt.Errorf("read match: %w", err)
		}
		m.SlotStatuses[i] = model.SlotStatus(st)
	}
	for i := range m.SlotTeams {
		team, err := r.ReadU8()
		if err != nil {
			return m, fmt.Errorf("read match: %w", err)
		}
		m.SlotTeams[i] = model.MatchTeam(team)
	}
	for i, status := range m.SlotStatuses {
		if status&model.SlotHasUser != 0 {
			if m.SlotIDs[i], err = r.ReadI32(); err != nil {
				return m, fmt.Errorf("read match: %w", err)
			}
		}
	}

	if m.HostID, err = r.ReadI32(); err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}

	mode, err := r.ReadU8()
	if err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	m.Mode = model.Mode(mode)

	winCond, err := r.ReadU8()
	if err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	m.WinCondition = model.WinCondition(winCond)

	teamType, err := r.ReadU8()
	if err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	m.TeamType = model.TeamType(teamType)

	freemod, err := r.ReadU8()
	if err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	m.Freemod = freemod == 1

	if m.Freemod {
		for i := range m.SlotMods {
			mods, err := r.ReadI32()
			if err != nil {
				return m, fmt.Errorf("read match: %w", err)
			}
			m.SlotMods[i] = model.Mods(mods)
		}
	}

	if m.Seed, err = r.ReadI32(); err != nil {
		return m, fmt.Errorf("read match: %w", err)
	}
	return m, nil
}

// WriteTo serialises the match. With sendPW unset a non-empty password
// is replaced by the 0x0b 0x00 placeholder so lobby watchers learn the
// room is locked without learning the password.
func (m OsuMatch) WriteTo(w *Writer, sendPW bool) {
	w.WriteU16(uint16(m.ID))
	w.WriteBool(m.InProgress)
	w.WriteU8(0) // powerplay
	w.WriteI32(int32(m.Mods))
	w.WriteString(m.Name)

	switch {
	case m.Password == "":
		w.WriteU8(0x00)
	case sendPW:
		w.WriteString(m.Password)
	default:
		w.WriteU8(0x0b)
		w.WriteU8(0x00)
	}

	w.WriteString(m.MapName)
	w.WriteI32(m.MapID)
	w.WriteString(m.MapMD5)

	for _, status := range m.SlotStatuses {
		w.WriteU8(uint8(status))
	}
	for _, team := range m.SlotTeams {
		w.WriteU8(uint8(team))
	}
	for i, status := range m.SlotStatuses {
		if status&model.SlotHasUser != 0 {
			w.WriteI32(m.SlotIDs[i])
		}
	}

	w.WriteI32(m.HostID)
	w.WriteU8(uint8(m.Mode))
	w.WriteU8(uint8(m.WinCondition))
	w.WriteU8(uint8(m.TeamType))
	w.WriteBool(m.Freemod)

	if m.Freemod {
		for _, mods := range m.SlotMods {
			w.WriteI32(int32(mods))
		}
	}

	w.WriteI32(m.Seed)
}
