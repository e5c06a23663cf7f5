package protocol

import (
	"bytes"
	"testing"

	"github.com/herbe-rt/bancho/internal/model"
)

func TestMessage_RoundTrip(t *testing.T) {
	in := Message{SenderName: "peppy", Content: "hello there", Target: "#osu", SenderID: 2}

	w := NewWriter(64)
	in.WriteTo(w)

	r := NewReader(w.Bytes())
	got, err := ReadMessage(r)
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if got != in {
		t.Errorf("round-trip mismatch: %+v != %+v", got, in)
	}
}

func TestOsuChannel_RoundTrip(t *testing.T) {
	in := OsuChannel{Name: "#osu", Topic: "main channel", PlayerCount: 1337}

	w := NewWriter(64)
	in.WriteTo(w)

	r := NewReader(w.Bytes())
	got, err := ReadOsuChannel(r)
	if err != nil {
		t.Fatalf("ReadOsuChannel failed: %v", err)
	}
	if got != in {
		t.Errorf("round-trip mismatch: %+v != %+v", got, in)
	}
}

func TestScoreFrame_RoundTrip(t *testing.T) {
	in := ScoreFrame{
		Time:         1234,
		ID:           3,
		Num300:       100,
		Num100:       20,
		Num50:        5,
		NumGeki:      30,
		NumKatu:      10,
		NumMiss:      2,
		TotalScore:   725000,
		CurrentCombo: 45,
		MaxCombo:     120,
		Perfect:      false,
		CurrentHP:    180,
		TagByte:      0,
	}

	w := NewWriter(64)
	in.WriteTo(w)
	if w.Len() != 29 {
		t.Fatalf("expected 29-byte frame, got %d", w.Len())
	}

	r := NewReader(w.Bytes())
	got, err := ReadScoreFrame(r)
	if err != nil {
		t.Fatalf("ReadScoreFrame failed: %v", err)
	}
	if got != in {
		t.Errorf("round-trip mismatch: %+v != %+v", got, in)
	}
}

func TestScoreFrame_ScoreV2(t *testing.T) {
	in := ScoreFrame{Time: 1, ScoreV2: true, ComboPortion: 0.7, BonusPortion: 0.3}

	w := NewWriter(64)
	in.WriteTo(w)
	if w.Len() != 29+16 {
		t.Fatalf("expected 45 bytes with v2 portions, got %d", w.Len())
	}

	r := NewReader(w.Bytes())
	got, err := ReadScoreFrame(r)
	if err != nil {
		t.Fatalf("ReadScoreFrame failed: %v", err)
	}
	if got.ComboPortion != 0.7 || got.BonusPortion != 0.3 {
		t.Errorf("portions lost: %+v", got)
	}
}

func TestReplayFrameBundle_RoundTrip(t *testing.T) {
	in := ReplayFrameBundle{
		Extra: -1,
		Frames: []ReplayFrame{
			{ButtonState: 1, X: 256.5, Y: 192.25, Time: 100},
			{ButtonState: 0, TaikoByte: 2, X: 300, Y: 150, Time: 116},
		},
		Action:     1,
		ScoreFrame: ScoreFrame{Time: 116, TotalScore: 1000, CurrentCombo: 3},
		Sequence:   7,
	}

	w := NewWriter(256)
	in.WriteTo(w)
	raw := append([]byte(nil), w.Bytes()...)

	r := NewReader(raw)
	got, err := ReadReplayFrameBundle(r)
	if err != nil {
		t.Fatalf("ReadReplayFrameBundle failed: %v", err)
	}

	if len(got.Frames) != 2 || got.Frames[0] != in.Frames[0] || got.Frames[1] != in.Frames[1] {
		t.Errorf("frames mismatch: %+v", got.Frames)
	}
	if got.Extra != in.Extra || got.Action != in.Action || got.Sequence != in.Sequence {
		t.Errorf("scalar mismatch: %+v", got)
	}
	if got.ScoreFrame != in.ScoreFrame {
		t.Errorf("score frame mismatch: %+v != %+v", got.ScoreFrame, in.ScoreFrame)
	}
	if !bytes.Equal(got.RawData, raw) {
		t.Error("raw data does not mirror the payload")
	}
	if r.Remaining() != 0 {
		t.Errorf("%d bytes left over", r.Remaining())
	}
}

func testMatch() OsuMatch {
	m := OsuMatch{
		ID:           42,
		InProgress:   true,
		Mods:         model.ModHidden | model.ModHardRock,
		Name:         "the battle",
		Password:     "hunter2",
		MapName:      "some map [insane]",
		MapID:        1234567,
		MapMD5:       "0a1b2c3d4e5f60718293a4b5c6d7e8f9",
		HostID:       1001,
		Mode:         model.ModeStandard,
		WinCondition: model.WinScore,
		TeamType:     model.TeamTypeTeamVS,
		Seed:         99,
	}
	for i := range m.SlotStatuses {
		m.SlotStatuses[i] = model.SlotOpen
	}
	m.SlotStatuses[0] = model.SlotNotReady
	m.SlotIDs[0] = 1001
	m.SlotTeams[0] = model.TeamRed
	m.SlotStatuses[5] = model.SlotReady
	m.SlotIDs[5] = 1002
	m.SlotTeams[5] = model.TeamBlue
	m.SlotStatuses[7] = model.SlotLocked
	return m
}

func TestOsuMatch_RoundTrip(t *testing.T) {
	in := testMatch()

	w := NewWriter(256)
	in.WriteTo(w, true)

	r := NewReader(w.Bytes())
	got, err := ReadOsuMatch(r)
	if err != nil {
		t.Fatalf("ReadOsuMatch failed: %v", err)
	}
	if got != in {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", got, in)
	}
	if r.Remaining() != 0 {
		t.Errorf("%d bytes left over", r.Remaining())
	}
}

func TestOsuMatch_FreemodRoundTrip(t *testing.T) {
	in := testMatch()
	in.Freemod = true
	in.SlotMods[0] = model.ModHidden
	in.SlotMods[5] = model.ModFlashlight

	w := NewWriter(256)
	in.WriteTo(w, true)

	r := NewReader(w.Bytes())
	got, err := ReadOsuMatch(r)
	if err != nil {
		t.Fatalf("ReadOsuMatch failed: %v", err)
	}
	if got != in {
		t.Errorf("freemod round-trip mismatch:\n got %+v\nwant %+v", got, in)
	}
}

// A suppressed password keeps the has-password marker but drops the
// content; an empty one stays a plain empty string.
func TestOsuMatch_PasswordSuppression(t *testing.T) {
	m := testMatch()

	w := NewWriter(256)
	m.WriteTo(w, false)

	r := NewReader(w.Bytes())
	got, err := ReadOsuMatch(r)
	if err != nil {
		t.Fatalf("ReadOsuMatch failed: %v", err)
	}
	if got.Password != "" {
		t.Errorf("password leaked: %q", got.Password)
	}

	// The suppressed form must still differ from the no-password form
	// at the marker byte.
	m2 := m
	m2.Password = ""
	w2 := NewWriter(256)
	m2.WriteTo(w2, false)
	if bytes.Equal(w.Bytes(), w2.Bytes()) {
		t.Error("suppressed and empty passwords serialise identically")
	}
	if len(w.Bytes()) != len(w2.Bytes())+1 {
		t.Errorf("expected one extra marker byte, got %d vs %d", len(w.Bytes()), len(w2.Bytes()))
	}
}
