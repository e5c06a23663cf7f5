package serverpackets

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
)

// header splits a framed packet into its id and payload.
func header(t *testing.T, data []byte) (protocol.PacketID, []byte) {
	t.Helper()
	if len(data) < protocol.HeaderSize {
		t.Fatalf("packet shorter than header: %d bytes", len(data))
	}
	id, length := protocol.ParseHeader(data)
	if length != len(data)-protocol.HeaderSize {
		t.Fatalf("declared length %d, payload %d", length, len(data)-protocol.HeaderSize)
	}
	return id, data[protocol.HeaderSize:]
}

func TestUserID(t *testing.T) {
	t.Parallel()

	id, payload := header(t, UserID(-1))
	if id != protocol.ChoUserID {
		t.Errorf("id = %d, want %d", id, protocol.ChoUserID)
	}
	if got := int32(binary.LittleEndian.Uint32(payload)); got != -1 {
		t.Errorf("payload = %d, want -1", got)
	}

	want := []byte{0x05, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0xe9, 0x03, 0x00, 0x00}
	if !bytes.Equal(UserID(1001), want) {
		t.Errorf("UserID(1001) = % X, want % X", UserID(1001), want)
	}
}

func TestNotification(t *testing.T) {
	t.Parallel()

	id, payload := header(t, Notification("hello"))
	if id != protocol.ChoNotification {
		t.Errorf("id = %d, want %d", id, protocol.ChoNotification)
	}

	r := protocol.NewReader(payload)
	text, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
}

func TestEmptyPayloadPackets(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		data []byte
		want protocol.PacketID
	}{
		{name: "channel info end", data: ChannelInfoEnd(), want: protocol.ChoChannelInfoEnd},
		{name: "match join fail", data: MatchJoinFail(), want: protocol.ChoMatchJoinFail},
		{name: "transfer host", data: MatchTransferHost(), want: protocol.ChoMatchTransferHost},
		{name: "all players loaded", data: MatchAllPlayersLoaded(), want: protocol.ChoMatchAllPlayersLoaded},
		{name: "match complete", data: MatchComplete(), want: protocol.ChoMatchComplete},
		{name: "match skip", data: MatchSkip(), want: protocol.ChoMatchSkip},
		{name: "account restricted", data: AccountRestricted(), want: protocol.ChoAccountRestricted},
		{name: "version update forced", data: VersionUpdateForced(), want: protocol.ChoVersionUpdateForced},
	} {
		id, payload := header(t, tt.data)
		if id != tt.want {
			t.Errorf("%s: id = %d, want %d", tt.name, id, tt.want)
		}
		if len(payload) != 0 {
			t.Errorf("%s: unexpected payload % X", tt.name, payload)
		}
	}
}

func testSession() *model.Session {
	return &model.Session{
		Account: model.Account{
			ID:         1001,
			Name:       "cookiezi",
			Privileges: model.PrivUserNormal | model.PrivUserPublic,
		},
		UTCOffset: 9,
		Geolocation: model.Geolocation{
			Longitude: 127.0,
			Latitude:  37.5,
			Country:   model.Country{Code: 113, Acronym: "kr"},
		},
		Status: model.Status{
			Action:     model.ActionPlaying,
			ActionText: "a map",
			Mods:       model.ModHidden | model.ModRelax,
			Mode:       model.ModeRelaxStandard,
		},
	}
}

func TestUserPresence(t *testing.T) {
	t.Parallel()

	s := testSession()
	id, payload := header(t, UserPresence(s, 42))
	if id != protocol.ChoUserPresence {
		t.Fatalf("id = %d", id)
	}

	r := protocol.NewReader(payload)
	userID, _ := r.ReadI32()
	name, _ := r.ReadString()
	utcOffset, _ := r.ReadU8()
	country, _ := r.ReadU8()
	flags, _ := r.ReadU8()
	long, _ := r.ReadF32()
	lat, _ := r.ReadF32()
	rank, err := r.ReadI32()
	if err != nil {
		t.Fatalf("short presence payload: %v", err)
	}

	if userID != 1001 || name != "cookiezi" {
		t.Errorf("identity mismatch: %d %q", userID, name)
	}
	if utcOffset != 9+24 {
		t.Errorf("utc offset = %d", utcOffset)
	}
	if country != 113 {
		t.Errorf("country = %d", country)
	}
	// Low bits carry privileges, high bits the vanilla mode.
	if flags&0x1f != uint8(s.BanchoPrivileges()) {
		t.Errorf("privileges = %d", flags&0x1f)
	}
	if flags>>5 != uint8(model.ModeStandard) {
		t.Errorf("mode bits = %d", flags>>5)
	}
	if long != 127.0 || lat != 37.5 {
		t.Errorf("location = %f,%f", long, lat)
	}
	if rank != 42 {
		t.Errorf("rank = %d", rank)
	}
	if r.Remaining() != 0 {
		t.Errorf("%d bytes left over", r.Remaining())
	}
}

func TestUserStats(t *testing.T) {
	t.Parallel()

	s := testSession()
	stats := &model.Stats{
		RankedScore: 12345678,
		TotalScore:  23456789,
		Accuracy:    98.76,
		PP:          8727,
		Playcount:   1000,
		Rank:        1,
	}

	id, payload := header(t, UserStats(s, stats))
	if id != protocol.ChoUserStats {
		t.Fatalf("id = %d", id)
	}

	r := protocol.NewReader(payload)
	userID, _ := r.ReadI32()
	action, _ := r.ReadU8()
	actionText, _ := r.ReadString()
	mapMD5, _ := r.ReadString()
	mods, _ := r.ReadI32()
	mode, _ := r.ReadU8()
	mapID, _ := r.ReadI32()
	rankedScore, _ := r.ReadI64()
	accuracy, _ := r.ReadF32()
	playcount, _ := r.ReadI32()
	totalScore, _ := r.ReadI64()
	rank, _ := r.ReadI32()
	pp, err := r.ReadI16()
	if err != nil {
		t.Fatalf("short stats payload: %v", err)
	}

	if userID != 1001 || action != uint8(model.ActionPlaying) || actionText != "a map" {
		t.Errorf("status mismatch: %d %d %q", userID, action, actionText)
	}
	if mapMD5 != "" || mapID != 0 {
		t.Errorf("map mismatch: %q %d", mapMD5, mapID)
	}
	if mods != int32(model.ModHidden|model.ModRelax) {
		t.Errorf("mods = %d", mods)
	}
	if mode != uint8(model.ModeStandard) {
		t.Errorf("mode = %d, want vanilla", mode)
	}
	if rankedScore != 12345678 || totalScore != 23456789 {
		t.Errorf("scores = %d, %d", rankedScore, totalScore)
	}
	if accuracy < 0.9875 || accuracy > 0.9877 {
		t.Errorf("accuracy = %f", accuracy)
	}
	if playcount != 1000 || rank != 1 || pp != 8727 {
		t.Errorf("stats = %d %d %d", playcount, rank, pp)
	}
}

// PP beyond the i16 range travels through the ranked-score field.
func TestUserStats_PPOverflow(t *testing.T) {
	t.Parallel()

	s := testSession()
	stats := &model.Stats{RankedScore: 999, PP: 40000}

	_, payload := header(t, UserStats(s, stats))
	r := protocol.NewReader(payload)
	r.ReadI32()    // user id
	r.ReadU8()     // action
	r.ReadString() // action text
	r.ReadString() // map md5
	r.ReadI32()    // mods
	r.ReadU8()     // mode
	r.ReadI32()    // map id
	rankedScore, _ := r.ReadI64()
	r.ReadF32() // accuracy
	r.ReadI32() // playcount
	r.ReadI64() // total score
	r.ReadI32() // rank
	pp, err := r.ReadI16()
	if err != nil {
		t.Fatalf("short stats payload: %v", err)
	}

	if rankedScore != 40000 {
		t.Errorf("ranked score = %d, want 40000", rankedScore)
	}
	if pp != 0 {
		t.Errorf("pp = %d, want 0", pp)
	}
}

func TestChannelInfo_RewritesWireNames(t *testing.T) {
	t.Parallel()

	ch := &model.Channel{Name: "#multi_12", Description: "", Members: []int32{1, 2}}
	_, payload := header(t, ChannelInfo(ch))

	r := protocol.NewReader(payload)
	osuCh, err := protocol.ReadOsuChannel(r)
	if err != nil {
		t.Fatalf("ReadOsuChannel: %v", err)
	}
	if osuCh.Name != "#multiplayer" {
		t.Errorf("name = %q", osuCh.Name)
	}
	if osuCh.PlayerCount != 2 {
		t.Errorf("player count = %d", osuCh.PlayerCount)
	}

	ch = &model.Channel{Name: "#spec_1001"}
	_, payload = header(t, ChannelInfo(ch))
	r = protocol.NewReader(payload)
	osuCh, _ = protocol.ReadOsuChannel(r)
	if osuCh.Name != "#spectator" {
		t.Errorf("name = %q", osuCh.Name)
	}

	if WireChannelName("#osu") != "#osu" {
		t.Error("regular names must pass through")
	}
}

func TestMatchScoreUpdate_StampsSlot(t *testing.T) {
	t.Parallel()

	frame := make([]byte, 29)
	frame[4] = 0xFF // client-sent id byte, must be overwritten

	out := MatchScoreUpdate(frame, 5)
	id, payload := header(t, out)
	if id != protocol.ChoMatchScoreUpdate {
		t.Fatalf("id = %d", id)
	}
	if out[11] != 5 || payload[4] != 5 {
		t.Errorf("slot byte = %d, want 5", out[11])
	}
}

func TestMatchPackets_Composite(t *testing.T) {
	t.Parallel()

	m := model.NewMatch()
	m.ID = 3
	m.Name = "room"
	m.Password = "pw"
	m.HostID = 1001
	m.Mode = model.ModeRelaxStandard
	m.Slots[0].SessionID = 1001
	m.Slots[0].Status = model.SlotNotReady

	id, payload := header(t, NewMatch(m, false))
	if id != protocol.ChoNewMatch {
		t.Fatalf("id = %d", id)
	}

	r := protocol.NewReader(payload)
	osuMatch, err := protocol.ReadOsuMatch(r)
	if err != nil {
		t.Fatalf("ReadOsuMatch: %v", err)
	}
	if osuMatch.ID != 3 || osuMatch.HostID != 1001 {
		t.Errorf("match identity mismatch: %+v", osuMatch)
	}
	if osuMatch.Password != "" {
		t.Errorf("password leaked to lobby: %q", osuMatch.Password)
	}
	if osuMatch.Mode != model.ModeStandard {
		t.Errorf("mode = %d, want vanilla", osuMatch.Mode)
	}
	if osuMatch.SlotIDs[0] != 1001 {
		t.Errorf("slot ids = %v", osuMatch.SlotIDs)
	}

	// Join success must carry the password.
	_, payload = header(t, MatchJoinSuccess(m))
	r = protocol.NewReader(payload)
	osuMatch, _ = protocol.ReadOsuMatch(r)
	if osuMatch.Password != "pw" {
		t.Errorf("join success password = %q", osuMatch.Password)
	}
}

func TestSendMessage(t *testing.T) {
	t.Parallel()

	id, payload := header(t, SendMessage("peppy", "hi", "#osu", 2))
	if id != protocol.ChoSendMessage {
		t.Fatalf("id = %d", id)
	}

	r := protocol.NewReader(payload)
	msg, err := protocol.ReadMessage(r)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if msg.SenderName != "peppy" || msg.Content != "hi" || msg.Target != "#osu" || msg.SenderID != 2 {
		t.Errorf("message mismatch: %+v", msg)
	}
}

func TestSilenceEndAndFriends(t *testing.T) {
	t.Parallel()

	_, payload := header(t, SilenceEnd(60))
	if got := int32(binary.LittleEndian.Uint32(payload)); got != 60 {
		t.Errorf("silence end = %d", got)
	}

	_, payload = header(t, FriendsList([]int32{2, 1001}))
	r := protocol.NewReader(payload)
	friends, err := r.ReadI32List()
	if err != nil {
		t.Fatalf("ReadI32List: %v", err)
	}
	if len(friends) != 2 || friends[0] != 2 || friends[1] != 1001 {
		t.Errorf("friends = %v", friends)
	}
}
