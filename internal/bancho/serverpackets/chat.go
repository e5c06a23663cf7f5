package serverpackets

import (
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
)

// SendMessage delivers a chat line. Target is the channel name for
// public chat or the recipient's username for DMs.
//
// Payload: Message composite.
func SendMessage(sender string, content string, target string, senderID int32) []byte {
	w := protocol.Get()
	defer w.Put()

	protocol.Message{
		SenderName: sender,
		Content:    content,
		Target:     target,
		SenderID:   senderID,
	}.WriteTo(w)
	return w.Serialise(protocol.ChoSendMessage)
}

// ChannelInfo advertises a channel and its member count.
//
// Payload: OsuChannel composite.
func ChannelInfo(ch *model.Channel) []byte {
	w := protocol.Get()
	defer w.Put()

	protocol.OsuChannel{
		Name:        WireChannelName(ch.Name),
		Topic:       ch.Description,
		PlayerCount: int32(len(ch.Members)),
	}.WriteTo(w)
	return w.Serialise(protocol.ChoChannelInfo)
}

// ChannelJoinSuccess confirms a CHANNEL_JOIN.
//
// Payload: String channel name.
func ChannelJoinSuccess(name string) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteString(WireChannelName(name))
	return w.Serialise(protocol.ChoChannelJoinSuccess)
}

// ChannelKick removes the client from a channel tab.
//
// Payload: String channel name.
func ChannelKick(name string) []byte {
	w := protocol.Get()
	defer w.Put()

	w.WriteString(WireChannelName(name))
	return w.Serialise(protocol.ChoChannelKick)
}

// ChannelInfoEnd terminates the login channel listing.
func ChannelInfoEnd() []byte {
	w := protocol.Get()
	defer w.Put()
	return w.Serialise(protocol.ChoChannelInfoEnd)
}

// UserDMBlocked tells the sender their DM was rejected by the
// recipient's friends-only setting.
//
// Payload: Message composite with only the target filled.
func UserDMBlocked(target string) []byte {
	w := protocol.Get()
	defer w.Put()

	protocol.Message{Target: target}.WriteTo(w)
	return w.Serialise(protocol.ChoUserDMBlocked)
}

// TargetIsSilenced tells the sender the recipient cannot receive DMs.
//
// Payload: Message composite with only the target filled.
func TargetIsSilenced(target string) []byte {
	w := protocol.Get()
	defer w.Put()

	protocol.Message{Target: target}.WriteTo(w)
	return w.Serialise(protocol.ChoTargetIsSilenced)
}
