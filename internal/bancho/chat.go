package bancho

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
	"github.com/herbe-rt/bancho/internal/store"
)

// ignoredChannel reports client-side log channels; writes to them are
// accepted and dropped.
func ignoredChannel(name string) bool {
	switch name {
	case "#highlight", "#userlog":
		return true
	}
	return false
}

// resolveChannelName maps the aliases the client addresses to the
// session's real channel. "#multiplayer" is the joined match's chat,
// "#spectator" is the spectated host's channel (or our own when
// hosting).
func (r *Router) resolveChannelName(session *model.Session, name string) string {
	switch name {
	case "#multiplayer":
		return fmt.Sprintf("#multi_%d", session.Match)
	case "#spectator":
		if session.SpectatorHost != 0 {
			return fmt.Sprintf("#spec_%d", session.SpectatorHost)
		}
		return fmt.Sprintf("#spec_%d", session.ID)
	}
	return name
}

// joinChannel adds the session to a channel. Returns false when the
// join was redundant or denied by the channel's rules.
func (r *Router) joinChannel(ctx context.Context, session *model.Session, channel *model.Channel) (bool, error) {
	if session.InChannel(channel.Name) || channel.HasMember(session.ID) {
		return false, nil
	}
	if !channel.CanRead(session.Privileges) {
		return false, nil
	}
	if channel.Name == "#lobby" && !session.InLobby {
		return false, nil
	}

	session.Channels = append(session.Channels, channel.Name)
	if err := r.sessions.Update(ctx, session); err != nil {
		return false, err
	}

	channel.Members = append(channel.Members, session.ID)
	if err := r.channels.Update(ctx, channel); err != nil {
		return false, err
	}

	joined := serverpackets.ChannelJoinSuccess(channel.Name)
	if err := r.sessions.Enqueue(ctx, session.ID, joined); err != nil {
		return false, err
	}

	r.log.Info().Int32("user", session.ID).Str("channel", channel.Name).Msg("joined channel")
	return true, nil
}

// leaveChannel removes the channel from the session's set and drops
// its membership.
func (r *Router) leaveChannel(ctx context.Context, session *model.Session, name string) error {
	session.Channels = removeString(session.Channels, name)
	if err := r.sessions.Update(ctx, session); err != nil {
		return err
	}
	return r.removeChannelMember(ctx, name, session.ID)
}

// removeChannelMember drops a member id, dissolving the channel when
// it empties. Non-temp channels refresh the listing for everyone who
// could read them.
func (r *Router) removeChannelMember(ctx context.Context, name string, sessionID int32) error {
	channel, err := r.channels.FetchByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	channel.Members = removeID(channel.Members, sessionID)
	if len(channel.Members) > 0 {
		return r.channels.Update(ctx, channel)
	}

	if err := r.channels.Delete(ctx, channel); err != nil {
		return err
	}
	if channel.Temp {
		return nil
	}

	info := serverpackets.ChannelInfo(channel)
	sessions, err := r.sessions.FetchAll(ctx)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if !channel.CanRead(s.Privileges) {
			continue
		}
		if err := r.sessions.Enqueue(ctx, s.ID, info); err != nil {
			return err
		}
	}
	return nil
}

// sendChannelMessage fans one chat line to the channel's members,
// excluding the sender unless toSelf. The wire message carries the
// client-facing channel alias.
func (r *Router) sendChannelMessage(ctx context.Context, channel *model.Channel, content string, sender *model.Session, toSelf bool) error {
	packet := serverpackets.SendMessage(
		sender.Name, content, serverpackets.WireChannelName(channel.Name), sender.ID,
	)
	for _, id := range channel.Members {
		if id == sender.ID && !toSelf {
			continue
		}
		if err := r.sessions.Enqueue(ctx, id, packet); err != nil {
			return err
		}
	}
	return nil
}

// deliverDM sends a direct message and auto-replies with the
// recipient's away message when one is set.
func (r *Router) deliverDM(ctx context.Context, sender, target *model.Session, content string) error {
	msg := serverpackets.SendMessage(sender.Name, content, target.Name, sender.ID)
	if err := r.sessions.Enqueue(ctx, target.ID, msg); err != nil {
		return err
	}

	if target.AwayMessage != "" {
		reply := serverpackets.SendMessage(
			target.Name,
			fmt.Sprintf("\x01ACTION is away: %s\x01", target.AwayMessage),
			sender.Name,
			target.ID,
		)
		if err := r.sessions.Enqueue(ctx, sender.ID, reply); err != nil {
			return err
		}
	}

	r.log.Info().
		Int32("from", sender.ID).
		Int32("to", target.ID).
		Msg("dm delivered")
	return nil
}

func (r *Router) handlePublicMessage(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	if session.Silenced() {
		r.log.Warn().Int32("user", session.ID).Msg("silenced user tried to send a message")
		return nil
	}

	msg := p.Message("message")
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return nil
	}
	if ignoredChannel(msg.Target) {
		return nil
	}

	name := r.resolveChannelName(session, msg.Target)
	channel, err := r.channels.FetchByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Str("channel", msg.Target).
			Msg("message to non-existent channel")
		return nil
	}
	if err != nil {
		return err
	}

	if !channel.HasMember(session.ID) {
		r.log.Warn().Int32("user", session.ID).Str("channel", channel.Name).
			Msg("message to channel without membership")
		return nil
	}
	if !channel.CanWrite(session.Privileges) {
		return nil
	}

	if err := r.sendChannelMessage(ctx, channel, content, session, false); err != nil {
		return err
	}
	r.log.Info().Int32("user", session.ID).Str("channel", channel.Name).
		Str("content", content).Msg("message sent")
	return nil
}

func (r *Router) handlePrivateMessage(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	if session.Silenced() {
		r.log.Warn().Int32("user", session.ID).Msg("silenced user tried to send a message")
		return nil
	}

	msg := p.Message("message")
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return nil
	}

	target, err := r.sessions.FetchByName(ctx, msg.Target)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Str("target", msg.Target).
			Msg("dm to offline user dropped")
		return nil
	}
	if err != nil {
		return err
	}

	if target.FriendOnlyDMs && !target.HasFriend(session.ID) {
		return r.sessions.Enqueue(ctx, session.ID, serverpackets.UserDMBlocked(target.Name))
	}
	if target.Silenced() {
		return r.sessions.Enqueue(ctx, session.ID, serverpackets.TargetIsSilenced(target.Name))
	}

	return r.deliverDM(ctx, session, target, content)
}

func (r *Router) handleChannelJoin(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	requested := p.Str("channel")
	if ignoredChannel(requested) {
		return nil
	}

	name := r.resolveChannelName(session, requested)
	channel, err := r.channels.FetchByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Str("channel", requested).
			Msg("join of non-existent channel")
		return nil
	}
	if err != nil {
		return err
	}

	if channel.HasMember(session.ID) {
		r.log.Warn().Int32("user", session.ID).Str("channel", channel.Name).
			Msg("join of channel already joined")
		return nil
	}

	_, err = r.joinChannel(ctx, session, channel)
	return err
}

func (r *Router) handleChannelPart(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	requested := p.Str("channel")
	if ignoredChannel(requested) {
		return nil
	}

	name := r.resolveChannelName(session, requested)
	channel, err := r.channels.FetchByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Str("channel", requested).
			Msg("part of non-existent channel")
		return nil
	}
	if err != nil {
		return err
	}

	if !channel.HasMember(session.ID) {
		r.log.Warn().Int32("user", session.ID).Str("channel", channel.Name).
			Msg("part of channel not joined")
		return nil
	}

	return r.leaveChannel(ctx, session, channel.Name)
}
