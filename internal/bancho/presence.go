package bancho

import (
	"context"
	"errors"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
	"github.com/herbe-rt/bancho/internal/store"
)

func (r *Router) handleChangeAction(_ context.Context, session *model.Session, p *protocol.Payload) error {
	mods := model.Mods(p.U32("mods"))

	session.Status.Action = model.Action(p.U8("action"))
	session.Status.ActionText = p.Str("action_text")
	session.Status.MapMD5 = p.Str("map_md5")
	session.Status.Mods = mods
	session.Status.Mode = model.ModeFromMods(model.Mode(p.U8("mode")), mods)
	session.Status.MapID = p.I32("map_id")

	return nil
}

func (r *Router) handleRequestStatusUpdate(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	stats, err := r.stats.Fetch(ctx, session.ID, session.Status.Mode)
	if err != nil {
		return err
	}
	return r.sessions.Enqueue(ctx, session.ID, serverpackets.UserStats(session, stats))
}

func (r *Router) handleUserStatsRequest(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	requested := p.I32List("session_ids")

	others, err := r.sessions.FetchAll(ctx)
	if err != nil {
		return err
	}

	var buf []byte
	for _, other := range others {
		if !containsID(requested, other.ID) {
			continue
		}
		if other.Restricted() && other.ID != session.ID {
			continue
		}

		otherStats, err := r.stats.Fetch(ctx, other.ID, other.Status.Mode)
		if err != nil {
			return err
		}
		buf = append(buf, serverpackets.UserStats(other, otherStats)...)
	}

	if len(buf) == 0 {
		return nil
	}
	return r.sessions.Enqueue(ctx, session.ID, buf)
}

func (r *Router) handleUserPresenceRequest(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	requested := p.I32List("session_ids")

	others, err := r.sessions.FetchAll(ctx)
	if err != nil {
		return err
	}

	var buf []byte
	for _, other := range others {
		if !containsID(requested, other.ID) {
			continue
		}
		if other.Restricted() && other.ID != session.ID {
			continue
		}

		otherStats, err := r.stats.Fetch(ctx, other.ID, other.Status.Mode)
		if err != nil {
			return err
		}
		buf = append(buf, serverpackets.UserPresence(other, otherStats.Rank)...)
	}

	if len(buf) == 0 {
		return nil
	}
	return r.sessions.Enqueue(ctx, session.ID, buf)
}

func (r *Router) handleUserPresenceRequestAll(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	others, err := r.sessions.FetchAll(ctx)
	if err != nil {
		return err
	}

	var buf []byte
	for _, other := range others {
		if other.Restricted() {
			continue
		}

		otherStats, err := r.stats.Fetch(ctx, other.ID, other.Status.Mode)
		if err != nil {
			return err
		}
		buf = append(buf, serverpackets.UserPresence(other, otherStats.Rank)...)
	}

	if len(buf) == 0 {
		return nil
	}
	return r.sessions.Enqueue(ctx, session.ID, buf)
}

func (r *Router) handleFriendAdd(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	targetID := p.I32("target_id")
	if _, err := r.sessions.FetchByID(ctx, targetID); errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Int32("target", targetID).
			Msg("tried to friend a user who is offline")
		return nil
	} else if err != nil {
		return err
	}

	if session.HasFriend(targetID) {
		return nil
	}

	session.Friends = append(session.Friends, targetID)
	if err := r.accounts.AddFriend(ctx, session.ID, targetID); err != nil {
		return err
	}

	r.log.Info().Int32("user", session.ID).Int32("target", targetID).Msg("added friend")
	return nil
}

func (r *Router) handleFriendRemove(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	targetID := p.I32("target_id")
	if _, err := r.sessions.FetchByID(ctx, targetID); errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Int32("target", targetID).
			Msg("tried to unfriend a user who is offline")
		return nil
	} else if err != nil {
		return err
	}

	if !session.HasFriend(targetID) {
		return nil
	}

	session.Friends = removeID(session.Friends, targetID)
	if err := r.accounts.RemoveFriend(ctx, session.ID, targetID); err != nil {
		return err
	}

	r.log.Info().Int32("user", session.ID).Int32("target", targetID).Msg("removed friend")
	return nil
}

func (r *Router) handleToggleDMs(_ context.Context, session *model.Session, p *protocol.Payload) error {
	session.FriendOnlyDMs = p.I32("value") == 1
	return nil
}

func (r *Router) handleReceiveUpdates(_ context.Context, session *model.Session, p *protocol.Payload) error {
	value := p.I32("value")
	if value < 0 || value > 2 {
		r.log.Warn().Int32("user", session.ID).Int32("value", value).
			Msg("invalid presence filter")
		return nil
	}

	session.PresenceFilter = model.PresenceFilter(value)
	return nil
}

func (r *Router) handleSetAwayMessage(_ context.Context, session *model.Session, p *protocol.Payload) error {
	session.AwayMessage = p.Message("message").Content
	return nil
}

func (r *Router) handleJoinLobby(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	session.InLobby = true

	matches, err := r.matches.FetchAll(ctx)
	if err != nil {
		return err
	}

	var buf []byte
	for _, match := range matches {
		buf = append(buf, serverpackets.NewMatch(match, false)...)
	}

	if len(buf) == 0 {
		return nil
	}
	return r.sessions.Enqueue(ctx, session.ID, buf)
}

func (r *Router) handlePartLobby(_ context.Context, session *model.Session, _ *protocol.Payload) error {
	session.InLobby = false
	return nil
}
