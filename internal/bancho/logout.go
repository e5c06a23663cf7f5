package bancho

import (
	"context"
	"errors"
	"time"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
	"github.com/herbe-rt/bancho/internal/store"
)

// handleLogout tears the session down. The client fires one logout
// while still handshaking, so logouts within a second of login are
// dropped.
func (r *Router) handleLogout(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	if time.Now().UnixMilli()-session.LoginTime < 1000 {
		r.log.Debug().Int32("user", session.ID).Msg("dropped logout right after login")
		return nil
	}
	return r.logout(ctx, session)
}

func (r *Router) logout(ctx context.Context, session *model.Session) error {
	if session.Match != 0 {
		match, err := r.matches.FetchByID(ctx, session.Match)
		if errors.Is(err, store.ErrNotFound) {
			r.log.Warn().Int32("user", session.ID).Int32("match", session.Match).
				Msg("logged out of non-existent match")
		} else if err != nil {
			return err
		} else if err := r.leaveMatch(ctx, session, match); err != nil {
			return err
		}
	}

	if session.SpectatorHost != 0 {
		if err := r.removeSpectator(ctx, session.SpectatorHost, session); err != nil {
			return err
		}
	}

	// The session record is deleted below, so only the channel side
	// needs unwinding here.
	for _, name := range session.Channels {
		if err := r.removeChannelMember(ctx, name, session.ID); err != nil {
			return err
		}
	}
	session.Channels = nil

	if _, err := r.sessions.Dequeue(ctx, session.ID); err != nil {
		return err
	}

	wasPublic := !session.Restricted()
	if err := r.sessions.Delete(ctx, session); err != nil {
		return err
	}

	if wasPublic {
		if err := r.sessions.EnqueueAll(ctx, serverpackets.UserLogout(session.ID)); err != nil {
			return err
		}
	}

	r.metrics.Online.Dec()
	r.log.Info().Int32("user", session.ID).Str("username", session.Name).Msg("logged out")
	return nil
}
