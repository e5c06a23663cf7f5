package bancho

import (
	"context"
	"errors"
	"fmt"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
	"github.com/herbe-rt/bancho/internal/store"
)

func spectatorChannelName(hostID int32) string {
	return fmt.Sprintf("#spec_%d", hostID)
}

// addSpectator attaches the session to a host's spectator pool,
// creating the host's spectator channel on first use.
func (r *Router) addSpectator(ctx context.Context, host, spectator *model.Session) error {
	name := spectatorChannelName(host.ID)

	channel, err := r.channels.FetchByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		channel = &model.Channel{
			Name:        name,
			Description: fmt.Sprintf("Spectator chat for %s", host.Name),
			PublicRead:  true,
			PublicWrite: true,
			Hidden:      true,
			Temp:        true,
		}
		if err := r.channels.Update(ctx, channel); err != nil {
			return err
		}
		if _, err := r.joinChannel(ctx, host, channel); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if _, err := r.joinChannel(ctx, spectator, channel); err != nil {
		return err
	}

	joined := serverpackets.FellowSpectatorJoined(spectator.ID)
	for _, id := range host.Spectators {
		if err := r.sessions.Enqueue(ctx, id, joined); err != nil {
			return err
		}
		fellow := serverpackets.FellowSpectatorJoined(id)
		if err := r.sessions.Enqueue(ctx, spectator.ID, fellow); err != nil {
			return err
		}
	}

	if err := r.sessions.Enqueue(ctx, host.ID, serverpackets.SpectatorJoined(spectator.ID)); err != nil {
		return err
	}

	host.Spectators = append(host.Spectators, spectator.ID)
	if err := r.sessions.Update(ctx, host); err != nil {
		return err
	}
	spectator.SpectatorHost = host.ID

	r.log.Info().Int32("user", spectator.ID).Int32("host", host.ID).Msg("started spectating")
	return nil
}

// removeSpectator detaches the session from its host, dissolving the
// spectator channel when the pool empties.
func (r *Router) removeSpectator(ctx context.Context, hostID int32, spectator *model.Session) error {
	name := spectatorChannelName(hostID)

	spectator.SpectatorHost = 0
	if err := r.leaveChannel(ctx, spectator, name); err != nil {
		return err
	}

	host, err := r.sessions.FetchByID(ctx, hostID)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("host", hostID).Msg("spectated host is offline")
		return nil
	}
	if err != nil {
		return err
	}

	host.Spectators = removeID(host.Spectators, spectator.ID)
	if len(host.Spectators) == 0 {
		if err := r.leaveChannel(ctx, host, name); err != nil {
			return err
		}
	} else if err := r.sessions.Update(ctx, host); err != nil {
		return err
	}

	left := serverpackets.FellowSpectatorLeft(spectator.ID)
	for _, id := range host.Spectators {
		if err := r.sessions.Enqueue(ctx, id, left); err != nil {
			return err
		}
	}

	r.log.Info().Int32("user", spectator.ID).Int32("host", host.ID).Msg("stopped spectating")
	return r.sessions.Enqueue(ctx, host.ID, serverpackets.SpectatorLeft(spectator.ID))
}

func (r *Router) handleStartSpectating(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	targetID := p.I32("target_id")

	host, err := r.sessions.FetchByID(ctx, targetID)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Int32("target", targetID).
			Msg("tried to spectate an offline user")
		return nil
	}
	if err != nil {
		return err
	}

	if session.SpectatorHost != 0 && session.SpectatorHost != targetID {
		if err := r.removeSpectator(ctx, session.SpectatorHost, session); err != nil {
			return err
		}
	}

	return r.addSpectator(ctx, host, session)
}

func (r *Router) handleStopSpectating(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	if session.SpectatorHost == 0 {
		r.log.Warn().Int32("user", session.ID).Msg("stopped spectating without spectating anyone")
		return nil
	}
	return r.removeSpectator(ctx, session.SpectatorHost, session)
}

func (r *Router) handleSpectateFrames(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	if len(session.Spectators) == 0 {
		r.log.Warn().Int32("user", session.ID).Msg("sent spectate frames with no spectators")
		return nil
	}

	frames := serverpackets.SpectateFrames(p.FrameBundle("frames").RawData)
	for _, id := range session.Spectators {
		if err := r.sessions.Enqueue(ctx, id, frames); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) handleCantSpectate(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	if session.SpectatorHost == 0 {
		r.log.Warn().Int32("user", session.ID).Msg("sent can't spectate without spectating anyone")
		return nil
	}

	packet := serverpackets.SpectatorCantSpectate(session.ID)
	if err := r.sessions.Enqueue(ctx, session.SpectatorHost, packet); err != nil {
		return err
	}

	host, err := r.sessions.FetchByID(ctx, session.SpectatorHost)
	if err != nil {
		return fmt.Errorf("fetching spectated host %d: %w", session.SpectatorHost, err)
	}
	for _, id := range host.Spectators {
		if err := r.sessions.Enqueue(ctx, id, packet); err != nil {
			return err
		}
	}
	return nil
}
