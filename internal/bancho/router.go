// Package bancho implements the osu! bancho chat protocol: login,
// packet dispatch, chat, spectating and multiplayer, on top of the
// session/channel/match stores.
package bancho

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/herbe-rt/bancho/internal/crypto"
	"github.com/herbe-rt/bancho/internal/metrics"
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/oui"
	"github.com/herbe-rt/bancho/internal/protocol"
	"github.com/herbe-rt/bancho/internal/store"
)

// IconRepository serves the rotating main menu banner.
type IconRepository interface {
	FetchRandom(ctx context.Context) (*model.MenuIcon, error)
}

// OUIRepository resolves MAC address prefixes to hardware vendors.
type OUIRepository interface {
	Fetch(ctx context.Context, address string) (*oui.Entry, error)
}

// Deps wires the router's collaborators.
type Deps struct {
	Sessions *store.Sessions
	Channels *store.Channels
	Matches  *store.Matches
	Accounts store.AccountRepository
	Stats    store.StatsRepository
	Icons    IconRepository
	Verifier *crypto.Verifier
	OUI      OUIRepository
	Metrics  *metrics.Metrics

	RestrictionMessage string
	FrozenMessage      string

	Log zerolog.Logger
}

type handlerFunc func(ctx context.Context, session *model.Session, p *protocol.Payload) error

// route binds a packet id to its payload schema and handler. Routes
// with restricted set are also dispatched for sessions without public
// privileges; everything else is silently skipped for them.
type route struct {
	schema     protocol.Schema
	handle     handlerFunc
	restricted bool
}

// Router dispatches framed client packets onto their handlers.
type Router struct {
	sessions *store.Sessions
	channels *store.Channels
	matches  *store.Matches
	accounts store.AccountRepository
	stats    store.StatsRepository
	icons    IconRepository
	verifier *crypto.Verifier
	oui      OUIRepository
	metrics  *metrics.Metrics

	restrictionMessage string
	frozenMessage      string

	log    zerolog.Logger
	routes map[protocol.PacketID]route
}

func NewRouter(deps Deps) *Router {
	r := &Router{
		sessions:           deps.Sessions,
		channels:           deps.Channels,
		matches:            deps.Matches,
		accounts:           deps.Accounts,
		stats:              deps.Stats,
		icons:              deps.Icons,
		verifier:           deps.Verifier,
		oui:                deps.OUI,
		metrics:            deps.Metrics,
		restrictionMessage: deps.RestrictionMessage,
		frozenMessage:      deps.FrozenMessage,
		log:                deps.Log,
	}

	r.routes = map[protocol.PacketID]route{
		protocol.OsuChangeAction: {
			schema: protocol.Schema{
				{Name: "action", Type: protocol.TypeU8},
				{Name: "action_text", Type: protocol.TypeString},
				{Name: "map_md5", Type: protocol.TypeString},
				{Name: "mods", Type: protocol.TypeU32},
				{Name: "mode", Type: protocol.TypeU8},
				{Name: "map_id", Type: protocol.TypeI32},
			},
			handle:     r.handleChangeAction,
			restricted: true,
		},
		protocol.OsuSendPublicMessage: {
			schema: protocol.Schema{{Name: "message", Type: protocol.TypeMessage}},
			handle: r.handlePublicMessage,
		},
		protocol.OsuLogout: {
			schema:     protocol.Schema{{Name: "_", Type: protocol.TypeI32}},
			handle:     r.handleLogout,
			restricted: true,
		},
		protocol.OsuRequestStatusUpdate: {
			handle:     r.handleRequestStatusUpdate,
			restricted: true,
		},
		protocol.OsuStartSpectating: {
			schema: protocol.Schema{{Name: "target_id", Type: protocol.TypeI32}},
			handle: r.handleStartSpectating,
		},
		protocol.OsuStopSpectating: {
			handle: r.handleStopSpectating,
		},
		protocol.OsuSpectateFrames: {
			schema: protocol.Schema{{Name: "frames", Type: protocol.TypeReplayFrameBundle}},
			handle: r.handleSpectateFrames,
		},
		protocol.OsuCantSpectate: {
			handle: r.handleCantSpectate,
		},
		protocol.OsuSendPrivateMessage: {
			schema: protocol.Schema{{Name: "message", Type: protocol.TypeMessage}},
			handle: r.handlePrivateMessage,
		},
		protocol.OsuPartLobby: {
			handle: r.handlePartLobby,
		},
		protocol.OsuJoinLobby: {
			handle: r.handleJoinLobby,
		},
		protocol.OsuCreateMatch: {
			schema: protocol.Schema{{Name: "match", Type: protocol.TypeMatch}},
			handle: r.handleCreateMatch,
		},
		protocol.OsuJoinMatch: {
			schema: protocol.Schema{
				{Name: "match_id", Type: protocol.TypeI32},
				{Name: "password", Type: protocol.TypeString},
			},
			handle: r.handleJoinMatch,
		},
		protocol.OsuPartMatch: {
			handle: r.handlePartMatch,
		},
		protocol.OsuMatchChangeSlot: {
			schema: protocol.Schema{{Name: "slot_id", Type: protocol.TypeI32}},
			handle: r.handleMatchChangeSlot,
		},
		protocol.OsuMatchReady: {
			handle: r.handleMatchReady,
		},
		protocol.OsuMatchLock: {
			schema: protocol.Schema{{Name: "slot_id", Type: protocol.TypeI32}},
			handle: r.handleMatchLock,
		},
		protocol.OsuMatchChangeSettings: {
			schema: protocol.Schema{{Name: "match", Type: protocol.TypeMatch}},
			handle: r.handleMatchChangeSettings,
		},
		protocol.OsuMatchStart: {
			handle: r.handleMatchStart,
		},
		protocol.OsuMatchScoreUpdate: {
			schema: protocol.Schema{{Name: "data", Type: protocol.TypeBytes}},
			handle: r.handleMatchScoreUpdate,
		},
		protocol.OsuMatchComplete: {
			handle: r.handleMatchComplete,
		},
		protocol.OsuMatchChangeMods: {
			schema: protocol.Schema{{Name: "mods", Type: protocol.TypeI32}},
			handle: r.handleMatchChangeMods,
		},
		protocol.OsuMatchLoadComplete: {
			handle: r.handleMatchLoadComplete,
		},
		protocol.OsuMatchNoBeatmap: {
			handle: r.handleMatchNoBeatmap,
		},
		protocol.OsuMatchNotReady: {
			handle: r.handleMatchNotReady,
		},
		protocol.OsuMatchFailed: {
			handle: r.handleMatchFailed,
		},
		protocol.OsuMatchHasBeatmap: {
			handle: r.handleMatchHasBeatmap,
		},
		protocol.OsuMatchSkipRequest: {
			handle: r.handleMatchSkipRequest,
		},
		protocol.OsuChannelJoin: {
			schema:     protocol.Schema{{Name: "channel", Type: protocol.TypeString}},
			handle:     r.handleChannelJoin,
			restricted: true,
		},
		protocol.OsuMatchTransferHost: {
			schema: protocol.Schema{{Name: "slot_id", Type: protocol.TypeI32}},
			handle: r.handleMatchTransferHost,
		},
		protocol.OsuFriendAdd: {
			schema: protocol.Schema{{Name: "target_id", Type: protocol.TypeI32}},
			handle: r.handleFriendAdd,
		},
		protocol.OsuFriendRemove: {
			schema: protocol.Schema{{Name: "target_id", Type: protocol.TypeI32}},
			handle: r.handleFriendRemove,
		},
		protocol.OsuMatchChangeTeam: {
			handle: r.handleMatchChangeTeam,
		},
		protocol.OsuChannelPart: {
			schema:     protocol.Schema{{Name: "channel", Type: protocol.TypeString}},
			handle:     r.handleChannelPart,
			restricted: true,
		},
		protocol.OsuReceiveUpdates: {
			schema:     protocol.Schema{{Name: "value", Type: protocol.TypeI32}},
			handle:     r.handleReceiveUpdates,
			restricted: true,
		},
		protocol.OsuSetAwayMessage: {
			schema: protocol.Schema{{Name: "message", Type: protocol.TypeMessage}},
			handle: r.handleSetAwayMessage,
		},
		protocol.OsuUserStatsRequest: {
			schema:     protocol.Schema{{Name: "session_ids", Type: protocol.TypeI32List}},
			handle:     r.handleUserStatsRequest,
			restricted: true,
		},
		protocol.OsuMatchInvite: {
			schema: protocol.Schema{{Name: "target_id", Type: protocol.TypeI32}},
			handle: r.handleMatchInvite,
		},
		protocol.OsuMatchChangePassword: {
			schema: protocol.Schema{{Name: "match", Type: protocol.TypeMatch}},
			handle: r.handleMatchChangePassword,
		},
		protocol.OsuTournamentMatchInfoRequest: {
			schema: protocol.Schema{{Name: "match_id", Type: protocol.TypeI32}},
			handle: r.handleTourneyMatchInfo,
		},
		protocol.OsuUserPresenceRequest: {
			schema:     protocol.Schema{{Name: "session_ids", Type: protocol.TypeI32List}},
			handle:     r.handleUserPresenceRequest,
			restricted: true,
		},
		protocol.OsuUserPresenceRequestAll: {
			handle: r.handleUserPresenceRequestAll,
		},
		protocol.OsuToggleBlockNonFriendDms: {
			schema: protocol.Schema{{Name: "value", Type: protocol.TypeI32}},
			handle: r.handleToggleDMs,
		},
		protocol.OsuTournamentJoinMatchChannel: {
			schema: protocol.Schema{{Name: "match_id", Type: protocol.TypeI32}},
			handle: r.handleTourneyJoinChannel,
		},
		protocol.OsuTournamentLeaveMatchChannel: {
			schema: protocol.Schema{{Name: "match_id", Type: protocol.TypeI32}},
			handle: r.handleTourneyLeaveChannel,
		},
	}
	return r
}

// HandleRequest splits an incoming batch into packets, dispatches each
// onto its handler and returns the session's drained outbound queue.
// Unknown ids and payloads shorter than their declared length are
// skipped; a session mutated by at least one non-logout handler is
// persisted once at the end.
func (r *Router) HandleRequest(ctx context.Context, session *model.Session, body []byte) ([]byte, error) {
	var dispatched int
	var sawLogout bool

	for len(body) >= protocol.HeaderSize {
		id, length := protocol.ParseHeader(body)
		if length > len(body)-protocol.HeaderSize {
			r.log.Warn().Stringer("packet", id).Int("declared", length).
				Int("remaining", len(body)-protocol.HeaderSize).
				Msg("truncated packet payload, dropping rest of batch")
			break
		}

		payload := body[protocol.HeaderSize : protocol.HeaderSize+length]
		body = body[protocol.HeaderSize+length:]

		rt, ok := r.routes[id]
		if !ok || (session.Restricted() && !rt.restricted) {
			continue
		}

		p, err := protocol.DecodePayload(payload, rt.schema)
		if err != nil {
			r.log.Warn().Err(err).Stringer("packet", id).Int32("user", session.ID).
				Msg("dropping malformed packet")
			continue
		}

		if id == protocol.OsuLogout {
			sawLogout = true
		}
		if err := rt.handle(ctx, session, p); err != nil {
			return nil, fmt.Errorf("handle %s: %w", id, err)
		}
		dispatched++
		r.metrics.Packets.WithLabelValues(id.String()).Inc()
		r.log.Debug().Stringer("packet", id).Int32("user", session.ID).Msg("packet handled")
	}

	// A logout deleted the session; writing it back would resurrect
	// the hashes.
	if dispatched > 0 && !sawLogout {
		if err := r.sessions.Update(ctx, session); err != nil {
			return nil, err
		}
	}
	return r.sessions.Dequeue(ctx, session.ID)
}

func containsID(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int32, id int32) []int32 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func removeString(values []string, value string) []string {
	out := values[:0]
	for _, v := range values {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
