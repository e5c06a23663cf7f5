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

func matchChannelName(matchID int32) string {
	return fmt.Sprintf("#multi_%d", matchID)
}

// sessionMatch loads the match the session is seated in, nil when the
// session isn't in one. A dangling match id is a broken invariant and
// fails the request.
func (r *Router) sessionMatch(ctx context.Context, session *model.Session) (*model.Match, error) {
	if session.Match == 0 {
		return nil, nil
	}
	match, err := r.matches.FetchByID(ctx, session.Match)
	if err != nil {
		return nil, fmt.Errorf("fetching match %d: %w", session.Match, err)
	}
	return match, nil
}

// matchSlot returns the session's slot, erroring when the seating
// invariant is broken.
func matchSlot(match *model.Match, sessionID int32) (*model.Slot, error) {
	slot := match.Slot(sessionID)
	if slot == nil {
		return nil, fmt.Errorf("session %d has no slot in match %d", sessionID, match.ID)
	}
	return slot, nil
}

// occupantsExcept lists the seated users whose slot status differs
// from the given one. In-game broadcasts use it as their immune list.
func occupantsExcept(match *model.Match, status model.SlotStatus) []int32 {
	var ids []int32
	for i := range match.Slots {
		slot := &match.Slots[i]
		if slot.Occupied() && slot.Status != status {
			ids = append(ids, slot.SessionID)
		}
	}
	return ids
}

// enqueueMatch fans data to the match chat's members minus the immune
// ids and, when lobby is set, to everyone in #lobby.
func (r *Router) enqueueMatch(ctx context.Context, matchID int32, data []byte, lobby bool, immune ...int32) error {
	channel, err := r.channels.FetchByName(ctx, matchChannelName(matchID))
	if err != nil {
		return fmt.Errorf("match %d chat channel: %w", matchID, err)
	}
	for _, id := range channel.Members {
		if containsID(immune, id) {
			continue
		}
		if err := r.sessions.Enqueue(ctx, id, data); err != nil {
			return err
		}
	}

	if !lobby {
		return nil
	}

	lobbyChannel, err := r.channels.FetchByName(ctx, "#lobby")
	if err != nil {
		return fmt.Errorf("lobby channel: %w", err)
	}
	for _, id := range lobbyChannel.Members {
		if err := r.sessions.Enqueue(ctx, id, data); err != nil {
			return err
		}
	}
	return nil
}

// joinMatch seats the session, joining the match chat and leaving
// #lobby. Denials answer with MATCH_JOIN_FAIL.
func (r *Router) joinMatch(ctx context.Context, session *model.Session, match *model.Match, password string) error {
	deny := func(reason string) error {
		r.log.Warn().Int32("user", session.ID).Int32("match", match.ID).Msg(reason)
		return r.sessions.Enqueue(ctx, session.ID, serverpackets.MatchJoinFail())
	}

	if session.Match != 0 {
		return deny("tried to join a match while already in one")
	}
	if match.HasTourneyClient(session.ID) {
		return deny("tourney clients cannot take a match slot")
	}

	slotIndex := 0
	if session.ID != match.HostID {
		if match.Password != "" && password != match.Password {
			return deny("wrong match password")
		}
		slotIndex = match.FirstOpenSlot()
		if slotIndex == -1 {
			return deny("match is full")
		}
	}

	channel, err := r.channels.FetchByName(ctx, match.ChatName())
	if err != nil {
		return fmt.Errorf("match %d chat channel: %w", match.ID, err)
	}
	if _, err := r.joinChannel(ctx, session, channel); err != nil {
		return err
	}

	if session.InChannel("#lobby") {
		if err := r.leaveChannel(ctx, session, "#lobby"); err != nil {
			return err
		}
	}

	slot := &match.Slots[slotIndex]
	slot.SessionID = session.ID
	slot.Status = model.SlotNotReady
	if match.TeamType == model.TeamTypeTeamVS || match.TeamType == model.TeamTypeTagTeamVS {
		slot.Team = model.TeamRed
	}

	session.Match = match.ID

	if err := r.sessions.Enqueue(ctx, session.ID, serverpackets.MatchJoinSuccess(match)); err != nil {
		return err
	}
	if err := r.matches.Update(ctx, match, true); err != nil {
		return err
	}

	r.log.Info().Int32("user", session.ID).Int32("match", match.ID).Msg("joined match")
	return nil
}

// leaveMatch vacates the session's slot. An emptied match is disposed;
// otherwise host duties fall to the first occupied slot.
func (r *Router) leaveMatch(ctx context.Context, session *model.Session, match *model.Match) error {
	slot := match.Slot(session.ID)
	if slot == nil {
		r.log.Warn().Int32("user", session.ID).Int32("match", match.ID).
			Msg("tried to leave a match without a slot")
		return nil
	}

	status := model.SlotOpen
	if slot.Status == model.SlotLocked {
		status = model.SlotLocked
	}
	slot.Reset(status)

	session.Match = 0
	if err := r.leaveChannel(ctx, session, match.ChatName()); err != nil {
		return err
	}

	if match.Empty() {
		if err := r.matches.Delete(ctx, match); err != nil {
			return err
		}

		lobby, err := r.channels.FetchByName(ctx, "#lobby")
		if errors.Is(err, store.ErrNotFound) {
			r.log.Info().Int32("match", match.ID).Msg("match disposed")
			return nil
		}
		if err != nil {
			return err
		}

		dispose := serverpackets.DisposeMatch(match.ID)
		for _, id := range lobby.Members {
			if err := r.sessions.Enqueue(ctx, id, dispose); err != nil {
				return err
			}
		}
		r.log.Info().Int32("match", match.ID).Msg("match disposed")
		return nil
	}

	if session.ID == match.HostID {
		for i := range match.Slots {
			if match.Slots[i].Occupied() {
				match.HostID = match.Slots[i].SessionID
				break
			}
		}
		if err := r.sessions.Enqueue(ctx, match.HostID, serverpackets.MatchTransferHost()); err != nil {
			return err
		}
	}

	match.Referees = removeID(match.Referees, session.ID)
	return r.matches.Update(ctx, match, true)
}

// startMatch moves every seated player without a missing map into
// PLAYING and announces the start to them.
func (r *Router) startMatch(ctx context.Context, match *model.Match) error {
	var missingMap []int32
	for i := range match.Slots {
		slot := &match.Slots[i]
		if !slot.Occupied() {
			continue
		}
		if slot.Status != model.SlotNoMap {
			slot.Status = model.SlotPlaying
		} else {
			missingMap = append(missingMap, slot.SessionID)
		}
	}

	match.InProgress = true
	if err := r.enqueueMatch(ctx, match.ID, serverpackets.MatchStart(match), false, missingMap...); err != nil {
		return err
	}
	return r.matches.Update(ctx, match, true)
}

func (r *Router) handleCreateMatch(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	if session.Silenced() {
		reply := append(
			serverpackets.MatchJoinFail(),
			serverpackets.Notification("Multiplayer is not available while silenced.")...,
		)
		return r.sessions.Enqueue(ctx, session.ID, reply)
	}

	id, err := r.matches.NextID(ctx)
	if err != nil {
		return err
	}

	settings := p.Match("match")
	match := model.NewMatch()
	match.ID = id
	match.Name = settings.Name
	match.Password = settings.Password
	match.HostID = session.ID
	match.Mods = session.Status.Mods
	match.Mode = session.Status.Mode
	match.MapID = settings.MapID
	match.MapMD5 = settings.MapMD5
	match.MapName = settings.MapName
	match.Freemod = settings.Freemod
	match.Seed = settings.Seed

	channel := &model.Channel{
		Name:        match.ChatName(),
		Description: fmt.Sprintf("Channel for multiplayer ID %d", match.ID),
		PublicRead:  true,
		PublicWrite: true,
		Hidden:      true,
		Temp:        true,
	}
	if err := r.channels.Update(ctx, channel); err != nil {
		return err
	}

	if err := r.joinMatch(ctx, session, match, match.Password); err != nil {
		return err
	}

	r.log.Info().Int32("user", session.ID).Int32("match", match.ID).
		Str("name", match.Name).Msg("created match")
	return nil
}

func (r *Router) handleJoinMatch(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	if session.Silenced() {
		reply := append(
			serverpackets.MatchJoinFail(),
			serverpackets.Notification("Multiplayer is not available while silenced.")...,
		)
		return r.sessions.Enqueue(ctx, session.ID, reply)
	}

	matchID := p.I32("match_id")
	match, err := r.matches.FetchByID(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Int32("match", matchID).
			Msg("tried to join non-existent match")
		return r.sessions.Enqueue(ctx, session.ID, serverpackets.MatchJoinFail())
	}
	if err != nil {
		return err
	}

	return r.joinMatch(ctx, session, match, p.Str("password"))
}

func (r *Router) handlePartMatch(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	if session.Match == 0 {
		r.log.Warn().Int32("user", session.ID).Msg("tried to leave a match without being in one")
		return nil
	}

	match, err := r.matches.FetchByID(ctx, session.Match)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Int32("match", session.Match).
			Msg("tried to leave non-existent match")
		return nil
	}
	if err != nil {
		return err
	}

	return r.leaveMatch(ctx, session, match)
}

func (r *Router) handleMatchChangeSlot(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slotID := p.I32("slot_id")
	if slotID < 0 || slotID >= model.MatchSlots {
		return nil
	}

	oldSlot, err := matchSlot(match, session.ID)
	if err != nil {
		return err
	}

	newSlot := &match.Slots[slotID]
	if newSlot.Status != model.SlotOpen {
		return nil
	}

	newSlot.CopyFrom(*oldSlot)
	oldSlot.Reset(model.SlotOpen)

	return r.matches.Update(ctx, match, true)
}

func (r *Router) handleMatchReady(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slot, err := matchSlot(match, session.ID)
	if err != nil {
		return err
	}

	slot.Status = model.SlotReady
	return r.matches.Update(ctx, match, true)
}

func (r *Router) handleMatchLock(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slotID := p.I32("slot_id")
	if slotID < 0 || slotID >= model.MatchSlots {
		return nil
	}

	if session.ID != match.HostID {
		r.log.Warn().Int32("user", session.ID).Int32("match", match.ID).
			Msg("tried to lock slot as non-host")
		return nil
	}

	slot := &match.Slots[slotID]
	if slot.Status == model.SlotLocked {
		slot.Status = model.SlotOpen
	} else {
		// The host's own occupied slot stays as is.
		if slot.SessionID == session.ID {
			return nil
		}
		slot.Status = model.SlotLocked
	}

	return r.matches.Update(ctx, match, true)
}

func (r *Router) handleMatchChangeSettings(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	if session.ID != match.HostID {
		r.log.Warn().Int32("user", session.ID).Int32("match", match.ID).
			Msg("tried to change match settings as non-host")
		return nil
	}

	settings := p.Match("match")

	if settings.Freemod != match.Freemod {
		match.Freemod = settings.Freemod

		if settings.Freemod {
			for i := range match.Slots {
				if match.Slots[i].Occupied() {
					match.Slots[i].Mods = match.Mods &^ model.SpeedMods
				}
			}
			match.Mods &= model.SpeedMods
		} else {
			hostSlot, err := matchSlot(match, match.HostID)
			if err != nil {
				return err
			}
			hostSlot.Mods &= model.SpeedMods
			match.Mods |= hostSlot.Mods

			for i := range match.Slots {
				if match.Slots[i].Occupied() {
					match.Slots[i].Mods = 0
				}
			}
		}
	}

	if settings.MapID == -1 {
		match.UnreadyUsers(model.SlotReady)
		match.PreviousMapID = match.MapID

		match.MapID = -1
		match.MapMD5 = ""
		match.MapName = ""
	} else if match.MapID == -1 {
		match.MapID = settings.MapID
		match.MapMD5 = settings.MapMD5
		match.MapName = settings.MapName
		match.Mode = settings.Mode
	}

	if match.TeamType != settings.TeamType {
		team := model.TeamRed
		if settings.TeamType == model.TeamTypeHeadToHead || settings.TeamType == model.TeamTypeTagCoop {
			team = model.TeamNeutral
		}
		for i := range match.Slots {
			if match.Slots[i].Occupied() {
				match.Slots[i].Team = team
			}
		}
		match.TeamType = settings.TeamType
	}

	match.WinCondition = settings.WinCondition
	match.Name = settings.Name

	return r.matches.Update(ctx, match, true)
}

func (r *Router) handleMatchStart(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	if session.ID != match.HostID {
		r.log.Warn().Int32("user", session.ID).Int32("match", match.ID).
			Msg("tried to start match as non-host")
		return nil
	}

	return r.startMatch(ctx, match)
}

func (r *Router) handleMatchScoreUpdate(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slotIdx := match.SlotIndex(session.ID)
	if slotIdx == -1 {
		return fmt.Errorf("session %d has no slot in match %d", session.ID, match.ID)
	}

	frame := serverpackets.MatchScoreUpdate(p.Bytes("data"), slotIdx)
	return r.enqueueMatch(ctx, match.ID, frame, false,
		occupantsExcept(match, model.SlotPlaying)...)
}

func (r *Router) handleMatchComplete(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slot, err := matchSlot(match, session.ID)
	if err != nil {
		return err
	}
	slot.Status = model.SlotComplete

	for i := range match.Slots {
		if match.Slots[i].Status == model.SlotPlaying {
			return r.matches.Update(ctx, match, false)
		}
	}

	notFinished := occupantsExcept(match, model.SlotComplete)
	match.UnreadyUsers(model.SlotComplete)
	match.InProgress = false

	if err := r.enqueueMatch(ctx, match.ID, serverpackets.MatchComplete(), false, notFinished...); err != nil {
		return err
	}
	return r.matches.Update(ctx, match, true)
}

func (r *Router) handleMatchLoadComplete(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slot, err := matchSlot(match, session.ID)
	if err != nil {
		return err
	}
	slot.Loaded = true
	if err := r.matches.Update(ctx, match, false); err != nil {
		return err
	}

	for i := range match.Slots {
		if match.Slots[i].Status == model.SlotPlaying && !match.Slots[i].Loaded {
			return nil
		}
	}

	return r.enqueueMatch(ctx, match.ID, serverpackets.MatchAllPlayersLoaded(), false,
		occupantsExcept(match, model.SlotPlaying)...)
}

func (r *Router) handleMatchNoBeatmap(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slot, err := matchSlot(match, session.ID)
	if err != nil {
		return err
	}

	slot.Status = model.SlotNoMap
	return r.matches.Update(ctx, match, false)
}

func (r *Router) handleMatchNotReady(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slot, err := matchSlot(match, session.ID)
	if err != nil {
		return err
	}

	slot.Status = model.SlotNotReady
	return r.matches.Update(ctx, match, false)
}

func (r *Router) handleMatchHasBeatmap(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slot, err := matchSlot(match, session.ID)
	if err != nil {
		return err
	}

	slot.Status = model.SlotNotReady
	return r.matches.Update(ctx, match, false)
}

func (r *Router) handleMatchFailed(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slotIdx := match.SlotIndex(session.ID)
	if slotIdx == -1 {
		return fmt.Errorf("session %d has no slot in match %d", session.ID, match.ID)
	}

	failed := serverpackets.MatchPlayerFailed(int32(slotIdx))
	if err := r.enqueueMatch(ctx, match.ID, failed, false,
		occupantsExcept(match, model.SlotPlaying)...); err != nil {
		return err
	}
	return r.matches.Update(ctx, match, false)
}

func (r *Router) handleMatchSkipRequest(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slot, err := matchSlot(match, session.ID)
	if err != nil {
		return err
	}
	slot.Skipped = true
	if err := r.matches.Update(ctx, match, false); err != nil {
		return err
	}

	skipped := serverpackets.MatchPlayerSkipped(session.ID)
	if err := r.enqueueMatch(ctx, match.ID, skipped, true); err != nil {
		return err
	}

	for i := range match.Slots {
		if match.Slots[i].Status == model.SlotPlaying && !match.Slots[i].Skipped {
			return nil
		}
	}

	return r.enqueueMatch(ctx, match.ID, serverpackets.MatchSkip(), false,
		occupantsExcept(match, model.SlotPlaying)...)
}

func (r *Router) handleMatchTransferHost(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slotID := p.I32("slot_id")
	if slotID < 0 || slotID >= model.MatchSlots {
		return nil
	}

	if session.ID != match.HostID {
		r.log.Warn().Int32("user", session.ID).Int32("match", match.ID).
			Msg("tried to transfer host as non-host")
		return nil
	}

	target := match.Slots[slotID].SessionID
	if target == 0 {
		r.log.Warn().Int32("user", session.ID).Int32("match", match.ID).
			Msg("tried to transfer host to empty slot")
		return nil
	}

	match.HostID = target
	if err := r.sessions.Enqueue(ctx, target, serverpackets.MatchTransferHost()); err != nil {
		return err
	}
	return r.matches.Update(ctx, match, true)
}

func (r *Router) handleMatchChangeTeam(ctx context.Context, session *model.Session, _ *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	slot, err := matchSlot(match, session.ID)
	if err != nil {
		return err
	}

	if slot.Team == model.TeamBlue {
		slot.Team = model.TeamRed
	} else {
		slot.Team = model.TeamBlue
	}

	return r.matches.Update(ctx, match, false)
}

func (r *Router) handleMatchChangeMods(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	mods := model.Mods(p.I32("mods"))
	if match.Freemod {
		if session.ID == match.HostID {
			match.Mods = mods & model.SpeedMods
		}
		slot, err := matchSlot(match, session.ID)
		if err != nil {
			return err
		}
		slot.Mods = mods &^ model.SpeedMods
	} else {
		if session.ID != match.HostID {
			r.log.Warn().Int32("user", session.ID).Int32("match", match.ID).
				Msg("tried to change match mods as non-host")
			return nil
		}
		match.Mods = mods
	}

	return r.matches.Update(ctx, match, true)
}

func (r *Router) handleMatchChangePassword(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	if session.ID != match.HostID {
		r.log.Warn().Int32("user", session.ID).Int32("match", match.ID).
			Msg("tried to change match password as non-host")
		return nil
	}

	match.Password = p.Match("match").Password
	if err := r.matches.Update(ctx, match, true); err != nil {
		return err
	}

	changed := serverpackets.MatchChangePassword(match.Password)
	return r.enqueueMatch(ctx, match.ID, changed, false)
}

func (r *Router) handleMatchInvite(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	match, err := r.sessionMatch(ctx, session)
	if err != nil || match == nil {
		return err
	}

	targetID := p.I32("target_id")
	target, err := r.sessions.FetchByID(ctx, targetID)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Int32("target", targetID).
			Msg("tried to invite an offline user to a match")
		return nil
	}
	if err != nil {
		return err
	}

	content := fmt.Sprintf("Join my multiplayer match: [osump://%d/%s %s]",
		match.ID, match.Password, match.Name)
	invite := serverpackets.MatchInvite(session.Name, session.ID, target.Name, content)
	if err := r.sessions.Enqueue(ctx, target.ID, invite); err != nil {
		return err
	}

	r.log.Info().Int32("user", session.ID).Int32("target", target.ID).
		Int32("match", match.ID).Msg("sent match invite")
	return nil
}

func (r *Router) handleTourneyMatchInfo(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	matchID := p.I32("match_id")
	match, err := r.matches.FetchByID(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Int32("match", matchID).
			Msg("tourney info request for non-existent match")
		return nil
	}
	if err != nil {
		return err
	}

	return r.sessions.Enqueue(ctx, session.ID, serverpackets.UpdateMatch(match, false))
}

func (r *Router) handleTourneyJoinChannel(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	matchID := p.I32("match_id")
	match, err := r.matches.FetchByID(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Int32("match", matchID).
			Msg("tourney join of non-existent match")
		return nil
	}
	if err != nil {
		return err
	}

	// Seated players already have the chat.
	if match.SlotIndex(session.ID) != -1 {
		return nil
	}

	channel, err := r.channels.FetchByName(ctx, matchChannelName(matchID))
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("match", matchID).Msg("match chat channel missing")
		return nil
	}
	if err != nil {
		return err
	}

	joined, err := r.joinChannel(ctx, session, channel)
	if err != nil {
		return err
	}
	if joined && !match.HasTourneyClient(session.ID) {
		match.TourneyClients = append(match.TourneyClients, session.ID)
		return r.matches.Update(ctx, match, false)
	}
	return nil
}

func (r *Router) handleTourneyLeaveChannel(ctx context.Context, session *model.Session, p *protocol.Payload) error {
	matchID := p.I32("match_id")
	match, err := r.matches.FetchByID(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		r.log.Warn().Int32("user", session.ID).Int32("match", matchID).
			Msg("tourney leave of non-existent match")
		return nil
	}
	if err != nil {
		return err
	}

	if match.SlotIndex(session.ID) != -1 {
		return nil
	}

	if err := r.leaveChannel(ctx, session, matchChannelName(matchID)); err != nil {
		return err
	}

	match.TourneyClients = removeID(match.TourneyClients, session.ID)
	return r.matches.Update(ctx, match, false)
}
