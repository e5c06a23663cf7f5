package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/model"
)

// Matches stores multiplayer rooms as JSON in two hashes, keyed by id
// and by name.
type Matches struct {
	kv       KV
	sessions *Sessions
	channels *Channels
	log      zerolog.Logger
}

func NewMatches(kv KV, sessions *Sessions, channels *Channels, log zerolog.Logger) *Matches {
	return &Matches{kv: kv, sessions: sessions, channels: channels, log: log}
}

func unmarshalMatch(data []byte) (*model.Match, error) {
	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, fmt.Errorf("unmarshal match record: %w", err)
	}
	return &match, nil
}

func (m *Matches) FetchByID(ctx context.Context, id int32) (*model.Match, error) {
	data, err := m.kv.HGet(ctx, keyMatchesByID, strconv.Itoa(int(id)))
	if err != nil {
		return nil, err
	}
	return unmarshalMatch(data)
}

func (m *Matches) FetchByName(ctx context.Context, name string) (*model.Match, error) {
	data, err := m.kv.HGet(ctx, keyMatchesByName, model.SafeName(name))
	if err != nil {
		return nil, err
	}
	return unmarshalMatch(data)
}

func (m *Matches) FetchAll(ctx context.Context) ([]*model.Match, error) {
	records, err := m.kv.HGetAll(ctx, keyMatchesByID)
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(records))
	for _, data := range records {
		match, err := unmarshalMatch(data)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// NextID allocates the next match id. Ids restart from 1 once all
// rooms are gone; 0 stays reserved for "no match".
func (m *Matches) NextID(ctx context.Context) (int32, error) {
	matches, err := m.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	var max int32
	for _, match := range matches {
		if match.ID > max {
			max = match.ID
		}
	}
	return max + 1, nil
}

// Update persists the match under its lock, then pushes the room state
// to its chat members with the password and, when the lobby listing
// changed, to lobby watchers without it. Both channels must exist for
// as long as the match does.
func (m *Matches) Update(ctx context.Context, match *model.Match, lobby bool) error {
	data, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("marshal match record: %w", err)
	}

	err = WithLock(ctx, m.kv, lockKey("matches", strconv.Itoa(int(match.ID))), func() error {
		if err := m.kv.HSet(ctx, keyMatchesByID, strconv.Itoa(int(match.ID)), data); err != nil {
			return err
		}
		return m.kv.HSet(ctx, keyMatchesByName, model.SafeName(match.Name), data)
	})
	if err != nil {
		return fmt.Errorf("update match %d: %w", match.ID, err)
	}

	chat, err := m.channels.FetchByName(ctx, match.ChatName())
	if err != nil {
		return fmt.Errorf("match %d chat channel: %w", match.ID, err)
	}

	withPW := serverpackets.UpdateMatch(match, true)
	for _, id := range chat.Members {
		if err := m.sessions.Enqueue(ctx, id, withPW); err != nil {
			return err
		}
	}

	if !lobby {
		return nil
	}

	lobbyChannel, err := m.channels.FetchByName(ctx, "#lobby")
	if err != nil {
		return fmt.Errorf("lobby channel: %w", err)
	}

	withoutPW := serverpackets.UpdateMatch(match, false)
	for _, id := range lobbyChannel.Members {
		if err := m.sessions.Enqueue(ctx, id, withoutPW); err != nil {
			return err
		}
	}
	return nil
}

// Delete drops the match records. Disposing the chat channel and
// notifying the lobby is the caller's job.
func (m *Matches) Delete(ctx context.Context, match *model.Match) error {
	err := WithLock(ctx, m.kv, lockKey("matches", strconv.Itoa(int(match.ID))), func() error {
		if err := m.kv.HDel(ctx, keyMatchesByID, strconv.Itoa(int(match.ID))); err != nil {
			return err
		}
		return m.kv.HDel(ctx, keyMatchesByName, model.SafeName(match.Name))
	})
	if err != nil {
		return fmt.Errorf("delete match %d: %w", match.ID, err)
	}
	return nil
}
