package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/model"
)

// AccountRepository is the persistent account backend the session
// store rehydrates from.
type AccountRepository interface {
	FetchByID(ctx context.Context, id int32) (*model.Account, error)
	FetchByName(ctx context.Context, name string) (*model.Account, error)
	UpdatePrivileges(ctx context.Context, userID int32, privileges model.Privileges) error
	ClearFreeze(ctx context.Context, userID int32) error
	AddFriend(ctx context.Context, userID, friendID int32) error
	RemoveFriend(ctx context.Context, userID, friendID int32) error
}

// StatsRepository provides per-mode stats snapshots.
type StatsRepository interface {
	Fetch(ctx context.Context, userID int32, mode model.Mode) (*model.Stats, error)
}

// Sessions stores logged-in clients. Runtime fields live as JSON in
// three hashes (by id, safe name and token); account fields are
// rehydrated from the account repository on every read so privilege
// changes take effect immediately.
type Sessions struct {
	kv       KV
	accounts AccountRepository
	stats    StatsRepository
	log      zerolog.Logger
}

func NewSessions(kv KV, accounts AccountRepository, stats StatsRepository, log zerolog.Logger) *Sessions {
	return &Sessions{kv: kv, accounts: accounts, stats: stats, log: log}
}

// sessionRecord is the JSON shape persisted to the hashes. It carries
// the account id so reads know what to rehydrate.
type sessionRecord struct {
	ID             int32                `json:"id"`
	Token          string               `json:"token"`
	LoginTime      int64                `json:"login_time"`
	UTCOffset      int32                `json:"utc_offset"`
	Geolocation    model.Geolocation    `json:"geolocation"`
	Status         model.Status         `json:"status"`
	PresenceFilter model.PresenceFilter `json:"presence_filter"`
	Channels       []string             `json:"channels"`
	Spectators     []int32              `json:"spectators"`
	SpectatorHost  int32                `json:"spectating"`
	Match          int32                `json:"match"`
	FriendOnlyDMs  bool                 `json:"friend_only_dms"`
	InLobby        bool                 `json:"in_lobby"`
	AwayMessage    string               `json:"away_msg"`
	LastNpID       int32                `json:"last_np_id"`
	LastNpMode     model.Mode           `json:"last_np_mode"`
	ClientVersion  model.OsuVersion     `json:"client_version"`
	Hardware       model.HardwareInfo   `json:"hardware"`
}

func newSessionRecord(s *model.Session) sessionRecord {
	return sessionRecord{
		ID:             s.ID,
		Token:          s.Token,
		LoginTime:      s.LoginTime,
		UTCOffset:      s.UTCOffset,
		Geolocation:    s.Geolocation,
		Status:         s.Status,
		PresenceFilter: s.PresenceFilter,
		Channels:       s.Channels,
		Spectators:     s.Spectators,
		SpectatorHost:  s.SpectatorHost,
		Match:          s.Match,
		FriendOnlyDMs:  s.FriendOnlyDMs,
		InLobby:        s.InLobby,
		AwayMessage:    s.AwayMessage,
		LastNpID:       s.LastNpID,
		LastNpMode:     s.LastNpMode,
		ClientVersion:  s.ClientVersion,
		Hardware:       s.Hardware,
	}
}

func (r sessionRecord) session(account *model.Account) *model.Session {
	return &model.Session{
		Account:        *account,
		Token:          r.Token,
		LoginTime:      r.LoginTime,
		UTCOffset:      r.UTCOffset,
		Geolocation:    r.Geolocation,
		Status:         r.Status,
		PresenceFilter: r.PresenceFilter,
		Channels:       r.Channels,
		Spectators:     r.Spectators,
		SpectatorHost:  r.SpectatorHost,
		Match:          r.Match,
		FriendOnlyDMs:  r.FriendOnlyDMs,
		InLobby:        r.InLobby,
		AwayMessage:    r.AwayMessage,
		LastNpID:       r.LastNpID,
		LastNpMode:     r.LastNpMode,
		ClientVersion:  r.ClientVersion,
		Hardware:       r.Hardware,
	}
}

func (s *Sessions) rehydrate(ctx context.Context, data []byte) (*model.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}

	account, err := s.accounts.FetchByID(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch account %d: %w", rec.ID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("session %d has no backing account", rec.ID)
	}
	return rec.session(account), nil
}

func (s *Sessions) FetchByID(ctx context.Context, id int32) (*model.Session, error) {
	data, err := s.kv.HGet(ctx, keySessionsByID, strconv.Itoa(int(id)))
	if err != nil {
		return nil, err
	}
	return s.rehydrate(ctx, data)
}

func (s *Sessions) FetchByName(ctx context.Context, name string) (*model.Session, error) {
	data, err := s.kv.HGet(ctx, keySessionsByName, model.SafeName(name))
	if err != nil {
		return nil, err
	}
	return s.rehydrate(ctx, data)
}

func (s *Sessions) FetchByToken(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.kv.HGet(ctx, keySessionsByToken, token)
	if err != nil {
		return nil, err
	}
	return s.rehydrate(ctx, data)
}

func (s *Sessions) FetchAll(ctx context.Context) ([]*model.Session, error) {
	records, err := s.kv.HGetAll(ctx, keySessionsByToken)
	if err != nil {
		return nil, err
	}

	sessions := make([]*model.Session, 0, len(records))
	for _, data := range records {
		session, err := s.rehydrate(ctx, data)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Create builds a fresh session for an authenticated account and
// persists it. The token is the client's auth handle for the rest of
// the connection.
func (s *Sessions) Create(
	ctx context.Context,
	account *model.Account,
	geolocation model.Geolocation,
	utcOffset int32,
	friendOnlyDMs bool,
	clientVersion model.OsuVersion,
	hardware model.HardwareInfo,
) (*model.Session, error) {
	session := &model.Session{
		Account:       *account,
		Token:         uuid.NewString(),
		LoginTime:     time.Now().UnixMilli(),
		UTCOffset:     utcOffset,
		Geolocation:   geolocation,
		FriendOnlyDMs: friendOnlyDMs,
		ClientVersion: clientVersion,
		Hardware:      hardware,
	}

	if err := s.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Update rewrites the session's three hash entries under its lock,
// then fans the user's fresh stats and presence out to everyone.
func (s *Sessions) Update(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(newSessionRecord(session))
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	err = WithLock(ctx, s.kv, lockKey("sessions", strconv.Itoa(int(session.ID))), func() error {
		for key, field := range sessionFields(session) {
			if err := s.kv.HSet(ctx, key, field, data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update session %d: %w", session.ID, err)
	}

	stats, err := s.stats.Fetch(ctx, session.ID, session.Status.Mode)
	if err != nil {
		return fmt.Errorf("fetch stats for %d: %w", session.ID, err)
	}

	update := append(
		serverpackets.UserStats(session, stats),
		serverpackets.UserPresence(session, stats.Rank)...,
	)
	return s.EnqueueAll(ctx, update)
}

// Delete drops the session's hash entries and its session-list slot.
// The packet queue is left to the logout flow.
func (s *Sessions) Delete(ctx context.Context, session *model.Session) error {
	err := WithLock(ctx, s.kv, lockKey("sessions", strconv.Itoa(int(session.ID))), func() error {
		for key, field := range sessionFields(session) {
			if err := s.kv.HDel(ctx, key, field); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session %d: %w", session.ID, err)
	}

	return s.RemoveFromSessionList(ctx, session)
}

func sessionFields(session *model.Session) map[string]string {
	return map[string]string{
		keySessionsByID:    strconv.Itoa(int(session.ID)),
		keySessionsByName:  session.SafeName(),
		keySessionsByToken: session.Token,
	}
}

// AddToSessionList persists the session and pushes its id onto the
// global online list.
func (s *Sessions) AddToSessionList(ctx context.Context, session *model.Session) error {
	if err := s.Update(ctx, session); err != nil {
		return err
	}

	err := WithLock(ctx, s.kv, lockKey("session_list"), func() error {
		return s.kv.LPush(ctx, keySessionList, strconv.Itoa(int(session.ID)))
	})
	if err != nil {
		return fmt.Errorf("add %d to session list: %w", session.ID, err)
	}
	return nil
}

func (s *Sessions) RemoveFromSessionList(ctx context.Context, session *model.Session) error {
	err := WithLock(ctx, s.kv, lockKey("session_list"), func() error {
		return s.kv.LRem(ctx, keySessionList, 0, strconv.Itoa(int(session.ID)))
	})
	if err != nil {
		return fmt.Errorf("remove %d from session list: %w", session.ID, err)
	}
	return nil
}

// SessionList returns the ids currently on the online list.
func (s *Sessions) SessionList(ctx context.Context) ([]int32, error) {
	raw, err := s.kv.LRange(ctx, keySessionList, 0, -1)
	if err != nil {
		return nil, err
	}

	ids := make([]int32, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("bad session list entry %q: %w", v, err)
		}
		ids = append(ids, int32(id))
	}
	return ids, nil
}

// Enqueue appends framed packets to a user's outbound queue.
func (s *Sessions) Enqueue(ctx context.Context, userID int32, data []byte) error {
	err := WithLock(ctx, s.kv, lockKey("queues", strconv.Itoa(int(userID))), func() error {
		return s.kv.Append(ctx, queueKey(userID), data)
	})
	if err != nil {
		return fmt.Errorf("enqueue for %d: %w", userID, err)
	}
	return nil
}

// Dequeue drains and clears a user's outbound queue.
func (s *Sessions) Dequeue(ctx context.Context, userID int32) ([]byte, error) {
	var data []byte
	err := WithLock(ctx, s.kv, lockKey("queues", strconv.Itoa(int(userID))), func() error {
		queued, err := s.kv.Get(ctx, queueKey(userID))
		if err == ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		data = queued
		return s.kv.Del(ctx, queueKey(userID))
	})
	if err != nil {
		return nil, fmt.Errorf("dequeue for %d: %w", userID, err)
	}
	return data, nil
}

// EnqueueAll appends data to every online session's queue except the
// immune ids.
func (s *Sessions) EnqueueAll(ctx context.Context, data []byte, immune ...int32) error {
	sessions, err := s.FetchAll(ctx)
	if err != nil {
		return err
	}

	for _, session := range sessions {
		if containsID(immune, session.ID) {
			continue
		}
		if err := s.Enqueue(ctx, session.ID, data); err != nil {
			return err
		}
	}
	return nil
}

func containsID(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
