package bancho

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/store"
)

// Pub/sub channels other services publish on to reach online players.
const (
	pubSubNotification = "herbert:notification"
	pubSubDisconnect   = "herbert:disconnect"
	pubSubRestrict     = "herbert:restrict"
	pubSubUnrestrict   = "herbert:unrestrict"
)

// PubSub applies administrative events from the rest of the stack:
// notifications, forced disconnects and restriction flips.
type PubSub struct {
	kv     store.KV
	router *Router
	log    zerolog.Logger
}

func NewPubSub(kv store.KV, router *Router, log zerolog.Logger) *PubSub {
	return &PubSub{kv: kv, router: router, log: log}
}

// Run consumes events until ctx is cancelled. Individual event
// failures are logged and skipped.
func (p *PubSub) Run(ctx context.Context) error {
	sub, err := p.kv.Subscribe(ctx, pubSubNotification, pubSubDisconnect, pubSubRestrict, pubSubUnrestrict)
	if err != nil {
		return fmt.Errorf("subscribing: %w", err)
	}
	defer sub.Close()

	p.log.Info().Msg("pubsub consumer running")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		channel, payload, err := sub.Receive(ctx, time.Second)
		if errors.Is(err, store.ErrNoMessage) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.log.Warn().Err(err).Msg("pubsub receive failed")
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if err := p.dispatch(ctx, channel, payload); err != nil {
			p.log.Error().Err(err).Str("channel", channel).
				Str("payload", payload).Msg("pubsub event failed")
		}
	}
}

func (p *PubSub) dispatch(ctx context.Context, channel, payload string) error {
	switch channel {
	case pubSubNotification:
		return p.notify(ctx, payload)
	case pubSubDisconnect:
		return p.disconnect(ctx, payload)
	case pubSubRestrict:
		return p.restrict(ctx, payload)
	case pubSubUnrestrict:
		return p.unrestrict(ctx, payload)
	}
	return nil
}

// notify pushes a server notification to one user. The payload is
// "<user id>,<text>".
func (p *PubSub) notify(ctx context.Context, payload string) error {
	idStr, text, ok := strings.Cut(payload, ",")
	if !ok {
		return fmt.Errorf("malformed notification payload %q", payload)
	}
	userID, err := strconv.Atoi(idStr)
	if err != nil {
		return fmt.Errorf("malformed notification payload %q: %w", payload, err)
	}

	return p.router.sessions.Enqueue(ctx, int32(userID), serverpackets.Notification(text))
}

func (p *PubSub) disconnect(ctx context.Context, payload string) error {
	userID, err := strconv.Atoi(payload)
	if err != nil {
		return fmt.Errorf("malformed disconnect payload %q: %w", payload, err)
	}

	session, err := p.router.sessions.FetchByID(ctx, int32(userID))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	p.log.Info().Int32("user", session.ID).Msg("disconnecting user on request")
	return p.router.logout(ctx, session)
}

func (p *PubSub) restrict(ctx context.Context, payload string) error {
	userID, err := strconv.Atoi(payload)
	if err != nil {
		return fmt.Errorf("malformed restrict payload %q: %w", payload, err)
	}
	id := int32(userID)

	session, err := p.router.sessions.FetchByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		account, err := p.router.accounts.FetchByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return nil
		}
		return p.router.accounts.UpdatePrivileges(ctx, id, account.Privileges&^model.PrivUserPublic)
	}
	if err != nil {
		return err
	}

	session.Privileges &^= model.PrivUserPublic
	if err := p.router.accounts.UpdatePrivileges(ctx, id, session.Privileges); err != nil {
		return err
	}
	if err := p.router.sessions.Update(ctx, session); err != nil {
		return err
	}

	notice := append(
		serverpackets.AccountRestricted(),
		serverpackets.Notification(p.router.restrictionMessage)...,
	)
	if err := p.router.sessions.Enqueue(ctx, id, notice); err != nil {
		return err
	}

	p.log.Info().Int32("user", id).Msg("restricted user")
	return nil
}

func (p *PubSub) unrestrict(ctx context.Context, payload string) error {
	userID, err := strconv.Atoi(payload)
	if err != nil {
		return fmt.Errorf("malformed unrestrict payload %q: %w", payload, err)
	}
	id := int32(userID)

	session, err := p.router.sessions.FetchByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		account, err := p.router.accounts.FetchByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return nil
		}
		return p.router.accounts.UpdatePrivileges(ctx, id, account.Privileges|model.PrivUserPublic)
	}
	if err != nil {
		return err
	}

	session.Privileges |= model.PrivUserPublic
	if err := p.router.accounts.UpdatePrivileges(ctx, id, session.Privileges); err != nil {
		return err
	}
	if err := p.router.sessions.Update(ctx, session); err != nil {
		return err
	}

	p.log.Info().Int32("user", id).Msg("unrestricted user")
	return nil
}
