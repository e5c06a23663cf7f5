package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/herbe-rt/bancho/internal/bancho/serverpackets"
	"github.com/herbe-rt/bancho/internal/model"
)

// Channels stores chat channels as JSON in a single hash keyed by
// safe channel name.
type Channels struct {
	kv       KV
	sessions *Sessions
	log      zerolog.Logger
}

func NewChannels(kv KV, sessions *Sessions, log zerolog.Logger) *Channels {
	return &Channels{kv: kv, sessions: sessions, log: log}
}

// Initialise seeds the configured channels. Names already present are
// left alone so concurrent processes don't clobber live memberships.
func (c *Channels) Initialise(ctx context.Context, seeds []model.Channel) error {
	for _, seed := range seeds {
		_, err := c.FetchByName(ctx, seed.Name)
		if err == nil {
			continue
		}
		if err != ErrNotFound {
			return fmt.Errorf("check channel %s: %w", seed.Name, err)
		}

		seed.Members = nil
		if err := c.Update(ctx, &seed); err != nil {
			return fmt.Errorf("seed channel %s: %w", seed.Name, err)
		}
		c.log.Info().Str("channel", seed.Name).Msg("channel initialised")
	}
	return nil
}

func (c *Channels) FetchByName(ctx context.Context, name string) (*model.Channel, error) {
	data, err := c.kv.HGet(ctx, keyChannels, model.SafeName(name))
	if err != nil {
		return nil, err
	}

	var channel model.Channel
	if err := json.Unmarshal(data, &channel); err != nil {
		return nil, fmt.Errorf("unmarshal channel record: %w", err)
	}
	return &channel, nil
}

func (c *Channels) FetchAll(ctx context.Context) ([]*model.Channel, error) {
	records, err := c.kv.HGetAll(ctx, keyChannels)
	if err != nil {
		return nil, err
	}

	channels := make([]*model.Channel, 0, len(records))
	for _, data := range records {
		var channel model.Channel
		if err := json.Unmarshal(data, &channel); err != nil {
			return nil, fmt.Errorf("unmarshal channel record: %w", err)
		}
		channels = append(channels, &channel)
	}
	return channels, nil
}

// Update persists the channel under its lock and refreshes the client
// channel listing: members only for temp channels, every session that
// may read the channel otherwise.
func (c *Channels) Update(ctx context.Context, channel *model.Channel) error {
	data, err := json.Marshal(channel)
	if err != nil {
		return fmt.Errorf("marshal channel record: %w", err)
	}

	safeName := model.SafeName(channel.Name)
	err = WithLock(ctx, c.kv, lockKey("channels", safeName), func() error {
		return c.kv.HSet(ctx, keyChannels, safeName, data)
	})
	if err != nil {
		return fmt.Errorf("update channel %s: %w", channel.Name, err)
	}

	info := serverpackets.ChannelInfo(channel)
	if channel.Temp {
		for _, id := range channel.Members {
			if err := c.sessions.Enqueue(ctx, id, info); err != nil {
				return err
			}
		}
		return nil
	}

	sessions, err := c.sessions.FetchAll(ctx)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if !channel.CanRead(session.Privileges) {
			continue
		}
		if err := c.sessions.Enqueue(ctx, session.ID, info); err != nil {
			return err
		}
	}
	return nil
}

// Delete drops the channel record. Kicking members is the caller's
// job.
func (c *Channels) Delete(ctx context.Context, channel *model.Channel) error {
	safeName := model.SafeName(channel.Name)
	err := WithLock(ctx, c.kv, lockKey("channels", safeName), func() error {
		return c.kv.HDel(ctx, keyChannels, safeName)
	})
	if err != nil {
		return fmt.Errorf("delete channel %s: %w", channel.Name, err)
	}
	return nil
}
