package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herbe-rt/bancho/internal/model"
	"github.com/herbe-rt/bancho/internal/protocol"
)

func TestChannels_InitialiseSeedsNewAndSkipsPresent(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	live := &model.Channel{Name: "#osu", PublicRead: true, PublicWrite: true, Members: []int32{5}}
	require.NoError(t, s.channels.Update(ctx, live))

	seeds := []model.Channel{
		{Name: "#osu", Description: "main", PublicRead: true, PublicWrite: true, AutoJoin: true},
		{Name: "#lobby", Description: "lobby", PublicRead: true, PublicWrite: true, Members: []int32{1, 2}},
	}
	require.NoError(t, s.channels.Initialise(ctx, seeds))

	osu, err := s.channels.FetchByName(ctx, "#osu")
	require.NoError(t, err)
	assert.Equal(t, []int32{5}, osu.Members, "present channels keep their members")
	assert.False(t, osu.AutoJoin, "present channels are not overwritten by seeds")

	lobby, err := s.channels.FetchByName(ctx, "#lobby")
	require.NoError(t, err)
	assert.Empty(t, lobby.Members, "seeded memberships start empty")

	all, err := s.channels.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestChannels_FetchByNameIsCaseInsensitive(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, s.channels.Update(ctx, &model.Channel{Name: "#osu", PublicRead: true}))

	ch, err := s.channels.FetchByName(ctx, "#OSU")
	require.NoError(t, err)
	assert.Equal(t, "#osu", ch.Name)
}

func TestChannels_UpdateFansToReaders(t *testing.T) {
	staff := testAccount(3, "staff")
	staff.Privileges |= model.PrivAdminManageUsers
	s := newTestStores(t, testAccount(1, "one"), testAccount(2, "two"), staff)
	ctx := context.Background()

	createSession(t, s, testAccount(1, "one"))
	createSession(t, s, testAccount(2, "two"))
	createSession(t, s, staff)
	drainQueues(t, s, 1, 2, 3)

	require.NoError(t, s.channels.Update(ctx, &model.Channel{Name: "#osu", PublicRead: true}))

	for _, id := range []int32{1, 2, 3} {
		queued, err := s.sessions.Dequeue(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []protocol.PacketID{protocol.ChoChannelInfo}, packetIDs(t, queued), "queue of user %d", id)
	}

	require.NoError(t, s.channels.Update(ctx, &model.Channel{Name: "#admin", PublicRead: false}))

	for _, id := range []int32{1, 2} {
		queued, err := s.sessions.Dequeue(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, queued, "user %d must not see the private channel", id)
	}

	queued, err := s.sessions.Dequeue(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []protocol.PacketID{protocol.ChoChannelInfo}, packetIDs(t, queued))
}

func TestChannels_UpdateTempFansMembersOnly(t *testing.T) {
	s := newTestStores(t, testAccount(1, "one"), testAccount(2, "two"))
	ctx := context.Background()

	createSession(t, s, testAccount(1, "one"))
	createSession(t, s, testAccount(2, "two"))
	drainQueues(t, s, 1, 2)

	spec := &model.Channel{Name: "#spec_1", PublicRead: true, Temp: true, Members: []int32{1}}
	require.NoError(t, s.channels.Update(ctx, spec))

	queued, err := s.sessions.Dequeue(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []protocol.PacketID{protocol.ChoChannelInfo}, packetIDs(t, queued))

	queued, err = s.sessions.Dequeue(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, queued, "temp channel updates go to members only")
}

func TestChannels_Delete(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	ch := &model.Channel{Name: "#multi_1", Temp: true}
	require.NoError(t, s.channels.Update(ctx, ch))
	require.NoError(t, s.channels.Delete(ctx, ch))

	_, err := s.channels.FetchByName(ctx, "#multi_1")
	assert.ErrorIs(t, err, ErrNotFound)
}
