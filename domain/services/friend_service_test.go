package services

import (
	"context"
	"testing"

	"minivenmo/domain/entities"
	"minivenmo/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFriend_OneSided(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.friendService()

	bobby := newTestUser(t, "Bobby", "0", "")
	carol := newTestUser(t, "Carol", "0", "")

	friends, err := service.AddFriend(ctx, bobby, carol)
	require.NoError(t, err)

	require.Len(t, friends, 1)
	assert.Same(t, carol, friends[0])
	assert.True(t, bobby.IsFriend(carol))
	assert.False(t, carol.IsFriend(bobby))
	assert.Empty(t, carol.Friends())
}

func TestAddFriend_EventInBothFeeds(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.friendService()

	bobby := newTestUser(t, "Bobby", "0", "")
	carol := newTestUser(t, "Carol", "0", "")

	_, err := service.AddFriend(ctx, bobby, carol)
	require.NoError(t, err)

	require.Len(t, bobby.RetrieveFeed(), 1)
	require.Len(t, carol.RetrieveFeed(), 1)
	event := bobby.RetrieveFeed()[0]
	assert.True(t, event.IsFriendship())
	assert.Same(t, event, carol.RetrieveFeed()[0])
	assert.Equal(t, []string{"Bobby added Carol as a friend"}, carol.FeedLines())

	published := mocks.Publishers.Sink.OfType(events.EventTypeFriendAdded)
	require.Len(t, published, 1)
	assert.Equal(t, "Carol", published[0].(events.FriendAddedEvent).Friend)
	assert.Equal(t, 1, mocks.Metrics.FriendsAdded)
}

func TestAddFriend_RepeatsAreRecorded(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.friendService()

	bobby := newTestUser(t, "Bobby", "0", "")
	carol := newTestUser(t, "Carol", "0", "")
	dave := newTestUser(t, "Dave", "0", "")

	_, err := service.AddFriend(ctx, bobby, carol)
	require.NoError(t, err)
	_, err = service.AddFriend(ctx, bobby, dave)
	require.NoError(t, err)
	friends, err := service.AddFriend(ctx, bobby, carol)
	require.NoError(t, err)

	require.Len(t, friends, 3)
	assert.Same(t, carol, friends[0])
	assert.Same(t, dave, friends[1])
	assert.Same(t, carol, friends[2])

	assert.Equal(t, []string{
		"Bobby added Carol as a friend",
		"Bobby added Dave as a friend",
		"Bobby added Carol as a friend",
	}, bobby.FeedLines())
	assert.Len(t, carol.RetrieveFeed(), 2)
	assert.Len(t, mocks.Publishers.Sink.OfType(events.EventTypeFriendAdded), 3)
	assert.Equal(t, 3, mocks.Metrics.FriendsAdded)
}

func TestAddFriend_Self(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.friendService()

	bobby := newTestUser(t, "Bobby", "0", "")

	friends, err := service.AddFriend(ctx, bobby, bobby)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Same(t, bobby, friends[0])

	// One user, one feed, one entry
	assert.Equal(t, []string{"Bobby added Bobby as a friend"}, bobby.FeedLines())
}

func TestAddFriend_NilUser(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := mocks.friendService()

	bobby := newTestUser(t, "Bobby", "0", "")

	_, err := service.AddFriend(ctx, bobby, nil)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
	_, err = service.AddFriend(ctx, nil, bobby)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)

	assert.Empty(t, bobby.Friends())
	assert.Empty(t, bobby.RetrieveFeed())
	assert.Empty(t, mocks.Publishers.Sink.Events)
}

func TestFeedInterleavesPaymentsAndFriendships(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	payments := mocks.paymentService()
	friends := mocks.friendService()

	bobby := newTestUser(t, "Bobby", "10", TestCardNumber)
	carol := newTestUser(t, "Carol", "10", TestAltCardNumber)

	_, err := payments.Pay(ctx, bobby, carol, amount("1"), "Gum")
	require.NoError(t, err)
	_, err = friends.AddFriend(ctx, carol, bobby)
	require.NoError(t, err)
	_, err = payments.Pay(ctx, carol, bobby, amount("2"), "Tea")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Bobby paid Carol $1.00 for Gum",
		"Carol added Bobby as a friend",
		"Carol paid Bobby $2.00 for Tea",
	}, bobby.FeedLines())
	assert.Equal(t, bobby.FeedLines(), carol.FeedLines())
}
