package services

import (
	"context"
	"time"

	"minivenmo/domain/entities"
	"minivenmo/domain/events"
	"minivenmo/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// FriendService records friendships
type FriendService struct {
	publishers interfaces.TransactionalPublisherFactory
	metrics    interfaces.MetricsRecorder
	seq        *entities.Sequence
	now        func() time.Time
}

// NewFriendService creates a new friend service
func NewFriendService(publishers interfaces.TransactionalPublisherFactory, metrics interfaces.MetricsRecorder, seq *entities.Sequence) *FriendService {
	return &FriendService{
		publishers: publishers,
		metrics:    metrics,
		seq:        seq,
		now:        time.Now,
	}
}

// AddFriend appends friend to user's friend list and returns the updated list.
//
// Only user's list changes; friend's list is left alone. Every call appends
// and records one friendship event in both feeds, repeats included.
func (s *FriendService) AddFriend(ctx context.Context, user, friend *entities.User) ([]*entities.User, error) {
	if user == nil || friend == nil {
		return nil, entities.ErrUserNotFound
	}

	publisher := s.publishers.Create()
	friends := s.link(user, friend, publisher)

	if err := publisher.Flush(ctx); err != nil {
		log.WithError(err).Error("Failed to flush friendship events")
	}

	s.metrics.RecordFriendAdded()
	log.WithFields(log.Fields{
		"username": user.Username(),
		"friend":   friend.Username(),
	}).Info("Friend added")

	return friends, nil
}

func (s *FriendService) link(user, friend *entities.User, publisher interfaces.EventPublisher) []*entities.User {
	release := entities.LockPair(user, friend)
	defer release()

	friends := user.AddFriendLocked(friend)

	event := entities.NewFriendshipEvent(s.seq.Next(), user.Username(), friend.Username(), s.now())
	user.AppendFeedLocked(event)
	if friend != user {
		friend.AppendFeedLocked(event)
	}

	if err := publisher.Publish(events.FriendAddedEvent{
		Username:  user.Username(),
		Friend:    friend.Username(),
		Seq:       event.Seq,
		CreatedAt: event.CreatedAt,
	}); err != nil {
		log.WithError(err).Error("Failed to publish friend added event")
	}

	return friends
}
