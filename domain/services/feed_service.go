package services

import (
	"context"
	"errors"
	"fmt"

	"minivenmo/domain/entities"
	"minivenmo/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// ErrNoFeedSink is returned by DisplayFeed when no sink is configured
var ErrNoFeedSink = errors.New("no feed sink configured")

// FeedService retrieves and renders user feeds
type FeedService struct {
	sink interfaces.FeedSink
}

// NewFeedService creates a feed service; sink may be nil if feeds are only rendered
func NewFeedService(sink interfaces.FeedSink) *FeedService {
	return &FeedService{sink: sink}
}

// RetrieveFeed returns the user's feed events, oldest first
func (s *FeedService) RetrieveFeed(user *entities.User) ([]*entities.FeedEvent, error) {
	if user == nil {
		return nil, entities.ErrUserNotFound
	}
	return user.RetrieveFeed(), nil
}

// RenderFeed returns one line per feed event, oldest first
func (s *FeedService) RenderFeed(user *entities.User) ([]string, error) {
	if user == nil {
		return nil, entities.ErrUserNotFound
	}
	return user.FeedLines(), nil
}

// DisplayFeed renders the user's feed and hands the lines to the sink
func (s *FeedService) DisplayFeed(ctx context.Context, user *entities.User) error {
	if s.sink == nil {
		return ErrNoFeedSink
	}
	lines, err := s.RenderFeed(user)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"username":  user.Username(),
		"lineCount": len(lines),
	}).Debug("Displaying feed")

	if err := s.sink.Render(ctx, user.Username(), lines); err != nil {
		return fmt.Errorf("failed to display feed: %w", err)
	}
	return nil
}
