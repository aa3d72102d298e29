package testhelpers

import (
	"context"
	"sync"

	"minivenmo/domain/events"
	"minivenmo/domain/interfaces"
)

// MetricsSpy counts metric calls
type MetricsSpy struct {
	mu              sync.Mutex
	Payments        map[string]int
	Rejections      map[string]int
	ChargeSuccesses int
	ChargeFailures  int
	FriendsAdded    int
	UsersCreated    int
}

// NewMetricsSpy creates an empty spy
func NewMetricsSpy() *MetricsSpy {
	return &MetricsSpy{
		Payments:   make(map[string]int),
		Rejections: make(map[string]int),
	}
}

func (s *MetricsSpy) RecordPayment(fundingSource string, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Payments[fundingSource]++
}

func (s *MetricsSpy) RecordPaymentRejected(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rejections[reason]++
}

func (s *MetricsSpy) RecordCardCharge(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if success {
		s.ChargeSuccesses++
	} else {
		s.ChargeFailures++
	}
}

func (s *MetricsSpy) RecordFriendAdded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FriendsAdded++
}

func (s *MetricsSpy) RecordUserCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UsersCreated++
}

// StagingPublisherFactory creates publishers that stage events and
// forward them to Sink on Flush
type StagingPublisherFactory struct {
	Sink      *RecordingPublisher
	Discarded int
	mu        sync.Mutex
}

// NewStagingPublisherFactory creates a factory over a fresh RecordingPublisher
func NewStagingPublisherFactory() *StagingPublisherFactory {
	return &StagingPublisherFactory{Sink: &RecordingPublisher{}}
}

func (f *StagingPublisherFactory) Create() interfaces.TransactionalPublisher {
	return &stagingPublisher{factory: f}
}

type stagingPublisher struct {
	factory *StagingPublisherFactory
	pending []events.Event
}

func (p *stagingPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

func (p *stagingPublisher) Flush(ctx context.Context) error {
	p.factory.mu.Lock()
	defer p.factory.mu.Unlock()
	for _, event := range p.pending {
		if err := p.factory.Sink.Publish(event); err != nil {
			return err
		}
	}
	p.pending = nil
	return nil
}

func (p *stagingPublisher) Discard() {
	p.factory.mu.Lock()
	defer p.factory.mu.Unlock()
	p.factory.Discarded++
	p.pending = nil
}
