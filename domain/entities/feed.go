package entities

// Feed is an append-only, oldest-first log of feed events.
// It is guarded by the owning user's lock.
type Feed struct {
	events []*FeedEvent
}

// NewFeed creates an empty feed
func NewFeed() *Feed {
	return &Feed{events: make([]*FeedEvent, 0)}
}

// Append adds an event to the end of the log
func (f *Feed) Append(event *FeedEvent) {
	f.events = append(f.events, event)
}

// Events returns a copy of the log in recording order
func (f *Feed) Events() []*FeedEvent {
	out := make([]*FeedEvent, len(f.events))
	copy(out, f.events)
	return out
}

// Len returns the number of recorded events
func (f *Feed) Len() int {
	return len(f.events)
}

// Lines renders every event, oldest first
func (f *Feed) Lines() []string {
	lines := make([]string, 0, len(f.events))
	for _, event := range f.events {
		lines = append(lines, event.String())
	}
	return lines
}
