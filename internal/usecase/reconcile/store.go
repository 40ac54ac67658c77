package reconcile

import (
	"sync"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

// MeetingStore is the local meeting collection kept consistent with the
// upstream feed. All mutations run under the store mutex; Update exposes a
// read-modify-write as a single synchronous callback so a concurrent
// Replace cannot land between a merge's read and its write.
type MeetingStore struct {
	mu       sync.RWMutex
	meetings map[string]entities.Meeting
	order    []string // feed order, for stable listing
}

// NewMeetingStore creates an empty store.
func NewMeetingStore() *MeetingStore {
	return &MeetingStore{
		meetings: make(map[string]entities.Meeting),
	}
}

// mergeInto carries forward monotonic fields from prev into next and
// refuses status regression out of a terminal state.
func mergeInto(next *entities.Meeting, prev entities.Meeting) {
	if next.BotID == "" {
		next.BotID = prev.BotID
	}
	if next.Summary == "" {
		next.Summary = prev.Summary
	}
	if len(next.ActionItems) == 0 {
		next.ActionItems = prev.ActionItems
	}
	if prev.Status.IsTerminal() && !next.Status.IsTerminal() {
		next.Status = prev.Status
		if next.RawStatus == "" {
			next.RawStatus = prev.RawStatus
		}
	}
}

// Replace swaps the collection for the fresh poll result. Meetings absent
// from the feed are dropped; for surviving ids the monotonic fields
// (bot id, summary, action items) are merged and one-directional status is
// enforced. Duplicate ids within one poll collapse to a single meeting.
func (s *MeetingStore) Replace(fresh []entities.Meeting) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]entities.Meeting, len(fresh))
	order := make([]string, 0, len(fresh))

	for _, m := range fresh {
		if m.ID == "" {
			continue
		}
		if dup, ok := next[m.ID]; ok {
			mergeInto(&m, dup)
		} else {
			order = append(order, m.ID)
		}
		if prev, ok := s.meetings[m.ID]; ok {
			mergeInto(&m, prev)
		}
		next[m.ID] = m
	}

	s.meetings = next
	s.order = order
}

// List returns the meetings in feed order.
func (s *MeetingStore) List() []entities.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Meeting, 0, len(s.order))
	for _, id := range s.order {
		if m, ok := s.meetings[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Get returns the meeting with the given id.
func (s *MeetingStore) Get(id string) (entities.Meeting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	return m, ok
}

// Update applies fn to the current value of the meeting under the store
// lock. Returns false when the meeting is no longer present (e.g. dropped
// by a poll while the caller's work was in flight).
func (s *MeetingStore) Update(id string, fn func(*entities.Meeting)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok {
		return false
	}
	fn(&m)
	s.meetings[id] = m
	return true
}

// Delete removes a meeting from the collection. The feed may resurrect it
// on the next poll.
func (s *MeetingStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[id]; !ok {
		return false
	}
	delete(s.meetings, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of tracked meetings.
func (s *MeetingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings)
}

// Clear empties the collection.
func (s *MeetingStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings = make(map[string]entities.Meeting)
	s.order = nil
}

// Partitions are the derived lifecycle groupings, recomputed from canonical
// status on every call and never stored separately.
type Partitions struct {
	Ongoing   []entities.Meeting `json:"ongoing"`
	Upcoming  []entities.Meeting `json:"upcoming"`
	Completed []entities.Meeting `json:"completed"`
	Failed    []entities.Meeting `json:"failed"`
	Unknown   []entities.Meeting `json:"unknown"`
}

// PartitionName maps a canonical status to its partition.
func PartitionName(st entities.MeetingStatus) string {
	switch st {
	case entities.MeetingStatusInCallRecording, entities.MeetingStatusInProgress:
		return "ongoing"
	case entities.MeetingStatusScheduled:
		return "upcoming"
	case entities.MeetingStatusCompleted:
		return "completed"
	case entities.MeetingStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Partitions groups the current collection by derived partition. The five
// groups are pairwise disjoint and their union is the full set.
func (s *MeetingStore) Partitions() Partitions {
	var p Partitions
	for _, m := range s.List() {
		switch PartitionName(m.Status) {
		case "ongoing":
			p.Ongoing = append(p.Ongoing, m)
		case "upcoming":
			p.Upcoming = append(p.Upcoming, m)
		case "completed":
			p.Completed = append(p.Completed, m)
		case "failed":
			p.Failed = append(p.Failed, m)
		default:
			p.Unknown = append(p.Unknown, m)
		}
	}
	return p
}
