package alarmstore

import (
	"errors"
	"sync"
	"sync/atomic"

	domain "github.com/oshokin/medication-alarm/internal/domain/alarm"
)

// Store defines the storage primitives the reminder engine depends on.
type Store interface {
	NextID() int64
	Insert(record *domain.Alarm) error
	InsertIfAbsent(record *domain.Alarm) (*domain.Alarm, error)
	Get(id int64) (*domain.Alarm, bool)
	Update(id int64, mutate func(record *domain.Alarm) error) (*domain.Alarm, error)
	Remove(id int64) bool
	Values() []*domain.Alarm
	Len() int
}

var (
	// ErrNotFound is returned when an id is not present in the store.
	ErrNotFound = errors.New("alarm not stored")
	// ErrDuplicateID is returned when inserting under an id that is already taken.
	ErrDuplicateID = errors.New("alarm id already stored")
	// ErrDuplicatePair is returned when the patient already has an alarm for the medication.
	ErrDuplicatePair = errors.New("alarm already stored for patient and medication")
	// errIDChanged is returned when an update callback rewrites the record key.
	errIDChanged = errors.New("alarm id and owner are immutable")
)

// pairKey identifies the (patient, medication) pair an alarm is bound to.
type pairKey struct {
	patientID    int64
	medicationID int64
}

// MemoryStore keeps alarms in a map guarded by a read-write mutex.
type MemoryStore struct {
	// lastID is the last identifier handed out by NextID.
	lastID atomic.Int64

	// records maps alarm ids to stored values.
	records map[int64]*domain.Alarm
	// byPair maps (patient, medication) to the id of its alarm.
	byPair map[pairKey]int64
	// mu protects records and byPair.
	mu sync.RWMutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[int64]*domain.Alarm),
		byPair:  make(map[pairKey]int64),
	}
}

// NextID returns a fresh identifier greater than any issued before.
func (s *MemoryStore) NextID() int64 {
	return s.lastID.Add(1)
}

// Insert stores the record under its id and never overwrites an existing one.
func (s *MemoryStore) Insert(record *domain.Alarm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; ok {
		return ErrDuplicateID
	}

	s.put(record)

	return nil
}

// InsertIfAbsent stores the record unless its (patient, medication) pair is already
// bound to an alarm. On conflict it returns a copy of the existing alarm along with
// ErrDuplicatePair. The check and the insert share one critical section.
func (s *MemoryStore) InsertIfAbsent(record *domain.Alarm) (*domain.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.byPair[keyOf(record)]; ok {
		return s.records[existingID].Clone(), ErrDuplicatePair
	}

	if _, ok := s.records[record.ID]; ok {
		return nil, ErrDuplicateID
	}

	s.put(record)

	return record.Clone(), nil
}

// Get returns a copy of the stored alarm.
func (s *MemoryStore) Get(id int64) (*domain.Alarm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, false
	}

	return record.Clone(), true
}

// Update runs mutate on a copy of the stored alarm and replaces the stored value
// when mutate succeeds. Concurrent updates of the same id are serialized, so the
// last writer wins and no reader sees a half-applied change.
func (s *MemoryStore) Update(id int64, mutate func(record *domain.Alarm) error) (*domain.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	working := stored.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}

	if keyOf(working) != keyOf(stored) || working.ID != stored.ID {
		return nil, errIDChanged
	}

	s.records[id] = working

	return working.Clone(), nil
}

// Remove deletes the alarm and reports whether anything was removed.
func (s *MemoryStore) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return false
	}

	delete(s.records, id)

	if s.byPair[keyOf(record)] == id {
		delete(s.byPair, keyOf(record))
	}

	return true
}

// Values returns copies of every stored alarm in no particular order.
func (s *MemoryStore) Values() []*domain.Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Alarm, 0, len(s.records))
	for _, record := range s.records {
		result = append(result, record.Clone())
	}

	return result
}

// Len returns the number of stored alarms.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// put stores a private copy of the record. Callers must hold the write lock.
func (s *MemoryStore) put(record *domain.Alarm) {
	stored := record.Clone()
	s.records[stored.ID] = stored
	s.byPair[keyOf(stored)] = stored.ID
}

// keyOf returns the uniqueness key of an alarm.
func keyOf(record *domain.Alarm) pairKey {
	return pairKey{
		patientID:    record.PatientID,
		medicationID: record.MedicationReferenceID,
	}
}
