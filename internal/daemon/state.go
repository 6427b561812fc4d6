package daemon

import (
	"sync"
	"time"
)

// Status represents where a D-Bus notification is in its toast lifecycle.
type Status int

const (
	// StatusActive means the toast is on screen.
	StatusActive Status = iota
	// StatusClosing means CloseNotification was requested and the exit
	// animation is running.
	StatusClosing
)

// String returns the string representation of Status.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Entry maps a D-Bus notification to the toast showing it.
type Entry struct {
	ToastID       string
	DBusID        uint32
	Status        Status
	DefaultAction bool // sender registered a "default" action
	Resident      bool
	CreatedAt     time.Time
}

// State tracks the mapping between toast IDs and D-Bus IDs.
type State struct {
	mu sync.RWMutex

	byToastID map[string]*Entry
	byDBusID  map[uint32]string
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		byToastID: make(map[string]*Entry),
		byDBusID:  make(map[uint32]string),
	}
}

// Register records that toastID shows dbusID. A D-Bus id that was already
// mapped to another toast is re-pointed.
func (m *State) Register(toastID string, dbusID uint32, defaultAction, resident bool) *Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldToast, exists := m.byDBusID[dbusID]; exists {
		delete(m.byToastID, oldToast)
	}
	if old, exists := m.byToastID[toastID]; exists {
		delete(m.byDBusID, old.DBusID)
	}

	e := &Entry{
		ToastID:       toastID,
		DBusID:        dbusID,
		Status:        StatusActive,
		DefaultAction: defaultAction,
		Resident:      resident,
		CreatedAt:     time.Now(),
	}
	m.byToastID[toastID] = e
	m.byDBusID[dbusID] = toastID
	return e
}

// ByToastID returns a copy of the entry for a toast.
func (m *State) ByToastID(toastID string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.byToastID[toastID]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// ToastID returns the toast showing dbusID.
func (m *State) ToastID(dbusID uint32) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byDBusID[dbusID]
	return id, ok
}

// SetStatus updates the status of the entry for dbusID.
func (m *State) SetStatus(dbusID uint32, status Status) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	toastID, exists := m.byDBusID[dbusID]
	if !exists {
		return false
	}
	m.byToastID[toastID].Status = status
	return true
}

// Remove deletes the entry for toastID and returns it.
func (m *State) Remove(toastID string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.byToastID[toastID]
	if !exists {
		return Entry{}, false
	}
	delete(m.byDBusID, e.DBusID)
	delete(m.byToastID, toastID)
	return *e, true
}

// Count returns the number of tracked notifications.
func (m *State) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byToastID)
}
