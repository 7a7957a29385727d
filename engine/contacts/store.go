package contacts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Daskott/raksha/engine/api"
	"github.com/Daskott/raksha/engine/logger"
	pkgErrors "github.com/pkg/errors"
)

const MAX_CONTACTS = 10

var (
	ErrCapacityExceeded = fmt.Errorf("maximum %v contacts allowed", MAX_CONTACTS)
	ErrInvalidContact   = errors.New("invalid contact")

	// Remote failures, matched with errors.Is
	ErrTransientNetwork = api.ErrTransientNetwork
	ErrNotFound         = api.ErrNotFound

	logg = logger.NewLogger().Named("contacts")
)

// Store is the local, bounded cache of trusted contacts. Every change goes
// through the remote Service first & the cache is only touched once the
// service confirms it.
type Store struct {
	service Service

	// opMu serializes mutating operations so the capacity check & the
	// append can't interleave with another add
	opMu sync.Mutex

	mu       sync.RWMutex
	contacts []Contact
}

func NewStore(service Service) *Store {
	return &Store{service: service, contacts: []Contact{}}
}

// List fetches all contacts & replaces the cache. On failure the cache is left as is.
func (s *Store) List(ctx context.Context) ([]Contact, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	contacts, err := s.service.List(ctx)
	if err != nil {
		logg.Errorf("Error loading contacts: %v", err)
		return s.Contacts(), pkgErrors.Wrap(err, "list contacts")
	}

	if len(contacts) > MAX_CONTACTS {
		logg.Warnf("Remote returned %v contacts, only the first %v are kept", len(contacts), MAX_CONTACTS)
		contacts = contacts[:MAX_CONTACTS]
	}

	s.mu.Lock()
	s.contacts = append([]Contact{}, contacts...)
	s.mu.Unlock()

	return s.Contacts(), nil
}

// Add creates a contact remotely & appends it to the cache. When the cache is
// full it fails with ErrCapacityExceeded without calling the service.
func (s *Store) Add(ctx context.Context, draft Draft) (Contact, error) {
	if err := validate.Struct(draft); err != nil {
		return Contact{}, pkgErrors.Wrap(ErrInvalidContact, err.Error())
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.Len() >= MAX_CONTACTS {
		return Contact{}, ErrCapacityExceeded
	}

	contact, err := s.service.Create(ctx, draft)
	if err != nil {
		return Contact{}, pkgErrors.Wrap(err, "add contact")
	}

	s.mu.Lock()
	s.contacts = append(s.contacts, contact)
	s.mu.Unlock()

	logg.Infof("Contact %v added", contact.ID)
	return contact, nil
}

// Edit updates a contact remotely & replaces the cached entry with the same id
func (s *Store) Edit(ctx context.Context, id string, patch Patch) (Contact, error) {
	if err := validate.Struct(patch); err != nil {
		return Contact{}, pkgErrors.Wrap(ErrInvalidContact, err.Error())
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	contact, err := s.service.Update(ctx, id, patch)
	if err != nil {
		return Contact{}, pkgErrors.Wrapf(err, "edit contact %v", id)
	}

	s.mu.Lock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts[i] = contact
		}
	}
	s.mu.Unlock()

	return contact, nil
}

// Remove deletes a contact remotely, then drops it from the cache
func (s *Store) Remove(ctx context.Context, id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.service.Delete(ctx, id); err != nil {
		return pkgErrors.Wrapf(err, "remove contact %v", id)
	}

	s.mu.Lock()
	remaining := s.contacts[:0]
	for _, contact := range s.contacts {
		if contact.ID != id {
			remaining = append(remaining, contact)
		}
	}
	s.contacts = remaining
	s.mu.Unlock()

	logg.Infof("Contact %v removed", id)
	return nil
}

// Contacts returns a copy of the cache in insertion order
func (s *Store) Contacts() []Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Contact{}, s.contacts...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.contacts)
}

// PhoneNumbers returns the phone number of every cached contact
func (s *Store) PhoneNumbers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	numbers := make([]string, 0, len(s.contacts))
	for _, contact := range s.contacts {
		numbers = append(numbers, contact.Phone)
	}

	return numbers
}
