package contacts

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ServiceStub is an in-memory Service that counts calls. Set the *Err fields
// to make the matching call fail.
type ServiceStub struct {
	mu     sync.Mutex
	Remote []Contact
	nextID int

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	ListCalls   int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

func (s *ServiceStub) List(ctx context.Context) ([]Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ListCalls++
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	return append([]Contact{}, s.Remote...), nil
}

func (s *ServiceStub) Create(ctx context.Context, draft Draft) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CreateCalls++
	if s.CreateErr != nil {
		return Contact{}, s.CreateErr
	}

	s.nextID++
	contact := Contact{
		ID:           fmt.Sprintf("c-%d", s.nextID),
		UserID:       "u-1",
		Name:         draft.Name,
		Phone:        draft.Phone,
		Relationship: draft.Relationship,
		CreatedAt:    time.Unix(int64(1700000000+s.nextID), 0).UTC(),
	}
	s.Remote = append(s.Remote, contact)

	return contact, nil
}

func (s *ServiceStub) Update(ctx context.Context, id string, patch Patch) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.UpdateCalls++
	if s.UpdateErr != nil {
		return Contact{}, s.UpdateErr
	}

	for i, contact := range s.Remote {
		if contact.ID != id {
			continue
		}

		if patch.Name != nil {
			contact.Name = *patch.Name
		}
		if patch.Phone != nil {
			contact.Phone = *patch.Phone
		}
		if patch.Relationship != nil {
			contact.Relationship = patch.Relationship
		}
		s.Remote[i] = contact

		return contact, nil
	}

	return Contact{}, ErrNotFound
}

func (s *ServiceStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.DeleteCalls++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	for i, contact := range s.Remote {
		if contact.ID == id {
			s.Remote = append(s.Remote[:i], s.Remote[i+1:]...)
			return nil
		}
	}

	return ErrNotFound
}
