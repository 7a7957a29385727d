package contacts

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Daskott/raksha/engine/api"
)

// Service is the remote source of truth for a user's contacts
type Service interface {
	List(ctx context.Context) ([]Contact, error)
	Create(ctx context.Context, draft Draft) (Contact, error)
	Update(ctx context.Context, id string, patch Patch) (Contact, error)
	Delete(ctx context.Context, id string) error
}

// HTTPService talks to the contacts endpoints of the account service
type HTTPService struct {
	client *api.Client
}

func NewHTTPService(client *api.Client) *HTTPService {
	return &HTTPService{client: client}
}

func (s *HTTPService) List(ctx context.Context) ([]Contact, error) {
	contacts := []Contact{}
	err := s.client.Do(ctx, http.MethodGet, "/api/contacts", nil, &contacts)
	return contacts, err
}

func (s *HTTPService) Create(ctx context.Context, draft Draft) (Contact, error) {
	contact := Contact{}
	err := s.client.Do(ctx, http.MethodPost, "/api/contacts", draft, &contact)
	return contact, err
}

func (s *HTTPService) Update(ctx context.Context, id string, patch Patch) (Contact, error) {
	contact := Contact{}
	err := s.client.Do(ctx, http.MethodPatch, contactPath(id), patch, &contact)
	return contact, err
}

func (s *HTTPService) Delete(ctx context.Context, id string) error {
	return s.client.Do(ctx, http.MethodDelete, contactPath(id), struct{}{}, nil)
}

func contactPath(id string) string {
	return fmt.Sprintf("/api/contacts/%s", url.PathEscape(id))
}
