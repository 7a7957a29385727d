package settings

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Daskott/raksha/engine/api"
	"github.com/Daskott/raksha/engine/message"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should apply locally & confirm after remote succeeds", func(t *testing.T) {
		remote := &RemoteStub{Stored: Defaults()}
		manager := NewManager(remote, Defaults())

		hindi := message.Hindi
		updated, err := manager.Update(ctx, Patch{Language: &hindi, SilentMode: boolPtr(true)})
		assert.Nil(t, err)
		assert.Equal(t, message.Hindi, updated.Language)
		assert.True(t, updated.SilentMode)
		assert.Equal(t, updated, manager.Confirmed())
		assert.False(t, manager.Pending())

		require.Len(t, remote.Patches, 1)
		assert.Nil(t, remote.Patches[0].DarkMode, "Should only send patched fields")
	})

	t.Run("Should keep optimistic change when remote fails", func(t *testing.T) {
		remote := &RemoteStub{UpdateErr: errors.New("connection reset")}
		manager := NewManager(remote, Defaults())

		fire := message.Fire
		updated, err := manager.Update(ctx, Patch{SelectedCategory: &fire})
		assert.ErrorIs(t, err, ErrNotPersisted)
		assert.Equal(t, message.Fire, updated.SelectedCategory)
		assert.Equal(t, message.Fire, manager.Current().SelectedCategory, "Should not roll back")
		assert.Equal(t, message.Medical, manager.Confirmed().SelectedCategory)
		assert.True(t, manager.Pending())
	})

	t.Run("Should send earlier unconfirmed changes with the next update", func(t *testing.T) {
		remote := &RemoteStub{Stored: Defaults(), UpdateErr: errors.New("connection reset")}
		manager := NewManager(remote, Defaults())

		fire := message.Fire
		_, err := manager.Update(ctx, Patch{SelectedCategory: &fire})
		assert.ErrorIs(t, err, ErrNotPersisted)
		assert.True(t, manager.Pending())

		remote.UpdateErr = nil
		updated, err := manager.Update(ctx, Patch{DarkMode: boolPtr(true)})
		assert.Nil(t, err)
		assert.Equal(t, message.Fire, updated.SelectedCategory)
		assert.True(t, updated.DarkMode)
		assert.False(t, manager.Pending())
		assert.Equal(t, updated, manager.Confirmed())
		assert.Equal(t, updated, remote.Stored)

		require.Len(t, remote.Patches, 2)
		require.NotNil(t, remote.Patches[1].SelectedCategory)
		assert.Equal(t, message.Fire, *remote.Patches[1].SelectedCategory)
		assert.Nil(t, remote.Patches[1].Language)
	})

	t.Run("Should reject invalid patch without touching state", func(t *testing.T) {
		remote := &RemoteStub{}
		manager := NewManager(remote, Defaults())

		french := message.Language("fr")
		_, err := manager.Update(ctx, Patch{Language: &french})
		assert.ErrorIs(t, err, ErrInvalidSettings)

		unknown := message.Category("zombies")
		_, err = manager.Update(ctx, Patch{SelectedCategory: &unknown})
		assert.ErrorIs(t, err, ErrInvalidSettings)

		assert.Equal(t, Defaults(), manager.Current())
		assert.Empty(t, remote.Patches)
	})

	t.Run("Should not call remote for empty patch", func(t *testing.T) {
		remote := &RemoteStub{}
		manager := NewManager(remote, Defaults())

		_, err := manager.Update(ctx, Patch{})
		assert.Nil(t, err)
		assert.Empty(t, remote.Patches)
	})
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	stored := Defaults()
	stored.Language = message.Marathi

	remote := &RemoteStub{Stored: stored, UpdateErr: errors.New("offline")}
	manager := NewManager(remote, Defaults())

	manager.Update(ctx, Patch{DarkMode: boolPtr(true)})
	assert.True(t, manager.Pending())

	s, err := manager.Sync(ctx)
	assert.Nil(t, err)
	assert.Equal(t, stored, s)
	assert.Equal(t, stored, manager.Current())
	assert.False(t, manager.Pending())
}

func TestHTTPRemote(t *testing.T) {
	ctx := context.Background()
	var received map[string]interface{}

	router := mux.NewRouter()
	router.HandleFunc("/api/user/settings", func(rw http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		rw.Write([]byte(`{"success":true}`))
	}).Methods(http.MethodPatch)
	router.HandleFunc("/api/auth/me", func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte(`{"id":"u1","language":"hi","darkMode":null,"silentSOS":true,"sirenSound":null,"selectedEmergencyType":null}`))
	}).Methods(http.MethodGet)

	ts := httptest.NewServer(router)
	defer ts.Close()

	remote := NewHTTPRemote(api.NewClient(api.Config{BaseURL: ts.URL, Timeout: time.Second}))

	err := remote.UpdateSettings(ctx, Patch{SilentMode: boolPtr(true)})
	assert.Nil(t, err)
	assert.Equal(t, map[string]interface{}{"silentSOS": true}, received)

	s, err := remote.FetchSettings(ctx)
	assert.Nil(t, err)
	assert.Equal(t, Settings{
		Language:         message.Hindi,
		SilentMode:       true,
		SirenEnabled:     true,
		SelectedCategory: message.Medical,
	}, s)
}
