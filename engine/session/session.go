// Package session owns one signed in user's engine: the location tracker,
// network monitor, contact store, settings & alert dispatcher, wired together.
package session

import (
	"context"
	"time"

	"github.com/Daskott/raksha/engine/alert"
	"github.com/Daskott/raksha/engine/api"
	"github.com/Daskott/raksha/engine/contacts"
	"github.com/Daskott/raksha/engine/gstorage"
	"github.com/Daskott/raksha/engine/jobs"
	"github.com/Daskott/raksha/engine/kvstore"
	"github.com/Daskott/raksha/engine/location"
	"github.com/Daskott/raksha/engine/logger"
	"github.com/Daskott/raksha/engine/network"
	"github.com/Daskott/raksha/engine/settings"
	"github.com/Daskott/raksha/engine/twilio"
	"github.com/Daskott/raksha/shared"
	"github.com/Daskott/raksha/utils"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	DEFAULT_TIMEOUT = 10 * time.Second

	REFRESH_LOCATION_JOB = "refreshLocation"
	SYNC_CONTACTS_JOB    = "syncContacts"
	BACKUP_STORE_JOB     = "backupStore"
)

var logg = logger.NewLogger().Named("session")

// KeyValueStore is the durable storage used for the last known location
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Sampler reads connectivity signals, e.g. network.Prober
type Sampler interface {
	Sample(ctx context.Context) network.Signal
}

// Dependencies are the collaborators a Session is built from
type Dependencies struct {
	Locator  location.Locator
	Store    KeyValueStore
	Contacts contacts.Service
	Settings settings.Remote
	Channel  alert.Channel
	Cue      alert.Cue
	Sampler  Sampler

	// Backup is optional, the store is only backed up when both are set
	Backup      *gstorage.GStorage
	BackupStore gstorage.Source
}

type Options struct {
	DevMode bool
	DryRun  bool
	Cue     alert.Cue
}

type Session struct {
	Tracker    *location.Tracker
	Monitor    *network.Monitor
	Contacts   *contacts.Store
	Settings   *settings.Manager
	Dispatcher *alert.Dispatcher

	sampler     Sampler
	backup      *gstorage.GStorage
	backupStore gstorage.Source
	closers     []func() error
}

// Status is a point in time view of the session, as rendered by the CLI & control API
type Status struct {
	LocationStatus  location.Status   `json:"locationStatus"`
	Location        *location.Sample  `json:"location"`
	NetworkStatus   network.Status    `json:"networkStatus"`
	ContactCount    int               `json:"contactCount"`
	Settings        settings.Settings `json:"settings"`
	SettingsPending bool              `json:"settingsPending"`
	AlertInFlight   bool              `json:"alertInFlight"`
}

// NewSession wires a session from explicit dependencies
func NewSession(deps Dependencies) *Session {
	cue := deps.Cue
	if cue == nil {
		cue = alert.NopCue{}
	}

	s := &Session{
		Tracker:     location.NewTracker(deps.Locator, deps.Store),
		Monitor:     network.NewMonitor(),
		Contacts:    contacts.NewStore(deps.Contacts),
		Settings:    settings.NewManager(deps.Settings, settings.Defaults()),
		sampler:     deps.Sampler,
		backup:      deps.Backup,
		backupStore: deps.BackupStore,
	}
	s.Dispatcher = alert.NewDispatcher(s.Contacts, s.Tracker, s.Settings, deps.Channel, cue)

	return s
}

// New builds a session from config: remote service client, encrypted store,
// locator, SMS channel & (optionally) the cloud storage backup.
func New(ctx context.Context, config shared.Config, opts Options) (*Session, error) {
	timeout := DEFAULT_TIMEOUT
	if config.Remote.TimeoutSeconds > 0 {
		timeout = time.Duration(config.Remote.TimeoutSeconds) * time.Second
	}

	client := api.NewClient(api.Config{
		BaseURL:       config.Remote.BaseURL,
		SessionCookie: config.Remote.SessionCookie,
		CookieName:    config.Remote.CookieName,
		Timeout:       timeout,
	})

	deps := Dependencies{
		Locator:  newLocator(config.Location, timeout),
		Contacts: contacts.NewHTTPService(client),
		Settings: settings.NewHTTPRemote(client),
		Cue:      opts.Cue,
		Sampler:  network.NewProber(config.Network.ProbeURL, timeout),
	}

	var closers []func() error

	if config.Store.PassPhrase == "" {
		logg.Warn("No store pass phrase configured, last location will not survive restarts")
		deps.Store = kvstore.NewMemoryStore()
	} else {
		rootDir, err := utils.ExpandHome(config.Store.Dir)
		if err != nil {
			return nil, errors.Wrap(err, "store dir")
		}

		store, err := kvstore.Open(config.Store.PassPhrase, rootDir)
		if err != nil {
			return nil, err
		}
		deps.Store = store
		deps.BackupStore = store
		closers = append(closers, store.Close)
	}

	if opts.DryRun {
		deps.Channel = alert.LogChannel{}
	} else {
		deps.Channel = twilio.NewChannel(config.Twilio, opts.DevMode)
	}

	storageConfig := config.Google.Storage
	if storageConfig.EnableStoreBackup && deps.BackupStore != nil {
		gs, err := gstorage.NewGStorage(ctx, config.Google.ApplicationCredentials, storageConfig.Bucket, storageConfig.Prefix)
		if err != nil {
			err = multierr.Append(err, closeAll(closers)())
			return nil, err
		}
		deps.Backup = gs
		closers = append(closers, gs.Close)
	}

	s := NewSession(deps)
	s.closers = closers
	return s, nil
}

// Start restores the last location, loads settings & contacts from the
// remote and asks for location access. Failures are collected & returned,
// none of them stops the session from being usable.
func (s *Session) Start(ctx context.Context) error {
	var errs error

	s.Tracker.Load(ctx)

	if _, err := s.Settings.Sync(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}

	if _, err := s.Contacts.List(ctx); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "load contacts"))
	}

	status := s.Tracker.RequestPermission(ctx)
	logg.Debugf("Location status after permission request: %v", status)

	s.SampleNetwork(ctx)

	return errs
}

// SampleNetwork feeds a fresh connectivity sample into the monitor
func (s *Session) SampleNetwork(ctx context.Context) network.Status {
	if s.sampler == nil {
		return s.Monitor.Status()
	}
	return s.Monitor.Update(s.sampler.Sample(ctx))
}

// Backup uploads the store, it is a no-op when backups aren't configured
func (s *Session) Backup(ctx context.Context) error {
	if s.backup == nil || s.backupStore == nil {
		return nil
	}
	return s.backup.BackupStore(ctx, s.backupStore)
}

func (s *Session) Status() Status {
	locationStatus, sample := s.Tracker.Snapshot()
	current := s.Settings.Current()

	return Status{
		LocationStatus:  locationStatus,
		Location:        sample,
		NetworkStatus:   s.Monitor.Status(),
		ContactCount:    s.Contacts.Len(),
		Settings:        current,
		SettingsPending: s.Settings.Pending(),
		AlertInFlight:   s.Dispatcher.InFlight(),
	}
}

// RegisterJobs registers the session's periodic work with adapter & schedules
// the ones that have a cron expression configured
func (s *Session) RegisterJobs(adapter *jobs.WorkerPoolAdapter, config shared.CronConfig, storage shared.StorageConfig) error {
	handlers := map[string]jobs.Handler{
		REFRESH_LOCATION_JOB: func(ctx context.Context) error {
			status := s.Tracker.Refresh(ctx)
			if status == location.Unavailable {
				return errors.New("location unavailable")
			}
			return nil
		},
		SYNC_CONTACTS_JOB: func(ctx context.Context) error {
			_, err := s.Contacts.List(ctx)
			return err
		},
		BACKUP_STORE_JOB: s.Backup,
	}

	schedules := map[string]string{
		REFRESH_LOCATION_JOB: config.LocationRefreshSchedule,
		SYNC_CONTACTS_JOB:    config.ContactsSyncSchedule,
	}
	if storage.EnableStoreBackup {
		schedules[BACKUP_STORE_JOB] = storage.StoreBackupSchedule
	}

	for name, handler := range handlers {
		if err := adapter.Register(name, handler); err != nil {
			return errors.Wrap(err, name)
		}

		schedule := schedules[name]
		if schedule == "" {
			continue
		}

		if err := adapter.PeriodicallyPerform(schedule, jobs.JobParams{Name: name, Handler: name}); err != nil {
			return errors.Wrap(err, name)
		}
		logg.Infof("Scheduled %v with '%v'", name, schedule)
	}

	return nil
}

func (s *Session) Close() error {
	return closeAll(s.closers)()
}

// ----------------------------------------------------------------------------//
// Helper functions
// ----------------------------------------------------------------------------//

func newLocator(config shared.LocationConfig, timeout time.Duration) location.Locator {
	if config.Provider == "geoip" {
		locator := location.NewGeoIPLocator(config.GeoIPURL, timeout)
		locator.Enabled = config.Enabled
		return locator
	}

	return &location.StaticLocator{
		Enabled:   config.Enabled,
		Latitude:  config.Latitude,
		Longitude: config.Longitude,
		Accuracy:  config.Accuracy,
	}
}

func closeAll(closers []func() error) func() error {
	return func() error {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		return errs
	}
}
