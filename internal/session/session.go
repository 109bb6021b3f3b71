// Package session manages the locally persisted session state: the login
// flag and the user profile. It replaces the original polling flag observer
// with explicit change notification: every mutation of the login flag is
// pushed to subscribers, so nothing re-reads storage on an interval.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sunghokim128/littlelemon/internal/models"
	"github.com/sunghokim128/littlelemon/internal/storage"
)

// ErrInvalidProfile indicates profile input failed validation.
var ErrInvalidProfile = errors.New("invalid profile")

// Session keys in the key-value store.
const (
	keyLoggedIn  = "isLoggedIn"
	keyFirstName = "firstName"
	keyLastName  = "lastName"
	keyEmail     = "email"
	keyPhone     = "phone"
	keyAvatar    = "avatar"
	keyInstallID = "installId"
)

// Manager owns the session keyspace: created at onboarding, mutated at
// profile save, fully erased at logout.
type Manager struct {
	store    storage.SessionStore
	validate *validator.Validate

	mu      sync.Mutex
	subs    map[int]chan bool
	nextSub int
}

// NewManager creates a session manager over the given key-value store.
func NewManager(store storage.SessionStore) *Manager {
	return &Manager{
		store:    store,
		validate: validator.New(),
		subs:     make(map[int]chan bool),
	}
}

// Onboard creates the session: it validates the name and email, persists
// them with the login flag set, and assigns an install ID on first onboard.
func (m *Manager) Onboard(ctx context.Context, firstName, email string) (models.Profile, error) {
	profile := models.Profile{FirstName: firstName, Email: email}
	if err := m.validate.Struct(profile); err != nil {
		return models.Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	installID, present, err := m.store.Get(ctx, keyInstallID)
	if err != nil {
		return models.Profile{}, err
	}
	if !present {
		installID = uuid.New().String()
	}

	pairs := map[string]string{
		keyFirstName: profile.FirstName,
		keyEmail:     profile.Email,
		keyLoggedIn:  "true",
		keyInstallID: installID,
	}
	if err := m.store.SetAll(ctx, pairs); err != nil {
		return models.Profile{}, err
	}

	slog.Info("Session onboarded", "install_id", installID)
	m.notify(true)
	return profile, nil
}

// IsLoggedIn reports the login flag. A missing flag means logged out.
func (m *Manager) IsLoggedIn(ctx context.Context) (bool, error) {
	value, present, err := m.store.Get(ctx, keyLoggedIn)
	if err != nil || !present {
		return false, err
	}
	loggedIn, _ := strconv.ParseBool(value)
	return loggedIn, nil
}

// InstallID returns the install ID assigned at first onboarding, or empty
// when the session has never been created.
func (m *Manager) InstallID(ctx context.Context) (string, error) {
	value, _, err := m.store.Get(ctx, keyInstallID)
	return value, err
}

// Profile reads every profile field. Missing keys read as empty fields.
func (m *Manager) Profile(ctx context.Context) (models.Profile, error) {
	var profile models.Profile
	for key, field := range map[string]*string{
		keyFirstName: &profile.FirstName,
		keyLastName:  &profile.LastName,
		keyEmail:     &profile.Email,
		keyPhone:     &profile.Phone,
		keyAvatar:    &profile.Avatar,
	} {
		value, _, err := m.store.Get(ctx, key)
		if err != nil {
			return models.Profile{}, err
		}
		*field = value
	}
	return profile, nil
}

// SaveProfile validates and persists every profile field in one write.
func (m *Manager) SaveProfile(ctx context.Context, profile models.Profile) error {
	if err := m.validate.Struct(profile); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	return m.store.SetAll(ctx, map[string]string{
		keyFirstName: profile.FirstName,
		keyLastName:  profile.LastName,
		keyEmail:     profile.Email,
		keyPhone:     profile.Phone,
		keyAvatar:    profile.Avatar,
	})
}

// Logout erases the entire session keyspace and notifies subscribers.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	slog.Info("Session cleared")
	m.notify(false)
	return nil
}

// Subscribe registers for login-state changes. The returned channel receives
// the new state on every mutation; the cancel func detaches and closes it,
// so consumers ranging over the channel terminate. Cancel is idempotent.
// A slow subscriber only ever misses intermediate states, never the latest
// one's delivery attempt.
func (m *Manager) Subscribe() (<-chan bool, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan bool, 1)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// Closing under the same lock notify holds keeps the close from
		// racing a send; the deleted entry is never sent to again.
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (m *Manager) notify(loggedIn bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		// Replace a pending undelivered state rather than blocking.
		select {
		case <-ch:
		default:
		}
		ch <- loggedIn
	}
}
