package actionset

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/actionreg/pkg/errors"
	"github.com/arthur-debert/actionreg/pkg/logging"
	"github.com/arthur-debert/actionreg/pkg/registry"
	"github.com/arthur-debert/actionreg/pkg/targetpath"
)

// Manager owns every ActionSet, keyed by root id. Sets are created on demand
// and kept for the manager's lifetime.
type Manager struct {
	sets   registry.Registry[*ActionSet]
	logger zerolog.Logger
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{
		sets:   registry.New[*ActionSet](),
		logger: logging.GetLogger("actionset.manager"),
	}
}

// GetOrCreate returns the set for rootID, creating an empty one if needed
func (m *Manager) GetOrCreate(rootID string) (*ActionSet, error) {
	if err := targetpath.ValidateSegment(rootID); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMalformedPath, "invalid root id %q", rootID)
	}

	set, created := m.sets.GetOrCreate(rootID, func() *ActionSet {
		return newActionSet(rootID)
	})
	if created {
		m.logger.Debug().Str("root", rootID).Msg("Action set created")
	}
	return set, nil
}

// Get returns the set for rootID without creating it
func (m *Manager) Get(rootID string) (*ActionSet, error) {
	set, err := m.sets.Get(rootID)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "action set '%s' does not exist", rootID).
			WithDetail("root", rootID)
	}
	return set, nil
}

// Roots lists the root ids of all sets in sorted order
func (m *Manager) Roots() []string {
	return m.sets.List()
}
