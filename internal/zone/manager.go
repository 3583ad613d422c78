package zone

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/dshills/gridstorm/internal/input"
)

// Lifecycle starts and stops the background work behind zones.
type Lifecycle interface {
	// Start runs after a zone is registered. An error unregisters it.
	Start(z *Zone) error
	// Stop runs before a zone is removed and must release everything
	// Start acquired. It may be called for zones Start never saw.
	Stop(z *Zone)
}

// Resizer is implemented by lifecycles that react to geometry changes.
type Resizer interface {
	Resized(z *Zone)
}

// Manager is the zone registry. Iteration follows creation order, which
// also decides FindAt when zones overlap.
type Manager struct {
	mu    sync.RWMutex
	zones map[string]*Zone
	order []*Zone

	life     Lifecycle
	logger   *log.Logger
	maxLines int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLifecycle sets the lifecycle notified on create and delete.
func WithLifecycle(l Lifecycle) Option {
	return func(m *Manager) { m.life = l }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMaxLines bounds appended content per zone.
func WithMaxLines(n int) Option {
	return func(m *Manager) { m.maxLines = n }
}

// NewManager creates an empty registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		zones:    make(map[string]*Zone),
		logger:   log.New(io.Discard),
		maxLines: DefaultMaxLines,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetLifecycle replaces the lifecycle. Zones already registered are not
// started by the new lifecycle.
func (m *Manager) SetLifecycle(l Lifecycle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.life = l
}

func keyOf(name string) string {
	return strings.ToLower(name)
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, name)
	}
	return nil
}

// Create registers a zone and starts its lifecycle.
func (m *Manager) Create(name string, x, y, w, h int, cfg Config) (*Zone, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if _, exists := m.zones[keyOf(name)]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	}
	z := newZone(name, x, y, w, h, cfg, m.maxLines)
	m.zones[keyOf(name)] = z
	m.order = append(m.order, z)
	life := m.life
	m.mu.Unlock()

	if life != nil {
		if err := life.Start(z); err != nil {
			life.Stop(z)
			m.remove(z)
			return nil, fmt.Errorf("start zone %s: %w", name, err)
		}
	}
	m.logger.Debug("zone created", "name", name, "type", cfg.Type, "x", x, "y", y, "w", w, "h", h)
	return z, nil
}

func (m *Manager) remove(z *Zone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.zones, keyOf(z.Name()))
	for i, o := range m.order {
		if o == z {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Get returns a zone by name, case-insensitively.
func (m *Manager) Get(name string) (*Zone, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	z, ok := m.zones[keyOf(name)]
	return z, ok
}

// Delete stops a zone's background work and then unregisters it.
func (m *Manager) Delete(name string) error {
	z, ok := m.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	m.mu.RLock()
	life := m.life
	m.mu.RUnlock()
	if life != nil {
		life.Stop(z)
	}
	m.remove(z)
	m.logger.Debug("zone deleted", "name", name)
	return nil
}

// Clear deletes every zone.
func (m *Manager) Clear() {
	for _, z := range m.List() {
		_ = m.Delete(z.Name())
	}
}

// Close stops every zone's background work without unregistering.
func (m *Manager) Close() {
	m.mu.RLock()
	life := m.life
	zones := append([]*Zone(nil), m.order...)
	m.mu.RUnlock()
	if life == nil {
		return
	}
	for _, z := range zones {
		life.Stop(z)
	}
}

// List returns all zones in creation order.
func (m *Manager) List() []*Zone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Zone(nil), m.order...)
}

// Len returns the number of zones.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// FindAt returns the first zone, in creation order, containing (x, y).
func (m *Manager) FindAt(x, y int) (*Zone, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, z := range m.order {
		if z.Contains(x, y) {
			return z, true
		}
	}
	return nil, false
}

// Rename changes a zone's name. Changing only the case is allowed.
func (m *Manager) Rename(oldName, newName string) error {
	if err := validName(newName); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	z, ok := m.zones[keyOf(oldName)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if other, exists := m.zones[keyOf(newName)]; exists && other != z {
		return fmt.Errorf("%w: %s", ErrExists, newName)
	}
	delete(m.zones, keyOf(oldName))
	z.mu.Lock()
	z.name = newName
	z.mu.Unlock()
	m.zones[keyOf(newName)] = z
	return nil
}

// Move sets a zone's top-left corner.
func (m *Manager) Move(name string, x, y int) error {
	z, ok := m.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	z.mu.Lock()
	z.x, z.y = x, y
	z.mu.Unlock()
	return nil
}

// Resize sets a zone's size and notifies a resizing lifecycle.
func (m *Manager) Resize(name string, w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	z, ok := m.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	z.mu.Lock()
	z.width, z.height = w, h
	z.mu.Unlock()

	m.mu.RLock()
	life := m.life
	m.mu.RUnlock()
	if r, ok := life.(Resizer); ok {
		r.Resized(z)
	}
	return nil
}

// SetBookmark binds a bookmark key to a zone, unbinding it from any other
// zone. Key 0 removes the binding.
func (m *Manager) SetBookmark(name string, k rune) error {
	if k != 0 {
		nk, ok := input.NormalizeKey(k)
		if !ok {
			return fmt.Errorf("bookmark key %q must be a-z or 0-9", k)
		}
		k = nk
	}
	z, ok := m.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, other := range m.List() {
		if other != z && k != 0 && other.Bookmark() == k {
			other.mu.Lock()
			other.bookmark = 0
			other.mu.Unlock()
		}
	}
	z.mu.Lock()
	z.bookmark = k
	z.mu.Unlock()
	return nil
}

// FindByBookmark returns the zone bound to a bookmark key.
func (m *Manager) FindByBookmark(k rune) (*Zone, bool) {
	k, ok := input.NormalizeKey(k)
	if !ok {
		return nil, false
	}
	for _, z := range m.List() {
		if z.Bookmark() == k {
			return z, true
		}
	}
	return nil, false
}

// Records serializes every zone in creation order.
func (m *Manager) Records() []Record {
	zones := m.List()
	out := make([]Record, 0, len(zones))
	for _, z := range zones {
		out = append(out, RecordOf(z))
	}
	return out
}

// Load creates zones from records. Zones that fail are skipped and
// reported together.
func (m *Manager) Load(records []Record) error {
	var errs []error
	for _, r := range records {
		if _, err := m.CreateFromRecord(r); err != nil {
			errs = append(errs, fmt.Errorf("zone %s: %w", r.Name, err))
		}
	}
	return errors.Join(errs...)
}

// CreateFromRecord creates one zone from its serialized form.
func (m *Manager) CreateFromRecord(r Record) (*Zone, error) {
	cfg, err := r.Config()
	if err != nil {
		return nil, err
	}
	z, err := m.Create(r.Name, r.X, r.Y, r.Width, r.Height, cfg)
	if err != nil {
		return nil, err
	}
	z.SetDescription(r.Description)
	if k := []rune(r.Bookmark); len(k) == 1 {
		if err := m.SetBookmark(r.Name, k[0]); err != nil {
			return z, err
		}
	}
	return z, nil
}
