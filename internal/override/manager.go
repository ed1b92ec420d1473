package override

import (
	"fmt"
	"os"
	"strings"

	"cardswap/internal/cards"
	"cardswap/internal/config"
	"cardswap/internal/gamedb"
	"cardswap/internal/inifile"
	"cardswap/internal/logger"
)

// Scoper decides whether a run is in scope for overrides.
type Scoper interface {
	InScope(g gamedb.Game) bool
}

// CardSource produces the card file a session should point the emulator at.
type CardSource interface {
	Ensure(title string) (string, error)
	Path(name string) string
}

// Manager applies one memory-card override per game session and restores the
// prior value when the session ends. It owns no file state between calls;
// everything it needs to revert lives in the Store.
type Manager struct {
	cfg   config.Settings
	scope Scoper
	cards CardSource
	store *Store
	log   *logger.Entry
}

func NewManager(cfg config.Settings, scope Scoper, cardSource CardSource, store *Store) *Manager {
	return &Manager{
		cfg:   cfg,
		scope: scope,
		cards: cardSource,
		store: store,
		log:   logger.Named("override"),
	}
}

// Result reports what Apply touched.
type Result struct {
	// Key is the exact settings key written, in its on-disk spelling.
	Key string
	// Wrote is the literal value written.
	Wrote string
	// Prior is the value the key held before the write; PriorFound is false
	// when the key did not exist.
	Prior      string
	PriorFound bool
	// Card is the card file name backing the override.
	Card string
}

// Apply points the configured slot key at the game's card file and remembers
// what it replaced. A *ValidationError means a precondition failed and
// nothing was touched; any other error means the settings write itself
// failed, also with no state change. On success the session slot is replaced,
// superseding any unreverted override.
func (m *Manager) Apply(sessionID string, game gamedb.Game) (Result, error) {
	if !m.cfg.Enabled {
		return Result{}, validationf("card overrides are disabled")
	}
	if m.scope == nil || !m.scope.InScope(game) {
		return Result{}, validationf("%s (%s) is not in scope", game.Title, game.Platform)
	}
	if m.cfg.CardsDir == "" {
		return Result{}, validationf("cards directory is not configured")
	}
	if m.cfg.IniPath == "" {
		return Result{}, validationf("emulator settings path is not configured")
	}
	if _, err := os.Stat(m.cfg.IniPath); err != nil {
		return Result{}, validationf("emulator settings file not found: %s", m.cfg.IniPath)
	}
	if m.cfg.Section == "" || (m.cfg.Key == "" && len(m.cfg.CandidateKeys) == 0) {
		return Result{}, validationf("no section or slot key configured")
	}

	key, prior, priorFound := m.resolveKey()

	name, err := m.cards.Ensure(game.Title)
	if err != nil {
		return Result{}, validationf("prepare card for %s: %v", game.Title, err)
	}

	// Match the literal form already in use: a prior full path means the
	// emulator expects full paths, a bare name means names relative to its
	// own card directory.
	wrote := name
	if priorFound && cards.LooksLikePath(prior) {
		wrote = m.cards.Path(name)
	}

	if err := inifile.WriteValue(m.cfg.IniPath, m.cfg.Section, key, wrote); err != nil {
		return Result{}, fmt.Errorf("apply override: %w", err)
	}

	m.syncSecondaryKeys(key, wrote)

	m.store.Replace(Record{
		SessionID:  sessionID,
		Path:       m.cfg.IniPath,
		Section:    m.cfg.Section,
		Key:        key,
		Prior:      prior,
		PriorFound: priorFound,
	})
	m.log.WithFields(logger.Fields{
		"session": sessionID,
		"key":     key,
		"card":    name,
	}).Info("applied card override")

	return Result{Key: key, Wrote: wrote, Prior: prior, PriorFound: priorFound, Card: name}, nil
}

// Revert restores the value captured by the matching Apply. It never fails
// outward: a mismatched or missing session is a no-op, a failed write is
// logged, and the slot is always cleared so a stale record cannot be
// reverted later.
func (m *Manager) Revert(sessionID string) {
	rec, ok := m.store.Get()
	if !ok || rec.SessionID != sessionID {
		m.log.WithField("session", sessionID).Debug("no matching override to revert")
		return
	}
	if !rec.PriorFound {
		// The key did not exist before Apply; restoring means leaving the
		// written value in place, not deleting the key.
		m.store.Clear()
		m.log.WithField("session", sessionID).Info("no prior value, override left in place")
		return
	}
	if err := inifile.WriteValue(rec.Path, rec.Section, rec.Key, rec.Prior); err != nil {
		m.log.WithField("session", sessionID).Warnf("revert failed: %v", err)
	} else {
		m.log.WithFields(logger.Fields{
			"session": sessionID,
			"key":     rec.Key,
		}).Info("reverted card override")
	}
	m.store.Clear()
}

// resolveKey picks the canonical slot key and captures its current value.
// The exact configured key wins over heuristic discovery unless
// PreferDiscovered is set; when nothing is found on disk the first candidate
// is used with no prior value.
func (m *Manager) resolveKey() (key, prior string, priorFound bool) {
	configured := func() (string, string, bool) {
		if m.cfg.Key == "" {
			return "", "", false
		}
		v, ok := inifile.ReadValue(m.cfg.IniPath, m.cfg.Section, m.cfg.Key)
		if !ok {
			return "", "", false
		}
		return m.cfg.Key, v, true
	}
	discovered := func() (string, string, bool) {
		k, ok := inifile.FindCandidateKey(m.cfg.IniPath, m.cfg.Section, m.cfg.CandidateKeys)
		if !ok {
			return "", "", false
		}
		v, _ := inifile.ReadValue(m.cfg.IniPath, m.cfg.Section, k)
		return k, v, true
	}

	first, second := configured, discovered
	if m.cfg.PreferDiscovered {
		first, second = discovered, configured
	}
	if k, v, ok := first(); ok {
		return k, v, true
	}
	if k, v, ok := second(); ok {
		return k, v, true
	}
	if m.cfg.Key != "" && len(m.cfg.CandidateKeys) == 0 {
		return m.cfg.Key, "", false
	}
	return m.cfg.CandidateKeys[0], "", false
}

// syncSecondaryKeys is best effort: alternate slot keys the emulator might
// read get the same value, and a discoverable slot-enable flag is forced on.
// Failures here never block the primary write.
func (m *Manager) syncSecondaryKeys(canonical, value string) {
	for _, cand := range m.cfg.CandidateKeys {
		if strings.EqualFold(cand, canonical) {
			continue
		}
		if err := inifile.WriteValue(m.cfg.IniPath, m.cfg.Section, cand, value); err != nil {
			m.log.Warnf("sync %s: %v", cand, err)
		}
	}
	if k, ok := inifile.FindCandidateKey(m.cfg.IniPath, m.cfg.Section, m.cfg.EnableKeys); ok {
		if err := inifile.WriteValue(m.cfg.IniPath, m.cfg.Section, k, "true"); err != nil {
			m.log.Warnf("enable %s: %v", k, err)
		}
	}
}
