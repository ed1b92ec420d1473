package gamedb

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Game identifies one run as reported by the host frontend.
type Game struct {
	// ID is the host's stable identifier, when it has one.
	ID       string
	Title    string
	Platform string
}

// Resolver decides whether a run is in scope for card overrides. Platform
// names differ across frontends ("PlayStation 2", "Sony PlayStation 2",
// "PS2"), so matching is ranked: exact case-insensitive equality first, then
// normalized containment, then fuzzy subsequence matching.
type Resolver struct {
	// Platform is the configured target platform.
	Platform string
	// Aliases are additional accepted platform names.
	Aliases []string
}

// InScope reports whether the game's platform matches the configured
// platform or one of its aliases.
func (r *Resolver) InScope(g Game) bool {
	_, ok := r.Match(g.Platform)
	return ok
}

// Match returns the configured name the platform matched against.
func (r *Resolver) Match(platform string) (string, bool) {
	platform = strings.TrimSpace(platform)
	if r == nil || r.Platform == "" || platform == "" {
		return "", false
	}
	names := append([]string{r.Platform}, r.Aliases...)
	for _, name := range names {
		if strings.EqualFold(platform, name) {
			return name, true
		}
	}
	norm := normalize(platform)
	if norm == "" {
		return "", false
	}
	normalized := make([]string, len(names))
	for i, name := range names {
		normalized[i] = normalize(name)
		// A name with no letters or digits would contain-match everything.
		if normalized[i] == "" {
			continue
		}
		if strings.Contains(norm, normalized[i]) || strings.Contains(normalized[i], norm) {
			return names[i], true
		}
	}
	if len(norm) < 2 {
		return "", false
	}
	if results := fuzzy.Find(norm, normalized); len(results) > 0 {
		return names[results[0].Index], true
	}
	return "", false
}

// Identity returns the stable identifier shared by the start and end
// lifecycle events for a game.
func (g Game) Identity() string {
	if g.ID != "" {
		return g.ID
	}
	return strings.ToLower(strings.TrimSpace(g.Title))
}

// normalize lowercases and strips everything but letters and digits, so
// "Sony PlayStation 2" and "playstation2" compare equal.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
