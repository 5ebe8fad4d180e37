package rule

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"swiftstyle/internal/diag"
)

// Registry is an explicit, per-run rule table. Rules keep registration order.
type Registry struct {
	rules []*Rule
	byID  map[string]*Rule
}

// NewRegistry registers rules in order.
func NewRegistry(rules ...*Rule) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Rule, len(rules))}
	for _, rl := range rules {
		if err := r.Register(rl); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a rule. Ids and codes must be unique.
func (r *Registry) Register(rl *Rule) error {
	if rl == nil || rl.ID == "" || rl.Check == nil {
		return fmt.Errorf("rule: incomplete rule definition %+v", rl)
	}
	if _, dup := r.byID[rl.ID]; dup {
		return fmt.Errorf("rule: duplicate rule id %q", rl.ID)
	}
	for _, other := range r.rules {
		if other.Code == rl.Code {
			return fmt.Errorf("rule: %s and %s share code %s", other.ID, rl.ID, rl.Code.ID())
		}
	}
	r.rules = append(r.rules, rl)
	r.byID[rl.ID] = rl
	return nil
}

// Lookup returns the rule with id.
func (r *Registry) Lookup(id string) (*Rule, bool) {
	rl, ok := r.byID[id]
	return rl, ok
}

// All returns the rules in registration order.
func (r *Registry) All() []*Rule {
	return slices.Clone(r.rules)
}

func (r *Registry) Len() int { return len(r.rules) }

// IDs returns the rule ids sorted alphabetically.
func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.byID))
}

// Setting is the resolved configuration of one rule.
type Setting struct {
	Enabled  bool
	Severity diag.Severity
	Params   Params
}

// Settings maps rule ids to resolved settings.
type Settings map[string]Setting

// Defaults returns every rule enabled with its default severity and params.
func (r *Registry) Defaults() Settings {
	out := make(Settings, len(r.rules))
	for _, rl := range r.rules {
		out[rl.ID] = Setting{Enabled: true, Severity: rl.Severity, Params: rl.DefaultParams()}
	}
	return out
}

// For returns the setting of rl, falling back to its defaults.
func (s Settings) For(rl *Rule) Setting {
	if st, ok := s[rl.ID]; ok {
		if st.Params == nil {
			st.Params = rl.DefaultParams()
		}
		return st
	}
	return Setting{Enabled: true, Severity: rl.Severity, Params: rl.DefaultParams()}
}

// Fingerprint renders the settings deterministically; used as a cache key
// component.
func (s Settings) Fingerprint() string {
	var sb strings.Builder
	for _, id := range slices.Sorted(maps.Keys(s)) {
		st := s[id]
		fmt.Fprintf(&sb, "%s:%t:%s", id, st.Enabled, st.Severity)
		for _, name := range slices.Sorted(maps.Keys(st.Params)) {
			fmt.Fprintf(&sb, ",%s=%v", name, st.Params[name])
		}
		sb.WriteByte(';')
	}
	return sb.String()
}
