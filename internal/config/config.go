package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/rule"
)

// SettingsKey is the reserved top-level key for run-wide options.
const SettingsKey = "settings"

// Config is a validated configuration ready for a run.
type Config struct {
	Path    string // empty when built from defaults
	Rules   rule.Settings
	FailOn  diag.Severity
	Jobs    int // 0 means GOMAXPROCS
	Exclude *Excluder
}

// Default returns the built-in configuration for reg.
func Default(reg *rule.Registry) *Config {
	return &Config{
		Rules:   reg.Defaults(),
		FailOn:  diag.SevError,
		Exclude: NewExcluder(),
	}
}

// Parse validates raw configuration bytes of the given format. path is used
// only for error messages.
func Parse(data []byte, format Format, path string, reg *rule.Registry) (*Config, error) {
	raw, lines, err := decode(data, format)
	if err != nil {
		return nil, &Error{Code: diag.CfgParseError, Path: path, Msg: err.Error(), Err: err}
	}
	cfg := Default(reg)
	cfg.Path = path
	p := parser{path: path, lines: lines, reg: reg, cfg: cfg}
	if err := p.apply(raw); err != nil {
		return nil, err
	}
	return cfg, nil
}

type parser struct {
	path  string
	lines map[string]int // top-level key -> line, YAML only
	reg   *rule.Registry
	cfg   *Config
}

func (p *parser) fail(code diag.Code, top, key, format string, args ...any) *Error {
	return &Error{
		Code: code,
		Path: p.path,
		Line: p.lines[top],
		Key:  key,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (p *parser) apply(raw map[string]any) error {
	// сортируем, чтобы первая ошибка была детерминированной
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if key == SettingsKey {
			if err := p.applySettings(raw[key]); err != nil {
				return err
			}
			continue
		}
		rl, ok := p.reg.Lookup(key)
		if !ok {
			return p.fail(diag.CfgUnknownRule, key, key, "unknown rule %q", key)
		}
		if err := p.applyRule(rl, raw[key]); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) applyRule(rl *rule.Rule, v any) error {
	st := p.cfg.Rules.For(rl)
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		st.Enabled = val
		p.cfg.Rules[rl.ID] = st
		return nil
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(val)) {
			key := rl.ID + "." + k
			switch k {
			case "enabled":
				b, ok := val[k].(bool)
				if !ok {
					return p.fail(diag.CfgParseError, rl.ID, key, "expected bool, got %T", val[k])
				}
				st.Enabled = b
			case "severity":
				s, ok := val[k].(string)
				if !ok {
					return p.fail(diag.CfgBadSeverity, rl.ID, key, "expected string, got %T", val[k])
				}
				sev, err := diag.ParseSeverity(s)
				if err != nil {
					return p.fail(diag.CfgBadSeverity, rl.ID, key, "%v", err)
				}
				st.Severity = sev
			case "params":
				params, err := p.params(rl, val[k])
				if err != nil {
					return err
				}
				for name, pv := range params {
					st.Params[name] = pv
				}
			default:
				return p.fail(diag.CfgParseError, rl.ID, key, "unknown key %q (want enabled, severity or params)", k)
			}
		}
		p.cfg.Rules[rl.ID] = st
		return nil
	}
	return p.fail(diag.CfgParseError, rl.ID, rl.ID, "expected a table or bool, got %T", v)
}

func (p *parser) params(rl *rule.Rule, v any) (rule.Params, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, p.fail(diag.CfgParseError, rl.ID, rl.ID+".params", "expected a table, got %T", v)
	}
	out := make(rule.Params, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		key := rl.ID + ".params." + name
		prm, ok := rl.Param(name)
		if !ok {
			return nil, p.fail(diag.CfgUnknownParam, rl.ID, key, "rule %s has no parameter %q", rl.ID, name)
		}
		val, err := prm.Coerce(raw[name])
		if err != nil {
			code := diag.CfgBadParamType
			if errors.Is(err, rule.ErrParamRange) {
				code = diag.CfgBadParamValue
			}
			e := p.fail(code, rl.ID, key, "%v", err)
			e.Err = err
			return nil, e
		}
		out[name] = val
	}
	return out, nil
}

func (p *parser) applySettings(v any) error {
	if v == nil {
		return nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return p.fail(diag.CfgParseError, SettingsKey, SettingsKey, "expected a table, got %T", v)
	}
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		key := SettingsKey + "." + k
		switch k {
		case "fail_on":
			s, ok := raw[k].(string)
			if !ok {
				return p.fail(diag.CfgBadSeverity, SettingsKey, key, "expected string, got %T", raw[k])
			}
			sev, err := diag.ParseSeverity(s)
			if err != nil {
				return p.fail(diag.CfgBadSeverity, SettingsKey, key, "%v", err)
			}
			p.cfg.FailOn = sev
		case "exclude":
			patterns, err := (rule.Param{Name: k, Kind: rule.ParamList}).Coerce(raw[k])
			if err != nil {
				return p.fail(diag.CfgBadParamType, SettingsKey, key, "%v", err)
			}
			for _, pat := range patterns.([]string) {
				if err := p.cfg.Exclude.Add(pat); err != nil {
					e := p.fail(diag.CfgBadGlob, SettingsKey, key, "%v", err)
					e.Err = err
					return e
				}
			}
		case "jobs":
			n, err := (rule.Param{Name: k, Kind: rule.ParamInt}).Coerce(raw[k])
			if err != nil {
				code := diag.CfgBadParamType
				if errors.Is(err, rule.ErrParamRange) {
					code = diag.CfgBadParamValue
				}
				return p.fail(code, SettingsKey, key, "%v", err)
			}
			p.cfg.Jobs = n.(int)
		default:
			return p.fail(diag.CfgParseError, SettingsKey, key, "unknown setting %q (want fail_on, exclude or jobs)", k)
		}
	}
	return nil
}
