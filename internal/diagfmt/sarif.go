package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/report"
	"swiftstyle/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool         `json:"tool"`
	AutomationDetails *sarifAutomation  `json:"automationDetails,omitempty"`
	Invocations       []sarifInvocation `json:"invocations"`
	Results           []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	ShortDescription     sarifText           `json:"shortDescription"`
	DefaultConfiguration sarifRuleConfig     `json:"defaultConfiguration"`
	Properties           map[string][]string `json:"properties,omitempty"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifAutomation struct {
	ID string `json:"id"`
}

type sarifInvocation struct {
	ExecutionSuccessful bool     `json:"executionSuccessful"`
	Arguments           []string `json:"arguments,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex *int            `json:"ruleIndex,omitempty"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

type sarifFix struct {
	Description     sarifText             `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion `json:"deletedRegion"`
	InsertedContent *sarifText  `json:"insertedContent,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif форматирует отчёт в SARIF (v2.1.0). Правила из meta попадают в
// tool.driver.rules; результаты ссылаются на них по индексу.
func Sarif(w io.Writer, rep *report.Report, fs *source.FileSet, meta SarifRunMeta) error {
	name := meta.ToolName
	if name == "" {
		name = "swiftstyle"
	}
	run := sarifRun{
		Tool:              sarifTool{Driver: sarifDriver{Name: name, Version: meta.ToolVersion, Rules: make([]sarifRule, 0, len(meta.Rules))}},
		AutomationDetails: &sarifAutomation{ID: name + "/" + rep.RunID},
		Invocations: []sarifInvocation{{
			ExecutionSuccessful: rep.Summary.Tooling == 0,
			Arguments:           meta.InvocationArgs,
		}},
		Results: make([]sarifResult, 0),
	}
	index := make(map[string]int, len(meta.Rules))
	for i, rl := range meta.Rules {
		index[rl.ID] = i
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
			ID:                   rl.ID,
			Name:                 rl.Code.ID(),
			ShortDescription:     sarifText{Text: rl.Description},
			DefaultConfiguration: sarifRuleConfig{Level: sarifLevel(rl.Severity)},
			Properties:           map[string][]string{"tags": {"style"}},
		})
	}

	for _, d := range rep.Diagnostics() {
		res := sarifResult{
			RuleID:  d.Code.ID(),
			Level:   sarifLevel(d.Severity),
			Message: sarifText{Text: d.Message},
		}
		if idx, ok := index[d.Rule]; ok && d.IsFinding() {
			res.RuleID = d.Rule
			res.RuleIndex = &idx
		}
		if d.Code.Category() != diag.CatConfig {
			if f := fileOf(fs, d.Primary); f != nil {
				res.Locations = []sarifLocation{{PhysicalLocation: sarifPhysical{
					ArtifactLocation: sarifArtifactLocation{URI: sarifURI(f, fs)},
					Region:           sarifRegionOf(f, d.Primary),
				}}}
			}
		}
		for _, fx := range d.Fixes {
			if sf, ok := sarifFixOf(fx, fs); ok {
				res.Fixes = append(res.Fixes, sf)
			}
		}
		run.Results = append(run.Results, res)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}

func sarifURI(f *source.File, fs *source.FileSet) string {
	return filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
}

// sarifRegionOf converts a span; SARIF columns are 1-based and the end
// column is exclusive, which matches LineCol of the end offset.
func sarifRegionOf(f *source.File, sp source.Span) sarifRegion {
	start, end := f.Position(sp.Start), f.Position(sp.End)
	return sarifRegion{StartLine: start.Line, StartColumn: start.Col, EndLine: end.Line, EndColumn: end.Col}
}

func sarifFixOf(fx diag.Fix, fs *source.FileSet) (sarifFix, bool) {
	changes := map[string]*sarifArtifactChange{}
	var order []string
	for _, e := range fx.Edits {
		f := fileOf(fs, e.Span)
		if f == nil {
			return sarifFix{}, false
		}
		uri := sarifURI(f, fs)
		ch, ok := changes[uri]
		if !ok {
			ch = &sarifArtifactChange{ArtifactLocation: sarifArtifactLocation{URI: uri}}
			changes[uri] = ch
			order = append(order, uri)
		}
		rep := sarifReplacement{DeletedRegion: sarifRegionOf(f, e.Span)}
		if e.NewText != "" {
			rep.InsertedContent = &sarifText{Text: e.NewText}
		}
		ch.Replacements = append(ch.Replacements, rep)
	}
	out := sarifFix{Description: sarifText{Text: fx.Title}}
	for _, uri := range order {
		out.ArtifactChanges = append(out.ArtifactChanges, *changes[uri])
	}
	return out, len(out.ArtifactChanges) > 0
}
