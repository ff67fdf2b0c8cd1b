// Package export renders resolution results as JSON, TOML, Graphviz DOT
// and SVG.
//
// JSON and TOML share one serializable [Document]; field names are stable
// and snake_case in both encodings.
package export

import (
	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/resolve"
)

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists every supported format, in help-text order.
var Formats = []Format{FormatText, FormatJSON, FormatTOML, FormatDOT, FormatSVG}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want text, json, toml, dot or svg)", s)
}

// Document is the serializable form of a [resolve.Result].
type Document struct {
	Root     string       `json:"root" toml:"root"`
	Nodes    []Node       `json:"nodes" toml:"nodes"`
	Dropped  []Dropped    `json:"dropped,omitempty" toml:"dropped,omitempty"`
	Warnings []Warning    `json:"warnings,omitempty" toml:"warnings,omitempty"`
	Stats    DocumentStat `json:"stats" toml:"stats"`
}

// Node is one resolved key with its filtered dependencies.
type Node struct {
	Name         string       `json:"name" toml:"name"`
	Extras       string       `json:"extras,omitempty" toml:"extras,omitempty"`
	Version      string       `json:"version" toml:"version"`
	Dependencies []Dependency `json:"dependencies" toml:"dependencies"`
}

// Dependency is a declared dependency and, when it was resolved, the
// version it resolved to.
type Dependency struct {
	Name       string `json:"name" toml:"name"`
	Extras     string `json:"extras,omitempty" toml:"extras,omitempty"`
	ExtraGate  string `json:"extra_gate,omitempty" toml:"extra_gate,omitempty"`
	Constraint string `json:"constraint,omitempty" toml:"constraint,omitempty"`
	Resolved   string `json:"resolved,omitempty" toml:"resolved,omitempty"`
}

// Dropped is a request no version satisfied.
type Dropped struct {
	Name       string `json:"name" toml:"name"`
	Extras     string `json:"extras,omitempty" toml:"extras,omitempty"`
	Constraint string `json:"constraint,omitempty" toml:"constraint,omitempty"`
	Depth      int    `json:"depth" toml:"depth"`
}

// Warning is a non-fatal problem recorded during the run.
type Warning struct {
	Code    string `json:"code" toml:"code"`
	Package string `json:"package" toml:"package"`
	Message string `json:"message" toml:"message"`
}

// DocumentStat summarizes the run.
type DocumentStat struct {
	Steps         int   `json:"steps" toml:"steps"`
	Skipped       int   `json:"skipped" toml:"skipped"`
	RegistryCalls int   `json:"registry_calls" toml:"registry_calls"`
	DurationMS    int64 `json:"duration_ms" toml:"duration_ms"`
}

// FromResult builds the document for res. Nodes keep the map's insertion order.
func FromResult(res *resolve.Result) Document {
	doc := Document{
		Root:  res.Root.String(),
		Nodes: make([]Node, 0, res.Map.Len()),
		Stats: DocumentStat{
			Steps:         res.Stats.Steps,
			Skipped:       res.Stats.Skipped,
			RegistryCalls: res.Stats.RegistryCalls,
			DurationMS:    res.Stats.Duration.Milliseconds(),
		},
	}

	for k, entry := range res.Map.All() {
		n := Node{Name: k.Name, Extras: k.Extras, Version: k.Version, Dependencies: make([]Dependency, 0, len(entry))}
		for _, d := range entry {
			dep := Dependency{Name: d.Name, Extras: d.Extras, ExtraGate: d.ExtraGate, Constraint: d.Constraint}
			if target, ok := res.Map.Resolved(d); ok {
				dep.Resolved = target.Version
			}
			n.Dependencies = append(n.Dependencies, dep)
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	for _, r := range res.Dropped {
		doc.Dropped = append(doc.Dropped, Dropped{Name: r.Name, Extras: r.Extras, Constraint: r.Constraint, Depth: r.Depth})
	}
	for _, w := range res.Warnings {
		doc.Warnings = append(doc.Warnings, Warning{Code: string(w.Code), Package: w.Package, Message: w.Message})
	}
	return doc
}
