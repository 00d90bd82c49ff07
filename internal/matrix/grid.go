// Package matrix reshapes per-provider stage assignments into the dense
// provider x stage grid the dashboard renders.
package matrix

import (
	"strings"

	"github.com/pwc-dv/dvmap/internal/database"
	"github.com/pwc-dv/dvmap/internal/intercept"
)

// Cell is one (provider, stage) pair of the grid.
type Cell struct {
	Provider string         `json:"provider"`
	Stage    intercept.Code `json:"stage"`
	Label    string         `json:"label"`
	Assigned bool           `json:"assigned"`
}

// DroppedToken records an Intercept token that matched no stage.
type DroppedToken struct {
	Provider string         `json:"provider"`
	Token    intercept.Code `json:"token"`
}

// Grid is the full cross product of providers and stages. Cells are ordered
// provider-major, providers sorted by name and stages in enumeration order.
type Grid struct {
	Providers []string          `json:"providers"`
	Stages    []intercept.Stage `json:"stages"`
	Cells     []Cell            `json:"cells"`
	Dropped   []DroppedToken    `json:"dropped,omitempty"`

	// Adjacency lists
	byProvider map[string][]bool             // provider -> assigned flag per stage
	byStage    map[intercept.Code][]string   // stage -> assigned providers
	stageIndex map[intercept.Code]int
}

// Build creates the grid for the given providers and stages. A provider with
// no entry in assignments gets a row of unassigned cells. Codes that name no
// stage cannot match a cell and are reported in Dropped instead.
func Build(providers []string, stages []intercept.Stage, assignments map[string]intercept.Set) *Grid {
	g := &Grid{
		Providers:  uniqueSorted(providers),
		Stages:     append([]intercept.Stage(nil), stages...),
		byProvider: make(map[string][]bool),
		byStage:    make(map[intercept.Code][]string),
		stageIndex: make(map[intercept.Code]int),
	}
	for i, s := range g.Stages {
		g.stageIndex[s.Code] = i
	}

	g.Cells = make([]Cell, 0, len(g.Providers)*len(g.Stages))
	for _, name := range g.Providers {
		set := assignments[name]
		row := make([]bool, len(g.Stages))
		for i, s := range g.Stages {
			assigned := set.Contains(s.Code)
			row[i] = assigned
			if assigned {
				g.byStage[s.Code] = append(g.byStage[s.Code], name)
			}
			g.Cells = append(g.Cells, Cell{
				Provider: name,
				Stage:    s.Code,
				Label:    s.Label,
				Assigned: assigned,
			})
		}
		g.byProvider[name] = row

		for _, code := range set.Slice() {
			if _, ok := g.stageIndex[code]; !ok {
				g.Dropped = append(g.Dropped, DroppedToken{Provider: name, Token: code})
			}
		}
	}

	return g
}

// FromRecords parses each record's Intercept field and builds the grid over
// the canonical stages. When a name repeats, the first record wins.
func FromRecords(records []*database.Provider) *Grid {
	names := make([]string, 0, len(records))
	assignments := make(map[string]intercept.Set, len(records))
	for _, p := range records {
		if _, seen := assignments[p.Name]; seen {
			continue
		}
		names = append(names, p.Name)
		assignments[p.Name] = p.Stages()
	}
	return Build(names, intercept.Stages(), assignments)
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	return len(g.Cells)
}

// Has reports whether the provider is a row of the grid.
func (g *Grid) Has(provider string) bool {
	_, ok := g.byProvider[provider]
	return ok
}

// Row returns the provider's cells in stage order, or nil.
func (g *Grid) Row(provider string) []Cell {
	if !g.Has(provider) {
		return nil
	}
	for i, name := range g.Providers {
		if name == provider {
			start := i * len(g.Stages)
			return g.Cells[start : start+len(g.Stages)]
		}
	}
	return nil
}

// Assigned reports whether the provider is assigned to the stage.
func (g *Grid) Assigned(provider string, code intercept.Code) bool {
	i, ok := g.stageIndex[code]
	if !ok {
		return false
	}
	row := g.byProvider[provider]
	return row != nil && row[i]
}

// AtStage returns the providers assigned to a stage, in grid order.
func (g *Grid) AtStage(code intercept.Code) []string {
	return g.byStage[code]
}

// StagesOf returns the stages a provider is assigned to, in grid order.
func (g *Grid) StagesOf(provider string) []intercept.Stage {
	var result []intercept.Stage
	for i, assigned := range g.byProvider[provider] {
		if assigned {
			result = append(result, g.Stages[i])
		}
	}
	return result
}

// uniqueSorted drops empty and repeated names and sorts the rest.
func uniqueSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	database.SortNames(result)
	return result
}
