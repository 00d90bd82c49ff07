package matrix

import (
	"github.com/pwc-dv/dvmap/internal/intercept"
)

// StageCoverage counts the providers assigned to one stage.
type StageCoverage struct {
	Stage     intercept.Stage `json:"stage"`
	Count     int             `json:"count"`
	Providers []string        `json:"providers"`
}

// Coverage summarizes the grid per stage.
type Coverage struct {
	Stages     []StageCoverage `json:"stages"`
	Unassigned []string        `json:"unassigned"`
	Total      int             `json:"total"`
}

// Coverage returns providers per stage plus the providers with no
// assignment at all, the gaps in the intercept model.
func (g *Grid) Coverage() Coverage {
	c := Coverage{
		Stages:     make([]StageCoverage, 0, len(g.Stages)),
		Unassigned: make([]string, 0),
		Total:      len(g.Providers),
	}

	for _, s := range g.Stages {
		providers := append([]string{}, g.byStage[s.Code]...)
		c.Stages = append(c.Stages, StageCoverage{
			Stage:     s,
			Count:     len(providers),
			Providers: providers,
		})
	}

	for _, name := range g.Providers {
		if len(g.StagesOf(name)) == 0 {
			c.Unassigned = append(c.Unassigned, name)
		}
	}

	return c
}

// Percent returns the share of providers assigned to the stage, 0-100.
func (c Coverage) Percent(code intercept.Code) float64 {
	if c.Total == 0 {
		return 0
	}
	for _, sc := range c.Stages {
		if sc.Stage.Code == code {
			return float64(sc.Count) / float64(c.Total) * 100
		}
	}
	return 0
}
