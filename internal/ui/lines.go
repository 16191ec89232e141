package ui

import (
	"fmt"

	"ecosim/internal/core"
	"ecosim/internal/sims/ecosystem"
)

type snapshotProvider interface {
	Snapshot() ecosystem.Snapshot
}

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// statusLines summarises the clock and atmosphere.
func statusLines(s ecosystem.Snapshot) []string {
	return []string{
		fmt.Sprintf("Day %d  Hour %02d", s.Day, s.Hour),
		fmt.Sprintf("Plants  %d", s.Plants),
		fmt.Sprintf("CO2     %.1f", s.CO2),
		fmt.Sprintf("O2      %.1f", s.O2),
		fmt.Sprintf("Atm H2O %.1f", s.AtmosphericWater),
	}
}

// parameterLines lists every parameter under its group heading.
func parameterLines(snap core.ParameterSnapshot) []string {
	var lines []string
	for _, g := range snap.Groups {
		if len(g.Params) == 0 {
			continue
		}
		lines = append(lines, "", "["+g.Name+"]")
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("%-18s %s", truncate(p.Label, 18), p.Value))
		}
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// hudLines builds the full panel text for sim.
func hudLines(sim core.Sim) []string {
	var lines []string
	if sim != nil {
		lines = append(lines, sim.Name())
	}
	if p, ok := sim.(snapshotProvider); ok {
		lines = append(lines, statusLines(p.Snapshot())...)
	}
	if p, ok := sim.(parameterProvider); ok {
		lines = append(lines, parameterLines(p.Parameters())...)
	}
	return lines
}
