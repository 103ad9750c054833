package cmd

import (
	"github.com/fatih/color"

	"github.com/khanhnv2901/websentry/internal/engine"
)

var (
	colorSuccess  = color.New(color.FgGreen).SprintFunc()
	colorInfo     = color.New(color.FgCyan).SprintFunc()
	colorWarn     = color.New(color.FgYellow).SprintFunc()
	colorError    = color.New(color.FgRed).SprintFunc()
	colorCritical = color.New(color.FgRed, color.Bold).SprintFunc()
)

func colorSeverity(sev engine.Severity) string {
	switch sev {
	case engine.SeverityCritical:
		return colorCritical(string(sev))
	case engine.SeverityHigh:
		return colorError(string(sev))
	case engine.SeverityMedium:
		return colorWarn(string(sev))
	case engine.SeverityLow:
		return colorInfo(string(sev))
	default:
		return string(sev)
	}
}
