// Package planner derives destination directory chains from screenshot metadata.
package planner

import (
	"path/filepath"

	"shotsort/internal/parser"
)

// MovePlan describes the directories to create and the final destination
// for a single file. Directories is ordered parent to leaf; each entry is
// nested inside the previous one.
type MovePlan struct {
	Directories []string
	Destination string
}

// Plan computes the layout <character>/<event>/<YYYY>/<MM>/<DD> beneath
// parentDir and places fileName inside the day directory. Character and
// event segments are used verbatim as path segments, without sanitization.
func Plan(meta *parser.ScreenshotMetadata, parentDir, fileName string) *MovePlan {
	characterDir := filepath.Join(parentDir, meta.CharacterName)
	eventDir := filepath.Join(characterDir, meta.EventType)
	yearDir := filepath.Join(eventDir, meta.Year())
	monthDir := filepath.Join(yearDir, meta.Month())
	dayDir := filepath.Join(monthDir, meta.Day())

	return &MovePlan{
		Directories: []string{characterDir, eventDir, yearDir, monthDir, dayDir},
		Destination: filepath.Join(dayDir, fileName),
	}
}

// DayDir returns the leaf directory of the plan, the one the file lands in.
func (p *MovePlan) DayDir() string {
	return p.Directories[len(p.Directories)-1]
}
