package game

import (
	"errors"

	"github.com/ncruces/zenity"
)

type pickKind int

const (
	pickSprite pickKind = iota
	pickTrack
)

// pickResult is delivered back to the game loop once a dialog closes.
type pickResult struct {
	kind pickKind
	path string
	err  error
}

// pickFile opens a file dialog off the game loop. A cancelled dialog
// yields an empty path and no error.
func pickFile(kind pickKind, results chan<- pickResult) {
	title, name, patterns := "Open Snowflake Image", "Images", spritePatterns
	if kind == pickTrack {
		title, name, patterns = "Open Soundtrack", "Audio", []string{"*.wav", "*.mp3", "*.flac"}
	}

	go func() {
		path, err := zenity.SelectFile(
			zenity.Title(title),
			zenity.FileFilters{{
				Name:     name,
				Patterns: patterns,
			}},
		)
		if errors.Is(err, zenity.ErrCanceled) {
			path, err = "", nil
		}
		results <- pickResult{kind: kind, path: path, err: err}
	}()
}
