package player

import "strings"

// NoAudio is the marker the quiz server renders when a fragment has no clip.
const NoAudio = "null"

// Signal is a device's completion notification. Err is nil when the clip
// played to its end.
type Signal struct {
	// Seq is the device sequence number of the playback that finished.
	Seq uint64
	Err error
}

// Device defines the playback resource driven by Player
type Device interface {
	// Load points the device at a clip. Anything playing is stopped.
	Load(uri string) error

	// Start begins playback of the loaded clip without waiting for it.
	// A non-nil error means the device refused to start.
	Start() error

	// Stop halts playback. No signal is emitted for the stopped clip.
	Stop()

	// Rewind moves back to the beginning of the loaded clip.
	Rewind() error

	// Source returns the loaded URI, or "" when nothing is loaded.
	Source() string

	// Seq identifies the current playback. It changes on every Load, Start,
	// Stop and Rewind.
	Seq() uint64

	// Signals delivers ended and error notifications.
	Signals() <-chan Signal
}

// IsSentinel reports whether id means "no audio for this content".
func IsSentinel(id string) bool {
	id = strings.TrimSpace(id)
	return id == "" || id == NoAudio
}

// Locator maps a clip identifier to the resource path the device fetches.
func Locator(id string) string {
	return "/audio/" + id + ".wav"
}
