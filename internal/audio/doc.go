// Package audio plays a short sound cue when a notification is shown.
// It uses the beep library to decode WAV, OGG and MP3 files, with volume
// control and one configurable sound per notification kind.
package audio
