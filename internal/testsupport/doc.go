// Package testsupport holds shared test fixtures: temp-dir configs, sized
// video files, and an in-process fake of the subtitle service.
package testsupport
