//go:build !cgo

package audio

import (
	"context"
	"time"

	"github.com/nadzzz/jukebox/internal/config"
)

// DeviceRecorder is a stand-in for builds without cgo.
type DeviceRecorder struct{}

// NewRecorder returns a recorder that always fails with ErrUnavailable.
func NewRecorder(config.AudioConfig) *DeviceRecorder { return &DeviceRecorder{} }

// Record returns ErrUnavailable.
func (*DeviceRecorder) Record(context.Context, time.Duration) ([]byte, error) {
	return nil, ErrUnavailable
}
