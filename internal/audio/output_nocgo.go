//go:build !cgo

package audio

import "context"

// DeviceSpeaker is a stand-in for builds without cgo.
type DeviceSpeaker struct{}

// NewSpeaker returns a speaker that always fails with ErrUnavailable.
func NewSpeaker() *DeviceSpeaker { return &DeviceSpeaker{} }

// Play returns ErrUnavailable.
func (*DeviceSpeaker) Play(context.Context, []byte, string) error { return ErrUnavailable }
