package store

import (
	"context"
	"testing"
	"time"

	"github.com/nadzzz/jukebox/internal/message"
)

func TestNewRecord(t *testing.T) {
	before := time.Now().UTC()
	eval := message.Evaluation{Acceptable: true, Roast: "bold"}

	plain := NewRecord(message.SongDetails{SongName: "Toxic"}, eval, "sess-1")
	if plain.Kind != KindSong || plain.SongName != "Toxic" || !plain.Acceptable || plain.Roast != "bold" {
		t.Errorf("plain record = %+v", plain)
	}
	if plain.SessionID != "sess-1" {
		t.Errorf("session id = %q", plain.SessionID)
	}
	if plain.Timestamp.Location() != time.UTC || plain.Timestamp.Before(before) {
		t.Errorf("timestamp = %v", plain.Timestamp)
	}

	custom := NewRecord(message.SongDetails{SongName: "Ode", Genre: "polka"}, eval, "")
	if custom.Kind != KindCustom || custom.Genre != "polka" {
		t.Errorf("custom record = %+v", custom)
	}
}

func TestDiscard(t *testing.T) {
	var s Sink = Discard{}
	if id, err := s.Save(context.Background(), Record{}); id != "" || err != nil {
		t.Errorf("Discard.Save = %q, %v", id, err)
	}
}
