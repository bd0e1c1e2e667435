// Package store persists accepted song choices.
package store

import (
	"context"
	"time"

	"github.com/nadzzz/jukebox/internal/message"
)

// Kind distinguishes plain picks from custom song requests.
type Kind string

const (
	KindSong   Kind = "song"
	KindCustom Kind = "custom"
)

// Record is one accepted song choice. It is written once and never updated.
type Record struct {
	message.SongDetails `bson:",inline"`

	Acceptable bool      `json:"acceptable" bson:"acceptable"`
	Roast      string    `json:"roast" bson:"roast"`
	Kind       Kind      `json:"kind" bson:"kind"`
	SessionID  string    `json:"session_id,omitempty" bson:"session_id,omitempty"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// NewRecord builds a record stamped with the current UTC time.
func NewRecord(song message.SongDetails, eval message.Evaluation, sessionID string) Record {
	kind := KindSong
	if song.Custom() {
		kind = KindCustom
	}
	return Record{
		SongDetails: song,
		Acceptable:  eval.Acceptable,
		Roast:       eval.Roast,
		Kind:        kind,
		SessionID:   sessionID,
		Timestamp:   time.Now().UTC(),
	}
}

// Sink stores records.
type Sink interface {
	// Save stores rec and returns the identifier assigned by the backend.
	Save(ctx context.Context, rec Record) (string, error)
}

// Discard is a Sink that drops every record.
type Discard struct{}

// Save implements Sink.
func (Discard) Save(context.Context, Record) (string, error) { return "", nil }
