package player

import "sync/atomic"

// Status tracks whether a song is loading or playing. It is safe for
// concurrent use; observers read it through Snapshot.
type Status struct {
	loadingSong       atomic.Bool
	playingSong       atomic.Bool
	loadingCustomSong atomic.Bool
	playingCustomSong atomic.Bool
}

// Snapshot is a point-in-time copy of Status.
type Snapshot struct {
	LoadingSong       bool `json:"loading_song"`
	PlayingSong       bool `json:"playing_song"`
	LoadingCustomSong bool `json:"loading_custom_song"`
	PlayingCustomSong bool `json:"playing_custom_song"`
}

// LoadingSong reports whether a requested song is being loaded.
func (s *Status) LoadingSong() bool { return s.loadingSong.Load() }

// PlayingSong reports whether a requested song is playing.
func (s *Status) PlayingSong() bool { return s.playingSong.Load() }

// LoadingCustomSong reports whether a custom song is being loaded.
func (s *Status) LoadingCustomSong() bool { return s.loadingCustomSong.Load() }

// PlayingCustomSong reports whether a custom song is playing.
func (s *Status) PlayingCustomSong() bool { return s.playingCustomSong.Load() }

// Active reports whether any song is loading or playing.
func (s *Status) Active() bool {
	return s.LoadingSong() || s.PlayingSong() || s.LoadingCustomSong() || s.PlayingCustomSong()
}

// Snapshot returns the current flags.
func (s *Status) Snapshot() Snapshot {
	return Snapshot{
		LoadingSong:       s.LoadingSong(),
		PlayingSong:       s.PlayingSong(),
		LoadingCustomSong: s.LoadingCustomSong(),
		PlayingCustomSong: s.PlayingCustomSong(),
	}
}
