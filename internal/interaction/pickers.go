package interaction

import (
	"context"
	"time"

	"github.com/nadzzz/jukebox/internal/message"
)

// variant holds the static messages that differ between the two pickers.
type variant struct {
	silent    string
	different string
}

var (
	songVariant   = variant{silent: "silence_not_song", different: "pick_different_song"}
	customVariant = variant{silent: "silence_not_song_custom", different: "pick_different_song_custom"}
)

// PickSong asks for a song by name until one is judged acceptable and confirmed.
func (s *Session) PickSong(ctx context.Context) Result {
	s.logger.Info("song picker started")
	s.play(ctx, "roast_intro")

	quiet := silence{max: s.Config.MaxSilence}
	for {
		s.play(ctx, "song_choice_prompt")
		choice, t := s.hear(ctx, s.Config.Listen)
		switch t {
		case turnCancelled:
			return Result{Outcome: message.OutcomeCancelled}
		case turnQuit:
			s.play(ctx, "giving_up")
			return Result{Outcome: message.OutcomeCancelled}
		case turnSilent, turnFailed:
			if quiet.observe(t) {
				s.play(ctx, "giving_up")
				return Result{Outcome: message.OutcomeCancelled}
			}
			s.play(ctx, songVariant.silent)
			continue
		}
		quiet.observe(t)

		song := message.SongDetails{SongName: choice}
		res := s.judge(ctx, song, songPrompt(choice), songVariant)
		if res.Outcome == message.OutcomeRetry {
			continue
		}
		return res
	}
}

// PickCustomSong collects the details of a custom song, then judges and
// confirms it like PickSong.
func (s *Session) PickCustomSong(ctx context.Context) Result {
	s.logger.Info("custom song picker started")
	s.play(ctx, "roast_intro")

	for {
		s.play(ctx, "custom_song_prompt")
		song, ok := s.collectDetails(ctx)
		if !ok {
			return Result{Outcome: message.OutcomeCancelled}
		}

		prompt := customSongPrompt(song.SongName, song.Genre, song.Styles, song.LyricsDescription)
		res := s.judge(ctx, song, prompt, customVariant)
		if res.Outcome == message.OutcomeRetry {
			continue
		}
		return res
	}
}

// collectDetails asks each custom song question in turn. It reports false
// when the user quits or stays silent too long.
func (s *Session) collectDetails(ctx context.Context) (message.SongDetails, bool) {
	questions := []struct {
		prompt string
		listen time.Duration
		dst    func(*message.SongDetails, string)
	}{
		{"song_name_prompt", s.Config.Listen, func(d *message.SongDetails, v string) { d.SongName = v }},
		{"genre_prompt", s.Config.Listen, func(d *message.SongDetails, v string) { d.Genre = v }},
		{"styles_prompt", s.Config.StylesListen, func(d *message.SongDetails, v string) { d.Styles = v }},
		{"lyrics_prompt", s.Config.LyricsListen, func(d *message.SongDetails, v string) { d.LyricsDescription = v }},
	}

	var song message.SongDetails
	quiet := silence{max: s.Config.MaxSilence}
	for _, q := range questions {
		for {
			s.play(ctx, q.prompt)
			answer, t := s.hear(ctx, q.listen)
			if t == turnCancelled {
				return song, false
			}
			if t == turnQuit {
				s.play(ctx, "giving_up")
				return song, false
			}
			if quiet.observe(t) {
				s.play(ctx, "giving_up")
				return song, false
			}
			if t != turnHeard {
				s.play(ctx, customVariant.silent)
				continue
			}
			q.dst(&song, answer)
			break
		}
	}
	s.logger.Info("custom song details collected", "song", song.SongName, "genre", song.Genre)
	return song, true
}

// judge evaluates song, speaks the roast and, when acceptable, runs the
// confirmation loop. A retry outcome sends the picker back to its prompt.
func (s *Session) judge(ctx context.Context, song message.SongDetails, prompt string, v variant) Result {
	eval := s.evaluate(ctx, prompt)
	s.logger.Info("song evaluated", "song", song.SongName, "acceptable", eval.Acceptable)
	s.say(ctx, eval.Roast)

	if !eval.Acceptable {
		s.play(ctx, "try_again")
		return Result{Outcome: message.OutcomeRetry}
	}
	s.play(ctx, "acceptable_song")

	switch s.Confirm(ctx, song) {
	case message.DecisionConfirmed:
		return Result{Outcome: message.OutcomeAccepted, Song: song, Evaluation: eval}
	case message.DecisionChangeSong:
		s.play(ctx, v.different)
		return Result{Outcome: message.OutcomeRetry}
	default:
		return Result{Outcome: message.OutcomeCancelled, Song: song, Evaluation: eval}
	}
}

// Confirm asks whether song should be kept and returns the decision.
func (s *Session) Confirm(ctx context.Context, song message.SongDetails) message.Decision {
	s.logger.Info("confirming song", "question", song.Summary())
	s.play(ctx, "confirm_prompt")

	quiet := silence{max: s.Config.MaxSilence}
	for {
		reply, t := s.hear(ctx, s.Config.Listen)
		switch t {
		case turnCancelled:
			return message.DecisionCancel
		case turnQuit:
			s.play(ctx, "giving_up")
			return message.DecisionCancel
		case turnSilent, turnFailed:
			if quiet.observe(t) {
				s.play(ctx, "giving_up")
				return message.DecisionCancel
			}
			if t == turnFailed {
				s.play(ctx, "confirmation_error", "try_again")
			} else {
				s.play(ctx, "confirmation_no_input", "try_again")
			}
			continue
		}
		quiet.observe(t)

		c := s.classifyConfirmation(ctx, reply)
		if !c.Confidence.Trusted() {
			s.logger.Info("confirmation not trusted", "confidence", c.Confidence)
			s.play(ctx, "confirmation_low_confidence", "try_again")
			continue
		}
		d := c.Decide()
		s.logger.Info("confirmation decided", "decision", d)
		return d
	}
}
