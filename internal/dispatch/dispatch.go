// Package dispatch implements the top-level jukebox loop.
//
// The dispatcher alternates between listening once for a song request and
// telling a joke. Every few jokes it repeats the sales offer. A request that
// classifies as relevant is handed to the matching song picker, and accepted
// songs are persisted and played in the background. Failures inside one
// iteration are logged and never stop the loop; only cancellation of the
// context does, after which a farewell is spoken.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/interaction"
	"github.com/nadzzz/jukebox/internal/llm"
	"github.com/nadzzz/jukebox/internal/message"
	"github.com/nadzzz/jukebox/internal/store"
)

const (
	jokeApology  = "Uh oh, I couldn't come up with a joke right now. Even my creativity is on strike!"
	farewellText = "Thanks for listening! Come back anytime for more social commentary!"

	farewellTimeout = 15 * time.Second
)

const jokePrompt = `
You are an ENTP personality with dark humor who loves to roast society, unfair jobs, and life situations.
Tell a short, witty joke that:
1. Critiques society, corporate culture, expensive rent, expensive mortgages, or unfair life situations
2. Has ENTP-style dark humor (clever, not mean-spirited)
3. Is concise and funny
4. Roasts the absurdity of modern life, work, or social expectations

Generate an original joke following this style do not add comments make it one sentence long no commenting before or after just a one liner joke.
`

// Player starts song playback without blocking the loop.
type Player interface {
	PlayAsync(name string)
	PlayCustomAsync(song message.SongDetails)
}

// Deps are the collaborators of a Dispatcher.
type Deps struct {
	interaction.Deps
	Player Player
	Store  store.Sink
	Config config.DispatchConfig
}

// Dispatcher runs the jukebox loop.
type Dispatcher struct {
	deps  Deps
	jokes int

	sleep func(ctx context.Context, d time.Duration) error
	randN func(n int64) int64

	logger *slog.Logger
}

// New creates a Dispatcher.
func New(deps Deps) *Dispatcher {
	if deps.Store == nil {
		deps.Store = store.Discard{}
	}
	return &Dispatcher{
		deps:   deps,
		sleep:  sleepContext,
		randN:  rand.Int64N,
		logger: slog.With("component", "dispatch"),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run plays the welcome and the offer, then loops until ctx is cancelled.
// It always returns nil once the farewell has been spoken.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("jukebox started")
	d.deps.Clips.Play(ctx, "welcome")
	d.offer(ctx)

	for ctx.Err() == nil {
		err := d.iterate(ctx)
		if err == nil || ctx.Err() != nil {
			continue
		}
		d.logger.Error("iteration failed", "error", err)
		d.deps.Clips.Play(ctx, "try_again")
		_ = d.sleep(ctx, d.deps.Config.RecoveryDelay)
	}

	d.logger.Info("shutdown requested, saying goodbye")
	fctx, cancel := context.WithTimeout(context.Background(), farewellTimeout)
	defer cancel()
	if err := d.deps.Speaker.Say(fctx, farewellText); err != nil {
		d.logger.Warn("farewell failed", "error", err)
	}
	d.logger.Info("jukebox stopped", "jokes", d.jokes)
	return nil
}

// iterate runs one listen/joke/offer/wait cycle. Panics are returned as errors.
func (d *Dispatcher) iterate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()

	if _, err := d.ListenOnce(ctx); err != nil {
		d.logger.Warn("listening for a request failed", "error", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	joke := d.TellJoke(ctx)
	if err := d.deps.Speaker.Say(ctx, joke); err != nil {
		return fmt.Errorf("speaking joke: %w", err)
	}
	if err := d.sleep(ctx, d.deps.Config.Settle); err != nil {
		return err
	}

	d.jokes++
	if every := d.deps.Config.OfferEvery; every > 0 && d.jokes%every == 0 {
		if err := d.sleep(ctx, d.deps.Config.OfferLead); err != nil {
			return err
		}
		d.offer(ctx)
		if err := d.sleep(ctx, d.deps.Config.OfferTail); err != nil {
			return err
		}
	}
	return d.sleep(ctx, d.wait())
}

// wait picks the pause before the next cycle uniformly in [MinWait, MaxWait].
func (d *Dispatcher) wait() time.Duration {
	lo, hi := d.deps.Config.MinWait, d.deps.Config.MaxWait
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(d.randN(int64(hi-lo)+1))
}

func (d *Dispatcher) offer(ctx context.Context) {
	d.logger.Info("making offer")
	d.deps.Clips.Play(ctx, "offer")
}

// ListenOnce captures one utterance and, when it is a trusted song request,
// runs the matching picker. It reports whether anything was heard.
func (d *Dispatcher) ListenOnce(ctx context.Context) (bool, error) {
	text, err := d.deps.Listener.Listen(ctx, d.deps.Deps.Config.Listen)
	if err != nil {
		return false, fmt.Errorf("listening: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" || interaction.IsQuit(text) {
		return text != "", nil
	}

	sess := interaction.NewSession(d.deps.Deps)
	logger := d.logger.With("session_id", sess.ID())
	logger.Info("user said", "transcript", text)

	intent := sess.ClassifyRequest(ctx, text)
	if !intent.Actionable() {
		logger.Info("request ignored", "relevant", intent.Relevant, "type", intent.Type, "confidence", intent.Confidence)
		return true, nil
	}

	switch intent.Type {
	case message.RequestPlay:
		d.deps.Clips.Play(ctx, "pick_song")
		res := sess.PickSong(ctx)
		d.finish(ctx, sess, res, "song_selected_confirmed", "song_selection_cancelled")
	case message.RequestCustom:
		d.deps.Clips.Play(ctx, "create_custom_song")
		res := sess.PickCustomSong(ctx)
		d.finish(ctx, sess, res, "custom_song_selected_confirmed", "custom_song_selection_cancelled")
	}
	return true, nil
}

// finish announces a picker outcome and, for an accepted song, stores the
// record and starts playback.
func (d *Dispatcher) finish(ctx context.Context, sess *interaction.Session, res interaction.Result, confirmed, cancelled string) {
	logger := d.logger.With("session_id", sess.ID())
	if res.Outcome != message.OutcomeAccepted {
		logger.Info("song selection cancelled")
		d.deps.Clips.Play(ctx, cancelled)
		return
	}

	d.deps.Clips.Play(ctx, confirmed)
	rec := store.NewRecord(res.Song, res.Evaluation, sess.ID())
	if id, err := d.deps.Store.Save(ctx, rec); err != nil {
		logger.Error("saving song record failed", "error", err)
	} else {
		logger.Info("song record saved", "id", id, "kind", rec.Kind)
	}

	if res.Song.Custom() {
		d.deps.Player.PlayCustomAsync(res.Song)
	} else {
		d.deps.Player.PlayAsync(res.Song.SongName)
	}
}

// TellJoke asks the model for a one-line joke. On failure it returns a canned
// apology so there is always something to say.
func (d *Dispatcher) TellJoke(ctx context.Context) string {
	joke, err := d.deps.LLM.Complete(ctx, jokePrompt, llm.CompleteOpts{})
	joke = strings.TrimSpace(joke)
	if err != nil || joke == "" {
		d.logger.Error("generating joke failed", "error", err)
		return jokeApology
	}
	d.logger.Info("joke generated", "joke", joke)
	return joke
}
