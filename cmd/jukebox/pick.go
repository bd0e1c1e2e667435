package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nadzzz/jukebox/internal/interaction"
	"github.com/nadzzz/jukebox/internal/message"
	"github.com/nadzzz/jukebox/internal/store"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a song by voice, then save and play it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPicker(cmd.Context(), false)
	},
}

var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Describe a custom song by voice, then save it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPicker(cmd.Context(), true)
	},
}

func init() {
	rootCmd.AddCommand(pickCmd, customCmd)
}

// runPicker runs one picker outside the dispatcher loop and waits for the
// chosen song to finish playing.
func runPicker(ctx context.Context, custom bool) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	sess := interaction.NewSession(a.interactionDeps())
	logger := slog.With("component", "cli", "session_id", sess.ID())

	var res interaction.Result
	if custom {
		res = sess.PickCustomSong(ctx)
	} else {
		res = sess.PickSong(ctx)
	}

	if res.Outcome != message.OutcomeAccepted {
		if custom {
			a.clips.Play(ctx, "song_selection_cancelled_custom")
		} else {
			a.clips.Play(ctx, "song_selection_cancelled")
		}
		logger.Info("no song selected")
		return nil
	}

	if custom {
		a.clips.Play(ctx, "song_confirmed")
	} else {
		a.clips.Play(ctx, "song_confirmed_enjoy")
	}

	rec := store.NewRecord(res.Song, res.Evaluation, sess.ID())
	if id, err := a.store.Save(ctx, rec); err != nil {
		logger.Error("saving song record failed", "error", err)
	} else {
		logger.Info("song record saved", "id", id, "kind", rec.Kind)
	}

	if custom {
		return a.player.PlayCustom(ctx, res.Song)
	}
	return a.player.Play(ctx, res.Song.SongName)
}
