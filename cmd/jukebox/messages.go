package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nadzzz/jukebox/internal/audio"
	"github.com/nadzzz/jukebox/internal/config"
	"github.com/nadzzz/jukebox/internal/player"
	"github.com/nadzzz/jukebox/internal/static"
)

var renderForce bool

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Manage the cached static message clips",
}

var messagesRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Synthesize every missing static message clip",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := renderMessages(cmd.Context(), cfg, renderForce)
		fmt.Fprintf(cmd.OutOrStdout(), "rendered %d clips into %s\n", n, cfg.Messages.Dir)
		return err
	},
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List static messages and whether their clips are cached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := static.New(cfg.Messages.Dir, nil, nil)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCACHED\tTEXT")
		for _, e := range lib.List() {
			fmt.Fprintf(w, "%s\t%t\t%s\n", e.ID, e.Cached, e.Text)
		}
		return w.Flush()
	},
}

var playCmd = &cobra.Command{
	Use:   "play [song]",
	Short: "Play a song from the songs directory, or the default asset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		return playSong(cmd, cfg.Player, name)
	},
}

func init() {
	messagesRenderCmd.Flags().BoolVar(&renderForce, "force", false, "re-render clips that are already cached")
	messagesCmd.AddCommand(messagesRenderCmd, messagesListCmd)
	rootCmd.AddCommand(messagesCmd, playCmd)
}

// renderMessages validates the synthesis config before touching the clip
// directory, then renders the missing clips.
func renderMessages(ctx context.Context, c *config.Config, force bool) (int, error) {
	if err := config.ValidateTTS(c.TTS); err != nil {
		return 0, fmt.Errorf("invalid configuration: %w", err)
	}
	synth, err := newSynthesizer(c.TTS)
	if err != nil {
		return 0, err
	}
	defer synth.Close()

	return static.New(c.Messages.Dir, synth, nil).Render(ctx, force)
}

func playSong(cmd *cobra.Command, pc config.PlayerConfig, name string) error {
	if _, err := os.Stat(pc.SongsDir); err != nil {
		return fmt.Errorf("songs directory: %w", err)
	}
	return player.New(pc, audio.NewSpeaker()).Play(cmd.Context(), name)
}
