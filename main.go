package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/d1nch8g/quizvoice/config"
	"github.com/d1nch8g/quizvoice/engine"
	"github.com/d1nch8g/quizvoice/logger"
	"github.com/d1nch8g/quizvoice/page"
	"github.com/d1nch8g/quizvoice/player"
	"github.com/d1nch8g/quizvoice/sound"
	"github.com/d1nch8g/quizvoice/terminal"
	"github.com/d1nch8g/quizvoice/tts"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "quizvoice",
	Short: "Voice client for the math quiz",
	Long: `Voice client for the math quiz.

Plays the spoken version of every problem and its feedback, and moves on
to the next problem once the feedback has been heard.

Keys:
  0-9 -      type the answer
  Enter      submit
  r          replay the current clip
  q          quit`,
	SilenceUsage: true,
	RunE:         runQuiz,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the quiz (default)",
	RunE:  runQuiz,
}

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Synthesize text into the clip cache and play it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSay,
}

var hashCmd = &cobra.Command{
	Use:   "hash <text>",
	Short: "Print the clip identifier of text for the configured speaker",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tts.Identifier(cfg.Speaker, strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "environment file to load")
	rootCmd.AddCommand(runCmd, sayCmd, hashCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// openOutput initializes PortAudio; the returned func releases it.
func openOutput(cfg *config.Config) (*sound.PortaudioOutput, func(), error) {
	output := sound.NewPortaudioOutput(sound.PlayerConfig{FramesPerBuffer: cfg.FramesPerBuffer})
	if err := output.Initialize(); err != nil {
		return nil, nil, err
	}
	return output, output.Terminate, nil
}

func runQuiz(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var source sound.Source
	httpSource, err := sound.NewHTTPSource(cfg.ServerURL, nil)
	if err != nil {
		return err
	}
	source = httpSource
	if cfg.CacheDir != "" {
		cache, err := tts.NewCache(tts.CacheConfig{Dir: cfg.CacheDir, Speaker: cfg.Speaker}, nil)
		if err != nil {
			return err
		}
		source = sound.FallbackSource{cache, httpSource}
	}

	output, release, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer release()

	device := sound.NewDevice(source, output)
	defer device.Close()

	client, err := page.NewClient(page.Config{BaseURL: cfg.ServerURL})
	if err != nil {
		return err
	}

	keyboard, err := terminal.OpenKeyboard()
	if err != nil {
		return err
	}
	defer keyboard.Close()

	screen := terminal.NewScreen(cmd.OutOrStdout(), keyboard.Raw())
	e := engine.NewEngine(engine.EngineConfig{
		Region:        cfg.Region,
		FeedbackDelay: cfg.FeedbackDelay,
		PlayerID:      cfg.PlayerID,
	}, device, client, screen)

	err = e.Run(ctx, keyboard.Keys(ctx))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runSay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.CacheDir == "" {
		return fmt.Errorf("AUDIO_CACHE_DIR must be set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	synth, err := tts.NewYandexTTSClient(tts.YandexConfig{
		ApiKey:   cfg.YandexAPIKey,
		FolderID: cfg.YandexFolderID,
	})
	if err != nil {
		return err
	}
	options := tts.GetDefaultSynthesisOptions(cfg.Voice)
	if options.Format, err = tts.YandexFormat(cfg.AudioFormat); err != nil {
		synth.Close()
		return err
	}
	cache, err := tts.NewCache(tts.CacheConfig{
		Dir:     cfg.CacheDir,
		Speaker: cfg.Speaker,
		Options: options,
	}, synth)
	if err != nil {
		synth.Close()
		return err
	}
	defer cache.Close()

	text := strings.Join(args, " ")
	if cache.Has(text) {
		logger.Log.Info("clip already cached", "speaker", cfg.Speaker)
	} else {
		logger.Log.Info("synthesizing clip", "speaker", cfg.Speaker, "voice", cfg.Voice, "format", cfg.AudioFormat)
	}
	id, err := cache.Ensure(ctx, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)

	output, release, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer release()

	device := sound.NewDevice(cache, output)
	defer device.Close()

	finished := make(chan struct{})
	p := player.New(device)
	p.Play(id, func() { close(finished) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-finished:
			return nil
		case sig := <-device.Signals():
			p.HandleSignal(sig)
		}
	}
}
