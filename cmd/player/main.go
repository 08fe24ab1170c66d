// Package main provides the interactive player entry point.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/hibiki-audio/tonearm/internal/app/engine"
	"github.com/hibiki-audio/tonearm/internal/app/queue"
	"github.com/hibiki-audio/tonearm/internal/app/renderer"
	"github.com/hibiki-audio/tonearm/internal/domain/track"
	"github.com/hibiki-audio/tonearm/internal/infra/artwork"
	"github.com/hibiki-audio/tonearm/internal/infra/config"
	"github.com/hibiki-audio/tonearm/internal/infra/logger"
	"github.com/hibiki-audio/tonearm/internal/infra/netmon"
	"github.com/hibiki-audio/tonearm/internal/infra/spotify"
)

var (
	app        = kingpin.New("tonearm", "tonearm audio player")
	configPath = app.Flag("config", "Path to config file").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
	noProbe    = app.Flag("no-probe", "Disable network probing (assume reachable)").Bool()
	sources    = app.Arg("source", "Track sources to queue at startup").Strings()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		zlog.Info().Msgf("Loading config from %s", *configPath)
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Player error: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}

	var monitor netmon.Monitor
	if *noProbe {
		monitor = netmon.NewManual(true)
	} else {
		probe := netmon.NewProbe(netmon.ProbeConfig{
			Addr:     cfg.Connection.ProbeAddr,
			Interval: time.Duration(cfg.Connection.ProbeIntervalSecs) * time.Second,
		})
		probe.Start()
		defer probe.Stop()
		monitor = probe
	}

	eng := engine.New(engineCfg, renderer.NewSimFactory(renderer.SimConfig{}), monitor)
	eng.SetNowPlayingUpdater(&consoleNowPlaying{})

	ctrl := queue.NewController(eng)
	defer ctrl.Close()
	ctrl.SetDelegate(&loggingDelegate{})
	ctrl.SetArtworkFetcher(artwork.NewHTTPFetcher())

	var resolver *spotify.Client
	if cfg.HasSpotify() {
		resolver, err = spotify.New(context.Background(), spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			RefreshToken: cfg.Spotify.RefreshToken,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return err
		}
	}

	for _, src := range *sources {
		ctrl.AddTracks(track.New("", src))
	}
	if len(*sources) > 0 {
		ctrl.Play()
	}

	return repl(ctrl, resolver)
}

// repl reads commands from stdin until quit or EOF.
func repl(ctrl *queue.Controller, resolver *spotify.Client) error {
	fmt.Println("tonearm ready, type 'help' for commands")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()
		case "play":
			ctrl.Play()
		case "pause":
			ctrl.Pause()
		case "stop":
			ctrl.Stop()
		case "next":
			ctrl.PlayNext()
		case "prev":
			ctrl.PlayPrevious()
		case "skip":
			if len(args) != 1 {
				fmt.Println("usage: skip <track-id>")
				continue
			}
			ctrl.SkipToTrack(args[0])
		case "seek":
			if len(args) != 1 {
				fmt.Println("usage: seek <seconds>")
				continue
			}
			secs, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				fmt.Println("usage: seek <seconds>")
				continue
			}
			ctrl.Seek(time.Duration(secs * float64(time.Second)))
		case "add":
			if len(args) == 0 {
				fmt.Println("usage: add <source>...")
				continue
			}
			for _, src := range args {
				ctrl.AddTracks(track.New("", src))
			}
		case "rm":
			if len(args) == 0 {
				fmt.Println("usage: rm <track-id>...")
				continue
			}
			ctrl.RemoveTracks(args...)
		case "resolve":
			if resolver == nil {
				fmt.Println("spotify credentials not configured")
				continue
			}
			if len(args) != 1 {
				fmt.Println("usage: resolve <playlist-url>")
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			tracks, err := resolver.ResolvePlaylist(ctx, args[0])
			cancel()
			if err != nil {
				fmt.Printf("resolve failed: %v\n", err)
				continue
			}
			ctrl.AddTracks(tracks...)
			fmt.Printf("queued %d tracks\n", len(tracks))
		case "status":
			printStatus(ctrl)
		case "queue":
			printQueue(ctrl)
		case "quit", "exit":
			return nil
		default:
			fmt.Printf("unknown command: %s\n", cmd)
		}
	}
	return scanner.Err()
}

func printHelp() {
	fmt.Println(`commands:
  play | pause | stop | next | prev
  skip <track-id>
  seek <seconds>
  add <source>...
  rm <track-id>...
  resolve <playlist-url>
  status | queue
  quit`)
}

func printStatus(ctrl *queue.Controller) {
	fmt.Printf("state: %s\n", ctrl.State())
	if t, ok := ctrl.CurrentTrack(); ok {
		fmt.Printf("track: %s (%s)\n", displayName(t), t.ID)
		fmt.Printf("position: %s / %s (buffered %s)\n",
			ctrl.CurrentTrackProgression().Round(time.Second),
			ctrl.CurrentTrackDuration().Round(time.Second),
			ctrl.BufferedPosition().Round(time.Second))
	}
}

func printQueue(ctrl *queue.Controller) {
	tracks := ctrl.Tracks()
	current := ctrl.CurrentIndex()
	for i, t := range tracks {
		marker := "  "
		if i == current {
			marker = "> "
		}
		fmt.Printf("%s%d. %s (%s)\n", marker, i+1, displayName(t), t.ID)
	}
	if len(tracks) == 0 {
		fmt.Println("queue is empty")
	}
}

func displayName(t track.Track) string {
	if t.Title == "" {
		return t.Source
	}
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// loggingDelegate surfaces controller callbacks into the log.
type loggingDelegate struct{}

func (loggingDelegate) StateChanged(state engine.State) {
	zlog.Info().Msgf("player: state changed: %s", state)
}

func (loggingDelegate) TrackSwitched(fromID string, position time.Duration, toID string) {
	zlog.Info().Msgf("player: track switched: from=%s at=%s to=%s", fromID, position.Round(time.Second), toID)
}

func (loggingDelegate) QueueExhausted(lastID string, position time.Duration) {
	zlog.Info().Msgf("player: queue exhausted: last=%s at=%s", lastID, position.Round(time.Second))
}

func (loggingDelegate) PlaybackFailed(err error) {
	zlog.Warn().Msgf("player: playback failed: %v", err)
}

// consoleNowPlaying mirrors now-playing info to the log.
type consoleNowPlaying struct{}

func (consoleNowPlaying) Update(info engine.NowPlayingInfo) {
	zlog.Debug().Msgf("now playing: %s pos=%s dur=%s rate=%.2f",
		info.Title, info.Position.Round(time.Second), info.Duration.Round(time.Second), info.Rate)
}

func (consoleNowPlaying) Clear() {
	zlog.Debug().Msg("now playing: cleared")
}
