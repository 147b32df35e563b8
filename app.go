package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"entrylog/internal/api"
	"entrylog/internal/config"
	"entrylog/internal/controller"
	"entrylog/internal/logger"
	"entrylog/internal/notify"
	"entrylog/internal/prompt"
	"entrylog/internal/view"
)

type Options struct {
	ConfigPath string
	BaseURL    string
	LogLevel   string
}

type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg      *config.Config
	log      zerolog.Logger
	prompter *prompt.Prompter
	board    *view.Board
	center   *notify.Center
	ctrl     *controller.Controller

	// confirm answers the controller's questions; the watch session swaps
	// it for one that reads from the session input
	confirm   func(question string) bool
	assumeYes bool
}

func NewApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		in:     in,
		out:    &lockedWriter{w: out},
		errOut: &lockedWriter{w: errOut},
	}
}

// lockedWriter lets the poll loop and the session print to the same
// terminal without interleaving partial writes.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Init loads the configuration and wires the controller. Flags override the
// config file and the environment.
func (a *App) Init(opts Options) error {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.BaseURL != "" {
		cfg.Server.BaseURL = opts.BaseURL
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	a.cfg = cfg
	a.log = logger.New(a.errOut, cfg.LogLevel)
	a.prompter = prompt.New(a.in, a.out)
	a.confirm = a.prompter.Confirm
	a.board = view.NewBoard(a.out)
	a.center = notify.NewCenter(a.out, cfg.NotificationTTL, a.log)

	client := api.NewClient(cfg.Server.BaseURL, cfg.Server.Timeout, a.log)
	a.ctrl = controller.New(client, a.board, a.center, a, a.log)

	a.log.Debug().
		Str("config", path).
		Str("url", cfg.Server.BaseURL).
		Msg("client ready")
	return nil
}

// Confirm implements controller.Confirmer.
func (a *App) Confirm(question string) bool {
	if a.assumeYes {
		return true
	}
	return a.confirm(question)
}

// Record submits an entry or exit. pick shows the quick-select menu when
// no name was given.
func (a *App) Record(ctx context.Context, entryType, name, from, to string, pick bool) {
	if name == "" && pick {
		name = a.prompter.PickName(a.cfg.People)
	}

	a.ctrl.SetPersonName(name)
	a.ctrl.SetPlaces(from, to)
	a.ctrl.RecordEntry(ctx, entryType)
}

func (a *App) List(ctx context.Context) {
	a.ctrl.LoadEntries(ctx)
}

func (a *App) Stats(ctx context.Context) {
	a.ctrl.LoadStats(ctx)
}

func (a *App) Delete(ctx context.Context, rawID string, yes bool) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	a.assumeYes = yes
	a.ctrl.DeleteEntry(ctx, id)
	return nil
}

func (a *App) Clear(ctx context.Context, yes bool) {
	a.assumeYes = yes
	a.ctrl.ClearAllEntries(ctx)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id: %q", raw)
	}
	return id, nil
}
