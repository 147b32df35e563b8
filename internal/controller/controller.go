// Package controller binds user actions to the entry/exit service: it
// records entries and exits, deletes and clears them, keeps the list and
// the stats fresh, and reports every outcome as a notification.
package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"entrylog/internal/api"
	"entrylog/internal/notify"
)

// DefaultRefreshInterval is how often Run reloads the list and the stats.
const DefaultRefreshInterval = 30 * time.Second

const (
	msgNameRequired = "முதலில் உங்கள் பெயரை உள்ளிடவும்"
	msgInvalidType  = "தவறான பதிவு வகை"
	msgRecordFailed = "பதிவு செய்யும் போது பிழை: "

	msgLoadEntriesFailed = "Error loading entries"
	msgLoadStatsFailed   = "Error loading stats"
	msgDeleteFailed      = "Error deleting entry: "
	msgClearFailed       = "Error clearing entries: "

	PromptDelete = "Are you sure you want to delete this entry?"
	PromptClear  = "Are you sure you want to delete ALL entries? This cannot be undone!"
)

type EntryAPI interface {
	CreateEntry(ctx context.Context, e api.NewEntry) (string, error)
	ListEntries(ctx context.Context) ([]api.Entry, error)
	DeleteEntry(ctx context.Context, id int64) (string, error)
	Stats(ctx context.Context) (api.Stats, error)
	ClearEntries(ctx context.Context) (string, error)
}

// View receives the latest list and stats.
type View interface {
	ShowEntries(entries []api.Entry)
	ShowStats(stats api.Stats)
}

type Notifier interface {
	Notify(message string, severity notify.Severity)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

type Controller struct {
	api      EntryAPI
	view     View
	notifier Notifier
	confirm  Confirmer
	log      zerolog.Logger

	mu     sync.Mutex
	form   Form
	panels Panels
}

func New(entryAPI EntryAPI, view View, notifier Notifier, confirm Confirmer, log zerolog.Logger) *Controller {
	return &Controller{
		api:      entryAPI,
		view:     view,
		notifier: notifier,
		confirm:  confirm,
		log:      log,
	}
}

// RecordEntry submits an entry or exit for the person in the form.
func (c *Controller) RecordEntry(ctx context.Context, entryType string) {
	form := c.Form()

	req := api.NewEntry{
		Type:       entryType,
		PersonName: form.PersonName,
		PlaceFrom:  form.PlaceFrom,
		PlaceTo:    form.PlaceTo,
	}
	if err := validateNewEntry(req); err != nil {
		c.log.Debug().Err(err).Msg("entry rejected before sending")
		c.notifier.Notify(validationMessage(err), notify.Error)
		return
	}

	msg, err := c.api.CreateEntry(ctx, req)
	if err != nil {
		if se, ok := api.IsServerError(err); ok {
			c.notifier.Notify(se.Message, notify.Error)
			return
		}
		c.notifier.Notify(msgRecordFailed+err.Error(), notify.Error)
		return
	}

	c.notifier.Notify(msg, notify.Success)
	c.Refresh(ctx)
}

// LoadEntries fetches the list and hands it to the view.
func (c *Controller) LoadEntries(ctx context.Context) {
	entries, err := c.api.ListEntries(ctx)
	if err != nil {
		c.loadFailed(ctx, msgLoadEntriesFailed, err)
		return
	}
	c.view.ShowEntries(entries)
}

// LoadStats fetches the aggregate counts and hands them to the view.
func (c *Controller) LoadStats(ctx context.Context) {
	stats, err := c.api.Stats(ctx)
	if err != nil {
		c.loadFailed(ctx, msgLoadStatsFailed, err)
		return
	}
	c.view.ShowStats(stats)
}

func (c *Controller) loadFailed(ctx context.Context, msg string, err error) {
	if ctx.Err() != nil {
		// shutting down
		c.log.Debug().Err(err).Msg(msg)
		return
	}
	if _, ok := api.IsServerError(err); ok {
		c.notifier.Notify(msg, notify.Error)
		return
	}
	c.notifier.Notify(msg+": "+err.Error(), notify.Error)
}

// DeleteEntry removes one entry after the user confirms.
func (c *Controller) DeleteEntry(ctx context.Context, id int64) {
	if !c.confirm.Confirm(PromptDelete) {
		return
	}

	msg, err := c.api.DeleteEntry(ctx, id)
	c.mutated(ctx, msg, err, msgDeleteFailed)
}

// ClearAllEntries removes every entry after the user confirms.
func (c *Controller) ClearAllEntries(ctx context.Context) {
	if !c.confirm.Confirm(PromptClear) {
		return
	}

	msg, err := c.api.ClearEntries(ctx)
	c.mutated(ctx, msg, err, msgClearFailed)
}

func (c *Controller) mutated(ctx context.Context, msg string, err error, failPrefix string) {
	if err != nil {
		if se, ok := api.IsServerError(err); ok {
			c.notifier.Notify(se.Message, notify.Error)
			return
		}
		c.notifier.Notify(failPrefix+err.Error(), notify.Error)
		return
	}

	c.notifier.Notify(msg, notify.Success)
	c.Refresh(ctx)
}

// Refresh reloads the list and then the stats.
func (c *Controller) Refresh(ctx context.Context) {
	c.LoadEntries(ctx)
	c.LoadStats(ctx)
}

// Run refreshes immediately and then on every tick until ctx is done.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	c.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.log.Debug().Msg("periodic refresh")
			c.Refresh(ctx)
		}
	}
}

// +---------------------+
// |                     |
// |     Form state      |
// |                     |
// +---------------------+

// Form returns a copy of the current inputs, trimmed.
func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Form{
		PersonName: strings.TrimSpace(c.form.PersonName),
		PlaceFrom:  strings.TrimSpace(c.form.PlaceFrom),
		PlaceTo:    strings.TrimSpace(c.form.PlaceTo),
	}
}

func (c *Controller) SetPersonName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.PersonName = name
}

func (c *Controller) SetPlaces(from, to string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.PlaceFrom = from
	c.form.PlaceTo = to
}

func (c *Controller) SetPlaceFrom(from string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.PlaceFrom = from
}

func (c *Controller) SetPlaceTo(to string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.PlaceTo = to
}

// SelectName fills the name field from the quick-select list and closes it.
func (c *Controller) SelectName(name string) {
	name = strings.TrimSpace(name)

	c.mu.Lock()
	c.form.PersonName = name
	c.panels.Names = false
	c.mu.Unlock()

	c.notifier.Notify(name+" selected", notify.Success)
}

// ToggleNames flips the quick-select panel and returns whether it is shown.
func (c *Controller) ToggleNames() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panels.Names = !c.panels.Names
	return c.panels.Names
}

// TogglePlaces flips the from/to inputs and returns whether they are shown.
func (c *Controller) TogglePlaces() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panels.Places = !c.panels.Places
	return c.panels.Places
}

func (c *Controller) Panels() Panels {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panels
}
