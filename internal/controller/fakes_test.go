package controller

import (
	"context"
	"sync"

	"entrylog/internal/api"
	"entrylog/internal/notify"
)

// fakeAPI counts calls and returns the configured results.
type fakeAPI struct {
	mu sync.Mutex

	Entries   []api.Entry
	StatsRes  api.Stats
	Message   string
	CreateErr error
	ListErr   error
	StatsErr  error
	DeleteErr error
	ClearErr  error

	Created    []api.NewEntry
	Deleted    []int64
	ListCalls  int
	StatsCalls int
	ClearCalls int
}

func (f *fakeAPI) CreateEntry(ctx context.Context, e api.NewEntry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created = append(f.Created, e)
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	return f.Message, nil
}

func (f *fakeAPI) ListEntries(ctx context.Context) ([]api.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Entries, nil
}

func (f *fakeAPI) DeleteEntry(ctx context.Context, id int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, id)
	if f.DeleteErr != nil {
		return "", f.DeleteErr
	}
	return f.Message, nil
}

func (f *fakeAPI) Stats(ctx context.Context) (api.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatsCalls++
	if f.StatsErr != nil {
		return api.Stats{}, f.StatsErr
	}
	return f.StatsRes, nil
}

func (f *fakeAPI) ClearEntries(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCalls++
	if f.ClearErr != nil {
		return "", f.ClearErr
	}
	return f.Message, nil
}

func (f *fakeAPI) calls() (list, stats int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls, f.StatsCalls
}

type fakeView struct {
	mu      sync.Mutex
	entries [][]api.Entry
	stats   []api.Stats
}

func (v *fakeView) ShowEntries(entries []api.Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = append(v.entries, entries)
}

func (v *fakeView) ShowStats(stats api.Stats) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stats = append(v.stats, stats)
}

type note struct {
	Message  string
	Severity notify.Severity
}

type fakeNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *fakeNotifier) Notify(message string, severity notify.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{message, severity})
}

func (n *fakeNotifier) all() []note {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]note, len(n.notes))
	copy(out, n.notes)
	return out
}

type fakeConfirmer struct {
	Answer  bool
	Prompts []string
}

func (c *fakeConfirmer) Confirm(prompt string) bool {
	c.Prompts = append(c.Prompts, prompt)
	return c.Answer
}
