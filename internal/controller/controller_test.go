package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entrylog/internal/api"
	"entrylog/internal/notify"
)

type harness struct {
	api      *fakeAPI
	view     *fakeView
	notifier *fakeNotifier
	confirm  *fakeConfirmer
	ctrl     *Controller
}

func newHarness(confirm bool) *harness {
	h := &harness{
		api:      &fakeAPI{Message: "ok"},
		view:     &fakeView{},
		notifier: &fakeNotifier{},
		confirm:  &fakeConfirmer{Answer: confirm},
	}
	h.ctrl = New(h.api, h.view, h.notifier, h.confirm, zerolog.Nop())
	return h
}

var errNetwork = errors.New("error making request: connection refused")

func TestRecordEntryRequiresName(t *testing.T) {
	for _, name := range []string{"", "   "} {
		h := newHarness(true)
		h.ctrl.SetPersonName(name)

		h.ctrl.RecordEntry(context.Background(), api.TypeEntry)

		assert.Empty(t, h.api.Created, "no request for %q", name)
		assert.Equal(t, []note{{msgNameRequired, notify.Error}}, h.notifier.all())
		list, stats := h.api.calls()
		assert.Zero(t, list)
		assert.Zero(t, stats)
	}
}

func TestRecordEntryRejectsUnknownType(t *testing.T) {
	h := newHarness(true)
	h.ctrl.SetPersonName("Amma")

	h.ctrl.RecordEntry(context.Background(), "lunch")

	assert.Empty(t, h.api.Created)
	assert.Equal(t, []note{{msgInvalidType, notify.Error}}, h.notifier.all())
}

func TestRecordEntrySuccess(t *testing.T) {
	h := newHarness(true)
	h.api.Message = "நுழைவு வெற்றிகரமாக பதிவு செய்யப்பட்டது"
	h.api.Entries = []api.Entry{{ID: 1, Type: api.TypeEntry, PersonName: "Amma"}}
	h.ctrl.SetPersonName("  Amma ")
	h.ctrl.SetPlaces(" Home ", "")

	h.ctrl.RecordEntry(context.Background(), api.TypeEntry)

	require.Len(t, h.api.Created, 1)
	assert.Equal(t, api.NewEntry{Type: api.TypeEntry, PersonName: "Amma", PlaceFrom: "Home"}, h.api.Created[0])

	list, stats := h.api.calls()
	assert.Equal(t, 1, list)
	assert.Equal(t, 1, stats)
	assert.Len(t, h.view.entries, 1)
	assert.Len(t, h.view.stats, 1)
	assert.Equal(t, []note{{h.api.Message, notify.Success}}, h.notifier.all())
}

func TestRecordEntryServerFailure(t *testing.T) {
	h := newHarness(true)
	h.api.CreateErr = &api.ServerError{Status: 400, Message: "தவறான பதிவு வகை"}
	h.ctrl.SetPersonName("Amma")

	h.ctrl.RecordEntry(context.Background(), api.TypeExit)

	assert.Equal(t, []note{{"தவறான பதிவு வகை", notify.Error}}, h.notifier.all())
	list, stats := h.api.calls()
	assert.Zero(t, list)
	assert.Zero(t, stats)
}

func TestRecordEntryTransportFailure(t *testing.T) {
	h := newHarness(true)
	h.api.CreateErr = errNetwork
	h.ctrl.SetPersonName("Amma")

	h.ctrl.RecordEntry(context.Background(), api.TypeExit)

	assert.Equal(t, []note{{msgRecordFailed + errNetwork.Error(), notify.Error}}, h.notifier.all())
}

func TestLoadEntriesAndStats(t *testing.T) {
	h := newHarness(true)
	h.api.Entries = []api.Entry{{ID: 1}, {ID: 2}, {ID: 3}}
	h.api.StatsRes = api.Stats{TotalEntries: 2, TotalExits: 1, TotalHours: 1.5}

	h.ctrl.Refresh(context.Background())

	require.Len(t, h.view.entries, 1)
	assert.Equal(t, h.api.Entries, h.view.entries[0])
	require.Len(t, h.view.stats, 1)
	assert.Equal(t, h.api.StatsRes, h.view.stats[0])
	assert.Empty(t, h.notifier.all())
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*fakeAPI)
		load     func(*Controller, context.Context)
		expected string
	}{
		{
			name:     "entries server failure",
			setup:    func(f *fakeAPI) { f.ListErr = &api.ServerError{Message: "boom"} },
			load:     (*Controller).LoadEntries,
			expected: "Error loading entries",
		},
		{
			name:     "entries transport failure",
			setup:    func(f *fakeAPI) { f.ListErr = errNetwork },
			load:     (*Controller).LoadEntries,
			expected: "Error loading entries: " + errNetwork.Error(),
		},
		{
			name:     "stats server failure",
			setup:    func(f *fakeAPI) { f.StatsErr = &api.ServerError{Message: "boom"} },
			load:     (*Controller).LoadStats,
			expected: "Error loading stats",
		},
		{
			name:     "stats transport failure",
			setup:    func(f *fakeAPI) { f.StatsErr = errNetwork },
			load:     (*Controller).LoadStats,
			expected: "Error loading stats: " + errNetwork.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(true)
			tt.setup(h.api)

			tt.load(h.ctrl, context.Background())

			assert.Equal(t, []note{{tt.expected, notify.Error}}, h.notifier.all())
			assert.Empty(t, h.view.entries)
			assert.Empty(t, h.view.stats)
		})
	}
}

func TestTransportFailureDoesNotBreakLaterOperations(t *testing.T) {
	h := newHarness(true)
	h.api.ListErr = errNetwork

	h.ctrl.LoadEntries(context.Background())
	require.Len(t, h.notifier.all(), 1)

	h.api.ListErr = nil
	h.api.Entries = []api.Entry{{ID: 9}}
	h.ctrl.LoadEntries(context.Background())

	assert.Len(t, h.notifier.all(), 1)
	require.Len(t, h.view.entries, 1)
	assert.Equal(t, int64(9), h.view.entries[0][0].ID)
}

func TestDeleteEntryNeedsConfirmation(t *testing.T) {
	h := newHarness(false)

	h.ctrl.DeleteEntry(context.Background(), 3)

	assert.Equal(t, []string{PromptDelete}, h.confirm.Prompts)
	assert.Empty(t, h.api.Deleted)
	assert.Empty(t, h.notifier.all())
	assert.Empty(t, h.view.entries)
}

func TestDeleteEntry(t *testing.T) {
	h := newHarness(true)
	h.api.Message = "பதிவு நீக்கப்பட்டது"

	h.ctrl.DeleteEntry(context.Background(), 3)

	assert.Equal(t, []int64{3}, h.api.Deleted)
	assert.Equal(t, []note{{h.api.Message, notify.Success}}, h.notifier.all())
	list, stats := h.api.calls()
	assert.Equal(t, 1, list)
	assert.Equal(t, 1, stats)
}

func TestDeleteEntryFailures(t *testing.T) {
	h := newHarness(true)
	h.api.DeleteErr = &api.ServerError{Message: "nope"}
	h.ctrl.DeleteEntry(context.Background(), 1)

	h.api.DeleteErr = errNetwork
	h.ctrl.DeleteEntry(context.Background(), 2)

	assert.Equal(t, []note{
		{"nope", notify.Error},
		{msgDeleteFailed + errNetwork.Error(), notify.Error},
	}, h.notifier.all())
	list, stats := h.api.calls()
	assert.Zero(t, list)
	assert.Zero(t, stats)
}

func TestClearAllEntries(t *testing.T) {
	h := newHarness(false)
	h.ctrl.ClearAllEntries(context.Background())
	assert.Zero(t, h.api.ClearCalls)
	assert.Equal(t, []string{PromptClear}, h.confirm.Prompts)

	h.confirm.Answer = true
	h.api.Message = "அனைத்து பதிவுகளும் அழிக்கப்பட்டன"
	h.ctrl.ClearAllEntries(context.Background())

	assert.Equal(t, 1, h.api.ClearCalls)
	assert.Equal(t, []note{{h.api.Message, notify.Success}}, h.notifier.all())
	list, stats := h.api.calls()
	assert.Equal(t, 1, list)
	assert.Equal(t, 1, stats)
}

func TestClearAllEntriesTransportFailure(t *testing.T) {
	h := newHarness(true)
	h.api.ClearErr = errNetwork

	h.ctrl.ClearAllEntries(context.Background())

	assert.Equal(t, []note{{msgClearFailed + errNetwork.Error(), notify.Error}}, h.notifier.all())
}

func TestRunPollsUntilCancelled(t *testing.T) {
	h := newHarness(true)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.ctrl.Run(ctx, 20*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		list, stats := h.api.calls()
		return list >= 3 && stats >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoadAfterCancelIsQuiet(t *testing.T) {
	h := newHarness(true)
	h.api.ListErr = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.ctrl.LoadEntries(ctx)

	assert.Empty(t, h.notifier.all())
}

func TestPanelsAndQuickSelect(t *testing.T) {
	h := newHarness(true)

	assert.Equal(t, Panels{}, h.ctrl.Panels(), "both panels start hidden")

	assert.True(t, h.ctrl.ToggleNames())
	assert.True(t, h.ctrl.TogglePlaces())
	assert.False(t, h.ctrl.TogglePlaces())
	assert.Equal(t, Panels{Names: true}, h.ctrl.Panels())

	h.ctrl.SelectName("Appa")

	assert.Equal(t, "Appa", h.ctrl.Form().PersonName)
	assert.False(t, h.ctrl.Panels().Names)
	assert.Equal(t, []note{{"Appa selected", notify.Success}}, h.notifier.all())
}

func TestHiddenPlacesAreStillSent(t *testing.T) {
	h := newHarness(true)
	h.ctrl.SetPersonName("Amma")
	h.ctrl.SetPlaceTo("Temple")

	h.ctrl.RecordEntry(context.Background(), api.TypeExit)

	require.Len(t, h.api.Created, 1)
	assert.Equal(t, "Temple", h.api.Created[0].PlaceTo)
}
