package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"entrylog/internal/api"
	"entrylog/internal/prompt"
)

const sessionHelp = `Commands:
  entry, exit        record for the current name
  name <text>        set the name
  names              show or hide the quick-select list
  pick <n>           take name n from the quick-select list
  places             show or hide the from/to inputs
  from <text>        set where the person comes from
  to <text>          set where the person goes
  delete <id>        delete one entry
  clear              delete all entries
  refresh            reload entries and stats
  help               show this help
  quit               leave`

// Watch runs the interactive session. The list and stats are loaded at
// once and then every refresh interval while commands are read from input.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	lines := a.readLines(ctx)
	a.confirm = func(question string) bool {
		fmt.Fprintf(a.out, "%s [y/N]: ", question)
		select {
		case line, ok := <-lines:
			return ok && prompt.IsYes(line)
		case <-ctx.Done():
			return false
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.ctrl.Run(ctx, a.cfg.RefreshInterval)
	}()

	fmt.Fprintln(a.out, sessionHelp)

	for {
		fmt.Fprint(a.out, "> ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(a.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if !a.handle(ctx, line) {
				return nil
			}
		}
	}
}

// readLines feeds input lines to the session until input ends or ctx is
// done.
func (a *App) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := a.prompter.ReadLine("")
			if err != nil {
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// handle runs one session command and reports whether to keep going.
func (a *App) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	cmd = strings.ToLower(cmd)

	switch cmd {
	case "":
	case api.TypeEntry, api.TypeExit:
		a.ctrl.RecordEntry(ctx, cmd)
	case "name":
		a.ctrl.SetPersonName(arg)
	case "names":
		if a.ctrl.ToggleNames() {
			a.printNames()
		}
	case "pick":
		a.pick(arg)
	case "places":
		if a.ctrl.TogglePlaces() {
			form := a.ctrl.Form()
			fmt.Fprintf(a.out, "From: %s\nTo: %s\n", form.PlaceFrom, form.PlaceTo)
		}
	case "from", "to":
		if !a.ctrl.Panels().Places {
			fmt.Fprintln(a.out, "Place inputs are hidden, use 'places' to show them.")
			return true
		}
		if cmd == "from" {
			a.ctrl.SetPlaceFrom(arg)
		} else {
			a.ctrl.SetPlaceTo(arg)
		}
	case "delete":
		id, err := parseID(arg)
		if err != nil {
			fmt.Fprintln(a.out, err)
			return true
		}
		a.ctrl.DeleteEntry(ctx, id)
	case "clear":
		a.ctrl.ClearAllEntries(ctx)
	case "refresh":
		a.ctrl.Refresh(ctx)
	case "help":
		fmt.Fprintln(a.out, sessionHelp)
	case "quit", "q":
		return false
	default:
		fmt.Fprintf(a.out, "Unknown command %q, type 'help'.\n", cmd)
	}
	return true
}

func (a *App) printNames() {
	if len(a.cfg.People) == 0 {
		fmt.Fprintln(a.out, "No people configured.")
		return
	}
	for i, name := range a.cfg.People {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, name)
	}
}

func (a *App) pick(arg string) {
	if !a.ctrl.Panels().Names {
		fmt.Fprintln(a.out, "The name list is hidden, use 'names' to show it.")
		return
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(a.cfg.People) {
		fmt.Fprintf(a.out, "Pick a number between 1 and %d.\n", len(a.cfg.People))
		return
	}
	a.ctrl.SelectName(a.cfg.People[n-1])
}
