// Package prompt reads answers from the terminal: yes/no confirmations,
// free text lines and the name quick-select menu.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nexidian/gocliselect"
)

// Prompter shares one buffered reader between the interactive session and
// its confirmations, so neither swallows the other's input.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// Menu shows the quick-select list and returns the chosen name, or ""
	// when nothing was picked.
	Menu func(title string, names []string) string
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:   bufio.NewReader(in),
		out:  out,
		Menu: selectMenu,
	}
}

// Confirm asks a yes/no question. Only "y" or "yes" count as yes; EOF and
// read errors are treated as no.
func (p *Prompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	response, _ := p.in.ReadString('\n')
	return IsYes(response)
}

// IsYes reports whether an answer means yes.
func IsYes(response string) bool {
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// ReadLine prints label and returns the trimmed line. io.EOF is returned
// once the input is exhausted and nothing was read.
func (p *Prompter) ReadLine(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PickName shows the quick-select menu for names.
func (p *Prompter) PickName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return p.Menu("Choose a name", names)
}

func selectMenu(title string, names []string) string {
	menu := gocliselect.NewMenu(title)
	for _, name := range names {
		menu.AddItem(name, name)
	}
	return menuChoice(menu.Display())
}

// menuChoice maps the menu result to a name. Escape, errors and non-string
// values all mean nothing was picked.
func menuChoice(v any, err error) string {
	if err != nil {
		return ""
	}
	name, ok := v.(string)
	if !ok {
		return ""
	}
	return name
}
