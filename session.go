package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nexidian/gocliselect"
)

const (
	foodPrefix = "food:"

	actionTarget    = "action:target"
	actionSearch    = "action:search"
	actionCalculate = "action:calculate"
	actionSave      = "action:save"
	actionQuit      = "action:quit"
)

var (
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	totalsStyle = lipgloss.NewStyle().Bold(true)
)

var errQuit = errors.New("quit")

type MenuItem struct {
	Label string
	ID    string
}

// Picker shows a list of items and returns the ID of the chosen one, or an
// empty string if the user backed out
type Picker interface {
	Pick(prompt string, items []MenuItem) (string, error)
}

type menuPicker struct{}

func (menuPicker) Pick(prompt string, items []MenuItem) (string, error) {
	menu := gocliselect.NewMenu(prompt)
	for _, item := range items {
		menu.AddItem(item.Label, item.ID)
	}

	id, err := menu.Display()
	if err != nil {
		return "", fmt.Errorf("failed to display menu: %w", err)
	}
	// escape returns an empty id
	choice, _ := id.(string)
	return choice, nil
}

// Session is the interactive front end of a Tracker. Every menu choice or
// typed line maps onto one tracker call.
type Session struct {
	tracker *Tracker
	picker  Picker
	in      *bufio.Reader
	out     io.Writer

	target  string
	query   string
	totals  string
	message string
	warning bool
}

func NewSession(tracker *Tracker, picker Picker, in io.Reader, out io.Writer) *Session {
	return &Session{
		tracker: tracker,
		picker:  picker,
		in:      bufio.NewReader(in),
		out:     out,
		totals:  "Total Protein: 0g | Remaining: 0g",
	}
}

func (s *Session) Run() error {
	target, err := s.prompt("Daily Protein Target (g), e.g. 150: ")
	if err != nil {
		return ignoreQuit(err)
	}
	s.target = target

	for {
		s.render()

		choice, err := s.picker.Pick("Select food to toggle", s.menuItems())
		if err != nil {
			return err
		}

		switch {
		case choice == "" || choice == actionQuit:
			return nil
		case choice == actionTarget:
			if s.target, err = s.prompt("Daily Protein Target (g): "); err != nil {
				return ignoreQuit(err)
			}
		case choice == actionSearch:
			if s.query, err = s.prompt("Search food: "); err != nil {
				return ignoreQuit(err)
			}
		case choice == actionCalculate:
			s.calculate()
		case choice == actionSave:
			s.save()
		case strings.HasPrefix(choice, foodPrefix):
			if err := s.toggle(strings.TrimPrefix(choice, foodPrefix)); err != nil {
				return ignoreQuit(err)
			}
		}
	}
}

func (s *Session) menuItems() []MenuItem {
	var items []MenuItem
	for _, name := range s.tracker.Filter(s.query) {
		sel, _ := s.tracker.Selection(name)
		per100g, _ := s.tracker.Catalog().Protein(name)

		mark := "[ ]"
		if sel.Included {
			mark = "[x]"
		}
		label := fmt.Sprintf("%s %s", mark, FoodLabel(name, per100g))
		if sel.Amount != "" {
			label += fmt.Sprintf(" (%sg)", sel.Amount)
		}
		items = append(items, MenuItem{Label: label, ID: foodPrefix + name})
	}

	return append(items,
		MenuItem{Label: "» Set target", ID: actionTarget},
		MenuItem{Label: "» Search", ID: actionSearch},
		MenuItem{Label: "» Calculate", ID: actionCalculate},
		MenuItem{Label: "» Save", ID: actionSave},
		MenuItem{Label: "» Quit", ID: actionQuit},
	)
}

func (s *Session) toggle(food string) error {
	if err := s.tracker.Toggle(food); err != nil {
		s.warn(StatusMessage(err))
		return nil
	}

	sel, _ := s.tracker.Selection(food)
	if !sel.Included {
		return nil
	}

	prompt := fmt.Sprintf("Grams of %s: ", food)
	if sel.Amount != "" {
		prompt = fmt.Sprintf("Grams of %s [%s]: ", food, sel.Amount)
	}
	amount, err := s.prompt(prompt)
	if err != nil {
		return err
	}
	// empty input keeps the previous amount
	if amount != "" {
		return s.tracker.SetAmount(food, amount)
	}
	return nil
}

func (s *Session) calculate() {
	rec, err := s.tracker.Calculate(s.target)
	if err != nil {
		s.warn(StatusMessage(err))
		return
	}

	s.totals = "✅ " + FormatTotals(rec)
	s.ok("Saved to " + s.tracker.LatestFile())
}

func (s *Session) save() {
	name, err := s.tracker.SaveLatest()
	if err != nil {
		s.warn(StatusMessage(err))
		return
	}
	s.ok("📁 Saved as " + name)
}

func (s *Session) warn(msg string) {
	s.message, s.warning = msg, true
}

func (s *Session) ok(msg string) {
	s.message, s.warning = msg, false
}

func (s *Session) render() {
	fmt.Fprintln(s.out)
	header := fmt.Sprintf("Target: %sg", s.target)
	if s.query != "" {
		header += fmt.Sprintf(" | Search: %q", s.query)
	}
	fmt.Fprintln(s.out, header)
	fmt.Fprintln(s.out, totalsStyle.Render(s.totals))

	if s.message != "" {
		style := okStyle
		if s.warning {
			style = warnStyle
		}
		fmt.Fprintln(s.out, style.Render(s.message))
	}
}

func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)

	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errQuit
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func ignoreQuit(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}
