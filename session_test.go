package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPicker returns the queued choices in order and records each menu.
// Once the choices run out it returns err, or backs out if err is nil.
type scriptedPicker struct {
	choices []string
	menus   [][]MenuItem
	err     error
}

func (p *scriptedPicker) Pick(prompt string, items []MenuItem) (string, error) {
	p.menus = append(p.menus, items)
	if len(p.choices) == 0 {
		return "", p.err
	}
	choice := p.choices[0]
	p.choices = p.choices[1:]
	return choice, nil
}

func foodIDs(items []MenuItem) []string {
	var ids []string
	for _, item := range items {
		if strings.HasPrefix(item.ID, foodPrefix) {
			ids = append(ids, strings.TrimPrefix(item.ID, foodPrefix))
		}
	}
	return ids
}

func runSession(t *testing.T, tr *Tracker, input string, choices ...string) (*scriptedPicker, string) {
	t.Helper()

	picker := &scriptedPicker{choices: choices}
	var out bytes.Buffer

	err := NewSession(tr, picker, strings.NewReader(input), &out).Run()
	require.NoError(t, err)
	return picker, out.String()
}

func TestSession_CalculateAndSave(t *testing.T) {
	tr, store := newTestTracker(t)

	picker, out := runSession(t, tr, "150\n200\n",
		foodPrefix+"banana",
		actionCalculate,
		actionSave,
		actionQuit,
	)

	assert.Contains(t, out, "Total Protein: 0g | Remaining: 0g")
	assert.Contains(t, out, "✅ Total Protein: 2.20g | Remaining: 147.80g")
	assert.Contains(t, out, "Saved to log.json")
	assert.Contains(t, out, "📁 Saved as 2026-10-14_09-30-05.json")

	assert.FileExists(t, store.LatestPath())
	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-14_09-30-05.json"}, names)

	// the row reflects the toggle and the typed amount
	require.Len(t, picker.menus, 4)
	assert.Equal(t, "[ ] 1.1g/100g banana", picker.menus[0][1].Label)
	assert.Equal(t, "[x] 1.1g/100g banana (200g)", picker.menus[1][1].Label)
}

func TestSession_Warnings(t *testing.T) {
	tr, _ := newTestTracker(t)

	_, out := runSession(t, tr, "abc\n",
		actionSave,
		actionCalculate,
	)

	assert.Contains(t, out, "You must calculate first before saving.")
	assert.Contains(t, out, "Please enter a valid daily protein target.")
}

func TestSession_SearchFiltersRowsButKeepsSelections(t *testing.T) {
	tr, _ := newTestTracker(t)

	picker, _ := runSession(t, tr, "150\n200\nchick\n150\n",
		foodPrefix+"banana",
		actionSearch,
		foodPrefix+"chicken breast",
		actionCalculate,
	)

	require.Len(t, picker.menus, 5)
	assert.Equal(t, tr.Catalog().Names(), foodIDs(picker.menus[0]))
	assert.Equal(t, []string{"chicken breast"}, foodIDs(picker.menus[2]))

	// banana is hidden by the search but still counted
	rec, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, []LogEntry{
		{Food: "chicken breast", Amount: 150, Protein: 46.5},
		{Food: "banana", Amount: 200, Protein: 2.2},
	}, rec.Entries)
}

func TestSession_ToggleOffKeepsAmount(t *testing.T) {
	tr, _ := newTestTracker(t)

	runSession(t, tr, "150\n60\n\n",
		foodPrefix+"egg",
		foodPrefix+"egg",
		foodPrefix+"egg",
		actionQuit,
	)

	sel, ok := tr.Selection("egg")
	require.True(t, ok)
	assert.True(t, sel.Included)
	assert.Equal(t, "60", sel.Amount)
}

func TestSession_ChangeTarget(t *testing.T) {
	tr, _ := newTestTracker(t)

	_, out := runSession(t, tr, "abc\n100\n",
		actionTarget,
		foodPrefix+"egg",
	)

	// input runs out while asking for grams, which ends the session
	assert.Contains(t, out, "Target: 100g")
	assert.Contains(t, out, "Grams of egg: ")
}

func TestSession_EndOfInputQuits(t *testing.T) {
	tr, _ := newTestTracker(t)

	picker, _ := runSession(t, tr, "")
	assert.Empty(t, picker.menus)
}

func TestSession_PickerErrorEndsSession(t *testing.T) {
	tr, store := newTestTracker(t)

	menuErr := errors.New("menu has no items to display")
	picker := &scriptedPicker{
		choices: []string{foodPrefix + "banana", actionCalculate},
		err:     menuErr,
	}
	var out bytes.Buffer

	err := NewSession(tr, picker, strings.NewReader("150\n200\n"), &out).Run()
	require.ErrorIs(t, err, menuErr)

	// choices made before the failure still took effect
	assert.Len(t, picker.menus, 3)
	assert.FileExists(t, store.LatestPath())
}
