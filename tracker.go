package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RecordStore persists log records. LogStore is the file-backed one.
type RecordStore interface {
	WriteLatest(rec LogRecord) (string, error)
	Save(rec LogRecord, t time.Time) (string, error)
}

// Tracker holds the selections for one session and computes protein totals
// against the catalog. It is not safe for concurrent use.
type Tracker struct {
	catalog    *Catalog
	store      RecordStore
	selections map[string]*Selection
	latest     *LogRecord
	latestFile string
	now        func() time.Time
	logger     *zap.Logger
}

type TrackerOption func(*Tracker)

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

func WithLogger(logger *zap.Logger) TrackerOption {
	return func(t *Tracker) { t.logger = logger }
}

func NewTracker(catalog *Catalog, store RecordStore, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		catalog:    catalog,
		store:      store,
		selections: make(map[string]*Selection),
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Catalog() *Catalog {
	return t.catalog
}

// selection rows are created the first time a food is touched
func (t *Tracker) selection(food string) (*Selection, error) {
	if s, ok := t.selections[food]; ok {
		return s, nil
	}
	if _, ok := t.catalog.Protein(food); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFood, food)
	}

	s := &Selection{Food: food}
	t.selections[food] = s
	return s, nil
}

func (t *Tracker) Toggle(food string) error {
	s, err := t.selection(food)
	if err != nil {
		return err
	}
	s.Included = !s.Included
	return nil
}

func (t *Tracker) SetIncluded(food string, included bool) error {
	s, err := t.selection(food)
	if err != nil {
		return err
	}
	s.Included = included
	return nil
}

// stores the amount as typed, it is parsed only on calculate
func (t *Tracker) SetAmount(food, text string) error {
	s, err := t.selection(food)
	if err != nil {
		return err
	}
	s.Amount = text
	return nil
}

func (t *Tracker) Selection(food string) (Selection, bool) {
	s, ok := t.selections[food]
	if !ok {
		return Selection{Food: food}, false
	}
	return *s, true
}

// selections in catalog order
func (t *Tracker) Selections() []Selection {
	var out []Selection
	for _, name := range t.catalog.names {
		if s, ok := t.selections[name]; ok {
			out = append(out, *s)
		}
	}
	return out
}

func (t *Tracker) Filter(query string) []string {
	return t.catalog.Filter(query)
}

// Calculate validates the target and every included amount, then writes the
// resulting record to the primary log and keeps it as the latest. Nothing is
// written and no state changes if validation fails.
func (t *Tracker) Calculate(targetText string) (LogRecord, error) {
	target, ok := parseNumber(targetText)
	if !ok {
		return LogRecord{}, &InvalidTargetError{Input: targetText}
	}

	rec := LogRecord{Target: target, Entries: []LogEntry{}}
	var total float64

	for _, s := range t.Selections() {
		if !s.Included {
			continue
		}

		amount, ok := parseNumber(s.Amount)
		if !ok || amount <= 0 {
			return LogRecord{}, &InvalidAmountError{Food: s.Food, Input: s.Amount}
		}

		per100g, _ := t.catalog.Protein(s.Food)
		protein := round2(amount / 100 * per100g)
		total += protein

		rec.Entries = append(rec.Entries, LogEntry{
			Food:    s.Food,
			Amount:  amount,
			Protein: protein,
		})
	}

	rec.TotalProtein = round2(total)
	if len(rec.Entries) == 0 || rec.TotalProtein == 0 {
		return LogRecord{}, ErrNoEntries
	}
	rec.RemainingProtein = round2(math.Max(target-rec.TotalProtein, 0))

	name, err := t.store.WriteLatest(rec)
	if err != nil {
		return LogRecord{}, err
	}
	t.latest = &rec
	t.latestFile = name

	t.logger.Debug("Calculated protein",
		zap.Float64("target", rec.Target),
		zap.Int("entries", len(rec.Entries)),
		zap.Float64("total", rec.TotalProtein),
		zap.Float64("remaining", rec.RemainingProtein),
		zap.String("file", name))

	return rec, nil
}

func (t *Tracker) Latest() (LogRecord, bool) {
	if t.latest == nil {
		return LogRecord{}, false
	}
	return *t.latest, true
}

// name of the file the latest record was written to
func (t *Tracker) LatestFile() string {
	return t.latestFile
}

// writes the latest record under a timestamped name and returns that name
func (t *Tracker) SaveLatest() (string, error) {
	if t.latest == nil {
		return "", ErrNoCalculationYet
	}

	name, err := t.store.Save(*t.latest, t.now())
	if err != nil {
		return "", err
	}

	t.logger.Info("Saved log record", zap.String("file", name))
	return name, nil
}

func parseNumber(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
