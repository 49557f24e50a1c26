package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

type App struct {
	tracker *Tracker
	store   *LogStore
	logger  *zap.Logger
	out     io.Writer
}

// NewApp loads the catalog and opens the log directory named by cfg. A
// catalog that cannot be loaded is returned as a *ConfigError.
func NewApp(cfg *Config, logger *zap.Logger, out io.Writer) (*App, error) {
	catalog, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded catalog", zap.String("path", cfg.CatalogPath), zap.Int("foods", catalog.Len()))

	store, err := NewLogStore(cfg.LogDir, cfg.LatestLog)
	if err != nil {
		return nil, err
	}

	return &App{
		tracker: NewTracker(catalog, store, WithLogger(logger)),
		store:   store,
		logger:  logger,
		out:     out,
	}, nil
}

func (a *App) ListFoods(query string) error {
	names := a.tracker.Filter(query)
	if len(names) == 0 {
		fmt.Fprintf(a.out, "No foods match %q\n", query)
		return nil
	}

	for _, name := range names {
		per100g, _ := a.tracker.Catalog().Protein(name)
		fmt.Fprintln(a.out, FoodLabel(name, per100g))
	}
	return nil
}

// Calculate runs one calculation for foods given as "name=grams"
func (a *App) Calculate(target string, foods []string, save bool) error {
	for _, arg := range foods {
		name, grams, err := parseFoodArg(arg)
		if err != nil {
			return err
		}
		if err := a.tracker.SetIncluded(name, true); err != nil {
			return err
		}
		if err := a.tracker.SetAmount(name, grams); err != nil {
			return err
		}
	}

	rec, err := a.tracker.Calculate(target)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✅ %s\n", FormatTotals(rec))
	fmt.Fprintf(a.out, "Saved to %s\n", a.tracker.LatestFile())

	if save {
		return a.Save()
	}
	return nil
}

func (a *App) Save() error {
	name, err := a.tracker.SaveLatest()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "📁 Saved as %s\n", name)
	return nil
}

// prints the primary log file as a table
func (a *App) Show() error {
	rec, err := a.store.ReadLatest()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(a.out, "No calculation logged yet in %s\n", a.store.Dir())
			return nil
		}
		return err
	}

	a.printRecord(rec)
	return nil
}

func (a *App) History() error {
	names, err := a.store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(a.out, "No saved logs")
		return nil
	}

	headers := []string{"File", "Target", "Total", "Remaining"}
	var rows [][]string
	for _, name := range names {
		rec, err := a.store.Read(name)
		if err != nil {
			a.logger.Warn("Skipping unreadable save file", zap.String("file", name), zap.Error(err))
			continue
		}
		rows = append(rows, []string{
			name,
			FormatGrams(rec.Target),
			FormatGrams(rec.TotalProtein),
			FormatGrams(rec.RemainingProtein),
		})
	}

	PrintTable(a.out, headers, rows, nil)
	return nil
}

func (a *App) printRecord(rec LogRecord) {
	headers := []string{"Food", "Amount", "Protein"}

	var rows [][]string
	for _, e := range rec.Entries {
		rows = append(rows, []string{
			e.Food,
			FormatNumber(e.Amount) + "g",
			FormatGrams(e.Protein),
		})
	}

	footers := []string{"", "Total:", FormatGrams(rec.TotalProtein)}
	PrintTable(a.out, headers, rows, footers)

	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Target: %s | Remaining: %s\n", FormatGrams(rec.Target), FormatGrams(rec.RemainingProtein))
}

// splits "chicken breast=150" into name and amount text
func parseFoodArg(arg string) (string, string, error) {
	i := strings.LastIndex(arg, "=")
	if i <= 0 {
		return "", "", fmt.Errorf("food %q must be given as name=grams", arg)
	}
	return strings.TrimSpace(arg[:i]), arg[i+1:], nil
}
