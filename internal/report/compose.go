package report

import (
	"database/sql"

	"portfoliodash/internal/aggregate"
	"portfoliodash/internal/domain"
	"portfoliodash/internal/storage/sqlite"
	"portfoliodash/internal/timeline"
)

// LoadProjectViews reads every monitored project and derives its health as of today.
func LoadProjectViews(db *sql.DB, today domain.Date) ([]ProjectView, error) {
	projects, err := sqlite.ListDetailedProjects(db)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, ProjectView{Project: p, Health: timeline.Analyze(p, today)})
	}
	return views, nil
}

// Compose builds the deck from the dashboard plus everything persisted in db.
// A nil db yields a deck with the overview only and empty notes.
func Compose(db *sql.DB, title string, today domain.Date, dash aggregate.Dashboard) (Deck, error) {
	if db == nil {
		return BuildDeck(title, today, dash, nil, nil, nil), nil
	}
	views, err := LoadProjectViews(db, today)
	if err != nil {
		return Deck{}, err
	}
	facts, err := sqlite.ListKeyFacts(db)
	if err != nil {
		return Deck{}, err
	}
	steps, err := sqlite.ListNextSteps(db)
	if err != nil {
		return Deck{}, err
	}
	return BuildDeck(title, today, dash, views, facts, steps), nil
}
