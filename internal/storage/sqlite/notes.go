package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfoliodash/internal/domain"
)

func ListKeyFacts(db *sql.DB) ([]domain.KeyFact, error) {
	facts := []domain.KeyFact{}
	if err := LoadDocument(db, KeyKeyFacts, &facts); err != nil {
		return nil, err
	}
	return facts, nil
}

func AddKeyFact(db *sql.DB, text string) (domain.KeyFact, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.KeyFact{}, fmt.Errorf("key fact text is required")
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	facts, err := ListKeyFacts(db)
	if err != nil {
		return domain.KeyFact{}, err
	}
	fact := domain.KeyFact{ID: uuid.NewString(), Text: text, CreatedAt: time.Now().UTC()}
	if err := SaveDocument(db, KeyKeyFacts, append(facts, fact)); err != nil {
		return domain.KeyFact{}, err
	}
	return fact, nil
}

func DeleteKeyFact(db *sql.DB, id string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	facts, err := ListKeyFacts(db)
	if err != nil {
		return err
	}
	for i, f := range facts {
		if f.ID == id {
			return SaveDocument(db, KeyKeyFacts, append(facts[:i], facts[i+1:]...))
		}
	}
	return fmt.Errorf("key fact %s: %w", id, ErrNotFound)
}

func ListNextSteps(db *sql.DB) ([]domain.NextStep, error) {
	steps := []domain.NextStep{}
	if err := LoadDocument(db, KeyNextSteps, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// AddNextStep stores a follow-up action. Owner and due date are optional.
func AddNextStep(db *sql.DB, text, owner string, due *domain.Date) (domain.NextStep, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NextStep{}, fmt.Errorf("next step text is required")
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	steps, err := ListNextSteps(db)
	if err != nil {
		return domain.NextStep{}, err
	}
	step := domain.NextStep{
		ID:        uuid.NewString(),
		Text:      text,
		Owner:     strings.TrimSpace(owner),
		DueDate:   due,
		CreatedAt: time.Now().UTC(),
	}
	if err := SaveDocument(db, KeyNextSteps, append(steps, step)); err != nil {
		return domain.NextStep{}, err
	}
	return step, nil
}

func DeleteNextStep(db *sql.DB, id string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	steps, err := ListNextSteps(db)
	if err != nil {
		return err
	}
	for i, s := range steps {
		if s.ID == id {
			return SaveDocument(db, KeyNextSteps, append(steps[:i], steps[i+1:]...))
		}
	}
	return fmt.Errorf("next step %s: %w", id, ErrNotFound)
}
