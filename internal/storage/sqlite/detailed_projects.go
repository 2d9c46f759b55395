package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"portfoliodash/internal/domain"
)

func loadDetailedProjects(db *sql.DB) ([]domain.DetailedProject, error) {
	projects := []domain.DetailedProject{}
	if err := LoadDocument(db, KeyDetailedProjects, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func ListDetailedProjects(db *sql.DB) ([]domain.DetailedProject, error) {
	projects, err := loadDetailedProjects(db)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := strings.ToLower(projects[i].Name), strings.ToLower(projects[j].Name)
		if a != b {
			return a < b
		}
		return projects[i].ID < projects[j].ID
	})
	return projects, nil
}

func GetDetailedProject(db *sql.DB, id string) (domain.DetailedProject, error) {
	projects, err := loadDetailedProjects(db)
	if err != nil {
		return domain.DetailedProject{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.DetailedProject{}, fmt.Errorf("detailed project %s: %w", id, ErrNotFound)
}

// CreateDetailedProject stores an empty project under a fresh identity.
func CreateDetailedProject(db *sql.DB, name string) (domain.DetailedProject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.DetailedProject{}, fmt.Errorf("detailed project name is required")
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	projects, err := loadDetailedProjects(db)
	if err != nil {
		return domain.DetailedProject{}, err
	}
	p := domain.DetailedProject{ID: uuid.NewString(), Name: name, Steps: []domain.Step{}}
	projects = append(projects, p)
	if err := SaveDocument(db, KeyDetailedProjects, projects); err != nil {
		return domain.DetailedProject{}, err
	}
	return p, nil
}

// SaveDetailedProject normalizes p and replaces the stored project with the same ID.
func SaveDetailedProject(db *sql.DB, p domain.DetailedProject) (domain.DetailedProject, error) {
	writeMu.Lock()
	defer writeMu.Unlock()
	projects, err := loadDetailedProjects(db)
	if err != nil {
		return domain.DetailedProject{}, err
	}
	p.Normalize()
	if p.Name == "" {
		return domain.DetailedProject{}, fmt.Errorf("detailed project name is required")
	}
	if p.Steps == nil {
		p.Steps = []domain.Step{}
	}
	for i := range projects {
		if projects[i].ID == p.ID {
			projects[i] = p
			if err := SaveDocument(db, KeyDetailedProjects, projects); err != nil {
				return domain.DetailedProject{}, err
			}
			return p, nil
		}
	}
	return domain.DetailedProject{}, fmt.Errorf("detailed project %s: %w", p.ID, ErrNotFound)
}

func DeleteDetailedProject(db *sql.DB, id string) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	projects, err := loadDetailedProjects(db)
	if err != nil {
		return err
	}
	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return fmt.Errorf("detailed project %s: %w", id, ErrNotFound)
	}
	return SaveDocument(db, KeyDetailedProjects, kept)
}
