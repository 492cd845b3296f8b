package docsystem

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	models "github.com/jonatjano/HostMyDocs/internal/domain/models/docsystem"
)

func scanProjects(rows pgx.Rows) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func scanVersions(rows pgx.Rows) ([]models.Version, error) {
	versions := []models.Version{}
	for rows.Next() {
		var version models.Version
		if err := rows.Scan(&version.ID, &version.ProjectID, &version.Number, &version.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}
	return versions, nil
}

func scanLanguages(rows pgx.Rows) ([]models.Language, error) {
	languages := []models.Language{}
	for rows.Next() {
		var language models.Language
		if err := rows.Scan(&language.ID, &language.VersionID, &language.Name, &language.UUID, &language.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		languages = append(languages, language)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate languages: %w", err)
	}
	return languages, nil
}
