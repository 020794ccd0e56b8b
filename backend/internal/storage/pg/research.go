package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/fieldnotes-dev/fieldnotes/shared/domain"
	internal_errors "github.com/fieldnotes-dev/fieldnotes/shared/errors"
)

func (s *Storage) CreateResearch(ownerId domain.ProfileId, title string) (domain.ResearchId, error) {
	var id domain.ResearchId
	createdTs := time.Now().UTC().Round(time.Microsecond)
	err := s.db.QueryRow("INSERT INTO research(owner_id, title, created) VALUES($1, $2, $3) RETURNING id",
		ownerId, title, createdTs).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert research: %w", err)
	}
	return id, nil
}

// Research returns the item with its non-deleted updates in creation order.
func (s *Storage) Research(id domain.ResearchId) (domain.Research, error) {
	var res domain.Research
	err := s.db.QueryRow("SELECT id, owner_id, title, created FROM research WHERE id = $1", id).
		Scan(&res.Id, &res.OwnerId, &res.Title, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Research{}, &internal_errors.ErrorWithStatusCode{Message: "Research not found", StatusCode: http.StatusNotFound}
		}
		return domain.Research{}, fmt.Errorf("failed to query research: %w", err)
	}

	rows, err := s.db.Query(`
	SELECT id, research_id, title, description, images, files, video_url, draft, deleted, created, modified
	FROM research_updates
	WHERE research_id = $1 AND NOT deleted
	ORDER BY created`, id)
	if err != nil {
		return domain.Research{}, fmt.Errorf("failed to query updates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u domain.ResearchUpdate
		if err := rows.Scan(&u.Id, &u.ResearchId, &u.Title, &u.Description, &u.Images, &u.Files,
			&u.VideoURL, &u.Draft, &u.Deleted, &u.CreatedAt, &u.ModifiedAt); err != nil {
			return domain.Research{}, fmt.Errorf("failed to scan update: %w", err)
		}
		res.Updates = append(res.Updates, u)
	}
	if err := rows.Err(); err != nil {
		return domain.Research{}, err
	}

	return res, nil
}

func (s *Storage) ResearchUpdate(id domain.UpdateId) (domain.ResearchUpdate, error) {
	var u domain.ResearchUpdate
	err := s.db.QueryRow(`
	SELECT id, research_id, title, description, images, files, video_url, draft, deleted, created, modified
	FROM research_updates
	WHERE id = $1`, id).
		Scan(&u.Id, &u.ResearchId, &u.Title, &u.Description, &u.Images, &u.Files,
			&u.VideoURL, &u.Draft, &u.Deleted, &u.CreatedAt, &u.ModifiedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ResearchUpdate{}, &internal_errors.ErrorWithStatusCode{Message: "Update not found", StatusCode: http.StatusNotFound}
		}
		return domain.ResearchUpdate{}, fmt.Errorf("failed to query update: %w", err)
	}
	return u, nil
}

func (s *Storage) CreateResearchUpdate(u domain.ResearchUpdate) (domain.UpdateId, error) {
	createdTs := time.Now().UTC().Round(time.Microsecond)

	var id domain.UpdateId
	err := s.db.QueryRow(`
	INSERT INTO research_updates(research_id, title, description, images, files, video_url, draft, created, modified)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $8)
	RETURNING id`,
		u.ResearchId, u.Title, u.Description, pq.StringArray(u.Images), pq.StringArray(u.Files),
		u.VideoURL, u.Draft, createdTs).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert update: %w", err)
	}
	return id, nil
}

func (s *Storage) SaveResearchUpdate(u domain.ResearchUpdate) error {
	modifiedTs := time.Now().UTC().Round(time.Microsecond)

	result, err := s.db.Exec(`
	UPDATE research_updates SET
		title = $1,
		description = $2,
		images = $3,
		files = $4,
		video_url = $5,
		draft = $6,
		modified = $7
	WHERE id = $8 AND research_id = $9 AND NOT deleted`,
		u.Title, u.Description, pq.StringArray(u.Images), pq.StringArray(u.Files),
		u.VideoURL, u.Draft, modifiedTs, u.Id, u.ResearchId)
	if err != nil {
		return fmt.Errorf("failed to update research update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Update not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

// SoftDeleteResearchUpdate flips the deleted flag; the row and its
// attachments stay in storage.
func (s *Storage) SoftDeleteResearchUpdate(researchId domain.ResearchId, id domain.UpdateId) error {
	result, err := s.db.Exec(`
	UPDATE research_updates SET deleted = TRUE
	WHERE id = $1 AND research_id = $2 AND NOT deleted`, id, researchId)
	if err != nil {
		return fmt.Errorf("failed to soft delete update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Update not found", StatusCode: http.StatusNotFound}
	}
	return nil
}
