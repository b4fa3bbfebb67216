package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/resume-builder/internal/apperror"
	"github.com/sakif/resume-builder/internal/model"
)

const resumeColumns = `id, user_id, title, thumbnail_link, content, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CreateResume inserts r, generating its ID and timestamps.
func (db *DB) CreateResume(ctx context.Context, r *model.Resume) error {
	r.Normalize()
	content, err := json.Marshal(r.ResumeContent)
	if err != nil {
		return fmt.Errorf("sqlite: encoding resume content: %w", err)
	}

	now := time.Now().UTC()
	id := xid.New().String()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO resumes (`+resumeColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		r.UserID,
		r.Title,
		r.ThumbnailLink,
		string(content),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating resume: %w", err)
	}

	r.ID = id
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

// ListResumesByOwner returns every resume of ownerID, most recently
// updated first.
func (db *DB) ListResumesByOwner(ctx context.Context, ownerID string) ([]model.Resume, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+resumeColumns+`
		 FROM resumes
		 WHERE user_id = ?
		 ORDER BY updated_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing resumes: %w", err)
	}
	defer rows.Close()

	resumes := []model.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning resume row: %w", err)
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating resumes: %w", err)
	}

	return resumes, nil
}

// GetResume returns the resume id if, and only if, ownerID owns it.
func (db *DB) GetResume(ctx context.Context, ownerID, id string) (*model.Resume, error) {
	r, err := getOwnedResume(ctx, db.conn, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting resume %s: %w", id, err)
	}
	return r, nil
}

// UpdateResume applies patch to the owned resume inside one transaction:
// read, patch in Go, write back.
func (db *DB) UpdateResume(ctx context.Context, ownerID, id string, patch *model.ResumePatch) (*model.Resume, error) {
	var updated *model.Resume

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		r, err := getOwnedResume(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}

		patch.Apply(r)
		r.UpdatedAt = time.Now().UTC()

		content, err := json.Marshal(r.ResumeContent)
		if err != nil {
			return fmt.Errorf("encoding resume content: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE resumes
			 SET title = ?, thumbnail_link = ?, content = ?, updated_at = ?
			 WHERE id = ? AND user_id = ?`,
			r.Title,
			r.ThumbnailLink,
			string(content),
			r.UpdatedAt,
			id,
			ownerID,
		)
		if err != nil {
			return err
		}

		updated = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating resume %s: %w", id, err)
	}

	return updated, nil
}

// UpdateResumeImages sets thumbnail_link and profileInfo.profilePreviewUrl.
// Empty links keep their stored value; nothing else in the row changes.
func (db *DB) UpdateResumeImages(ctx context.Context, ownerID, id string, links model.ImageLinks) (*model.Resume, error) {
	var updated *model.Resume

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE resumes
			 SET thumbnail_link = CASE WHEN ?1 <> '' THEN ?1 ELSE thumbnail_link END,
			     content = CASE WHEN ?2 <> ''
			                    THEN json_set(content, '$.profileInfo.profilePreviewUrl', ?2)
			                    ELSE content END,
			     updated_at = ?3
			 WHERE id = ?4 AND user_id = ?5`,
			links.ThumbnailLink,
			links.ProfilePreviewURL,
			time.Now().UTC(),
			id,
			ownerID,
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		} else if n == 0 {
			return apperror.NotFound("Resume")
		}

		updated, err = getOwnedResume(ctx, tx, ownerID, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating images of resume %s: %w", id, err)
	}

	return updated, nil
}

// DeleteResume permanently removes the owned resume.
func (db *DB) DeleteResume(ctx context.Context, ownerID, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM resumes WHERE id = ? AND user_id = ?`,
		id,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting resume %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Resume")
	}

	return nil
}

// queryer is the part of *sql.DB and *sql.Tx that getOwnedResume needs.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getOwnedResume(ctx context.Context, q queryer, ownerID, id string) (*model.Resume, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = ? AND user_id = ?`,
		id,
		ownerID,
	)
	r, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Resume")
		}
		return nil, err
	}
	return r, nil
}

func scanResume(s rowScanner) (*model.Resume, error) {
	var (
		r       model.Resume
		content string
	)
	if err := s.Scan(
		&r.ID,
		&r.UserID,
		&r.Title,
		&r.ThumbnailLink,
		&content,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(content), &r.ResumeContent); err != nil {
		return nil, fmt.Errorf("decoding content of resume %s: %w", r.ID, err)
	}
	r.Normalize()
	return &r, nil
}

// withTx runs fn in a transaction, committing on success and rolling back
// on any error.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
