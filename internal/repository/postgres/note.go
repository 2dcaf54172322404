package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/notekeeper-server/internal/model"
)

var _ model.NoteStore = (*NoteRepository)(nil)

type NoteRepository struct {
	db *Connection
}

func NewNoteRepository(db *Connection) *NoteRepository {
	return &NoteRepository{
		db: db,
	}
}

func (r *NoteRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID, categoryID *uuid.UUID) ([]model.Note, error) {
	query := `SELECT id, owner_id, title, content, category_id, created_at, updated_at
			  FROM notes WHERE owner_id = $1`
	args := []any{ownerID}

	if categoryID != nil {
		query += ` AND category_id = $2`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes by owner: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (r *NoteRepository) Search(ctx context.Context, ownerID uuid.UUID, term string) ([]model.Note, error) {
	query := `SELECT id, owner_id, title, content, category_id, created_at, updated_at
			  FROM notes
			  WHERE owner_id = $1 AND (title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
			  ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, ownerID, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (r *NoteRepository) Create(ctx context.Context, note model.Note) (model.Note, error) {
	query := `INSERT INTO notes (id, owner_id, title, content, category_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, owner_id, title, content, category_id, created_at, updated_at`

	var savedNote model.Note
	err := r.db.QueryRow(ctx, query,
		note.ID, note.OwnerID, note.Title, note.Content, note.CategoryID,
	).Scan(
		&savedNote.ID, &savedNote.OwnerID, &savedNote.Title, &savedNote.Content,
		&savedNote.CategoryID, &savedNote.CreatedAt, &savedNote.UpdatedAt,
	)
	if err != nil {
		return model.Note{}, fmt.Errorf("failed to create note: %w", err)
	}

	return savedNote, nil
}

func (r *NoteRepository) Update(ctx context.Context, note model.Note) (model.Note, error) {
	query := `UPDATE notes SET title = $3, content = $4, category_id = $5, updated_at = NOW()
			  WHERE id = $1 AND owner_id = $2
			  RETURNING id, owner_id, title, content, category_id, created_at, updated_at`

	var savedNote model.Note
	err := r.db.QueryRow(ctx, query,
		note.ID, note.OwnerID, note.Title, note.Content, note.CategoryID,
	).Scan(
		&savedNote.ID, &savedNote.OwnerID, &savedNote.Title, &savedNote.Content,
		&savedNote.CategoryID, &savedNote.CreatedAt, &savedNote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Note{}, model.ErrNotFound
		}
		return model.Note{}, fmt.Errorf("failed to update note: %w", err)
	}

	return savedNote, nil
}

// Delete is a no-op when the note does not exist or belongs to another user.
func (r *NoteRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const query = `DELETE FROM notes WHERE id = $1 AND owner_id = $2`

	if _, err := r.db.Exec(ctx, query, id, ownerID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

func scanNotes(rows pgx.Rows) ([]model.Note, error) {
	var notes []model.Note
	for rows.Next() {
		var note model.Note
		err := rows.Scan(
			&note.ID, &note.OwnerID, &note.Title, &note.Content,
			&note.CategoryID, &note.CreatedAt, &note.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	return notes, nil
}
