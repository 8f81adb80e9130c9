package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/spiffler33/quill/internal/db"
	"github.com/spiffler33/quill/internal/model"
	"github.com/spiffler33/quill/internal/util/compression"
)

// SQLiteStore implements Store against a local database, mainly for writing
// offline and for migrations. Compare-and-swap runs inside a transaction;
// version tokens are fresh UUIDs per write. Content is compressed at rest.
type SQLiteStore struct {
	db         db.DB
	compressor compression.Compressor
}

func NewSQLiteStore(database db.DB) *SQLiteStore {
	return &SQLiteStore{
		db:         database,
		compressor: compression.ZstdCompressor{},
	}
}

func (s *SQLiteStore) Get(ctx context.Context, id model.ItemID) (string, string, error) {
	var token string
	var blob []byte
	err := s.db.Get().QueryRowContext(ctx,
		"SELECT token, content FROM items WHERE id = ?", string(id),
	).Scan(&token, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", &ReadError{Op: "get " + string(id), Err: err}
	}

	content, err := s.compressor.Decompress(blob)
	if err != nil {
		return "", "", &ReadError{Op: "decompress " + string(id), Err: err}
	}

	return string(content), token, nil
}

func (s *SQLiteStore) Put(ctx context.Context, id model.ItemID, content, expectedToken, message string) (string, error) {
	blob, err := s.compressor.Compress([]byte(content))
	if err != nil {
		return "", &WriteError{Op: "compress " + string(id), Err: err}
	}

	tx, err := s.db.Get().BeginTx(ctx, nil)
	if err != nil {
		return "", &WriteError{Op: "put " + string(id), Err: err}
	}
	defer tx.Rollback()

	current, err := currentToken(ctx, tx, id)
	if err != nil {
		return "", &WriteError{Op: "put " + string(id), Err: err}
	}
	if current != expectedToken {
		return "", ErrConflict
	}

	token := uuid.New().String()
	if expectedToken == "" {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, token, content, message) VALUES (?, ?, ?, ?)",
			string(id), token, blob, message)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE items SET token = ?, content = ?, message = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			token, blob, message, string(id))
	}
	if err != nil {
		return "", &WriteError{Op: "put " + string(id), Err: err}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO audit_log (item_id, message) VALUES (?, ?)", string(id), message); err != nil {
		return "", &WriteError{Op: "put " + string(id), Err: err}
	}

	if err := tx.Commit(); err != nil {
		return "", &WriteError{Op: "put " + string(id), Err: err}
	}
	return token, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id model.ItemID, expectedToken, message string) error {
	tx, err := s.db.Get().BeginTx(ctx, nil)
	if err != nil {
		return &WriteError{Op: "delete " + string(id), Err: err}
	}
	defer tx.Rollback()

	current, err := currentToken(ctx, tx, id)
	if err != nil {
		return &WriteError{Op: "delete " + string(id), Err: err}
	}
	if current == "" {
		return ErrNotFound
	}
	if current != expectedToken {
		return ErrConflict
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id = ?", string(id)); err != nil {
		return &WriteError{Op: "delete " + string(id), Err: err}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO audit_log (item_id, message) VALUES (?, ?)", string(id), message); err != nil {
		return &WriteError{Op: "delete " + string(id), Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &WriteError{Op: "delete " + string(id), Err: err}
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]model.Entry, error) {
	rows, err := s.db.Get().QueryContext(ctx,
		"SELECT id, token FROM items WHERE id LIKE ? ORDER BY id", prefix+"/%")
	if err != nil {
		return nil, &ReadError{Op: "list " + prefix, Err: err}
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var id, token string
		if err := rows.Scan(&id, &token); err != nil {
			return nil, &ReadError{Op: "list " + prefix, Err: err}
		}
		entries = append(entries, model.Entry{ID: model.ItemID(id), Token: token})
	}
	if err := rows.Err(); err != nil {
		return nil, &ReadError{Op: "list " + prefix, Err: err}
	}
	if entries == nil {
		return nil, ErrNotFound
	}
	return entries, nil
}

// currentToken returns the stored token for id, or "" when the row is absent.
func currentToken(ctx context.Context, tx *sql.Tx, id model.ItemID) (string, error) {
	var token string
	err := tx.QueryRowContext(ctx, "SELECT token FROM items WHERE id = ?", string(id)).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return token, err
}
