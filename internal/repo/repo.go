package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// ProjectMeta is one row of a user's saved-model listing.
type ProjectMeta struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)

	SaveProject(ctx context.Context, userID int, name string, model json.RawMessage) (int, error)
	ListProjects(ctx context.Context, userID int) ([]ProjectMeta, error)
	GetProject(ctx context.Context, userID, projectID int) (json.RawMessage, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveProject(ctx context.Context, userID int, name string, model json.RawMessage) (int, error) {
	var id int
	query := `INSERT INTO projects (user_id, name, model, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, name) DO UPDATE SET model = $3, updated_at = now()
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, userID, name, model).Scan(&id)
	return id, err
}

func (r *PostgresRepository) ListProjects(ctx context.Context, userID int) ([]ProjectMeta, error) {
	query := "SELECT id, name, updated_at FROM projects WHERE user_id=$1 ORDER BY updated_at DESC"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProjectMeta
	for rows.Next() {
		var p ProjectMeta
		if err := rows.Scan(&p.ID, &p.Name, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetProject(ctx context.Context, userID, projectID int) (json.RawMessage, error) {
	var model json.RawMessage
	query := "SELECT model FROM projects WHERE user_id=$1 AND id=$2"
	err := r.db.QueryRowContext(ctx, query, userID, projectID).Scan(&model)
	if err != nil {
		return nil, err
	}
	return model, nil
}
