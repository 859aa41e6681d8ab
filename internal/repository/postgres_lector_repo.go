package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mgrega/lektori/internal/model"
)

// PostgresLectorRepo はPostgreSQLを使用した朗読者リポジトリ。
type PostgresLectorRepo struct {
	db *sql.DB
}

// NewPostgresLectorRepo はPostgresLectorRepoを生成する。
func NewPostgresLectorRepo(db *sql.DB) *PostgresLectorRepo {
	return &PostgresLectorRepo{db: db}
}

// List は全朗読者を名前昇順で返す。
func (r *PostgresLectorRepo) List(ctx context.Context) ([]*model.Lector, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, phone, email, created_at, updated_at
		 FROM lectors ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("朗読者一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var lectors []*model.Lector
	for rows.Next() {
		lector := &model.Lector{}
		if err := rows.Scan(
			&lector.ID, &lector.Name, &lector.Phone, &lector.Email,
			&lector.CreatedAt, &lector.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("朗読者の読み取りに失敗しました: %w", err)
		}
		lectors = append(lectors, lector)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("朗読者の走査に失敗しました: %w", err)
	}

	return lectors, nil
}

// FindByID は指定IDの朗読者を取得する。見つからない場合はnilを返す。
func (r *PostgresLectorRepo) FindByID(ctx context.Context, id string) (*model.Lector, error) {
	lector := &model.Lector{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, phone, email, created_at, updated_at
		 FROM lectors WHERE id = $1`,
		id,
	).Scan(
		&lector.ID, &lector.Name, &lector.Phone, &lector.Email,
		&lector.CreatedAt, &lector.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("朗読者の取得に失敗しました: %w", err)
	}
	return lector, nil
}

// FindByName は名前で朗読者を検索する。見つからない場合はnilを返す。
func (r *PostgresLectorRepo) FindByName(ctx context.Context, name string) (*model.Lector, error) {
	lector := &model.Lector{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, phone, email, created_at, updated_at
		 FROM lectors WHERE name = $1`,
		name,
	).Scan(
		&lector.ID, &lector.Name, &lector.Phone, &lector.Email,
		&lector.CreatedAt, &lector.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("名前による朗読者の検索に失敗しました: %w", err)
	}
	return lector, nil
}

// Create は朗読者を作成する。
func (r *PostgresLectorRepo) Create(ctx context.Context, lector *model.Lector) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lectors (id, name, phone, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		lector.ID, lector.Name, lector.Phone, lector.Email,
		lector.CreatedAt, lector.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("朗読者の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は朗読者情報を更新する。
func (r *PostgresLectorRepo) Update(ctx context.Context, lector *model.Lector) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE lectors SET name = $2, phone = $3, email = $4, updated_at = $5
		 WHERE id = $1`,
		lector.ID, lector.Name, lector.Phone, lector.Email, lector.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("朗読者の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの朗読者を削除する。
func (r *PostgresLectorRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM lectors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("朗読者の削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ LectorRepository = (*PostgresLectorRepo)(nil)
