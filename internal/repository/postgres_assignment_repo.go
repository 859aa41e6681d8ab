package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/mgrega/lektori/internal/model"
)

// PostgresAssignmentRepo はPostgreSQLを使用した朗読割り当てリポジトリ。
type PostgresAssignmentRepo struct {
	db *sql.DB
}

// NewPostgresAssignmentRepo はPostgresAssignmentRepoを生成する。
func NewPostgresAssignmentRepo(db *sql.DB) *PostgresAssignmentRepo {
	return &PostgresAssignmentRepo{db: db}
}

// Find は(date, time, reading)キーの割り当て朗読者名を取得する。
// 割り当てが存在しない場合は空文字列を返す。
func (r *PostgresAssignmentRepo) Find(ctx context.Context, key model.AssignmentKey) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT lector_name FROM assignments
		 WHERE date = $1 AND mass_time = $2 AND reading = $3`,
		key.Date, key.Time, key.Reading,
	).Scan(&name)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("割り当ての取得に失敗しました: %w", err)
	}
	return name, nil
}

// ListByDates は指定日付集合の全割り当てをキーつきで返す。
func (r *PostgresAssignmentRepo) ListByDates(ctx context.Context, dates []string) (map[model.AssignmentKey]string, error) {
	result := make(map[model.AssignmentKey]string)
	if len(dates) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT date, mass_time, reading, lector_name
		 FROM assignments
		 WHERE date = ANY($1)`,
		pq.Array(dates),
	)
	if err != nil {
		return nil, fmt.Errorf("割り当て一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key model.AssignmentKey
		var name string
		if err := rows.Scan(&key.Date, &key.Time, &key.Reading, &name); err != nil {
			return nil, fmt.Errorf("割り当ての読み取りに失敗しました: %w", err)
		}
		result[key] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("割り当ての走査に失敗しました: %w", err)
	}

	return result, nil
}

// Upsert は割り当てを冪等に登録する。既存の割り当ては上書きされる。
func (r *PostgresAssignmentRepo) Upsert(ctx context.Context, key model.AssignmentKey, lectorName string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assignments (date, mass_time, reading, lector_name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (date, mass_time, reading)
		 DO UPDATE SET lector_name = EXCLUDED.lector_name, updated_at = now()`,
		key.Date, key.Time, key.Reading, lectorName,
	)
	if err != nil {
		return fmt.Errorf("割り当ての登録に失敗しました: %w", err)
	}
	return nil
}

// Delete は割り当てを削除する。存在しなくてもエラーにしない。
func (r *PostgresAssignmentRepo) Delete(ctx context.Context, key model.AssignmentKey) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE date = $1 AND mass_time = $2 AND reading = $3`,
		key.Date, key.Time, key.Reading,
	)
	if err != nil {
		return fmt.Errorf("割り当ての削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AssignmentRepository = (*PostgresAssignmentRepo)(nil)
