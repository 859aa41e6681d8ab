package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mgrega/lektori/internal/model"
)

// PostgresOverrideRepo はPostgreSQLを使用したオーバーライドリポジトリ。
type PostgresOverrideRepo struct {
	db *sql.DB
}

// NewPostgresOverrideRepo はPostgresOverrideRepoを生成する。
func NewPostgresOverrideRepo(db *sql.DB) *PostgresOverrideRepo {
	return &PostgresOverrideRepo{db: db}
}

// Load は指定月のオーバーライド集合を取得する。
// オーバーライドが存在しない場合は空の集合を返す。
func (r *PostgresOverrideRepo) Load(ctx context.Context, year int, month time.Month) (model.OverrideSet, error) {
	set := model.NewOverrideSet()

	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, date, mass_time, new_time, type_name, readings, day, added_id
		 FROM mass_overrides
		 WHERE year = $1 AND month = $2
		 ORDER BY id`,
		year, int(month),
	)
	if err != nil {
		return set, fmt.Errorf("オーバーライドの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, date, massTime string
		var newTime, typeName sql.NullString
		var readings, day sql.NullInt64
		var addedID sql.NullString

		if err := rows.Scan(&kind, &date, &massTime, &newTime, &typeName, &readings, &day, &addedID); err != nil {
			return set, fmt.Errorf("オーバーライドの読み取りに失敗しました: %w", err)
		}

		key := model.MassKey{Date: date, Time: massTime}
		switch kind {
		case "removed":
			set.Removed[key] = true
		case "edited":
			set.Edited[key] = model.MassPatch{
				Time:     nullStringPtr(newTime),
				TypeName: nullStringPtr(typeName),
				Readings: nullIntPtr(readings),
			}
		case "added":
			set.Added = append(set.Added, model.MassEntry{
				Date:     date,
				Day:      int(day.Int64),
				Time:     massTime,
				TypeName: nullStringValue(typeName),
				Readings: int(readings.Int64),
				AddedID:  nullStringValue(addedID),
			})
		}
	}

	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("オーバーライドの走査に失敗しました: %w", err)
	}

	return set, nil
}

// MarkRemoved は(date, time)キーの削除マークを登録する。冪等。
func (r *PostgresOverrideRepo) MarkRemoved(ctx context.Context, year int, month time.Month, key model.MassKey) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mass_overrides (year, month, kind, date, mass_time)
		 VALUES ($1, $2, 'removed', $3, $4)
		 ON CONFLICT (year, month, kind, date, mass_time) WHERE kind <> 'added'
		 DO NOTHING`,
		year, int(month), key.Date, key.Time,
	)
	if err != nil {
		return fmt.Errorf("削除マークの登録に失敗しました: %w", err)
	}
	return nil
}

// UnmarkRemoved は削除マークを取り消す。マークが存在しなくてもエラーにしない。
func (r *PostgresOverrideRepo) UnmarkRemoved(ctx context.Context, year int, month time.Month, key model.MassKey) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM mass_overrides
		 WHERE year = $1 AND month = $2 AND kind = 'removed' AND date = $3 AND mass_time = $4`,
		year, int(month), key.Date, key.Time,
	)
	if err != nil {
		return fmt.Errorf("削除マークの取り消しに失敗しました: %w", err)
	}
	return nil
}

// UpsertEdit は(date, time)キーの編集パッチを登録または上書きする。
func (r *PostgresOverrideRepo) UpsertEdit(ctx context.Context, year int, month time.Month, key model.MassKey, patch model.MassPatch) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mass_overrides (year, month, kind, date, mass_time, new_time, type_name, readings)
		 VALUES ($1, $2, 'edited', $3, $4, $5, $6, $7)
		 ON CONFLICT (year, month, kind, date, mass_time) WHERE kind <> 'added'
		 DO UPDATE SET
		    new_time = EXCLUDED.new_time,
		    type_name = EXCLUDED.type_name,
		    readings = EXCLUDED.readings,
		    updated_at = now()`,
		year, int(month), key.Date, key.Time,
		nullStringFromPtr(patch.Time), nullStringFromPtr(patch.TypeName), nullIntFromPtr(patch.Readings),
	)
	if err != nil {
		return fmt.Errorf("編集パッチの登録に失敗しました: %w", err)
	}
	return nil
}

// DeleteEdit は編集パッチを削除する。パッチが存在しなくてもエラーにしない。
func (r *PostgresOverrideRepo) DeleteEdit(ctx context.Context, year int, month time.Month, key model.MassKey) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM mass_overrides
		 WHERE year = $1 AND month = $2 AND kind = 'edited' AND date = $3 AND mass_time = $4`,
		year, int(month), key.Date, key.Time,
	)
	if err != nil {
		return fmt.Errorf("編集パッチの削除に失敗しました: %w", err)
	}
	return nil
}

// InsertAdded はユーザー追加ミサを登録する。entry.AddedIDは設定済みであること。
func (r *PostgresOverrideRepo) InsertAdded(ctx context.Context, year int, month time.Month, entry model.MassEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mass_overrides (year, month, kind, date, mass_time, type_name, readings, day, added_id)
		 VALUES ($1, $2, 'added', $3, $4, $5, $6, $7, $8)`,
		year, int(month), entry.Date, entry.Time,
		nullString(entry.TypeName), entry.Readings, entry.Day, entry.AddedID,
	)
	if err != nil {
		return fmt.Errorf("追加ミサの登録に失敗しました: %w", err)
	}
	return nil
}

// DeleteAdded はAddedIDでユーザー追加ミサを削除する。
// 削除した場合はtrue、存在しなかった場合はfalseを返す。
func (r *PostgresOverrideRepo) DeleteAdded(ctx context.Context, addedID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM mass_overrides WHERE kind = 'added' AND added_id = $1`,
		addedID,
	)
	if err != nil {
		return false, fmt.Errorf("追加ミサの削除に失敗しました: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("追加ミサの削除結果の取得に失敗しました: %w", err)
	}
	return affected > 0, nil
}

// nullString は空文字列をsql.NullStringに変換する。
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullStringValue はsql.NullStringから文字列を取得する。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullStringPtr はsql.NullStringを*stringに変換する。NULLはnilになる。
func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// nullIntPtr はsql.NullInt64を*intに変換する。NULLはnilになる。
func nullIntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}

// nullStringFromPtr は*stringをsql.NullStringに変換する。nilはNULLになる。
func nullStringFromPtr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// nullIntFromPtr は*intをsql.NullInt64に変換する。nilはNULLになる。
func nullIntFromPtr(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

// compile-time interface check
var _ OverrideRepository = (*PostgresOverrideRepo)(nil)
