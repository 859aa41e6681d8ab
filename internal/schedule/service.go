// Package schedule は月間ミサスケジュールのドメインロジックを提供する。
// 純粋な生成エンジン（liturgicalパッケージ）と永続化されたオーバーライド・
// 割り当てを合成し、HTTPハンドラに月間ビューと編集操作を提供する。
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mgrega/lektori/internal/liturgical"
	"github.com/mgrega/lektori/internal/metrics"
	"github.com/mgrega/lektori/internal/model"
	"github.com/mgrega/lektori/internal/repository"
	"github.com/mgrega/lektori/internal/security"
)

// サポートする年の範囲。復活祭アルゴリズムはグレゴリオ暦を前提とする。
const (
	minYear = 1970
	maxYear = 2200
)

// MassWithAssignments はミサエントリと朗読割り当てを結合したドメインオブジェクト。
// Lectorsのインデックスiは朗読番号i+1に対応し、未割り当ては空文字列。
type MassWithAssignments struct {
	model.MassEntry
	Lectors []string
}

// Service は月間スケジュールのサービス層。
// スケジュール取得とオーバーライド編集のビジネスロジックを提供する。
type Service struct {
	overrideRepo repository.OverrideRepository
	assignRepo   repository.AssignmentRepository
	sanitizer    security.TextSanitizerService
	collector    metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	overrideRepo repository.OverrideRepository,
	assignRepo repository.AssignmentRepository,
	sanitizer security.TextSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		overrideRepo: overrideRepo,
		assignRepo:   assignRepo,
		sanitizer:    sanitizer,
		collector:    collector,
	}
}

// MonthSchedule は指定月の合成済みスケジュールを返す。
// 基本スケジュールを典礼年の例外テーブルから生成し、
// 永続化されたオーバーライドを適用する。
func (s *Service) MonthSchedule(ctx context.Context, year int, month time.Month) ([]model.MassEntry, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}

	start := time.Now()

	set, err := s.overrideRepo.Load(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("月間スケジュールの合成に失敗しました: %w", err)
	}

	base := liturgical.GenerateBaseSchedule(year, month, liturgical.TableForYear(year))
	composed := liturgical.ApplyOverrides(base, set)
	s.collector.RecordScheduleLatency(time.Since(start))
	return composed, nil
}

// MonthScheduleWithAssignments は合成済みスケジュールを朗読割り当てつきで返す。
func (s *Service) MonthScheduleWithAssignments(ctx context.Context, year int, month time.Month) ([]MassWithAssignments, error) {
	entries, err := s.MonthSchedule(ctx, year, month)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(entries))
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.Date] {
			seen[e.Date] = true
			dates = append(dates, e.Date)
		}
	}

	assignments, err := s.assignRepo.ListByDates(ctx, dates)
	if err != nil {
		return nil, fmt.Errorf("割り当ての取得に失敗しました: %w", err)
	}

	result := make([]MassWithAssignments, len(entries))
	for i, e := range entries {
		lectors := make([]string, e.Readings)
		for r := 1; r <= e.Readings; r++ {
			lectors[r-1] = assignments[model.AssignmentKey{Date: e.Date, Time: e.Time, Reading: r}]
		}
		result[i] = MassWithAssignments{MassEntry: e, Lectors: lectors}
	}
	return result, nil
}

// RemoveMass は合成済みスケジュール上のミサに削除マークをつける。
// 対象が存在しない場合はMASS_NOT_FOUNDエラーを返す。
// ユーザー追加ミサはDeleteAddedMassで削除する。
func (s *Service) RemoveMass(ctx context.Context, year int, month time.Month, date, massTime string) error {
	if err := validateMonth(year, month); err != nil {
		return err
	}
	if err := validateDateInMonth(date, year, month); err != nil {
		return err
	}

	set, err := s.overrideRepo.Load(ctx, year, month)
	if err != nil {
		return fmt.Errorf("オーバーライドの取得に失敗しました: %w", err)
	}
	base := liturgical.GenerateBaseSchedule(year, month, liturgical.TableForYear(year))
	composed := liturgical.ApplyOverrides(base, set)

	target, ok := findEntry(composed, date, massTime)
	if !ok {
		return model.NewMassNotFoundError(date, massTime)
	}
	if target.IsUserAdded {
		_, err := s.overrideRepo.DeleteAdded(ctx, target.AddedID)
		if err != nil {
			return fmt.Errorf("追加ミサの削除に失敗しました: %w", err)
		}
		return nil
	}

	// 削除マークは生成器が出力したキーに対して照合される。
	// 時刻が編集されたミサは編集前のキーでマークする
	key := model.MassKey{Date: target.Date, Time: target.Time}
	for editKey, patch := range set.Edited {
		if editKey.Date == date && patch.Time != nil && liturgical.CompareTimes(*patch.Time, target.Time) == 0 {
			key = editKey
			break
		}
	}
	if err := s.overrideRepo.MarkRemoved(ctx, year, month, key); err != nil {
		return fmt.Errorf("ミサの削除に失敗しました: %w", err)
	}
	return nil
}

// RestoreMass は削除マークを取り消し、基本ミサを復元する。
// マークが存在しなくてもエラーにしない（冪等）。
func (s *Service) RestoreMass(ctx context.Context, year int, month time.Month, date, massTime string) error {
	if err := validateMonth(year, month); err != nil {
		return err
	}
	if err := validateDateInMonth(date, year, month); err != nil {
		return err
	}

	key := model.MassKey{Date: date, Time: massTime}
	if err := s.overrideRepo.UnmarkRemoved(ctx, year, month, key); err != nil {
		return fmt.Errorf("ミサの復元に失敗しました: %w", err)
	}
	return nil
}

// EditMass は基本ミサへの部分パッチを登録する。
// 空パッチは既存の編集の取り消しとして扱われる。
// パッチの時刻が不正な場合はINVALID_TIMEエラーを返す。
func (s *Service) EditMass(ctx context.Context, year int, month time.Month, date, massTime string, patch model.MassPatch) error {
	if err := validateMonth(year, month); err != nil {
		return err
	}
	if err := validateDateInMonth(date, year, month); err != nil {
		return err
	}

	if patch.IsEmpty() {
		if err := s.overrideRepo.DeleteEdit(ctx, year, month, model.MassKey{Date: date, Time: massTime}); err != nil {
			return fmt.Errorf("編集の取り消しに失敗しました: %w", err)
		}
		return nil
	}

	if patch.Time != nil && !liturgical.ValidTime(*patch.Time) {
		return model.NewInvalidTimeError(*patch.Time)
	}
	if patch.Readings != nil && *patch.Readings < 0 {
		return model.NewInvalidReadingError(*patch.Readings)
	}
	if patch.TypeName != nil {
		clean := s.sanitizer.SanitizeName(*patch.TypeName)
		patch.TypeName = &clean
	}

	// 編集キーは生成器の出力した(date, time)。基本スケジュールに対して検証する
	base := liturgical.GenerateBaseSchedule(year, month, liturgical.TableForYear(year))
	if _, ok := findEntry(base, date, massTime); !ok {
		return model.NewMassNotFoundError(date, massTime)
	}

	key := model.MassKey{Date: date, Time: massTime}
	if err := s.overrideRepo.UpsertEdit(ctx, year, month, key, patch); err != nil {
		return fmt.Errorf("ミサの編集に失敗しました: %w", err)
	}
	return nil
}

// AddMass はユーザー追加ミサを登録し、保存されたエントリを返す。
// 合成済みスケジュールに同じ(date, time)のミサが既に存在する場合は
// DUPLICATE_MASSエラーを返す。
func (s *Service) AddMass(ctx context.Context, year int, month time.Month, date, massTime, typeName string, readings int) (model.MassEntry, error) {
	if err := validateMonth(year, month); err != nil {
		return model.MassEntry{}, err
	}
	if err := validateDateInMonth(date, year, month); err != nil {
		return model.MassEntry{}, err
	}
	if !liturgical.ValidTime(massTime) {
		return model.MassEntry{}, model.NewInvalidTimeError(massTime)
	}
	if readings < 0 {
		return model.MassEntry{}, model.NewInvalidReadingError(readings)
	}

	entries, err := s.MonthSchedule(ctx, year, month)
	if err != nil {
		return model.MassEntry{}, err
	}
	if _, ok := findEntry(entries, date, massTime); ok {
		return model.MassEntry{}, model.NewDuplicateMassError(date, massTime)
	}

	parsed, _ := liturgical.ParseDate(date)
	entry := model.MassEntry{
		Date:        date,
		Day:         parsed.Day(),
		DayName:     liturgical.DayName(date),
		Time:        massTime,
		Type:        model.MassTypeUserAdded,
		TypeName:    s.sanitizer.SanitizeName(typeName),
		Readings:    readings,
		IsUserAdded: true,
		AddedID:     uuid.NewString(),
	}

	if err := s.overrideRepo.InsertAdded(ctx, year, month, entry); err != nil {
		return model.MassEntry{}, fmt.Errorf("ミサの追加に失敗しました: %w", err)
	}
	return entry, nil
}

// DeleteAddedMass はAddedIDでユーザー追加ミサを削除する。
func (s *Service) DeleteAddedMass(ctx context.Context, addedID string) error {
	found, err := s.overrideRepo.DeleteAdded(ctx, addedID)
	if err != nil {
		return fmt.Errorf("追加ミサの削除に失敗しました: %w", err)
	}
	if !found {
		return model.NewAddedMassNotFoundError(addedID)
	}
	return nil
}

// validateMonth は年月がサポート範囲かどうかを検証する。
func validateMonth(year int, month time.Month) error {
	if year < minYear || year > maxYear || month < time.January || month > time.December {
		return model.NewInvalidMonthError(year, int(month))
	}
	return nil
}

// validateDateInMonth は日付がパース可能で指定月に属するかどうかを検証する。
func validateDateInMonth(date string, year int, month time.Month) error {
	t, err := liturgical.ParseDate(date)
	if err != nil {
		return model.NewInvalidDateError(date)
	}
	if t.Year() != year || t.Month() != month {
		return model.NewInvalidDateError(date)
	}
	return nil
}

// findEntry は(date, time)でエントリを検索する。時刻は分単位で比較する。
func findEntry(entries []model.MassEntry, date, massTime string) (model.MassEntry, bool) {
	for _, e := range entries {
		if e.Date == date && liturgical.CompareTimes(e.Time, massTime) == 0 {
			return e, true
		}
	}
	return model.MassEntry{}, false
}
