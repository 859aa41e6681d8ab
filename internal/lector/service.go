// Package lector は朗読者管理と朗読割り当てのドメインロジックを提供する。
package lector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mgrega/lektori/internal/liturgical"
	"github.com/mgrega/lektori/internal/model"
	"github.com/mgrega/lektori/internal/repository"
	"github.com/mgrega/lektori/internal/security"
)

// Service は朗読者管理のサービス層。
// 朗読者のCRUDと朗読スロットへの割り当てを提供する。
type Service struct {
	lectorRepo repository.LectorRepository
	assignRepo repository.AssignmentRepository
	sanitizer  security.TextSanitizerService
	now        func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	lectorRepo repository.LectorRepository,
	assignRepo repository.AssignmentRepository,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		lectorRepo: lectorRepo,
		assignRepo: assignRepo,
		sanitizer:  sanitizer,
		now:        time.Now,
	}
}

// ListLectors は全朗読者を名前昇順で返す。
func (s *Service) ListLectors(ctx context.Context) ([]*model.Lector, error) {
	lectors, err := s.lectorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("朗読者一覧の取得に失敗しました: %w", err)
	}
	return lectors, nil
}

// CreateLector は朗読者を登録する。名前はサニタイズされ、空や重複は拒否される。
func (s *Service) CreateLector(ctx context.Context, name, phone, email string) (*model.Lector, error) {
	clean := s.sanitizer.SanitizeName(name)
	if clean == "" {
		return nil, model.NewInvalidLectorNameError()
	}

	existing, err := s.lectorRepo.FindByName(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("朗読者名の照合に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateLectorError(clean)
	}

	now := s.now()
	lector := &model.Lector{
		ID:        uuid.NewString(),
		Name:      clean,
		Phone:     s.sanitizer.SanitizeName(phone),
		Email:     s.sanitizer.SanitizeName(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.lectorRepo.Create(ctx, lector); err != nil {
		return nil, fmt.Errorf("朗読者の作成に失敗しました: %w", err)
	}
	return lector, nil
}

// UpdateLector は朗読者情報を更新する。
// 割り当ては名前で参照されるため、改名しても既存の割り当ては追従しない。
func (s *Service) UpdateLector(ctx context.Context, id, name, phone, email string) (*model.Lector, error) {
	lector, err := s.lectorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("朗読者の取得に失敗しました: %w", err)
	}
	if lector == nil {
		return nil, model.NewLectorNotFoundError(id)
	}

	clean := s.sanitizer.SanitizeName(name)
	if clean == "" {
		return nil, model.NewInvalidLectorNameError()
	}
	if clean != lector.Name {
		existing, err := s.lectorRepo.FindByName(ctx, clean)
		if err != nil {
			return nil, fmt.Errorf("朗読者名の照合に失敗しました: %w", err)
		}
		if existing != nil {
			return nil, model.NewDuplicateLectorError(clean)
		}
	}

	lector.Name = clean
	lector.Phone = s.sanitizer.SanitizeName(phone)
	lector.Email = s.sanitizer.SanitizeName(email)
	lector.UpdatedAt = s.now()

	if err := s.lectorRepo.Update(ctx, lector); err != nil {
		return nil, fmt.Errorf("朗読者の更新に失敗しました: %w", err)
	}
	return lector, nil
}

// DeleteLector は朗読者を削除する。既存の割り当ては残る（名前参照のため）。
func (s *Service) DeleteLector(ctx context.Context, id string) error {
	lector, err := s.lectorRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("朗読者の取得に失敗しました: %w", err)
	}
	if lector == nil {
		return model.NewLectorNotFoundError(id)
	}
	if err := s.lectorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("朗読者の削除に失敗しました: %w", err)
	}
	return nil
}

// Assign は朗読スロットに朗読者名を割り当てる。
// 空の名前は割り当ての解除として扱われる。
func (s *Service) Assign(ctx context.Context, key model.AssignmentKey, lectorName string) error {
	if _, err := liturgical.ParseDate(key.Date); err != nil {
		return model.NewInvalidDateError(key.Date)
	}
	if !liturgical.ValidTime(key.Time) {
		return model.NewInvalidTimeError(key.Time)
	}
	if key.Reading < 1 {
		return model.NewInvalidReadingError(key.Reading)
	}

	clean := s.sanitizer.SanitizeName(lectorName)
	if clean == "" {
		if err := s.assignRepo.Delete(ctx, key); err != nil {
			return fmt.Errorf("割り当ての解除に失敗しました: %w", err)
		}
		return nil
	}

	if err := s.assignRepo.Upsert(ctx, key, clean); err != nil {
		return fmt.Errorf("割り当ての登録に失敗しました: %w", err)
	}
	return nil
}

// Unassign は朗読スロットの割り当てを解除する。存在しなくてもエラーにしない。
func (s *Service) Unassign(ctx context.Context, key model.AssignmentKey) error {
	if err := s.assignRepo.Delete(ctx, key); err != nil {
		return fmt.Errorf("割り当ての解除に失敗しました: %w", err)
	}
	return nil
}
