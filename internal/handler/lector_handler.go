package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgrega/lektori/internal/model"
)

// LectorServiceInterface は朗読者ハンドラーが必要とするサービスインターフェース。
type LectorServiceInterface interface {
	// ListLectors は全朗読者を名前昇順で返す。
	ListLectors(ctx context.Context) ([]*model.Lector, error)
	// CreateLector は朗読者を登録する。名前はサニタイズされ、重複は拒否される。
	CreateLector(ctx context.Context, name, phone, email string) (*model.Lector, error)
	// UpdateLector は朗読者情報を更新する。
	UpdateLector(ctx context.Context, id, name, phone, email string) (*model.Lector, error)
	// DeleteLector は朗読者を削除する。
	DeleteLector(ctx context.Context, id string) error
}

// LectorHandler は朗読者管理のHTTPハンドラー。
type LectorHandler struct {
	service LectorServiceInterface
}

// NewLectorHandler はLectorHandlerを生成する。
func NewLectorHandler(service LectorServiceInterface) *LectorHandler {
	return &LectorHandler{service: service}
}

// lectorRequest は朗読者の登録・更新リクエストのボディ。
type lectorRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// lectorResponse は朗読者のAPIレスポンス。
type lectorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ListLectors は朗読者一覧を返す。
// GET /api/lectors
func (h *LectorHandler) ListLectors(w http.ResponseWriter, r *http.Request) {
	lectors, err := h.service.ListLectors(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]lectorResponse, len(lectors))
	for i, l := range lectors {
		resp[i] = toLectorResponse(l)
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateLector は朗読者を登録する。
// POST /api/lectors
func (h *LectorHandler) CreateLector(w http.ResponseWriter, r *http.Request) {
	var req lectorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lector, err := h.service.CreateLector(r.Context(), req.Name, req.Phone, req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLectorResponse(lector))
}

// UpdateLector は朗読者情報を更新する。
// PUT /api/lectors/{id}
func (h *LectorHandler) UpdateLector(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req lectorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lector, err := h.service.UpdateLector(r.Context(), id, req.Name, req.Phone, req.Email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toLectorResponse(lector))
}

// DeleteLector は朗読者を削除する。
// DELETE /api/lectors/{id}
func (h *LectorHandler) DeleteLector(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteLector(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toLectorResponse はmodel.LectorからAPIレスポンスに変換する。
func toLectorResponse(l *model.Lector) lectorResponse {
	return lectorResponse{
		ID:    l.ID,
		Name:  l.Name,
		Phone: l.Phone,
		Email: l.Email,
	}
}
