package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mgrega/lektori/internal/model"
)

// mockLectorService はLectorServiceInterfaceのテスト用モック。
type mockLectorService struct {
	lectors   []*model.Lector
	err       error
	deletedID string
}

func (m *mockLectorService) ListLectors(ctx context.Context) ([]*model.Lector, error) {
	return m.lectors, m.err
}

func (m *mockLectorService) CreateLector(ctx context.Context, name, phone, email string) (*model.Lector, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.Lector{ID: "lector-1", Name: name, Phone: phone, Email: email}, nil
}

func (m *mockLectorService) UpdateLector(ctx context.Context, id, name, phone, email string) (*model.Lector, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.Lector{ID: id, Name: name, Phone: phone, Email: email}, nil
}

func (m *mockLectorService) DeleteLector(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

func lectorTestRouter(svc LectorServiceInterface) http.Handler {
	h := NewLectorHandler(svc)
	r := chi.NewRouter()
	r.Route("/api/lectors", func(r chi.Router) {
		r.Get("/", h.ListLectors)
		r.Post("/", h.CreateLector)
		r.Put("/{id}", h.UpdateLector)
		r.Delete("/{id}", h.DeleteLector)
	})
	return r
}

// 朗読者一覧が返されることを検証
func TestListLectors(t *testing.T) {
	svc := &mockLectorService{
		lectors: []*model.Lector{
			{ID: "1", Name: "Anna Mala", Phone: "421905123456"},
			{ID: "2", Name: "Peter Novak", Email: "peter@example.sk"},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/lectors", nil)
	w := httptest.NewRecorder()
	lectorTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp []lectorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("lectors = %d, want 2", len(resp))
	}
	if resp[0].Name != "Anna Mala" {
		t.Errorf("name = %q", resp[0].Name)
	}
}

// 朗読者の登録が201でIDを返すことを検証
func TestCreateLector(t *testing.T) {
	svc := &mockLectorService{}

	body := `{"name":"Anna Mala","phone":"0905123456","email":"anna@example.sk"}`
	req := httptest.NewRequest(http.MethodPost, "/api/lectors", strings.NewReader(body))
	w := httptest.NewRecorder()
	lectorTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var resp lectorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("id missing from response")
	}
}

// 空の名前が400になることを検証
func TestCreateLector_EmptyName(t *testing.T) {
	svc := &mockLectorService{err: model.NewInvalidLectorNameError()}

	req := httptest.NewRequest(http.MethodPost, "/api/lectors", strings.NewReader(`{"name":""}`))
	w := httptest.NewRecorder()
	lectorTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// 名前の重複が409になることを検証
func TestCreateLector_Duplicate(t *testing.T) {
	svc := &mockLectorService{err: model.NewDuplicateLectorError("Anna Mala")}

	req := httptest.NewRequest(http.MethodPost, "/api/lectors", strings.NewReader(`{"name":"Anna Mala"}`))
	w := httptest.NewRecorder()
	lectorTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

// 存在しない朗読者の更新が404になることを検証
func TestUpdateLector_NotFound(t *testing.T) {
	svc := &mockLectorService{err: model.NewLectorNotFoundError("missing")}

	req := httptest.NewRequest(http.MethodPut, "/api/lectors/missing", strings.NewReader(`{"name":"Anna"}`))
	w := httptest.NewRecorder()
	lectorTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// 朗読者の削除がIDでサービスに渡ることを検証
func TestDeleteLector(t *testing.T) {
	svc := &mockLectorService{}

	req := httptest.NewRequest(http.MethodDelete, "/api/lectors/lector-7", nil)
	w := httptest.NewRecorder()
	lectorTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if svc.deletedID != "lector-7" {
		t.Errorf("deleted id = %q", svc.deletedID)
	}
}
