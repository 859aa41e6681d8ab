package handler

import (
	"context"
	"net/http"

	"github.com/mgrega/lektori/internal/model"
)

// AssignmentServiceInterface は割り当てハンドラーが必要とするサービスインターフェース。
type AssignmentServiceInterface interface {
	// Assign は(date, time, reading)スロットに朗読者を割り当てる。
	// 空の名前は割り当て解除として扱われる。
	Assign(ctx context.Context, key model.AssignmentKey, lectorName string) error
	// Unassign は割り当てを削除する。
	Unassign(ctx context.Context, key model.AssignmentKey) error
}

// AssignmentHandler は朗読割り当てのHTTPハンドラー。
type AssignmentHandler struct {
	service AssignmentServiceInterface
}

// NewAssignmentHandler はAssignmentHandlerを生成する。
func NewAssignmentHandler(service AssignmentServiceInterface) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// assignmentRequest は割り当てリクエストのボディ。
type assignmentRequest struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Reading    int    `json:"reading"`
	LectorName string `json:"lector_name"`
}

// Assign は朗読スロットに担当者を割り当てる。
// PUT /api/assignments
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	key := model.AssignmentKey{Date: req.Date, Time: req.Time, Reading: req.Reading}
	if err := h.service.Assign(r.Context(), key, req.LectorName); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unassign は割り当てを削除する。
// DELETE /api/assignments
func (h *AssignmentHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	key := model.AssignmentKey{Date: req.Date, Time: req.Time, Reading: req.Reading}
	if err := h.service.Unassign(r.Context(), key); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
