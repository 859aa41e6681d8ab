package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mgrega/lektori/internal/middleware"
	"github.com/mgrega/lektori/internal/model"
	"github.com/mgrega/lektori/internal/schedule"
)

// ScheduleServiceInterface はスケジュールハンドラーが必要とするサービスインターフェース。
type ScheduleServiceInterface interface {
	// MonthScheduleWithAssignments は合成済みスケジュールを朗読割り当てつきで返す。
	MonthScheduleWithAssignments(ctx context.Context, year int, month time.Month) ([]schedule.MassWithAssignments, error)
	// RemoveMass は合成済みスケジュール上のミサに削除マークをつける。
	RemoveMass(ctx context.Context, year int, month time.Month, date, massTime string) error
	// RestoreMass は削除マークを取り消す。
	RestoreMass(ctx context.Context, year int, month time.Month, date, massTime string) error
	// EditMass は基本ミサに部分パッチを適用する。空パッチは編集の取り消し。
	EditMass(ctx context.Context, year int, month time.Month, date, massTime string, patch model.MassPatch) error
	// AddMass はユーザー追加ミサを登録する。
	AddMass(ctx context.Context, year int, month time.Month, date, massTime, typeName string, readings int) (model.MassEntry, error)
	// DeleteAddedMass はAddedIDでユーザー追加ミサを削除する。
	DeleteAddedMass(ctx context.Context, addedID string) error
}

// ScheduleHandler は月間スケジュールとオーバーライド編集のHTTPハンドラー。
type ScheduleHandler struct {
	service ScheduleServiceInterface
}

// NewScheduleHandler はScheduleHandlerを生成する。
func NewScheduleHandler(service ScheduleServiceInterface) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// massResponse は1回分のミサのAPIレスポンス。
type massResponse struct {
	Date        string   `json:"date"`
	Day         int      `json:"day"`
	DayName     string   `json:"day_name"`
	Time        string   `json:"time"`
	Type        string   `json:"type"`
	TypeName    string   `json:"type_name"`
	Readings    int      `json:"readings"`
	IsException bool     `json:"is_exception"`
	IsUserAdded bool     `json:"is_user_added"`
	AddedID     string   `json:"added_id,omitempty"`
	Lectors     []string `json:"lectors"`
}

// monthScheduleResponse は月間スケジュールのAPIレスポンス。
type monthScheduleResponse struct {
	Year   int            `json:"year"`
	Month  int            `json:"month"`
	Masses []massResponse `json:"masses"`
}

// massKeyRequest は(date, time)キーを指定するリクエストボディ。
type massKeyRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// editMassRequest はミサ編集リクエストのボディ。
// nilフィールドは変更しない。全フィールドnullで編集を取り消す。
type editMassRequest struct {
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	NewTime  *string `json:"new_time"`
	TypeName *string `json:"type_name"`
	Readings *int    `json:"readings"`
}

// addMassRequest はミサ追加リクエストのボディ。
type addMassRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	TypeName string `json:"type_name"`
	Readings int    `json:"readings"`
}

// GetMonthSchedule は指定月の合成済みスケジュールを割り当てつきで返す。
// GET /api/schedule/{year}/{month}
func (h *ScheduleHandler) GetMonthSchedule(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(w, r)
	if !ok {
		return
	}

	masses, err := h.service.MonthScheduleWithAssignments(r.Context(), year, month)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := monthScheduleResponse{
		Year:   year,
		Month:  int(month),
		Masses: make([]massResponse, len(masses)),
	}
	for i, m := range masses {
		resp.Masses[i] = toMassResponse(m)
	}

	writeJSON(w, http.StatusOK, resp)
}

// RemoveMass はミサに削除マークをつける。
// POST /api/schedule/{year}/{month}/overrides/remove
func (h *ScheduleHandler) RemoveMass(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(w, r)
	if !ok {
		return
	}

	var req massKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.RemoveMass(r.Context(), year, month, req.Date, req.Time); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestoreMass は削除マークを取り消す。
// POST /api/schedule/{year}/{month}/overrides/restore
func (h *ScheduleHandler) RestoreMass(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(w, r)
	if !ok {
		return
	}

	var req massKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.RestoreMass(r.Context(), year, month, req.Date, req.Time); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EditMass は基本ミサに部分パッチを適用する。
// PUT /api/schedule/{year}/{month}/overrides/edit
func (h *ScheduleHandler) EditMass(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(w, r)
	if !ok {
		return
	}

	var req editMassRequest
	if !decodeBody(w, r, &req) {
		return
	}

	patch := model.MassPatch{
		Time:     req.NewTime,
		TypeName: req.TypeName,
		Readings: req.Readings,
	}

	if err := h.service.EditMass(r.Context(), year, month, req.Date, req.Time, patch); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMass はユーザー追加ミサを登録する。
// POST /api/schedule/{year}/{month}/overrides
func (h *ScheduleHandler) AddMass(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(w, r)
	if !ok {
		return
	}

	var req addMassRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.service.AddMass(r.Context(), year, month, req.Date, req.Time, req.TypeName, req.Readings)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMassResponse(schedule.MassWithAssignments{
		MassEntry: entry,
		Lectors:   make([]string, entry.Readings),
	}))
}

// DeleteAddedMass はユーザー追加ミサを削除する。
// DELETE /api/schedule/{year}/{month}/overrides/{id}
func (h *ScheduleHandler) DeleteAddedMass(w http.ResponseWriter, r *http.Request) {
	addedID := chi.URLParam(r, "id")

	if err := h.service.DeleteAddedMass(r.Context(), addedID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toMassResponse はドメインオブジェクトからAPIレスポンスに変換する。
func toMassResponse(m schedule.MassWithAssignments) massResponse {
	lectors := m.Lectors
	if lectors == nil {
		lectors = []string{}
	}
	return massResponse{
		Date:        m.Date,
		Day:         m.Day,
		DayName:     m.DayName,
		Time:        m.Time,
		Type:        string(m.Type),
		TypeName:    m.TypeName,
		Readings:    m.Readings,
		IsException: m.IsException,
		IsUserAdded: m.IsUserAdded,
		AddedID:     m.AddedID,
		Lectors:     lectors,
	}
}

// monthParams はURLパラメータから年月を取り出す。
// 数値として解析できない場合は400を書き込みfalseを返す。
func monthParams(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	if errY != nil || errM != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidMonthError(year, month))
		return 0, 0, false
	}
	return year, time.Month(month), true
}

// decodeBody はJSONリクエストボディを解析する。失敗時は400を書き込みfalseを返す。
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "Požiadavku sa nepodarilo spracovať.",
			Category: "validation",
			Action:   "Odošlite požiadavku v platnom formáte JSON.",
		})
		return false
	}
	return true
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidMonth, model.ErrCodeInvalidDate, model.ErrCodeInvalidTime,
		model.ErrCodeInvalidReading, model.ErrCodeInvalidLectorName, "INVALID_ENDPOINT":
		return http.StatusBadRequest
	case model.ErrCodeMassNotFound, model.ErrCodeAddedMassNotFound, model.ErrCodeLectorNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateMass, model.ErrCodeDuplicateLector:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
