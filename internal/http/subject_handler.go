package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stresswatch/internal/domain"
	"stresswatch/internal/export"
	"stresswatch/internal/repository"
	"stresswatch/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubjectHandler serves the subject registry CRUD plus the per-subject
// detection surface (submit, history, trend, label, export).
type SubjectHandler struct {
	subjects   repository.SubjectsRepo
	detections service.DetectionService
	logger     *zap.Logger
}

func NewSubjectHandler(subjects repository.SubjectsRepo, detections service.DetectionService, logger *zap.Logger) *SubjectHandler {
	return &SubjectHandler{
		subjects:   subjects,
		detections: detections,
		logger:     logger,
	}
}

const subjectsPrefix = "/api/v1/subjects"

// ServeHTTP dispatches on path and method.
func (h *SubjectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == subjectsPrefix || path == subjectsPrefix+"/" {
		switch r.Method {
		case http.MethodGet:
			h.ListSubjects(w, r)
		case http.MethodPost:
			h.CreateSubject(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	rest := strings.TrimPrefix(path, subjectsPrefix+"/")
	parts := strings.Split(rest, "/")
	subjectID := parts[0]
	if subjectID == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.GetSubject(w, r, subjectID)
		case http.MethodPut:
			h.UpdateSubject(w, r, subjectID)
		case http.MethodDelete:
			h.DeleteSubject(w, r, subjectID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case len(parts) == 2 && parts[1] == "detections" && r.Method == http.MethodPost:
		h.SubmitDetection(w, r, subjectID)
	case len(parts) == 2 && parts[1] == "detections" && r.Method == http.MethodGet:
		h.ListDetections(w, r, subjectID)
	case len(parts) == 3 && parts[1] == "detections" && parts[2] == "export" && r.Method == http.MethodGet:
		h.ExportDetections(w, r, subjectID)
	case len(parts) == 2 && parts[1] == "trend" && r.Method == http.MethodGet:
		h.GetTrend(w, r, subjectID)
	case len(parts) == 2 && parts[1] == "label" && r.Method == http.MethodGet:
		h.GetLabel(w, r, subjectID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type subjectPayload struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Group    string `json:"group"`
	Gender   string `json:"gender"`
	ImageRef string `json:"image_ref"`
}

func (h *SubjectHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var payload subjectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeFail(w, http.StatusBadRequest, "name is required")
		return
	}

	s := domain.Subject{
		SubjectID: uuid.NewString(),
		Name:      payload.Name,
		Age:       payload.Age,
		Group:     payload.Group,
		Gender:    payload.Gender,
		ImageRef:  payload.ImageRef,
		// no prior detections: the label starts at NotYetMeasured
		Condition: domain.ConditionNotYetMeasured,
	}
	if err := h.subjects.Create(r.Context(), s); err != nil {
		h.logger.Error("Failed to create subject", zap.Error(err))
		writeError(w, err)
		return
	}
	writeOK(w, s)
}

func (h *SubjectHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if subjects == nil {
		subjects = []domain.Subject{}
	}
	writeOK(w, subjects)
}

func (h *SubjectHandler) GetSubject(w http.ResponseWriter, r *http.Request, subjectID string) {
	s, err := h.subjects.Get(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, s)
}

func (h *SubjectHandler) UpdateSubject(w http.ResponseWriter, r *http.Request, subjectID string) {
	var payload subjectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s := domain.Subject{
		SubjectID: subjectID,
		Name:      payload.Name,
		Age:       payload.Age,
		Group:     payload.Group,
		Gender:    payload.Gender,
		ImageRef:  payload.ImageRef,
	}
	if err := h.subjects.Update(r.Context(), s); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.subjects.Get(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, updated)
}

func (h *SubjectHandler) DeleteSubject(w http.ResponseWriter, r *http.Request, subjectID string) {
	if err := h.subjects.Delete(r.Context(), subjectID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]string{"subject_id": subjectID})
}

type submitDetectionPayload struct {
	BVP      float64 `json:"bvp"`
	EDA      float64 `json:"eda"`
	Temp     float64 `json:"temp"`
	Activity string  `json:"activity"`
	// Timestamp is the optional reading instant (RFC3339); omitted means now.
	Timestamp string `json:"timestamp,omitempty"`
}

func (h *SubjectHandler) SubmitDetection(w http.ResponseWriter, r *http.Request, subjectID string) {
	var payload submitDetectionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := service.SubmitDetectionRequest{
		SubjectID: subjectID,
		Vitals: domain.VitalSigns{
			BVP:  payload.BVP,
			EDA:  payload.EDA,
			Temp: payload.Temp,
		},
		Activity: payload.Activity,
	}
	if payload.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, payload.Timestamp)
		if err != nil {
			writeFail(w, http.StatusBadRequest, fmt.Sprintf("invalid timestamp %q", payload.Timestamp))
			return
		}
		req.Timestamp = ts
	}

	resp, err := h.detections.Submit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, resp)
}

func (h *SubjectHandler) ListDetections(w http.ResponseWriter, r *http.Request, subjectID string) {
	if _, err := h.subjects.Get(r.Context(), subjectID); err != nil {
		writeError(w, err)
		return
	}
	records, err := h.detections.History(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.DetectionRecord{}
	}
	writeOK(w, records)
}

func (h *SubjectHandler) ExportDetections(w http.ResponseWriter, r *http.Request, subjectID string) {
	s, err := h.subjects.Get(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := h.detections.History(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := export.GenerateDetectionHistory(*s, records)
	if err != nil {
		h.logger.Error("Failed to generate history export",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("detections_%s_%s.xlsx", subjectID, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *SubjectHandler) GetTrend(w http.ResponseWriter, r *http.Request, subjectID string) {
	if _, err := h.subjects.Get(r.Context(), subjectID); err != nil {
		writeError(w, err)
		return
	}
	series, err := h.detections.Trend(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, series)
}

func (h *SubjectHandler) GetLabel(w http.ResponseWriter, r *http.Request, subjectID string) {
	if _, err := h.subjects.Get(r.Context(), subjectID); err != nil {
		writeError(w, err)
		return
	}
	label, err := h.detections.CurrentLabel(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]domain.ConditionLabel{"condition": label})
}
