package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stresswatch/internal/domain"
	"stresswatch/internal/inference"
	"stresswatch/internal/repository"
	"stresswatch/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubOracle struct {
	calls  int
	result string
	advice string
}

func (o *stubOracle) Predict(_ context.Context, _ inference.Request) (*inference.Outcome, error) {
	o.calls++
	return &inference.Outcome{Result: o.result, Advice: o.advice}, nil
}

func newTestRouter(t *testing.T, oracle service.InferenceClient) (*Router, *repository.MemorySubjectsRepo) {
	t.Helper()
	logger := zap.NewNop()
	subjects := repository.NewMemorySubjectsRepo()
	detections := repository.NewMemoryDetectionsRepo()
	svc := service.NewDetectionService(detections, subjects, oracle, nil, nil, logger)

	router := NewRouter(logger)
	router.RegisterAPIRoutes(
		NewSubjectHandler(subjects, svc, logger),
		NewAssistantHandler(&stubAssistant{reply: "hello"}, logger),
	)
	return router, subjects
}

type stubAssistant struct {
	reply string
}

func (a *stubAssistant) Chat(_ context.Context, _ string) (string, error) {
	return a.reply, nil
}

func doJSON(t *testing.T, router *Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createSubject(t *testing.T, subjects *repository.MemorySubjectsRepo, id string) {
	t.Helper()
	require.NoError(t, subjects.Create(context.Background(), domain.Subject{
		SubjectID: id,
		Name:      "Alex",
		Age:       27,
	}))
}

func TestSubmitDetection_EndToEnd(t *testing.T) {
	oracle := &stubOracle{result: "No Stress"}
	router, subjects := newTestRouter(t, oracle)
	createSubject(t, subjects, "subj-1")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/subjects/subj-1/detections",
		`{"bvp": 200, "eda": 5.2, "temp": 36.8, "activity": "low activity"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope Result[service.SubmitDetectionResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, ResultSuccess, envelope.Code)
	assert.Equal(t, "No Stress", envelope.Result.Record.Result)
	assert.Equal(t, domain.ConditionNotStressed, envelope.Result.Condition)
	assert.Equal(t, 1, oracle.calls)

	// derived label visible through the label endpoint
	rec = doJSON(t, router, http.MethodGet, "/api/v1/subjects/subj-1/label", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"condition":"NotStressed"`)
}

func TestSubmitDetection_OutOfRangeRejectedBeforeOracle(t *testing.T) {
	oracle := &stubOracle{result: "STRESSED"}
	router, subjects := newTestRouter(t, oracle)
	createSubject(t, subjects, "subj-1")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/subjects/subj-1/detections",
		`{"bvp": 2000, "eda": 5.2, "temp": 36.8, "activity": "low activity"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, oracle.calls)
}

func TestSubmitDetection_MissingActivity(t *testing.T) {
	oracle := &stubOracle{result: "STRESSED"}
	router, subjects := newTestRouter(t, oracle)
	createSubject(t, subjects, "subj-1")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/subjects/subj-1/detections",
		`{"bvp": 200, "eda": 5.2, "temp": 36.8, "activity": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "activity")
}

func TestSubmitDetection_UnknownSubjectIs404(t *testing.T) {
	router, _ := newTestRouter(t, &stubOracle{result: "No Stress"})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/subjects/nobody/detections",
		`{"bvp": 200, "eda": 5.2, "temp": 36.8, "activity": "low activity"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLabel_NotYetMeasuredForEmptyHistory(t *testing.T) {
	router, subjects := newTestRouter(t, &stubOracle{})
	createSubject(t, subjects, "subj-1")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/subjects/subj-1/label", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"condition":"NotYetMeasured"`)
}

func TestTrend_EmptyHistoryIsEmptySeries(t *testing.T) {
	router, subjects := newTestRouter(t, &stubOracle{})
	createSubject(t, subjects, "subj-1")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/subjects/subj-1/trend", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"result":[]`)
}

func TestSubjectCRUD(t *testing.T) {
	router, _ := newTestRouter(t, &stubOracle{})

	// create
	rec := doJSON(t, router, http.MethodPost, "/api/v1/subjects",
		`{"name": "Alex", "age": 27, "group": "student", "gender": "male"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created Result[domain.Subject]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.Result.SubjectID
	require.NotEmpty(t, id)
	assert.Equal(t, domain.ConditionNotYetMeasured, created.Result.Condition)

	// get
	rec = doJSON(t, router, http.MethodGet, "/api/v1/subjects/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alex")

	// update
	rec = doJSON(t, router, http.MethodPut, "/api/v1/subjects/"+id,
		`{"name": "Alexandra", "age": 28, "group": "student", "gender": "female"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alexandra")

	// delete
	rec = doJSON(t, router, http.MethodDelete, "/api/v1/subjects/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/subjects/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSubject_RequiresName(t *testing.T) {
	router, _ := newTestRouter(t, &stubOracle{})
	rec := doJSON(t, router, http.MethodPost, "/api/v1/subjects", `{"age": 30}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportDetections_ReturnsWorkbook(t *testing.T) {
	oracle := &stubOracle{result: "No Stress"}
	router, subjects := newTestRouter(t, oracle)
	createSubject(t, subjects, "subj-1")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/subjects/subj-1/detections",
		`{"bvp": 200, "eda": 5.2, "temp": 36.8, "activity": "low activity"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/subjects/subj-1/detections/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestAssistantChat(t *testing.T) {
	router, _ := newTestRouter(t, &stubOracle{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/assistant/chat", `{"message": "hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reply":"hello"`)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/assistant/chat", `{"message": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, &stubOracle{})
	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
