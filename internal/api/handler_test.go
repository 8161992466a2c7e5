package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/ccollombet/interim-2026/internal/config"
	"github.com/ccollombet/interim-2026/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir := t.TempDir()
	for _, sub := range []string{"uploads", "travaux"} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}

	st, err := store.New(filepath.Join(dataDir, "interim.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	h := NewHandler(st, config.DefaultConfig(), dataDir)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router
}

// writeRawPlanning écrit un planning brut minimal pour exercer l'API.
func writeRawPlanning(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	cells := map[string]string{
		"E1": "L02 Mars",
		"A3": "Dupont Jean",
		"B3": "6750404",
		"C3": "1",
		"D3": "Hor.",
		"E3": "08:00-16:00",
		"E4": "A POURVOIR",
		"D5": "Act. jour",
		"E5": "404G1",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "planning.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func uploadRequest(t *testing.T, url, filePath string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestGetStatus(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Ready || resp.JobTitle == "" {
		t.Errorf("réponse = %+v", resp)
	}
}

func TestRunPipelineEndpoint(t *testing.T) {
	router := newTestRouter(t)
	raw := writeRawPlanning(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/pipeline", raw))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, corps = %s", rec.Code, rec.Body.String())
	}
	var resp PipelineResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.LectureRows != 1 || resp.InterimRows != 1 {
		t.Errorf("réponse = %+v", resp)
	}
	if resp.DownloadToken == "" {
		t.Fatal("jeton de téléchargement absent")
	}

	// le jeton sert le classeur produit
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download/"+resp.DownloadToken, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("téléchargement: code = %d", rec.Code)
	}

	// et le traitement figure dans l'historique
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("historique: code = %d", rec.Code)
	}
	var hist struct {
		Runs []store.Run `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatal(err)
	}
	if len(hist.Runs) != 1 || hist.Runs[0].Status != "done" {
		t.Errorf("historique = %+v", hist.Runs)
	}
}

func TestRunPipelineWithoutFile(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pipeline", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d", rec.Code)
	}
}

func TestRunBadakanOnRawWorkbookFails(t *testing.T) {
	router := newTestRouter(t)
	raw := writeRawPlanning(t)

	// un classeur brut n'a pas les feuilles générées: erreur enregistrée
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/badakan", raw))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, corps = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	var hist struct {
		Runs []store.Run `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatal(err)
	}
	if len(hist.Runs) != 1 || hist.Runs[0].Status != "error" {
		t.Errorf("historique = %+v", hist.Runs)
	}
}

func TestDownloadUnknownToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/download/inconnu", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d", rec.Code)
	}
}
