package minutes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	minutessvc "github.com/Fathima1123/mom-realtime/internal/service/minutes"
)

type fakeGenerator struct {
	result     string
	err        error
	transcript string
	calls      int
}

func (f *fakeGenerator) Generate(ctx context.Context, transcript string) (string, error) {
	f.calls++
	f.transcript = transcript
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/generate-mom", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGenerateMomReturnsMinutes(t *testing.T) {
	fake := &fakeGenerator{result: "# Minutes of Meeting\n\n## Discussion Points"}
	rr := serve(New(fake), `{"transcript": "Alice: we will ship Friday."}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if fake.transcript != "Alice: we will ship Friday." {
		t.Fatalf("transcript not passed through: %q", fake.transcript)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !strings.Contains(resp["mom"], "Discussion Points") {
		t.Fatalf("unexpected mom body: %q", resp["mom"])
	}
}

func TestGenerateMomRejectsEmptyTranscript(t *testing.T) {
	fake := &fakeGenerator{err: minutessvc.ErrEmptyTranscript}
	rr := serve(New(fake), `{"transcript": ""}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "no transcript provided") {
		t.Fatalf("missing detail message: %s", rr.Body.String())
	}
}

func TestGenerateMomRejectsMalformedBody(t *testing.T) {
	fake := &fakeGenerator{}
	rr := serve(New(fake), `{"transcript": `)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if fake.calls != 0 {
		t.Fatalf("malformed body must not reach the service")
	}
}

func TestGenerateMomReportsModelOutage(t *testing.T) {
	fake := &fakeGenerator{err: minutessvc.ErrGenerate}
	rr := serve(New(fake), `{"transcript": "something was said"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "generation failed") {
		t.Fatalf("missing descriptive message: %s", rr.Body.String())
	}
}
