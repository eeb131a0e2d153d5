package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postEvaluate(t *testing.T, body string) (*httptest.ResponseRecorder, EvaluateResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/evaluate-layouts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	evaluateLayouts(rec, req)

	var resp EvaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return rec, resp
}

func TestEvaluateLayouts_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"side too small", `{"side": 1, "sequence": ["AB"]}`},
		{"side too large", `{"side": 9, "sequence": ["AB"]}`},
		{"missing sequence", `{"side": 2}`},
		{"sequence length mismatch", `{"side": 3, "sequence": ["AB"]}`},
		{"multi-character blank", `{"side": 2, "blank": "__", "sequence": ["AB"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := postEvaluate(t, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if resp.Success || resp.Error == "" {
				t.Errorf("response = %+v, want failure with an error message", resp)
			}
		})
	}
}

func TestEvaluateLayouts_InvalidJSON(t *testing.T) {
	rec, resp := postEvaluate(t, `{"side": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resp.Success {
		t.Error("Success = true for invalid JSON")
	}
}

func TestEvaluateLayouts_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/evaluate-layouts", nil)
	rec := httptest.NewRecorder()
	evaluateLayouts(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestEvaluateLayouts_InlineSequence(t *testing.T) {
	rec, resp := postEvaluate(t, `{"side": 2, "sequence": ["AB"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("response = %+v, want success", resp)
	}
	if resp.LayoutCount == 0 || resp.StartingSymbol == "" || resp.Layout == "" {
		t.Errorf("response = %+v, want a populated result", resp)
	}
}
