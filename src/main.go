package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"google.golang.org/api/iterator"

	"tilerun.dev/layout"
	"tilerun.dev/layout/internal"
	"tilerun.dev/layout/pkg/primitives"
)

type EvaluateRequest struct {
	Side           int      `json:"side"`
	Alphabet       string   `json:"alphabet"`
	Blank          string   `json:"blank"`
	Sequence       []string `json:"sequence"`
	SequenceScope  string   `json:"sequenceScope"`
	DiagonalWeight *int     `json:"diagonalWeight"`
	StrictScores   bool     `json:"strictScores"`
	Workers        int      `json:"workers"`
}

type EvaluateResponse struct {
	Success        bool   `json:"success"`
	BestScore      int    `json:"bestScore"`
	StartingSymbol string `json:"startingSymbol"`
	SequenceLabel  string `json:"sequenceLabel,omitempty"`
	Layout         string `json:"layout"`
	SymbolGrid     string `json:"symbolGrid"`
	LayoutCount    int    `json:"layoutCount"`
	Error          string `json:"error,omitempty"`
}

type storedSequence struct {
	label string
	pairs []string
}

// requestError marks a failure the caller can fix, mapped to a 400 response.
type requestError struct{ err error }

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{err: err}
}

func badRequestf(format string, args ...any) error {
	return &requestError{err: fmt.Errorf(format, args...)}
}

func getSequences(ctx context.Context, scope string) ([]storedSequence, error) {
	client, err := bigquery.NewClient(ctx, "tilerun-x")
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	query := fmt.Sprintf("SELECT label, pairs FROM `tilerun-x.LayoutQuery.sequences` WHERE scope = %q", scope)
	q := client.Query(query)
	q.Location = "US"

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var sequences []storedSequence
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}

		label, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		pairs, ok := row[1].(string)
		if !ok {
			return nil, fmt.Errorf("row[1] is not a string: %v", row[1])
		}
		sequences = append(sequences, storedSequence{label: label, pairs: strings.Split(pairs, ",")})
	}
	return sequences, nil
}

func execute(ctx context.Context, req EvaluateRequest) (*EvaluateResponse, error) {
	if req.Side < 2 {
		return nil, badRequestf("side must be at least 2")
	}
	if req.Side > 4 {
		return nil, badRequestf("side must be at most 4; larger boards exceed the request deadline")
	}
	if req.Alphabet == "" {
		req.Alphabet = "ABCDE"
	}
	if req.Blank == "" {
		req.Blank = "_"
	}
	blank := []rune(req.Blank)
	if len(blank) != 1 {
		return nil, badRequestf("blank must be a single character")
	}
	alphabet, err := primitives.NewAlphabet(req.Alphabet, blank[0])
	if err != nil {
		return nil, badRequest(err)
	}

	var candidates []storedSequence
	if len(req.Sequence) > 0 {
		candidates = append(candidates, storedSequence{pairs: req.Sequence})
	}
	if req.SequenceScope != "" {
		stored, err := getSequences(ctx, req.SequenceScope)
		if err != nil {
			return nil, fmt.Errorf("getSequences: %w", err)
		}
		fmt.Printf("Loaded %d stored sequences\n", len(stored))
		candidates = append(candidates, stored...)
	}
	if len(candidates) == 0 {
		return nil, badRequestf("either sequence or sequenceScope is required")
	}

	deadline, ok := ctx.Deadline()
	timeout := 1 * time.Minute
	if ok {
		timeout = time.Until(deadline) - 5*time.Second
		fmt.Printf("Setting timeout to %v\n", timeout)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	table, err := internal.AllLineScores(ctx, internal.AllLineScoresParams{
		Alphabet:     alphabet,
		LineLength:   req.Side,
		IncludeBlank: true,
	})
	if err != nil {
		return nil, fmt.Errorf("AllLineScores: %w", err)
	}

	workers := req.Workers
	if workers <= 0 {
		workers = 1
	}
	enum := &layout.Enumerator{Side: req.Side}
	grids, err := enum.EnumerateAll(ctx, workers)
	if err != nil {
		return nil, fmt.Errorf("EnumerateAll: %w", err)
	}
	fmt.Printf("Enumerated %d terminal layouts\n", len(grids))

	resp := &EvaluateResponse{LayoutCount: len(grids)}
	haveBest := false
	for _, cand := range candidates {
		eval, err := layout.NewEvaluator(req.Side, alphabet, cand.pairs, table, layout.EvaluatorParams{
			DiagonalWeight: req.DiagonalWeight,
			Strict:         req.StrictScores,
		})
		if err != nil {
			return nil, badRequest(err)
		}
		best, err := eval.Evaluate(ctx, slices.Values(grids))
		if err != nil {
			return nil, fmt.Errorf("Evaluate: %w", err)
		}
		if !haveBest || best.Score > resp.BestScore {
			resp.BestScore = best.Score
			resp.StartingSymbol = string(best.Start)
			resp.SequenceLabel = cand.label
			resp.Layout = best.Layout.Repr()
			resp.SymbolGrid = best.Symbols
			haveBest = true
		}
	}

	return resp, ctx.Err()
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func evaluateLayouts(w http.ResponseWriter, r *http.Request) {
	// Set CORS headers
	setCORSHeaders(w)

	// Handle OPTIONS request for CORS preflight
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fmt.Printf("Error parsing JSON body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		response := EvaluateResponse{
			Success: false,
			Error:   fmt.Sprintf("Invalid JSON: %v", err),
		}
		json.NewEncoder(w).Encode(response)
		return
	}

	resp, err := execute(r.Context(), req)
	if resp == nil {
		resp = &EvaluateResponse{}
	}
	resp.Success = err == nil
	if err != nil {
		resp.Error = err.Error()
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			w.WriteHeader(http.StatusBadRequest)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		fmt.Printf("Error marshaling response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
		return
	}
}

func main() {
	funcframework.RegisterHTTPFunction("/evaluate-layouts", evaluateLayouts)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v\n", err)
	}
}
