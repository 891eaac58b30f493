// cmd/symdiff-server/main.go — HTTP derivative service for symdiff
//
// Expressions cross the wire as literal JSON trees (the MarshalExpr form);
// there is no infix syntax to parse.
//
// Usage:
//   go run ./cmd/symdiff-server --port 8080
//
// Endpoints:
//   POST /diff    — {"expr": <tree>, "var": "x"} → derivative tree + string
//   POST /render  — {"expr": <tree>} → string and repr forms
//   POST /symbols — {"expr": <tree>} → sorted free-symbol names
//   GET  /health  — liveness check
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"sort"
	"time"

	"github.com/spf13/cobra"

	symdiff "github.com/exprkit/symdiff"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	var port int
	cmd := &cobra.Command{
		Use:          "symdiff-server",
		Short:        "Serve symbolic differentiation over JSON expression trees",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

type exprRequest struct {
	Expr json.RawMessage `json:"expr"`
	Var  string          `json:"var,omitempty"`
}

type exprResponse struct {
	Expr    json.RawMessage `json:"expr,omitempty"`
	String  string          `json:"string,omitempty"`
	Repr    string          `json:"repr,omitempty"`
	Symbols []string        `json:"symbols,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func serve(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/diff", handleExpr(func(e symdiff.Expr, req exprRequest) exprResponse {
		if req.Var == "" {
			return exprResponse{Error: "missing var"}
		}
		d, err := symdiff.Differentiate(e, req.Var)
		if err != nil {
			return exprResponse{Error: err.Error()}
		}
		raw, err := symdiff.MarshalExpr(d)
		if err != nil {
			return exprResponse{Error: err.Error()}
		}
		return exprResponse{Expr: raw, String: d.String(), Repr: d.GoString()}
	}))
	mux.HandleFunc("/render", handleExpr(func(e symdiff.Expr, _ exprRequest) exprResponse {
		return exprResponse{String: e.String(), Repr: e.GoString()}
	}))
	mux.HandleFunc("/symbols", handleExpr(func(e symdiff.Expr, _ exprRequest) exprResponse {
		var names []string
		for name := range symdiff.Symbols(e) {
			names = append(names, name)
		}
		sort.Strings(names)
		return exprResponse{Symbols: names}
	}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	addr := fmt.Sprintf(":%d", port)
	log.Printf("symdiff server listening on %s", addr)
	log.Printf("  POST /diff    — differentiate an expression tree")
	log.Printf("  POST /render  — render an expression tree")
	log.Printf("  POST /symbols — list free symbols")
	log.Printf("  GET  /health  — health check")

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleExpr wraps the shared request plumbing: method check, body limit,
// strict JSON decoding, expression decoding, panic recovery.
func handleExpr(fn func(symdiff.Expr, exprRequest) exprResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in %s: %v\n%s", r.URL.Path, rec, string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req exprRequest
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, exprResponse{Error: err.Error()})
			return
		}
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, exprResponse{Error: "invalid JSON: trailing data"})
			return
		}

		e, err := symdiff.UnmarshalExpr(req.Expr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, exprResponse{Error: err.Error()})
			return
		}

		resp := fn(e, req)
		status := http.StatusOK
		if resp.Error != "" {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
