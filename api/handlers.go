package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-yadex/yadex/pkg/listing"
	"github.com/go-yadex/yadex/pkg/render"
)

type handlers struct {
	roots     *listing.Roots
	scanner   *listing.Scanner
	templates *render.Templates
	limit     int
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// normalizeLimit maps the config value (0 = unlimited) onto the
// scanner's strictly-positive contract.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return math.MaxInt - 1
	}
	return limit
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// list resolves urlPath against the configured roots and scans it.
func (h *handlers) list(r *http.Request, urlPath string) (listing.Result, string, error) {
	root, rel, ok := h.roots.Match(urlPath)
	if !ok {
		return listing.Result{}, "", listing.ErrNotFound
	}
	loc, err := root.Resolve(rel)
	if err != nil {
		return listing.Result{}, "", err
	}
	result, err := h.scanner.Scan(r.Context(), loc, h.limit)
	if err != nil {
		return listing.Result{}, "", err
	}
	return result, loc.HrefPrefix, nil
}

func (h *handlers) handleListFiles(w http.ResponseWriter, r *http.Request) {
	var req listing.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		respondError(w, "path is required", http.StatusBadRequest)
		return
	}

	result, _, err := h.list(r, req.Path)
	if err != nil {
		status, message := statusFor(err)
		if status == http.StatusInternalServerError {
			log.FromContext(r.Context()).Errorf("listing %s failed: %v", req.Path, err)
		}
		respondError(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

func (h *handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	if !strings.HasSuffix(urlPath, "/") {
		http.Redirect(w, r, urlPath+"/", http.StatusMovedPermanently)
		return
	}

	result, href, err := h.list(r, urlPath)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	// Render to a buffer first so a template failure can still
	// produce a clean error response.
	var buf bytes.Buffer
	data := render.IndexData{Path: href, Entries: result.Entries, MaybeTruncated: result.MaybeTruncated}
	if err := h.templates.RenderIndex(&buf, data); err != nil {
		log.FromContext(r.Context()).Errorf("index template failed for %s: %v", urlPath, err)
		h.renderErrorStatus(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (h *handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).Errorf("listing %s failed: %v", r.URL.Path, err)
	}
	h.renderErrorStatus(w, r, status, message)
}

func (h *handlers) renderErrorStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	var buf bytes.Buffer
	if err := h.templates.RenderError(&buf, render.ErrorData{Status: status, Message: message}); err != nil {
		log.FromContext(r.Context()).Errorf("error template failed: %v", err)
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// statusFor maps listing errors onto HTTP statuses. An out-of-root
// path gets the same response as a missing one so the service is not
// an existence oracle for the host filesystem; messages never include
// resolved paths.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, listing.ErrInvalidPath):
		return http.StatusBadRequest, "invalid path"
	case errors.Is(err, listing.ErrNotADirectory):
		return http.StatusBadRequest, "not a directory"
	case errors.Is(err, listing.ErrPathOutOfRoot), errors.Is(err, listing.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, listing.ErrPermissionDenied):
		return http.StatusForbidden, "forbidden"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
