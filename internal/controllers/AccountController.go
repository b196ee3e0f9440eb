package controllers

import (
	"errors"
	"net/http"
	"strings"

	"acctrack/internal/errs"
	"acctrack/internal/models"
	"acctrack/internal/providers"
	"acctrack/internal/services"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type AccountController struct {
	logger  providers.Logger
	service services.AccountServiceInterface
	cache   providers.CacheProviderInterface
}

// NewAccountController drops cached lists whenever the service writes back a
// lifecycle transition.
func NewAccountController(logger providers.Logger, service services.AccountServiceInterface, cache providers.CacheProviderInterface) *AccountController {
	service.Subscribe(cache.Clear)
	return &AccountController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeError maps service errors to status codes. Storage details stay in the logs.
func (ac *AccountController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errs.ErrNotFound.Error()})
	case errors.Is(err, errs.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s failed: %s", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (ac *AccountController) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

func (ac *AccountController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *AccountController) List(w http.ResponseWriter, r *http.Request) {
	group := strings.ToLower(r.URL.Query().Get("group"))
	ac.serveFromCacheOrCompute(w, r, "list:"+group, func() (any, error) {
		views, err := ac.service.List(r.Context(), group)
		if err != nil {
			return nil, err
		}
		return models.AccountList{Accounts: views}, nil
	})
}

func (ac *AccountController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequest
	if !ac.decode(w, r, &req) {
		return
	}
	view, err := ac.service.Create(r.Context(), req.Name)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.cache.Clear()
	writeJSON(w, http.StatusCreated, view)
}

// Replace overwrites the whole collection.
func (ac *AccountController) Replace(w http.ResponseWriter, r *http.Request) {
	var req models.ReplaceRequest
	if !ac.decode(w, r, &req) {
		return
	}
	if req.Accounts == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "accounts is required"})
		return
	}
	if err := ac.service.ReplaceAll(r.Context(), req.Accounts); err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.cache.Clear()
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (ac *AccountController) Get(w http.ResponseWriter, r *http.Request) {
	view, err := ac.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (ac *AccountController) Toggle(w http.ResponseWriter, r *http.Request) {
	resp, err := ac.service.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	if !resp.Applied {
		writeJSON(w, http.StatusConflict, resp)
		return
	}
	ac.cache.Clear()
	writeJSON(w, http.StatusOK, resp)
}

func (ac *AccountController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.cache.Clear()
	w.WriteHeader(http.StatusNoContent)
}
