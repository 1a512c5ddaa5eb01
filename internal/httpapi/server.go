// Package httpapi serves the mock data, the displayComponent tool and the
// form validator over HTTP, next to the MCP streamable transport and the
// Prometheus metrics endpoint.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/oakwood-commons/uideck/internal/catalog"
	"github.com/oakwood-commons/uideck/internal/celx"
	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/form"
	"github.com/oakwood-commons/uideck/internal/limiter"
	"github.com/oakwood-commons/uideck/internal/mcpserver"
	"github.com/oakwood-commons/uideck/internal/metrics"
	"github.com/oakwood-commons/uideck/internal/mockdata"
	"github.com/oakwood-commons/uideck/pkg/logger"
)

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-ID"

// Options configure the API handler.
type Options struct {
	Source      mockdata.Source
	Dispatcher  *dispatch.Dispatcher
	Catalog     *catalog.Catalog
	Evaluator   *celx.Evaluator
	Snapshotter dispatch.Snapshotter
	// MCP, when set, is mounted at MCPPath.
	MCP         *mcpserver.Server
	MCPPath     string
	Recorder    metrics.Recorder
	Metrics     http.Handler
	MetricsPath string
	Logger      logr.Logger
}

// API holds the handlers.
type API struct {
	opts Options
}

// New returns the API described by opts.
func New(opts Options) *API {
	if opts.Recorder == nil {
		opts.Recorder = metrics.Noop{}
	}
	if opts.Catalog == nil {
		opts.Catalog = opts.Dispatcher.Catalog()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.MCPPath == "" {
		opts.MCPPath = "/mcp"
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	return &API{opts: opts}
}

// Handler builds the router.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(a.requestID)
	r.Use(a.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if a.opts.Metrics != nil {
		r.Handle(a.opts.MetricsPath, a.opts.Metrics)
	}
	if a.opts.MCP != nil {
		r.Handle(a.opts.MCPPath, a.opts.MCP.HTTPHandler(a.opts.MCPPath))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/domains", a.listDomains)
		r.Route("/data/{domain}", func(r chi.Router) {
			r.Get("/", a.listRecords)
			r.Get("/{id}", a.getRecord)
		})
		r.Post("/tools/display-component", a.displayComponent)
		r.Post("/forms/{domain}", a.submitForm)
	})
	return r
}

func (a *API) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		log := a.opts.Logger.WithValues("requestId", id)
		next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), &log)))
	})
}

func (a *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		a.opts.Recorder.HTTPRequest(r.Method, route, status, elapsed)
		logger.FromContext(r.Context()).V(1).Info("http request",
			"method", r.Method, "route", route, "status", status, "elapsed", elapsed.String())
	})
}

// errorBody mirrors the tool result shape for failures.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Success: false, Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

func (a *API) domainParam(w http.ResponseWriter, r *http.Request) (domain.Domain, bool) {
	raw := chi.URLParam(r, "domain")
	d, err := domain.Parse(raw)
	if err != nil {
		writeError(w, http.StatusNotFound, "Invalid data type: "+raw)
		return "", false
	}
	return d, true
}

func (a *API) listDomains(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mcpserver.Domains())
}

func (a *API) listRecords(w http.ResponseWriter, r *http.Request) {
	d, ok := a.domainParam(w, r)
	if !ok {
		return
	}
	res, err := a.opts.Source.ListRecords(r.Context(), d)
	if err != nil {
		logger.FromContext(r.Context()).Error(err, "list records", "domain", d.String())
		writeError(w, http.StatusInternalServerError, "An error occurred while loading data")
		return
	}
	if expr := r.URL.Query().Get("filter"); expr != "" && res.Success {
		if a.opts.Evaluator == nil {
			writeError(w, http.StatusBadRequest, "filtering is not available")
			return
		}
		filtered, err := a.opts.Evaluator.Filter(expr, res.Data)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		res.Data = filtered
	}
	page, err := limiter.FromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res.Data = limiter.Apply(page, res.Data)
	writeJSON(w, http.StatusOK, res)
}

func (a *API) getRecord(w http.ResponseWriter, r *http.Request) {
	d, ok := a.domainParam(w, r)
	if !ok {
		return
	}
	res, err := a.opts.Source.GetRecord(r.Context(), d, chi.URLParam(r, "id"))
	if err != nil {
		logger.FromContext(r.Context()).Error(err, "get record", "domain", d.String())
		writeError(w, http.StatusInternalServerError, "An error occurred while loading data")
		return
	}
	if !res.Success {
		writeJSON(w, http.StatusNotFound, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DisplayResponse is the tool result plus an optional text rendering.
type DisplayResponse struct {
	dispatch.Result
	Snapshot string `json:"snapshot,omitempty"`
}

func (a *API) displayComponent(w http.ResponseWriter, r *http.Request) {
	var args dispatch.ToolArgs
	if err := decodeJSON(w, r, &args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	res, disp := a.opts.Dispatcher.Dispatch(r.Context(), args)
	if !res.Success {
		writeJSON(w, http.StatusUnprocessableEntity, DisplayResponse{Result: res})
		return
	}
	out := DisplayResponse{Result: res}
	if a.opts.Snapshotter != nil && r.URL.Query().Get("snapshot") != "false" {
		out.Snapshot = a.opts.Snapshotter(disp)
	}
	writeJSON(w, http.StatusOK, out)
}

// FormResponse reports a form submission.
type FormResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  []form.FieldError `json:"errors,omitempty"`
	Data    form.Data         `json:"data,omitempty"`
}

func (a *API) submitForm(w http.ResponseWriter, r *http.Request) {
	d, ok := a.domainParam(w, r)
	if !ok {
		return
	}
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	log := logger.FromContext(r.Context()).WithValues("domain", d.String())
	f, err := form.New(a.opts.Catalog.FormFields(d), form.WithEvaluator(a.opts.Evaluator), form.WithLogger(log))
	if err != nil {
		log.Error(err, "build form")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for name, v := range body {
		if err := f.Set(name, v); err != nil {
			if errors.Is(err, form.ErrUnknownField) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	var accepted form.Data
	submit := a.opts.Catalog.Submit(d)
	errs, err := f.Submit(r.Context(), func(ctx context.Context, data form.Data) error {
		accepted = data
		return submit(ctx, data)
	})
	switch {
	case len(errs) > 0:
		writeJSON(w, http.StatusUnprocessableEntity, FormResponse{Success: false, Errors: f.ErrorList()})
	case err != nil:
		a.opts.Recorder.FormSubmission(d, metrics.OutcomeError)
		writeJSON(w, http.StatusInternalServerError, FormResponse{Success: false, Message: form.FailureMessage})
	default:
		a.opts.Recorder.FormSubmission(d, metrics.OutcomeOK)
		writeJSON(w, http.StatusAccepted, FormResponse{Success: true, Message: form.DefaultSuccessMessage, Data: accepted})
	}
}
