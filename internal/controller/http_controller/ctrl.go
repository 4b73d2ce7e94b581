package http_controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/horockey/go-toolbox/http_helpers"
	"github.com/horockey/rxprefs/internal/controller/http_controller/dto"
	"github.com/horockey/rxprefs/internal/model"
	"github.com/horockey/rxprefs/internal/processor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Resolver gives access to opened namespaces by name.
type Resolver interface {
	Processor(name string) (*processor.Processor, bool)
	Names() []string
}

type HttpController struct {
	serv     *http.Server
	apiKey   string
	resolver Resolver
	logger   zerolog.Logger
	metrics  *metrics
}

// New builds admin controller for namespaces known to resolver.
// When gatherer is not nil, it is served on /metrics without auth.
func New(
	addr string,
	apiKey string,
	resolver Resolver,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) *HttpController {
	ctrl := HttpController{
		serv: &http.Server{
			Addr:              addr,
			ReadHeaderTimeout: time.Second * 5, //nolint: mnd
		},
		apiKey:   apiKey,
		resolver: resolver,
		logger:   logger,
		metrics:  newMetrics(),
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	})

	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	prefs := router.PathPrefix("/prefs").Subrouter()
	prefs.HandleFunc("", ctrl.getNamespacesHandler).Methods(http.MethodGet)
	prefs.HandleFunc("/{namespace}", ctrl.getNamespaceHandler).Methods(http.MethodGet)
	prefs.HandleFunc("/{namespace}/{key}", ctrl.getEntryHandler).Methods(http.MethodGet)
	prefs.HandleFunc("/{namespace}/{key}", ctrl.putEntryHandler).Methods(http.MethodPut)
	prefs.HandleFunc("/{namespace}/{key}", ctrl.deleteEntryHandler).Methods(http.MethodDelete)
	prefs.Use(ctrl.metricsMW, ctrl.authMW)

	ctrl.serv.Handler = router

	return &ctrl
}

func (ctrl *HttpController) Metrics() []prometheus.Collector {
	return ctrl.metrics.list()
}

func (ctrl *HttpController) Handler() http.Handler {
	return ctrl.serv.Handler
}

func (ctrl *HttpController) Start(ctx context.Context) (resErr error) {
	var wg sync.WaitGroup
	defer wg.Wait()

	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.logger.Info().Str("addr", ctrl.serv.Addr).Msg("serving admin api")
		if err := ctrl.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.Canceled) {
			resErr = errors.Join(resErr, fmt.Errorf("running context: %w", ctx.Err()))
		}

		sdCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := ctrl.serv.Shutdown(sdCtx); err != nil {
			resErr = errors.Join(resErr, fmt.Errorf("shutting down server: %w", err))
		}
		return resErr

	case err := <-errCh:
		return fmt.Errorf("running server: %w", err)
	}
}

func (ctrl *HttpController) authMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("X-Api-Key") != ctrl.apiKey {
			ctrl.metrics.authFailsCnt.Inc()
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (ctrl *HttpController) metricsMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func(ts time.Time) {
			ctrl.metrics.requestsCnt.Inc()
			ctrl.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

			switch {
			case rec.status < http.StatusBadRequest:
				ctrl.metrics.successProcessCnt.Inc()
			default:
				ctrl.metrics.errProcessCnt.Inc()
			}
		}(time.Now())

		next.ServeHTTP(rec, req)
	})
}

func (ctrl *HttpController) getNamespacesHandler(w http.ResponseWriter, _ *http.Request) {
	_ = http_helpers.RespondOK(w, dto.Namespaces{Namespaces: ctrl.resolver.Names()})
}

func (ctrl *HttpController) getNamespaceHandler(w http.ResponseWriter, req *http.Request) {
	proc, ok := ctrl.lookup(w, req)
	if !ok {
		return
	}

	entries := lo.MapToSlice(
		proc.Snapshot().Entries,
		func(_ string, e model.Entry) dto.Entry {
			return dto.NewEntry(e)
		},
	)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	_ = http_helpers.RespondOK(w, entries)
}

func (ctrl *HttpController) getEntryHandler(w http.ResponseWriter, req *http.Request) {
	proc, ok := ctrl.lookup(w, req)
	if !ok {
		return
	}

	key := mux.Vars(req)["key"]
	e, found := proc.Get(key)
	if !found {
		_ = http_helpers.RespondWithErr(w, http.StatusNotFound, model.KeyNotFoundError{Key: key})
		return
	}

	_ = http_helpers.RespondOK(w, dto.NewEntry(e))
}

func (ctrl *HttpController) putEntryHandler(w http.ResponseWriter, req *http.Request) {
	proc, ok := ctrl.lookup(w, req)
	if !ok {
		return
	}

	dtoEntry := dto.Entry{}
	if err := json.NewDecoder(req.Body).Decode(&dtoEntry); err != nil {
		ctrl.logger.
			Error().
			Err(fmt.Errorf("decoding body dto: %w", err)).
			Send()
		_ = http_helpers.RespondWithErr(w, http.StatusBadRequest, err)
		return
	}
	dtoEntry.Key = mux.Vars(req)["key"]

	e, err := dto.EntryToModel(dtoEntry)
	if err != nil {
		_ = http_helpers.RespondWithErr(w, http.StatusBadRequest, err)
		return
	}

	if err := proc.Put(req.Context(), e); err != nil {
		ctrl.logger.
			Error().
			Err(fmt.Errorf("putting entry to proc: %w", err)).
			Send()
		_ = http_helpers.RespondWithErr(w, http.StatusInternalServerError, nil)
		return
	}

	_ = http_helpers.RespondOK(w, nil)
}

func (ctrl *HttpController) deleteEntryHandler(w http.ResponseWriter, req *http.Request) {
	proc, ok := ctrl.lookup(w, req)
	if !ok {
		return
	}

	if err := proc.Remove(req.Context(), mux.Vars(req)["key"]); err != nil {
		ctrl.logger.
			Error().
			Err(fmt.Errorf("removing entry from proc: %w", err)).
			Send()
		_ = http_helpers.RespondWithErr(w, http.StatusInternalServerError, nil)
		return
	}

	_ = http_helpers.RespondOK(w, nil)
}

func (ctrl *HttpController) lookup(w http.ResponseWriter, req *http.Request) (*processor.Processor, bool) {
	name := mux.Vars(req)["namespace"]

	proc, found := ctrl.resolver.Processor(name)
	if !found {
		_ = http_helpers.RespondWithErr(w, http.StatusNotFound, fmt.Errorf("namespace %s not opened", name))
		return nil, false
	}

	return proc, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
