package http_remote_prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	controller_dto "github.com/horockey/rxprefs/internal/controller/http_controller/dto"
	"github.com/horockey/rxprefs/internal/gateway/remote_prefs"
	"github.com/horockey/rxprefs/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var _ remote_prefs.Gateway = &httpRemotePrefs{}

type httpRemotePrefs struct {
	cl      *resty.Client
	metrics *metrics
	logger  zerolog.Logger
}

func New(
	baseURL string,
	apiKey string,
	timeout time.Duration,
	logger zerolog.Logger,
) *httpRemotePrefs {
	return &httpRemotePrefs{
		metrics: newMetrics(),
		logger:  logger,
		cl: resty.New().
			SetBaseURL(baseURL).
			SetHeader("X-Api-Key", apiKey).
			SetTimeout(timeout).
			SetRetryCount(0),
	}
}

func (gw *httpRemotePrefs) Metrics() []prometheus.Collector {
	return gw.metrics.list()
}

func (gw *httpRemotePrefs) Namespaces(ctx context.Context) (res []string, resErr error) {
	defer func(ts time.Time) {
		gw.metrics.requestsCnt.Inc()
		gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			gw.metrics.successProcessCnt.Inc()
		default:
			gw.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resp, err := gw.cl.R().
		SetContext(ctx).
		Get("/prefs")
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("got non-ok response (%s): %s", resp.Status(), resp.String())
	}

	dtoNamespaces := controller_dto.Namespaces{}
	if err := json.Unmarshal(resp.Body(), &dtoNamespaces); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	return dtoNamespaces.Namespaces, nil
}

func (gw *httpRemotePrefs) GetAll(ctx context.Context, namespace string) (res []model.Entry, resErr error) {
	gw.logger.Debug().Str("namespace", namespace).Msg("Getting entries from remote")
	defer func(ts time.Time) {
		gw.metrics.requestsCnt.Inc()
		gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			gw.metrics.successProcessCnt.Inc()
		default:
			gw.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("namespace", namespace).
		Get("/prefs/{namespace}")
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("got non-ok response (%s): %s", resp.Status(), resp.String())
	}

	dtoEntries := []controller_dto.Entry{}
	if err := json.Unmarshal(resp.Body(), &dtoEntries); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	res = make([]model.Entry, 0, len(dtoEntries))
	for _, dtoEntry := range dtoEntries {
		e, err := controller_dto.EntryToModel(dtoEntry)
		if err != nil {
			gw.logger.
				Warn().
				Err(fmt.Errorf("converting dto entry to model: %w", err)).
				Str("key", dtoEntry.Key).
				Send()
			continue
		}
		res = append(res, e)
	}

	return res, nil
}

func (gw *httpRemotePrefs) Get(
	ctx context.Context,
	namespace string,
	key string,
) (res model.Entry, resErr error) {
	gw.logger.Debug().Str("namespace", namespace).Str("key", key).Msg("Getting entry from remote")
	defer func(ts time.Time) {
		gw.metrics.requestsCnt.Inc()
		gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			gw.metrics.successProcessCnt.Inc()
		default:
			gw.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("namespace", namespace).
		SetPathParam("key", key).
		Get("/prefs/{namespace}/{key}")
	if err != nil {
		return model.Entry{}, fmt.Errorf("executing request: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		break
	case http.StatusNotFound:
		return model.Entry{}, model.KeyNotFoundError{Key: key}
	default:
		return model.Entry{}, fmt.Errorf("got non-ok response (%s): %s", resp.Status(), resp.String())
	}

	dtoEntry := controller_dto.Entry{}
	if err := json.Unmarshal(resp.Body(), &dtoEntry); err != nil {
		return model.Entry{}, fmt.Errorf("unmarshaling json: %w", err)
	}

	e, err := controller_dto.EntryToModel(dtoEntry)
	if err != nil {
		return model.Entry{}, fmt.Errorf("converting dto entry to model: %w", err)
	}

	return e, nil
}

func (gw *httpRemotePrefs) Put(
	ctx context.Context,
	namespace string,
	e model.Entry,
) (resErr error) {
	defer func(ts time.Time) {
		gw.metrics.requestsCnt.Inc()
		gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			gw.metrics.successProcessCnt.Inc()
		default:
			gw.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("namespace", namespace).
		SetPathParam("key", e.Key).
		SetHeader("Content-Type", "application/json").
		SetBody(controller_dto.NewEntry(e)).
		Put("/prefs/{namespace}/{key}")
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("got non-ok response (%s): %s", resp.Status(), resp.String())
	}

	return nil
}

func (gw *httpRemotePrefs) Remove(ctx context.Context, namespace string, key string) (resErr error) {
	defer func(ts time.Time) {
		gw.metrics.requestsCnt.Inc()
		gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			gw.metrics.successProcessCnt.Inc()
		default:
			gw.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("namespace", namespace).
		SetPathParam("key", key).
		Delete("/prefs/{namespace}/{key}")
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	if !lo.Contains([]int{http.StatusOK, http.StatusNoContent}, resp.StatusCode()) {
		return fmt.Errorf("got non-ok response (%s): %s", resp.Status(), resp.String())
	}

	return nil
}
