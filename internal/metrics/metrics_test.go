package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveLedger()
	m.ObserveLedger()
	m.ObserveValidationFailure("custom_amounts")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerComputations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("custom_amounts")))

	var nilMetrics *Metrics
	nilMetrics.ObserveLedger()
	nilMetrics.ObserveValidationFailure("mode")
}

func TestCodeLabel(t *testing.T) {
	assert.Equal(t, "ok", codeLabel(nil))
	assert.Equal(t, "not_found", codeLabel(connect.NewError(connect.CodeNotFound, errors.New("gone"))))
	assert.Equal(t, "unknown", codeLabel(errors.New("boom")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveLedger()
	m.RequestsTotal.WithLabelValues("/tripledger.v1.LedgerService/GetLedger", "ok").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "tripledger_ledger_computations_total 1"))
	assert.Contains(t, body, `tripledger_rpc_requests_total{code="ok",procedure="/tripledger.v1.LedgerService/GetLedger"} 1`)
}
