package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveDeposit(t *testing.T) {
	c := NewCollector()

	c.ObserveDeposit("success", 0.01)
	c.ObserveDeposit("success", 0.02)
	c.ObserveDeposit("wallet_limit_exceeded", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.deposits.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.deposits.WithLabelValues("wallet_limit_exceeded")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveVaultCheck(false)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `tax_vault_access_checks_total{allowed="false"} 1`))
}
