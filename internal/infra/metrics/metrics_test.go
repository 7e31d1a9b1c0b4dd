package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStoreOp(t *testing.T) {
	ok := StoreOps.WithLabelValues("test op", "ok")
	failed := StoreOps.WithLabelValues("test op", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveStoreOp("test op", time.Now(), nil)
	ObserveStoreOp("test op", time.Now(), nil)
	ObserveStoreOp("test op", time.Now(), errors.New("boom"))

	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
	assert.Equal(t, 1, testutil.CollectAndCount(StoreOpDuration, "obraz_stock_store_operation_duration_seconds"))
}
