package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libtrack/lending-service/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error {
		return nil
	}
	failingService := func() error {
		return errors.New("service error")
	}

	cb := circuit_breaker.New(10, 50*time.Millisecond, 0.3, 3)

	for i := 0; i < 20; i++ {
		require.NoError(t, cb.Call(successfulService))
	}

	// enough failures to exceed the percentile and open the breaker
	for i := 0; i < 5; i++ {
		err := cb.Call(failingService)
		require.Error(t, err)
	}
	require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)

	// after the timeout the breaker half-opens and probes the service
	time.Sleep(60 * time.Millisecond)
	cb.Reset()
	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(successfulService))
	}
}
