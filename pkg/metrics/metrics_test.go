package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordQuery(t *testing.T) {
	Reset()

	RecordQuery(100*time.Millisecond, nil)
	RecordQuery(300*time.Millisecond, errors.New("boom"))

	snap := Get()
	assert.Equal(t, uint64(2), snap.QueryCount)
	assert.Equal(t, uint64(1), snap.ErrorCount)
	assert.Equal(t, 400*time.Millisecond, snap.TotalQueryTime)
	assert.Equal(t, 200*time.Millisecond, snap.AverageQueryTime)
	assert.False(t, snap.LastQueryAt.IsZero())
}

func TestReset(t *testing.T) {
	RecordQuery(time.Millisecond, nil)
	Reset()

	snap := Get()
	assert.Zero(t, snap.QueryCount)
	assert.Zero(t, snap.ErrorCount)
	assert.Zero(t, snap.TotalQueryTime)
}

func TestRecordQuery_Concurrent(t *testing.T) {
	Reset()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				RecordQuery(time.Millisecond, nil)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	assert.Equal(t, uint64(1000), Get().QueryCount)
}
