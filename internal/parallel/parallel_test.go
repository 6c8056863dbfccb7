package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestFor_VisitsEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 5}

	seen := make([]int32, 257)
	For(len(seen), func(i int) {
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	for i, v := range seen {
		require.Equal(t, int32(1), v, "index %d", i)
	}
}

func TestFor_Disabled(t *testing.T) {
	var order []int
	For(10, func(i int) {
		order = append(order, i)
	}, Config{})

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestForErr(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("sequential stops at first error", func(t *testing.T) {
		var calls int
		err := ForErr(100, func(i int) error {
			calls++
			if i == 3 {
				return errBoom
			}
			return nil
		}, Config{})

		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, 4, calls)
	})

	t.Run("parallel reports error", func(t *testing.T) {
		cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 4}
		err := ForErr(200, func(i int) error {
			if i == 150 {
				return errBoom
			}
			return nil
		}, cfg)

		require.ErrorIs(t, err, errBoom)
	})

	t.Run("no error", func(t *testing.T) {
		err := ForErr(50, func(int) error { return nil }, DefaultConfig())
		require.NoError(t, err)
	})
}

func TestForRows(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 2, MinChunkSize: 4}

	rows, width := 6, 3
	buf := make([]int, rows*width)
	ForRows(rows, width, func(row, start, end int) {
		for i := start; i < end; i++ {
			buf[i] = row
		}
	}, cfg)

	for r := 0; r < rows; r++ {
		for c := 0; c < width; c++ {
			assert.Equal(t, r, buf[r*width+c])
		}
	}
}
