package sync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/application/sync"
)

func collect[T any](t *testing.T, items []T, size int) [][]T {
	t.Helper()
	var out [][]T
	for chunk := range sync.Chunks(items, size) {
		out = append(out, chunk)
	}
	return out
}

func TestChunks_ParteConResto(t *testing.T) {
	got := collect(t, []int{1, 2, 3, 4, 5}, 2)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, got)
}

func TestChunks_ListaVacia(t *testing.T) {
	got := collect(t, []int{}, 5)
	assert.Empty(t, got)
}

func TestChunks_TamanoMayorQueLaLista(t *testing.T) {
	items := []int{1, 2, 3}
	got := collect(t, items, 10)
	require.Len(t, got, 1)
	assert.Equal(t, items, got[0])
}

func TestChunks_ExactamenteDivisible(t *testing.T) {
	got := collect(t, []int{1, 2, 3, 4}, 2)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, got)
}

func TestChunks_TamanoInvalidoNoProduceNada(t *testing.T) {
	assert.Empty(t, collect(t, []int{1, 2, 3}, 0))
	assert.Empty(t, collect(t, []int{1, 2, 3}, -1))
}

func TestChunks_SeDetieneSiElConsumidorCorta(t *testing.T) {
	visto := 0
	for range sync.Chunks(make([]int, 100), 10) {
		visto++
		if visto == 3 {
			break
		}
	}
	assert.Equal(t, 3, visto)
}

func TestChunks_ReinvocarReinicia(t *testing.T) {
	items := []string{"a", "b", "c"}
	primero := collect(t, items, 2)
	segundo := collect(t, items, 2)
	assert.Equal(t, primero, segundo, "re-invocar la secuencia debe recorrerla desde el inicio")
}
