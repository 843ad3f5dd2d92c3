package sync

import "iter"

// Chunks parte items en trozos contiguos de a lo sumo size elementos, en el
// mismo orden y sin copiar (cada trozo es un subslice del original). La
// secuencia es perezosa y se puede recorrer de nuevo re-invocando la función.
// El último trozo puede ser más corto; una lista vacía o size < 1 no produce
// nada (los tamaños por canal se validan al cargar la configuración).
func Chunks[T any](items []T, size int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if size < 1 {
			return
		}
		for start := 0; start < len(items); start += size {
			end := min(start+size, len(items))
			if !yield(items[start:end]) {
				return
			}
		}
	}
}
