package memory

import (
	"sort"
	"time"
)

// sortedByCreation devuelve los valores del mapa en orden estable (fecha de creación, id).
func sortedByCreation[T any](m map[string]T, key func(T) (time.Time, string)) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, idi := key(out[i])
		tj, idj := key(out[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return idi < idj
	})
	return out
}
