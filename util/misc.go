package util

func CopyIntSlice(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	return out
}

func CopyFloatSlice(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}

func CopyStringIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
