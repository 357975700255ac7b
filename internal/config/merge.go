package config

// Merge deep-merges src over dst and returns the result without modifying
// either input. When both sides hold a mapping for the same key the mappings
// are merged recursively; any other pair (scalars, sequences, mismatched
// kinds) is replaced wholesale by the src value.
func Merge(dst, src map[interface{}]interface{}) map[interface{}]interface{} {
	out := make(map[interface{}]interface{}, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if existing, ok := out[k]; ok {
			em, eok := existing.(map[interface{}]interface{})
			sm, sok := v.(map[interface{}]interface{})
			if eok && sok {
				out[k] = Merge(em, sm)
				continue
			}
		}
		out[k] = v
	}
	return out
}
