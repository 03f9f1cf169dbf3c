package settings

import "strings"

// mergeLayers recursively merges the overlay layer into base and
// returns the result. Overlay values win on conflict; maps merge
// recursively, everything else is replaced. Overlay values are cloned
// so later mutation of the result cannot corrupt the source layer.
func mergeLayers(base, overlay map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any)
	}

	for key, val := range overlay {
		baseMap, baseOK := base[key].(map[string]any)
		overlayMap, overlayOK := val.(map[string]any)
		if baseOK && overlayOK {
			base[key] = mergeLayers(baseMap, overlayMap)
			continue
		}
		base[key] = cloneValue(val)
	}
	return base
}

// cloneValue deep-copies maps and slices; scalars pass through.
func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = cloneValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		return val
	}
}

// lookupPath walks a nested map along a dot-separated path.
func lookupPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
