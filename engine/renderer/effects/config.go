package effects

import (
	"fmt"

	"github.com/spaghettifunk/prism/engine/math"
)

// Configuration values come from TOML: numbers decode as int64 or float64.

func paramFloat(params map[string]interface{}, key string) (float32, bool, error) {
	v, ok := params[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return float32(n), true, nil
	case float32:
		return n, true, nil
	case int64:
		return float32(n), true, nil
	case int:
		return float32(n), true, nil
	}
	return 0, false, fmt.Errorf("parameter %s: expected a number, got %T", key, v)
}

func paramInt(params map[string]interface{}, key string) (int, bool, error) {
	v, ok := params[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int64:
		return int(n), true, nil
	case int:
		return n, true, nil
	case float64:
		if n != float64(int(n)) {
			return 0, false, fmt.Errorf("parameter %s: expected an integer, got %v", key, n)
		}
		return int(n), true, nil
	}
	return 0, false, fmt.Errorf("parameter %s: expected an integer, got %T", key, v)
}

func paramString(params map[string]interface{}, key string) (string, bool, error) {
	v, ok := params[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("parameter %s: expected a string, got %T", key, v)
	}
	return s, true, nil
}

func paramBool(params map[string]interface{}, key string) (bool, bool, error) {
	v, ok := params[key]
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, false, fmt.Errorf("parameter %s: expected a bool, got %T", key, v)
	}
	return b, true, nil
}

// paramColour reads [r, g, b] or [r, g, b, a].
func paramColour(params map[string]interface{}, key string) (math.Vec4, bool, error) {
	v, ok := params[key]
	if !ok {
		return math.Vec4{}, false, nil
	}
	list, ok := v.([]interface{})
	if !ok || (len(list) != 3 && len(list) != 4) {
		return math.Vec4{}, false, fmt.Errorf("parameter %s: expected 3 or 4 numbers", key)
	}
	c := [4]float32{0, 0, 0, 1}
	for i, item := range list {
		f, _, err := paramFloat(map[string]interface{}{key: item}, key)
		if err != nil {
			return math.Vec4{}, false, err
		}
		c[i] = f
	}
	return math.NewVec4Create(c[0], c[1], c[2], c[3]), true, nil
}
