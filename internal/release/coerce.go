// SPDX-License-Identifier: MPL-2.0

package release

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// coerceEnv renders every configuration value as a string so the
// environment has a uniform representation. Null values are dropped: a
// variable without a value cannot be exported.
func coerceEnv(vars map[string]any) map[string]string {
	env := make(map[string]string, len(vars))
	for k, v := range vars {
		s, ok := stringify(v)
		if !ok {
			continue
		}
		env[k] = s
	}
	return env
}

func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		// Arrays and objects keep their JSON text.
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val), true
		}
		return string(data), true
	}
}
