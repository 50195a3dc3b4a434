// Package conv 提供 YAML/JSON 解析结果（map[string]any）的取值与类型转换工具，
// 供 config builders 等模块读取节点参数。
package conv

import (
	"fmt"
	"time"
)

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32、uint64；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。YAML 解析常得到 int，JSON 解析得到 float64，两者均兼容。
func ToInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case uint64:
		return int(val), true
	case float64:
		return int(val), true
	case float32:
		return int(val), true
	default:
		return 0, false
	}
}

// ToDuration 将 any 转为 time.Duration。
// 字符串按 time.ParseDuration 解析（如 "24h"），数值视为秒。
func ToDuration(v any) (time.Duration, bool) {
	if s, ok := v.(string); ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, false
		}
		return d, true
	}
	if d, ok := v.(time.Duration); ok {
		return d, true
	}
	if f, ok := ToFloat64(v); ok {
		return time.Duration(f * float64(time.Second)), true
	}
	return 0, false
}

// ToStrings 将 []any / []string 转为 []string，数字元素格式化为 "%v"。
func ToStrings(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return val, true
	case []any:
		out := make([]string, 0, len(val))
		for _, e := range val {
			if s, ok := e.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(e))
		}
		return out, true
	default:
		return nil, false
	}
}

// ConfigGet 从 map[string]any 按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetFloat64 从 config 取 float64，兼容 int / float。
func ConfigGetFloat64(m map[string]any, key string, defaultVal float64) float64 {
	return configGetWith(m, key, defaultVal, ToFloat64)
}

// ConfigGetInt 从 config 取 int，兼容 int / float。
func ConfigGetInt(m map[string]any, key string, defaultVal int) int {
	return configGetWith(m, key, defaultVal, ToInt)
}

// ConfigGetDuration 从 config 取 time.Duration，兼容 "24h" 与秒数。
func ConfigGetDuration(m map[string]any, key string, defaultVal time.Duration) time.Duration {
	return configGetWith(m, key, defaultVal, ToDuration)
}

// ConfigGetStrings 从 config 取 []string。
func ConfigGetStrings(m map[string]any, key string, defaultVal []string) []string {
	return configGetWith(m, key, defaultVal, ToStrings)
}

func configGetWith[T any](m map[string]any, key string, defaultVal T, convert func(any) (T, bool)) T {
	v, ok := m[key]
	if !ok || v == nil {
		return defaultVal
	}
	t, ok := convert(v)
	if !ok {
		return defaultVal
	}
	return t
}
