package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseBool приводит значение из JSON-запроса к bool. Помимо обычных
// булевых значений принимаются распространённые строковые и числовые
// кодировки: "true"/"1"/"yes"/"y"/"on" и их отрицательные аналоги,
// а также любые числа (0 — false, иначе true).
func ParseBool(v any) (bool, error) {
	switch value := v.(type) {
	case bool:
		return value, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "y", "on":
			return true, nil
		case "false", "0", "no", "n", "off":
			return false, nil
		}
		return false, fmt.Errorf("unrecognized boolean string %q", value)
	case float64:
		return value != 0, nil
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return false, fmt.Errorf("unrecognized boolean number %q", value.String())
		}
		return f != 0, nil
	default:
		return false, fmt.Errorf("unrecognized boolean value of type %T", v)
	}
}
