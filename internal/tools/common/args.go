package common

import (
	"github.com/teemow/slotkeeper/internal/schedule"
)

// StringArg returns the string argument name, or "" when it is absent.
// A present non-string value is an InvalidFormat error.
func StringArg(args map[string]interface{}, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", schedule.Errorf(schedule.KindInvalidFormat, "Argument '%s' must be a string.", name)
	}
	return s, nil
}

// StringArgDefault is StringArg with a fallback for absent or empty values.
func StringArgDefault(args map[string]interface{}, name, def string) (string, error) {
	s, err := StringArg(args, name)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// StringMapArg returns the object argument name as a map of strings. An
// absent argument is an empty map.
func StringMapArg(args map[string]interface{}, name string) (map[string]string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return map[string]string{}, nil
	}

	var out map[string]string
	switch v := raw.(type) {
	case map[string]string:
		out = make(map[string]string, len(v))
		for key, value := range v {
			out[key] = value
		}
	case map[string]interface{}:
		out = make(map[string]string, len(v))
		for key, value := range v {
			s, ok := value.(string)
			if !ok {
				return nil, schedule.Errorf(schedule.KindInvalidFormat,
					"Invalid status for time slot '%s'. Statuses must be strings.", key)
			}
			out[key] = s
		}
	default:
		return nil, schedule.Errorf(schedule.KindInvalidFormat,
			"Argument '%s' must be an object mapping HH:MM to a status.", name)
	}
	return out, nil
}
