package paperless

import (
	"encoding/json"
	"errors"
	"strings"
)

// Task-handle extraction tolerates every response shape the upload
// endpoint is known to produce: a JSON object carrying task_id, a JSON
// array of such objects, a bare JSON string, or unquoted plain text.
// Strategies run in order; the first applicable one wins. This stays
// separate from the HTTP call so it is testable without a server.

type taskIDStrategy func(body []byte) (string, bool)

var taskIDStrategies = []taskIDStrategy{
	jsonObjectTaskID,
	jsonArrayTaskID,
	jsonStringTaskID,
	plainTextTaskID,
}

func extractTaskID(body []byte) (string, error) {
	for _, strategy := range taskIDStrategies {
		if id, ok := strategy(body); ok && id != "" {
			return id, nil
		}
	}
	return "", errors.New("no task id in upload response")
}

func jsonObjectTaskID(body []byte) (string, bool) {
	if !startsWith(body, '{') {
		return "", false
	}
	var payload struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	return payload.TaskID, payload.TaskID != ""
}

func jsonArrayTaskID(body []byte) (string, bool) {
	if !startsWith(body, '[') {
		return "", false
	}
	var payload []struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return "", false
	}
	return payload[0].TaskID, payload[0].TaskID != ""
}

func jsonStringTaskID(body []byte) (string, bool) {
	if !startsWith(body, '"') {
		return "", false
	}
	var id string
	if err := json.Unmarshal(body, &id); err != nil {
		return "", false
	}
	return id, id != ""
}

func plainTextTaskID(body []byte) (string, bool) {
	// Only for non-JSON bodies; a JSON shape that reached this point
	// had no usable task_id and must not be mistaken for a handle.
	if startsWith(body, '{') || startsWith(body, '[') || startsWith(body, '"') {
		return "", false
	}
	id := strings.Trim(strings.TrimSpace(string(body)), `'`)
	return id, id != ""
}

func startsWith(body []byte, ch byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return len(trimmed) > 0 && trimmed[0] == ch
}
