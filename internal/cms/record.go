package cms

import (
	"encoding/json"
	"fmt"
	"time"
)

// The CMS answers with one of three envelope shapes depending on endpoint
// and version: a flat record, {id, attributes: {...}}, or
// {data: {id, attributes: {...}}}. Lists come as {data: [...], meta: {...}}
// or as a bare array. Everything below is the single deserialization
// boundary that reconciles those shapes; business code only ever sees
// canonical domain records.

// flattenRecord unwraps any of the observed envelopes into one flat
// field map with the record id merged in.
func flattenRecord(raw json.RawMessage) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return flattenMap(m), nil
}

func flattenMap(m map[string]any) map[string]any {
	if data, ok := m["data"].(map[string]any); ok {
		m = data
	}
	attrs, ok := m["attributes"].(map[string]any)
	if !ok {
		return m
	}
	flat := make(map[string]any, len(attrs)+2)
	for k, v := range attrs {
		flat[k] = v
	}
	if id, ok := m["id"]; ok {
		flat["id"] = id
	}
	if docID, ok := m["documentId"]; ok {
		flat["documentId"] = docID
	}
	return flat
}

// decodeList unwraps a list response and returns the flattened entries plus
// the total count from pagination metadata (falling back to the entry count).
func decodeList(raw json.RawMessage) ([]map[string]any, int, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta struct {
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
		} `json:"meta"`
	}

	items := raw
	total := 0
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		items = envelope.Data
		total = envelope.Meta.Pagination.Total
	}

	var entries []map[string]any
	if err := json.Unmarshal(items, &entries); err != nil {
		return nil, 0, fmt.Errorf("decode record list: %w", err)
	}

	flat := make([]map[string]any, len(entries))
	for i, e := range entries {
		flat[i] = flattenMap(e)
	}
	if total == 0 {
		total = len(flat)
	}
	return flat, total, nil
}

// recordID returns the canonical record identifier. Newer CMS versions key
// records by documentId; older ones by numeric id.
func recordID(m map[string]any) string {
	if s, ok := m["documentId"].(string); ok && s != "" {
		return s
	}
	return strField(m, "id")
}

// strField returns the first present key as a string. Numeric values are
// formatted without an exponent so numeric ids survive canonicalization.
func strField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			return v
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

func intField(m map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}

func boolField(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k].(bool); ok {
			return v
		}
	}
	return false
}

// timeField parses the first present key as RFC3339 or a bare date.
func timeField(m map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		s, ok := m[k].(string)
		if !ok || s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func timePtrField(m map[string]any, keys ...string) *time.Time {
	t := timeField(m, keys...)
	if t.IsZero() {
		return nil
	}
	return &t
}

// relationID digs the id out of a relation field, which may be a bare id,
// a flat record, or a data/attributes envelope.
func relationID(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			return v
		case float64:
			return fmt.Sprintf("%.0f", v)
		case map[string]any:
			return recordID(flattenMap(v))
		}
	}
	return ""
}
