package usecase

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

// maxStringFieldLen bounds stored string custom-field values. Longer
// values are truncated to exactly this length, ending in "...".
const maxStringFieldLen = 128

// nativeKeys are metadata keys consumed by the native upload fields and
// therefore never counted as unmapped leftovers.
var nativeKeys = map[string]struct{}{
	"title":         {},
	"created":       {},
	"author":        {},
	"organization":  {},
	"tags":          {},
	"document_type": {},
	"extra":         {},
}

// buildNativeFields derives the natively understood upload fields.
// Explicit request values win; the metadata record fills the gaps. The
// correspondent falls back from author to organization.
func buildNativeFields(req domain.ArchiveRequest) domain.NativeFields {
	fields := domain.NativeFields{
		Title:         req.Title,
		Created:       req.Created,
		Correspondent: req.Correspondent,
		DocumentType:  req.DocumentType,
		Tags:          req.Tags,
	}

	record := req.Metadata
	if fields.Title == "" {
		fields.Title = record.String("title")
	}
	if fields.Created == "" {
		fields.Created = record.String("created")
	}
	if fields.Correspondent == "" {
		if author := record.String("author"); author != "" {
			fields.Correspondent = author
		} else {
			fields.Correspondent = record.String("organization")
		}
	}
	return fields
}

// flattenExtras promotes recognized custom-field keys out of the nested
// "extra" sub-record. A top-level key of the same name always wins and
// is never overwritten.
func flattenExtras(record domain.MetadataRecord, table domain.FieldTable) domain.MetadataRecord {
	if record == nil {
		return nil
	}
	flat := make(domain.MetadataRecord, len(record))
	for k, v := range record {
		flat[k] = v
	}
	for k, v := range record.Extra() {
		if _, known := table[k]; !known {
			continue
		}
		if _, exists := flat[k]; exists {
			continue
		}
		flat[k] = v
	}
	return flat
}

// fieldValue is one coerced custom-field value awaiting id resolution.
type fieldValue struct {
	Key   string
	Spec  domain.FieldSpec
	Value any
}

// mapCustomValues coerces every table-mapped value present in the
// flattened record. Integer coercion failures skip the field with a
// warning instead of failing the call. Returns the coerced values in
// stable key order plus the leftover keys that map to nothing.
func mapCustomValues(record domain.MetadataRecord, table domain.FieldTable, logger *slog.Logger) ([]fieldValue, []string) {
	flat := flattenExtras(record, table)
	if flat == nil {
		return nil, nil
	}

	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make([]fieldValue, 0, len(keys))
	for _, key := range keys {
		raw, ok := flat[key]
		if !ok {
			continue
		}
		spec := table[key]

		switch spec.Type {
		case domain.FieldTypeInteger:
			n, err := coerceInt(raw)
			if err != nil {
				logger.Warn("custom_field_coercion_failed", "key", key, "value", raw, "error", err)
				continue
			}
			values = append(values, fieldValue{Key: key, Spec: spec, Value: n})
		case domain.FieldTypeString:
			s := stringify(raw)
			if s == "" {
				continue
			}
			values = append(values, fieldValue{Key: key, Spec: spec, Value: truncateFieldValue(s)})
		default:
			if s := stringify(raw); s == "" {
				continue
			}
			values = append(values, fieldValue{Key: key, Spec: spec, Value: raw})
		}
	}

	var leftovers []string
	for key := range flat {
		if _, native := nativeKeys[key]; native {
			continue
		}
		if _, mapped := table[key]; mapped {
			continue
		}
		leftovers = append(leftovers, key)
	}
	sort.Strings(leftovers)
	return values, leftovers
}

// truncateFieldValue enforces the storage bound: the result is at most
// maxStringFieldLen characters, and a truncated value ends in "...".
func truncateFieldValue(v string) string {
	runes := []rune(v)
	if len(runes) <= maxStringFieldLen {
		return v
	}
	return string(runes[:maxStringFieldLen-3]) + "..."
}

func coerceInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported integer source %T", raw)
	}
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
