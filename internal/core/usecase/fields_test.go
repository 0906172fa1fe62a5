package usecase

import (
	"strings"
	"testing"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

func TestTruncateFieldValue(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := truncateFieldValue(long)
	if len([]rune(got)) != maxStringFieldLen {
		t.Fatalf("expected exactly %d characters, got %d", maxStringFieldLen, len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated value must end in ellipsis, got %q", got[len(got)-8:])
	}

	short := strings.Repeat("y", maxStringFieldLen)
	if truncateFieldValue(short) != short {
		t.Fatalf("value at the bound must pass unchanged")
	}
	if truncateFieldValue("plain") != "plain" {
		t.Fatalf("short value must pass unchanged")
	}
}

func TestBuildNativeFieldsRequestWins(t *testing.T) {
	req := domain.ArchiveRequest{
		Title: "Explicit Title",
		Metadata: domain.MetadataRecord{
			"title":   "Metadata Title",
			"created": "2024-01-15",
			"author":  "Jane Doe",
		},
	}
	fields := buildNativeFields(req)
	if fields.Title != "Explicit Title" {
		t.Fatalf("explicit request title must win, got %q", fields.Title)
	}
	if fields.Created != "2024-01-15" {
		t.Fatalf("metadata must fill missing created, got %q", fields.Created)
	}
	if fields.Correspondent != "Jane Doe" {
		t.Fatalf("author must become correspondent, got %q", fields.Correspondent)
	}
}

func TestBuildNativeFieldsOrganizationFallback(t *testing.T) {
	req := domain.ArchiveRequest{
		Metadata: domain.MetadataRecord{"organization": "ACME Corp"},
	}
	fields := buildNativeFields(req)
	if fields.Correspondent != "ACME Corp" {
		t.Fatalf("expected organization fallback, got %q", fields.Correspondent)
	}
}

func TestFlattenExtrasTopLevelWins(t *testing.T) {
	record := domain.MetadataRecord{
		"author": "Top Level",
		"extra": map[string]any{
			"author":  "Nested",
			"year":    2021,
			"unknown": "never promoted",
		},
	}
	flat := flattenExtras(record, domain.DefaultFieldTable())
	if flat["author"] != "Top Level" {
		t.Fatalf("top-level value must win, got %v", flat["author"])
	}
	if flat["year"] != 2021 {
		t.Fatalf("recognized extra key must be promoted, got %v", flat["year"])
	}
	if _, ok := flat["unknown"]; ok {
		t.Fatalf("unrecognized extra key must stay nested")
	}
}

func TestMapCustomValuesCoercion(t *testing.T) {
	record := domain.MetadataRecord{
		"year":        "2021",
		"author":      "Jane Doe",
		"description": strings.Repeat("d", 200),
		"stray_key":   "no mapping",
	}
	values, leftovers := mapCustomValues(record, domain.DefaultFieldTable(), testLogger())

	byKey := map[string]any{}
	for _, fv := range values {
		byKey[fv.Key] = fv.Value
	}
	if byKey["year"] != 2021 {
		t.Fatalf("expected coerced integer 2021, got %v (%T)", byKey["year"], byKey["year"])
	}
	if byKey["author"] != "Jane Doe" {
		t.Fatalf("unexpected author value: %v", byKey["author"])
	}
	desc, _ := byKey["description"].(string)
	if len([]rune(desc)) != maxStringFieldLen || !strings.HasSuffix(desc, "...") {
		t.Fatalf("description must be truncated to the bound, got %d chars", len([]rune(desc)))
	}
	if len(leftovers) != 1 || leftovers[0] != "stray_key" {
		t.Fatalf("expected stray_key as the only leftover, got %v", leftovers)
	}
}

func TestMapCustomValuesSkipsBadInteger(t *testing.T) {
	record := domain.MetadataRecord{"year": "not-a-number", "author": "A"}
	values, _ := mapCustomValues(record, domain.DefaultFieldTable(), testLogger())
	for _, fv := range values {
		if fv.Key == "year" {
			t.Fatalf("uncoercible integer must be skipped, got %v", fv.Value)
		}
	}
	if len(values) != 1 {
		t.Fatalf("expected only the author value, got %d", len(values))
	}
}

func TestMapCustomValuesFloatYear(t *testing.T) {
	// JSON decoding yields float64 for numbers.
	record := domain.MetadataRecord{"year": float64(1998)}
	values, _ := mapCustomValues(record, domain.DefaultFieldTable(), testLogger())
	if len(values) != 1 || values[0].Value != 1998 {
		t.Fatalf("expected integer 1998, got %v", values)
	}
}

func TestMapCustomValuesNilRecord(t *testing.T) {
	values, leftovers := mapCustomValues(nil, domain.DefaultFieldTable(), testLogger())
	if values != nil || leftovers != nil {
		t.Fatalf("nil record must map to nothing, got %v / %v", values, leftovers)
	}
}
