package paperless

import "testing"

func TestExtractTaskIDFromJSONObject(t *testing.T) {
	id, err := extractTaskID([]byte(`{"task_id":"a8f1c2ab-1111-4222-8333-444455556666"}`))
	if err != nil {
		t.Fatalf("extractTaskID() error = %v", err)
	}
	if id != "a8f1c2ab-1111-4222-8333-444455556666" {
		t.Fatalf("unexpected task id: %s", id)
	}
}

func TestExtractTaskIDFromJSONArray(t *testing.T) {
	id, err := extractTaskID([]byte(`[{"task_id":"first"},{"task_id":"second"}]`))
	if err != nil {
		t.Fatalf("extractTaskID() error = %v", err)
	}
	if id != "first" {
		t.Fatalf("expected first element task id, got %s", id)
	}
}

func TestExtractTaskIDFromBareJSONString(t *testing.T) {
	id, err := extractTaskID([]byte(`"bare-task-id"`))
	if err != nil {
		t.Fatalf("extractTaskID() error = %v", err)
	}
	if id != "bare-task-id" {
		t.Fatalf("unexpected task id: %s", id)
	}
}

func TestExtractTaskIDFromPlainText(t *testing.T) {
	id, err := extractTaskID([]byte("  'quoted-id'\n"))
	if err != nil {
		t.Fatalf("extractTaskID() error = %v", err)
	}
	if id != "quoted-id" {
		t.Fatalf("unexpected task id: %s", id)
	}
}

func TestExtractTaskIDMissing(t *testing.T) {
	if _, err := extractTaskID([]byte(`{"status":"ok"}`)); err == nil {
		t.Fatalf("expected error for object without task_id")
	}
	if _, err := extractTaskID([]byte("   ")); err == nil {
		t.Fatalf("expected error for blank body")
	}
}
