package domain

import "time"

// TaskStatus mirrors the status values reported by the remote
// document-management service for asynchronous upload tasks.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusStarted TaskStatus = "STARTED"
	TaskStatusSuccess TaskStatus = "SUCCESS"
	TaskStatusFailure TaskStatus = "FAILURE"
)

// MetadataRecord is the open key/value record describing a document.
// It is supplied per call and never retained. A nested "extra" sub-record
// may carry additional custom-field values.
type MetadataRecord map[string]any

// String returns the value under key when it is a non-empty string.
func (m MetadataRecord) String(key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// Extra returns the nested "extra" sub-record, if present.
func (m MetadataRecord) Extra() MetadataRecord {
	if m == nil {
		return nil
	}
	switch extra := m["extra"].(type) {
	case MetadataRecord:
		return extra
	case map[string]any:
		return MetadataRecord(extra)
	default:
		return nil
	}
}

// ArchiveRequest describes one document to archive remotely.
type ArchiveRequest struct {
	JobID         string         `json:"job_id"`
	FilePath      string         `json:"file_path"`
	Title         string         `json:"title"`
	Created       string         `json:"created,omitempty"`
	Correspondent string         `json:"correspondent,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	DocumentType  string         `json:"document_type,omitempty"`
	Metadata      MetadataRecord `json:"metadata,omitempty"`
}

// NativeFields are the upload form fields understood natively by the
// remote service, still carrying free-text taxonomy names.
type NativeFields struct {
	Title         string
	Created       string
	Correspondent string
	DocumentType  string
	Tags          []string
}

// UploadPayload is a NativeFields counterpart with taxonomy names already
// replaced by resolved remote identifiers. Zero ids mean "omitted".
type UploadPayload struct {
	Filename        string
	Content         []byte
	Title           string
	Created         string
	CorrespondentID int
	DocumentTypeID  int
	TagIDs          []int
}

// CustomFieldAssignment pairs a resolved custom-field definition id with
// the coerced value to store. Value is a string or an int.
type CustomFieldAssignment struct {
	FieldID int `json:"field"`
	Value   any `json:"value"`
}

// UploadTask is the observed state of a server-side upload task.
type UploadTask struct {
	TaskID          string
	Status          TaskStatus
	RelatedDocument *int
}

// ArchiveResult reports the outcome of one archive call.
type ArchiveResult struct {
	Success    bool
	AttemptID  string
	TaskID     string
	DocumentID int
	Err        string
}

// AttemptStatus is the journal lifecycle of one archive attempt.
type AttemptStatus string

const (
	AttemptPending  AttemptStatus = "pending"
	AttemptUploaded AttemptStatus = "uploaded"
	AttemptVerified AttemptStatus = "verified"
	AttemptFailed   AttemptStatus = "failed"
)

// ArchiveAttempt is the persisted journal row for one archive call.
type ArchiveAttempt struct {
	ID         string
	JobID      string
	FilePath   string
	Title      string
	TaskID     string
	DocumentID *int
	Status     AttemptStatus
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
