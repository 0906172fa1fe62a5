package usecase

import (
	"context"
	"log/slog"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
	"github.com/kirillkom/paperless-archiver/internal/core/ports"
)

// ApplyCustomFieldsUseCase maps metadata onto remote custom fields and
// patches them onto a stored document. It reports a boolean outcome:
// custom-field enrichment is secondary to the upload and must never
// abort the pipeline.
type ApplyCustomFieldsUseCase struct {
	store  ports.DocumentStore
	table  domain.FieldTable
	logger *slog.Logger
}

func NewApplyCustomFieldsUseCase(store ports.DocumentStore, table domain.FieldTable, logger *slog.Logger) *ApplyCustomFieldsUseCase {
	if table == nil {
		table = domain.DefaultFieldTable()
	}
	return &ApplyCustomFieldsUseCase{
		store:  store,
		table:  table,
		logger: logger,
	}
}

func (uc *ApplyCustomFieldsUseCase) Apply(ctx context.Context, documentID int, record domain.MetadataRecord) bool {
	values, leftovers := mapCustomValues(record, uc.table, uc.logger)
	if len(leftovers) > 0 {
		uc.logger.Debug("unmapped_metadata_keys", "document_id", documentID, "keys", leftovers)
	}

	assignments := make([]domain.CustomFieldAssignment, 0, len(values))
	for _, fv := range values {
		fieldID, err := uc.store.ResolveCustomField(ctx, fv.Spec.Label, string(fv.Spec.Type))
		if err != nil {
			uc.logger.Warn("custom_field_resolution_failed", "key", fv.Key, "label", fv.Spec.Label, "error", err)
			continue
		}
		assignments = append(assignments, domain.CustomFieldAssignment{FieldID: fieldID, Value: fv.Value})
	}

	// Nothing mapped is a no-op success, not a failure.
	if len(assignments) == 0 {
		return true
	}

	if err := uc.store.ApplyCustomFields(ctx, documentID, assignments); err != nil {
		uc.logger.Warn("custom_fields_patch_failed", "document_id", documentID, "error", err)
		return false
	}
	return true
}
