package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

const tasksPath = "/api/tasks/"

// flexInt decodes an integer that some service versions serialize as a
// quoted string.
type flexInt int

func (f *flexInt) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

type taskRow struct {
	TaskID          string   `json:"task_id"`
	Status          string   `json:"status"`
	RelatedDocument *flexInt `json:"related_document"`
}

func (r taskRow) toDomain() *domain.UploadTask {
	task := &domain.UploadTask{
		TaskID: r.TaskID,
		Status: domain.TaskStatus(r.Status),
	}
	if r.RelatedDocument != nil {
		id := int(*r.RelatedDocument)
		task.RelatedDocument = &id
	}
	return task
}

var errStopWalk = errors.New("stop pagination walk")

// FindTask scans the task list for taskID. The service has no
// lookup-by-id endpoint, so every poll walks the paginated list until
// the task turns up. A task not present yet is a domain.ErrNotFound.
func (c *Client) FindTask(ctx context.Context, taskID string) (*domain.UploadTask, error) {
	const operation = "task.find"

	var found *domain.UploadTask
	err := c.fetchAllPages(ctx, tasksPath, operation, func(results json.RawMessage) error {
		var rows []taskRow
		if err := json.Unmarshal(results, &rows); err != nil {
			return domain.WrapError(domain.ErrDecode, operation, err)
		}
		for _, row := range rows {
			if row.TaskID == taskID {
				found = row.toDomain()
				return errStopWalk
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return nil, err
	}
	if found == nil {
		return nil, domain.NewError(domain.ErrNotFound, operation, taskID)
	}
	return found, nil
}
