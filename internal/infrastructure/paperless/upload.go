package paperless

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/kirillkom/paperless-archiver/internal/core/domain"
)

const uploadPath = "/api/documents/post_document/"

// Upload issues the multipart document POST and returns the asynchronous
// task handle. The request deliberately bypasses the retry executor: a
// retried upload could create a duplicate document.
func (c *Client) Upload(ctx context.Context, p domain.UploadPayload) (string, error) {
	const operation = "document.upload"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("document", p.Filename)
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalid, operation, err)
	}
	if _, err := io.Copy(part, bytes.NewReader(p.Content)); err != nil {
		return "", domain.WrapError(domain.ErrInvalid, operation, err)
	}

	fields := map[string]string{
		"title":   p.Title,
		"created": p.Created,
	}
	if p.CorrespondentID > 0 {
		fields["correspondent"] = strconv.Itoa(p.CorrespondentID)
	}
	if p.DocumentTypeID > 0 {
		fields["document_type"] = strconv.Itoa(p.DocumentTypeID)
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := mw.WriteField(name, value); err != nil {
			return "", domain.WrapError(domain.ErrInvalid, operation, err)
		}
	}
	for _, tagID := range p.TagIDs {
		if err := mw.WriteField("tags", strconv.Itoa(tagID)); err != nil {
			return "", domain.WrapError(domain.ErrInvalid, operation, err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", domain.WrapError(domain.ErrInvalid, operation, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", domain.WrapError(domain.ErrTransport, operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &buf)
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalid, operation, err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.ErrTransport, operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", statusError(operation, resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", domain.WrapError(domain.ErrTransport, operation, err)
	}

	taskID, err := extractTaskID(body)
	if err != nil {
		return "", domain.WrapError(domain.ErrDecode, operation, err)
	}
	if _, err := uuid.Parse(taskID); err != nil {
		return "", domain.WrapError(domain.ErrInvalid, operation, fmt.Errorf("invalid task id %q: %w", taskID, err))
	}
	return taskID, nil
}

// ApplyCustomFields patches resolved custom-field values onto a stored
// document. An empty assignment list is a no-op success.
func (c *Client) ApplyCustomFields(ctx context.Context, documentID int, assignments []domain.CustomFieldAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	ref := fmt.Sprintf("/api/documents/%d/", documentID)
	payload := map[string]any{"custom_fields": assignments}
	return c.patchJSON(ctx, ref, payload, "document.custom_fields")
}
