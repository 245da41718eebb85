package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
)

// CreateItem validates the fields locally and posts the item. Every
// violated field is reported at once; nothing reaches the network on
// validation failure.
func (c *Client) CreateItem(ctx context.Context, fields model.ItemFields) (*model.Item, error) {
	if !c.Sessions.Load().Authenticated() {
		return nil, apperr.ErrUnauthorized
	}

	fields = fields.Trimmed()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	var item model.Item
	if err := c.do(ctx, "POST", "/api/items", true, fields, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Item fetches one item by id. Public read.
func (c *Client) Item(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, "GET", itemPath(id), false, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Items fetches a page of the public listing.
func (c *Client) Items(ctx context.Context, filter model.ItemFilter, page, size int) (*model.Page[model.Item], error) {
	q := pageQuery(page, size)
	if filter.Type != "" {
		q.Set("type", filter.Type)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}

	var result model.Page[model.Item]
	if err := c.do(ctx, "GET", "/api/items?"+q.Encode(), false, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MyItems fetches the caller's own items.
func (c *Client) MyItems(ctx context.Context, page, size int) (*model.Page[model.Item], error) {
	var result model.Page[model.Item]
	if err := c.do(ctx, "GET", "/api/items/my?"+pageQuery(page, size).Encode(), true, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateItem validates and replaces the editable fields. Status and the
// soft-delete flag are never touched by this path.
func (c *Client) UpdateItem(ctx context.Context, id int64, fields model.ItemFields) (*model.Item, error) {
	if !c.Sessions.Load().Authenticated() {
		return nil, apperr.ErrUnauthorized
	}

	fields = fields.Trimmed()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	var item model.Item
	if err := c.do(ctx, "PUT", itemPath(id), true, fields, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// TransitionStatus moves an item through its lifecycle. The permission
// and legality pre-checks mirror the server's rules so illegal requests
// fail fast, but the server re-checks both against current state. The
// stale item the caller holds is never trusted as the final word: the
// returned item is the server's post-transition view.
func (c *Client) TransitionStatus(ctx context.Context, item *model.Item, newStatus string) (*model.Item, error) {
	session := c.Sessions.Load()
	if !session.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}

	action := auth.ActionMarkClaimed
	if newStatus == model.ItemStatusRemoved {
		action = auth.ActionDelete
	}
	if !auth.CanActOnItem(session.Identity, item, action) {
		return nil, apperr.ErrForbidden
	}
	if item.SoftDeleted || !model.CanTransition(item.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", apperr.ErrIllegalTransition, item.Status, newStatus)
	}

	var updated model.Item
	err := c.do(ctx, "PATCH", itemPath(item.ID)+"/status", true,
		map[string]string{"status": newStatus}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove transitions the item to REMOVED. This is the owner/admin
// delete, distinct from the moderation soft delete.
func (c *Client) Remove(ctx context.Context, item *model.Item) (*model.Item, error) {
	session := c.Sessions.Load()
	if !session.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}
	if !auth.CanActOnItem(session.Identity, item, auth.ActionDelete) {
		return nil, apperr.ErrForbidden
	}

	if err := c.do(ctx, "DELETE", itemPath(item.ID), true, nil, nil); err != nil {
		return nil, err
	}
	return c.Item(ctx, item.ID)
}

// Report files a report against an item. Reports are additive and have
// no lifecycle beyond creation.
func (c *Client) Report(ctx context.Context, itemID int64, contact, reason string) (*model.Report, error) {
	var report model.Report
	err := c.do(ctx, "POST", itemPath(itemID)+"/report", true,
		map[string]string{"reporterContact": contact, "reason": reason}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// MyReports fetches the reports the caller filed.
func (c *Client) MyReports(ctx context.Context, page, size int) (*model.Page[model.Report], error) {
	var result model.Page[model.Report]
	if err := c.do(ctx, "GET", "/api/reports/my?"+pageQuery(page, size).Encode(), true, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reports fetches all reports. Admin only.
func (c *Client) Reports(ctx context.Context, page, size int) (*model.Page[model.Report], error) {
	var result model.Page[model.Report]
	if err := c.do(ctx, "GET", "/api/reports?"+pageQuery(page, size).Encode(), true, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadImage attaches a photo to an item the caller may edit. The
// server re-encodes; the returned reference identifies the stored copy.
func (c *Client) UploadImage(ctx context.Context, itemID int64, filename string, data io.Reader) (*model.Image, error) {
	session := c.Sessions.Load()
	if !session.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	url := c.BaseURL + "/api/images/upload?itemId=" + strconv.FormatInt(itemID, 10)
	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+session.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &apperr.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}

	var img model.Image
	if err := json.NewDecoder(resp.Body).Decode(&img); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &img, nil
}
