package client

import (
	"context"
	"strconv"

	"github.com/erazemk/najdeno/internal/apperr"
	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/model"
)

// SubmitClaim files a claim request against an item. Network latency
// means the item can leave OPEN between the caller's last read and this
// call, so the engine re-fetches the item immediately before submitting
// and rejects on its current state. The server runs the same checks
// inside a transaction; this pre-flight only narrows the race window,
// it cannot close it.
func (c *Client) SubmitClaim(ctx context.Context, itemID int64, message string) (*model.ClaimRequest, error) {
	session := c.Sessions.Load()
	if !session.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}
	if err := model.ValidateClaimMessage(message); err != nil {
		return nil, err
	}

	item, err := c.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.PostedBy != nil && item.PostedBy.ID == session.Identity.ID {
		return nil, apperr.ErrSelfClaim
	}
	if !item.Claimable() {
		return nil, apperr.ErrItemNotClaimable
	}

	var cr model.ClaimRequest
	err = c.do(ctx, "POST", itemPath(itemID)+"/claim-requests", true,
		map[string]string{"message": message}, &cr)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

// ApproveClaim approves a pending request, which also transitions the
// item to CLAIMED. The server applies both halves atomically; on any
// failure the caller holds no partial local state and should re-fetch
// the item. A racing approval on a sibling request surfaces as
// ItemAlreadyClaimed and leaves that sibling PENDING.
func (c *Client) ApproveClaim(ctx context.Context, item *model.Item, requestID int64) (*model.ClaimRequest, error) {
	if err := c.checkDecider(item); err != nil {
		return nil, err
	}

	var cr model.ClaimRequest
	err := c.do(ctx, "POST", claimPath(item.ID, requestID)+"/approve", true, nil, &cr)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

// RejectClaim rejects a pending request. Allowed regardless of item
// status and never affects sibling requests.
func (c *Client) RejectClaim(ctx context.Context, item *model.Item, requestID int64) (*model.ClaimRequest, error) {
	if err := c.checkDecider(item); err != nil {
		return nil, err
	}

	var cr model.ClaimRequest
	err := c.do(ctx, "POST", claimPath(item.ID, requestID)+"/reject", true, nil, &cr)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

// ClaimRequests fetches a page of an item's requests in creation order.
// Owner/admin only.
func (c *Client) ClaimRequests(ctx context.Context, itemID int64, page, size int) (*model.Page[model.ClaimRequest], error) {
	path := itemPath(itemID) + "/claim-requests?" + pageQuery(page, size).Encode()
	var result model.Page[model.ClaimRequest]
	if err := c.do(ctx, "GET", path, true, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) checkDecider(item *model.Item) error {
	session := c.Sessions.Load()
	if !session.Authenticated() {
		return apperr.ErrUnauthorized
	}
	if !auth.CanActOnItem(session.Identity, item, auth.ActionMarkClaimed) {
		return apperr.ErrForbidden
	}
	return nil
}

func claimPath(itemID, requestID int64) string {
	return itemPath(itemID) + "/claim-requests/" + strconv.FormatInt(requestID, 10)
}
