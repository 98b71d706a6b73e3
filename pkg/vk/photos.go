package vk

import (
	"context"
	"fmt"
	"net/url"
)

type Likes struct {
	Count int `json:"count"`
}

type Photo struct {
	ID      int64 `json:"id"`
	OwnerID int64 `json:"owner_id"`
	Likes   Likes `json:"likes"`
}

// Attachment formats the photo as a messages.send attachment reference.
func (p Photo) Attachment() string {
	return fmt.Sprintf("photo%d_%d", p.OwnerID, p.ID)
}

// PhotosGet lists photos of an album. extended adds like counters.
func (c *Client) PhotosGet(ctx context.Context, ownerID int64, albumID string, extended bool) ([]Photo, error) {
	params := url.Values{}
	params.Set("owner_id", itoa(ownerID))
	params.Set("album_id", albumID)
	params.Set("extended", boolParam(extended))
	var resp itemsResponse[Photo]
	if err := c.call(ctx, "photos.get", params, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
