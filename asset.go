package conquest

import (
	"context"
	"errors"
	"fmt"
)

// Asset retrieves the full record for an asset id.
func (c *Client) Asset(ctx context.Context, id int) (Record, error) {
	return c.getRecord(ctx, fmt.Sprintf("/api/Asset/%d", id))
}

// AssetBasic retrieves the basic attribute set for an asset id.
func (c *Client) AssetBasic(ctx context.Context, id int) (Record, error) {
	return c.getRecord(ctx, fmt.Sprintf("/api/Asset/basic/%d", id))
}

// Assets retrieves full records for a list of asset ids, keyed by id. Ids
// that match no asset are left out of the result.
func (c *Client) Assets(ctx context.Context, ids ...int) (map[int]Record, error) {
	records := make(map[int]Record, len(ids))
	for _, id := range ids {
		record, err := c.Asset(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		records[id] = record
	}
	return records, nil
}

// FindAssetByField finds the single asset whose field matches value. It
// returns ErrNotFound when no asset matches or when the match is not unique.
func (c *Client) FindAssetByField(ctx context.Context, field, value string) (Record, error) {
	return c.findRecord(ctx, "/api/asset/find_by_field", field, value)
}
