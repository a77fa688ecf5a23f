package conquest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Action retrieves the full record for an action id.
func (c *Client) Action(ctx context.Context, id int) (Record, error) {
	return c.getRecord(ctx, fmt.Sprintf("/api/Action/%d", id))
}

// Actions retrieves full records for a list of action ids, keyed by id. Ids
// that match no action are left out of the result.
func (c *Client) Actions(ctx context.Context, ids ...int) (map[int]Record, error) {
	records := make(map[int]Record, len(ids))
	for _, id := range ids {
		record, err := c.Action(ctx, id)
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

// FindActionByField finds the single action whose field matches value. It
// returns ErrNotFound when no action matches or when the match is not
// unique.
func (c *Client) FindActionByField(ctx context.Context, field, value string) (Record, error) {
	return c.findRecord(ctx, "/api/action/find_by_field", field, value)
}

// DeleteAction deletes an action by id. The API reports a successful
// deletion with an empty body; anything else is the server's account of why
// the action could not be deleted.
func (c *Client) DeleteAction(ctx context.Context, id int) error {
	status, body, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Action/%d", id), nil, "")
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return newAPIError(status, body)
	}
	if len(bytes.TrimSpace(body)) > 0 {
		return newAPIError(status, body)
	}
	return nil
}

// DeleteActions deletes a list of actions and reports the outcome per id. A
// nil entry means the action was deleted.
func (c *Client) DeleteActions(ctx context.Context, ids ...int) map[int]error {
	outcomes := make(map[int]error, len(ids))
	for _, id := range ids {
		outcomes[id] = c.DeleteAction(ctx, id)
	}
	return outcomes
}
