package conquest

import (
	"context"
	"net/http"
)

// Connections lists the Conquest connections available on the server.
func (c *Client) Connections(ctx context.Context) ([]string, error) {
	var connections []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/system/connections", nil, "", &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

// Version reports the server's version details.
func (c *Client) Version(ctx context.Context) (Record, error) {
	var version Record
	if err := c.doJSON(ctx, http.MethodGet, "/api/system/version", nil, "", &version); err != nil {
		return nil, err
	}
	return version, nil
}

// WhoAmI reports the username the current token authenticates as.
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	var username string
	if err := c.doJSON(ctx, http.MethodGet, "/api/system/whoami", nil, "", &username); err != nil {
		return "", err
	}
	return username, nil
}
