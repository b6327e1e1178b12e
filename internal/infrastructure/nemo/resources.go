package nemo

import (
	"context"
	"encoding/json"

	apperrors "nemoctl/internal/shared/errors"
)

// DecodeList decodes raw snapshot records into typed resources. Records the
// API returns with unknown extra fields decode fine; a malformed record
// fails the whole decode since a partial lookup would silently duplicate.
func DecodeList[T any](raw []json.RawMessage) ([]T, error) {
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, apperrors.NewInternalError("decode snapshot record", err.Error())
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) CreateAccount(ctx context.Context, payload *Account) (*Account, error) {
	var created Account
	if err := c.Create(ctx, PathAccounts, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateProject(ctx context.Context, payload *Project) (*Project, error) {
	var created Project
	if err := c.Create(ctx, PathProjects, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateUser(ctx context.Context, payload *User) (*User, error) {
	var created User
	if err := c.Create(ctx, PathUsers, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateTool(ctx context.Context, payload *Tool) (*Tool, error) {
	var created Tool
	if err := c.Create(ctx, PathTools, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateRate(ctx context.Context, payload *Rate) (*Rate, error) {
	var created Rate
	if err := c.Create(ctx, PathRates, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateRateType(ctx context.Context, payload *RateType) (*RateType, error) {
	var created RateType
	if err := c.Create(ctx, PathRateTypes, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateInterlockCard(ctx context.Context, payload *InterlockCard) (*InterlockCard, error) {
	var created InterlockCard
	if err := c.Create(ctx, PathInterlockCards, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
