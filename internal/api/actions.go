package api

import (
	"context"

	"poptique_list/internal/listview"
)

// Action names understood by the backend.
const (
	ActionGetProducts     = "getProducts"
	ActionAddProduct      = "addProduct"
	ActionUpdatePicked    = "updatePicked"
	ActionUpdatePlatform  = "updatePlatform"
	ActionDeleteRow       = "deleteRow"
	ActionClearList       = "clearList"
	ActionMarkAllPicked   = "markAllPicked"
	ActionMarkAllUnpicked = "markAllUnpicked"
)

// Row actions carry the product the client saw at RowNumber. Backends that
// check it reject writes whose row has since moved; others ignore it.

type AddProductRequest struct {
	Action   string `json:"action"`
	Product  string `json:"product"`
	Platform string `json:"platform"`
}

type UpdatePickedRequest struct {
	Action    string `json:"action"`
	RowNumber int    `json:"rowNumber"`
	Picked    bool   `json:"picked"`
	Product   string `json:"product,omitempty"`
}

type UpdatePlatformRequest struct {
	Action      string `json:"action"`
	RowNumber   int    `json:"rowNumber"`
	NewPlatform string `json:"newPlatform"`
	Product     string `json:"product,omitempty"`
}

type DeleteRowRequest struct {
	Action    string `json:"action"`
	RowNumber int    `json:"rowNumber"`
	Product   string `json:"product,omitempty"`
}

type PlatformRequest struct {
	Action   string `json:"action"`
	Platform string `json:"platform"`
}

type ActionRequest struct {
	Action string `json:"action"`
}

// GetProducts fetches the raw rows. A reply that is not an array is an empty list.
func (c *Client) GetProducts(ctx context.Context) ([]listview.Row, error) {
	var data any
	if err := c.Get(ctx, ActionGetProducts, &data); err != nil {
		return nil, err
	}
	arr, ok := data.([]any)
	if !ok {
		return []listview.Row{}, nil
	}
	rows := make([]listview.Row, 0, len(arr))
	for _, v := range arr {
		cells, _ := v.([]any)
		rows = append(rows, listview.Row(cells))
	}
	return rows, nil
}

func (c *Client) AddProduct(ctx context.Context, product, platform string) error {
	_, err := c.Post(ctx, AddProductRequest{Action: ActionAddProduct, Product: product, Platform: platform})
	return err
}

func (c *Client) UpdatePicked(ctx context.Context, rowNumber int, picked bool, product string) error {
	_, err := c.Post(ctx, UpdatePickedRequest{Action: ActionUpdatePicked, RowNumber: rowNumber, Picked: picked, Product: product})
	return err
}

func (c *Client) UpdatePlatform(ctx context.Context, rowNumber int, newPlatform, product string) error {
	_, err := c.Post(ctx, UpdatePlatformRequest{Action: ActionUpdatePlatform, RowNumber: rowNumber, NewPlatform: newPlatform, Product: product})
	return err
}

func (c *Client) DeleteRow(ctx context.Context, rowNumber int, product string) error {
	_, err := c.Post(ctx, DeleteRowRequest{Action: ActionDeleteRow, RowNumber: rowNumber, Product: product})
	return err
}

func (c *Client) ClearList(ctx context.Context) error {
	_, err := c.Post(ctx, ActionRequest{Action: ActionClearList})
	return err
}

func (c *Client) MarkAllPicked(ctx context.Context, platform string) error {
	_, err := c.Post(ctx, PlatformRequest{Action: ActionMarkAllPicked, Platform: platform})
	return err
}

func (c *Client) MarkAllUnpicked(ctx context.Context, platform string) error {
	_, err := c.Post(ctx, PlatformRequest{Action: ActionMarkAllUnpicked, Platform: platform})
	return err
}
