package api

import "time"

const requestBodyMaxSize = 64 * 1024 // 64 KiB

// POST /api/lists request body
type newListRequest struct {
	Name string `json:"name"`
}

// POST /api/lists response body
type newListResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// POST /api/lists/:id/items request body
type newItemRequest struct {
	Label string `json:"label"`
}

// PATCH /api/lists/:id/items/checked_state request body
type checkedStateRequest struct {
	ItemID       string `json:"item_id"`
	CheckedState bool   `json:"checked_state"`
}

// GET /api/dummy response body
type dummyResponse struct {
	ID   string    `json:"id"`
	When time.Time `json:"when"`
}
