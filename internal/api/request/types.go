package request

// ActivateRequest is the request body for activating a cell.
// Coordinates are visible-window coordinates; both are required.
type ActivateRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// PanRequest is the request body for panning the viewport
type PanRequest struct {
	Direction string `json:"direction"`
}
