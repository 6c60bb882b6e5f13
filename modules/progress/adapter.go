package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ServiceGetXP is the request-reply service name in the container.
const ServiceGetXP = "get-xp"

// GetXPRequest is the get-xp service request.
type GetXPRequest struct {
	UserID string `json:"user_id"`
}

// GetXPResponse is the get-xp service response.
type GetXPResponse struct {
	UserID string `json:"user_id"`
	XP     int    `json:"xp"`
}

// Port is the progress query interface handed to driving adapters.
type Port interface {
	XP(ctx context.Context, userID string) (int, error)
}

// Adapter implements Port over the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates an Adapter.
func NewAdapter(container mono.ServiceContainer) Port {
	if container == nil {
		panic("progress: ServiceContainer is nil")
	}
	return &Adapter{container: container}
}

// XP returns a user's current XP total.
func (a *Adapter) XP(ctx context.Context, userID string) (int, error) {
	req := GetXPRequest{UserID: userID}
	var resp GetXPResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceGetXP,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return 0, fmt.Errorf("failed to get xp: %w", err)
	}
	return resp.XP, nil
}
