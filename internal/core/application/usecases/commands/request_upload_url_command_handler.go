package commands

import (
	"context"
	"fmt"
	"strings"

	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/ports"
)

// RequestUploadURLCommandHandler checks that the order exists and returns a
// presigned upload under orders/<order id>/<department|general>/.
type RequestUploadURLCommandHandler struct {
	uowFactory UoWFactory
	storage    ports.FileStorage
}

// NewRequestUploadURLCommandHandler creates the handler.
func NewRequestUploadURLCommandHandler(uowFactory UoWFactory, storage ports.FileStorage) RequestUploadURLCommandHandler {
	return RequestUploadURLCommandHandler{uowFactory: uowFactory, storage: storage}
}

// Handle presigns an upload for the order. Nothing is written: the
// transaction only reads the order and is rolled back.
//
// Returns:
//   - the upload URL, the final file URL and the expiry
//   - ObjectNotFound for an unknown order
//   - any storage error, unchanged
func (h RequestUploadURLCommandHandler) Handle(
	ctx context.Context,
	cmd RequestUploadURLCommand,
) (ports.PresignedUpload, error) {
	if err := cmd.Validate(); err != nil {
		return ports.PresignedUpload{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.PresignedUpload{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return ports.PresignedUpload{}, err
	}

	scope := "general"
	if d, ok := cmd.Department().Get(); ok {
		scope = strings.ToLower(d.String())
	}

	key := fmt.Sprintf("orders/%s/%s/%s-%s", o.ID(), scope, kernel.NewUUID(), cmd.FileName())

	return h.storage.PresignUpload(ctx, key, cmd.ContentType())
}
