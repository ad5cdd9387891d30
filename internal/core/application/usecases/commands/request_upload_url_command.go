package commands

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/pkg/errs"
	"atelier/internal/pkg/guard"
)

var (
	ErrRequestUploadURLCommandIsNotConstructed = errors.New(
		"RequestUploadURLCommand must be created via NewRequestUploadURLCommand constructor",
	)
	ErrFileNameIsRequired = errs.NewValueIsRequiredError("file name")

	unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	allowedUploads  = []string{"image/", "application/pdf", "model/", "application/octet-stream"}
)

// RequestUploadURLCommand asks for a presigned URL to upload a photo or
// document of an order, optionally scoped to one department.
type RequestUploadURLCommand struct {
	orderID     kernel.UUID
	department  kernel.Option[department.Department]
	fileName    string
	contentType string

	guard guard.ConstructorGuard
}

// NewRequestUploadURLCommand sanitises the file name to a base name of
// [A-Za-z0-9._-] and accepts images, PDFs, 3D models and octet streams.
//
// Example:
//
//	cmd, err := NewRequestUploadURLCommand(orderID, kernel.Some(department.CAD), "ring v2.3dm", "model/3dm")
//	// cmd.FileName() == "ring_v2.3dm"
func NewRequestUploadURLCommand(
	orderID kernel.UUID,
	dept kernel.Option[department.Department],
	fileName, contentType string,
) (RequestUploadURLCommand, error) {
	var deptErr error
	if d, ok := dept.Get(); ok {
		deptErr = d.Validate()
	}

	fileName = unsafeFileChars.ReplaceAllString(path.Base(strings.TrimSpace(fileName)), "_")
	var nameErr error
	if fileName == "" || fileName == "." || fileName == "_" {
		nameErr = ErrFileNameIsRequired
	}

	var typeErr error
	if !isAllowedUpload(contentType) {
		typeErr = errs.NewValueIsInvalidErrorWithCause("content type is invalid",
			fmt.Errorf("%q is not an accepted upload type", contentType))
	}

	if err := errors.Join(orderID.Validate(), deptErr, nameErr, typeErr); err != nil {
		return RequestUploadURLCommand{}, err
	}

	return RequestUploadURLCommand{
		orderID:     orderID,
		department:  dept,
		fileName:    fileName,
		contentType: contentType,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestUploadURLCommand) Validate() error {
	return c.guard.Validate(ErrRequestUploadURLCommandIsNotConstructed)
}

func (c RequestUploadURLCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RequestUploadURLCommand) Department() kernel.Option[department.Department] {
	return c.department
}

// FileName is the sanitised base name.
func (c RequestUploadURLCommand) FileName() string {
	return c.fileName
}

func (c RequestUploadURLCommand) ContentType() string {
	return c.contentType
}

func isAllowedUpload(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, prefix := range allowedUploads {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
