package apperror

import "net/http"

// Kind is the closed set of failure categories the API can surface.
// Call sites match on Kind; Code is what the HTTP boundary responds with.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindDuplicate        Kind = "duplicate"
	KindNotFound         Kind = "not_found"
	KindInactive         Kind = "inactive"
	KindGeneration       Kind = "id_generation"
	KindStoreAuth        Kind = "store_auth"
	KindStoreClient      Kind = "store_client"
	KindStoreUnavailable Kind = "store_unavailable"
	KindUploadUnknown    Kind = "upload_unknown"
	KindPersistence      Kind = "persistence"
	KindInternal         Kind = "internal"
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, code int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

func Duplicate(message string) *AppError {
	return New(KindDuplicate, http.StatusBadRequest, message, nil)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

func Inactive(message string) *AppError {
	return New(KindInactive, http.StatusForbidden, message, nil)
}

func Generation(err error) *AppError {
	return New(KindGeneration, http.StatusInternalServerError, "Error generating user ID", err)
}

func StoreAuth(err error) *AppError {
	return New(KindStoreAuth, http.StatusForbidden, "Storage credentials not available", err)
}

// StoreClient carries the store's own message, matching the upstream
// behavior of passing S3 client errors through to the caller.
func StoreClient(message string, err error) *AppError {
	return New(KindStoreClient, http.StatusInternalServerError, "Error uploading file: "+message, err)
}

func StoreUnavailable(err error) *AppError {
	return New(KindStoreUnavailable, http.StatusInternalServerError, "Storage service unavailable", err)
}

func UploadUnknown(err error) *AppError {
	return New(KindUploadUnknown, http.StatusInternalServerError, "An unexpected error occurred while uploading the file", err)
}

func Persistence(err error) *AppError {
	return New(KindPersistence, http.StatusInternalServerError, "Error persisting record", err)
}

func Internal(err error) *AppError {
	return New(KindInternal, http.StatusInternalServerError, "Internal Server Error", err)
}
