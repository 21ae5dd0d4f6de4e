package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hongminglow/taskflow-be/internal/http/respond"
	"github.com/hongminglow/taskflow-be/internal/models/dto"
	"github.com/hongminglow/taskflow-be/internal/storage"
)

// Avatars travel as data URLs, so the body cap is generous.
const maxBodyBytes = 5 << 20

type validator interface {
	Validate() error
}

// decodeJSON reads the request body into dst and runs its Validate method.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst validator) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return &respond.ClientError{Status: http.StatusRequestEntityTooLarge, Message: "request body too large"}
		case errors.Is(err, io.EOF):
			return respond.BadRequest("request body is required")
		default:
			return respond.BadRequest("invalid JSON payload")
		}
	}
	return dst.Validate()
}

func success(w http.ResponseWriter, message string) {
	respond.JSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}

// notFoundAs swaps a storage miss for a 404 carrying message.
func notFoundAs(err error, message string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return respond.NotFound(message)
	}
	return err
}
