package common

import "net/http"

type HttpError struct {
	Status  int
	Message string
}

var _ error = &HttpError{}

func (e *HttpError) Error() string {
	return e.Message
}

func (e *HttpError) WriteTo(w http.ResponseWriter) {
	http.Error(w, e.Message, e.Status)
}

func NewHttpError(status int, message string) *HttpError {
	return &HttpError{
		Status:  status,
		Message: message,
	}
}
