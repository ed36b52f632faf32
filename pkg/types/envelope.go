package types

// Status is the outcome tag carried by every Response.
type Status string

// Envelope statuses. Callers branch on these, never on Go errors.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Code is a stable, machine-readable outcome identifier such as
// "CRUD.CREATE.SUCCESS".
type Code string

// Notice is the header of a Response: everything except the payload.
type Notice struct {
	Status  Status `json:"status"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// OK reports whether the notice describes a successful operation.
func (n Notice) OK() bool {
	return n.Status == StatusSuccess
}

// Response is the uniform envelope returned by every CRUD operation.
// Payload is set iff Status is StatusSuccess; on error it holds the zero
// value of P (nil for pointer and slice payloads).
type Response[P any] struct {
	Status  Status `json:"status"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Payload P      `json:"payload"`
}

// Succeed builds a success envelope carrying payload.
func Succeed[P any](code Code, message string, payload P) Response[P] {
	return Response[P]{
		Status:  StatusSuccess,
		Code:    code,
		Message: message,
		Payload: payload,
	}
}

// Fail builds an error envelope. The payload is left at its zero value.
func Fail[P any](code Code, message string) Response[P] {
	return Response[P]{
		Status:  StatusError,
		Code:    code,
		Message: message,
	}
}

// OK reports whether the response is a success envelope.
func (r Response[P]) OK() bool {
	return r.Status == StatusSuccess
}

// Notice returns the envelope header without the payload.
func (r Response[P]) Notice() Notice {
	return Notice{Status: r.Status, Code: r.Code, Message: r.Message}
}
