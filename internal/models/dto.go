package models

// Envelope statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusOK      = "ok"
)

// Envelope is the uniform response body of every endpoint.
type Envelope struct {
	Status  string      `json:"status" yaml:"status"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
	Count   *int        `json:"count,omitempty" yaml:"count,omitempty"`
	Data    interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

// ===== ENVELOPE CONSTRUCTORS =====

func SuccessEnvelope(message string, data interface{}) Envelope {
	return Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

func ListEnvelope(students []Student) Envelope {
	if students == nil {
		students = []Student{}
	}
	count := len(students)
	return Envelope{
		Status: StatusSuccess,
		Count:  &count,
		Data:   students,
	}
}

func ErrorEnvelope(message string) Envelope {
	return Envelope{
		Status:  StatusError,
		Message: message,
	}
}
