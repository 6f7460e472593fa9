package status

import (
	"database/sql/driver"
	"errors"
)

// Status is the lifecycle state of an order. New orders always start
// as StatusPending; later transitions are driven by admin actions.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusCompleted  Status = "completed"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case StatusPending.String():
		return StatusPending, nil
	case StatusProcessing.String():
		return StatusProcessing, nil
	case StatusShipped.String():
		return StatusShipped, nil
	case StatusDelivered.String():
		return StatusDelivered, nil
	case StatusCancelled.String():
		return StatusCancelled, nil
	case StatusCompleted.String():
		return StatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}
