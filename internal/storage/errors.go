package storage

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrCustomerNotFound        = errors.New("customer does not exist")
	ErrServiceNotFound         = errors.New("service does not exist")
	ErrCustomerHasAppointments = errors.New("customer still has appointments")
)
