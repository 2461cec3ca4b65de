package service

import "errors"

// DomainError — ожидаемый отказ, который возвращается клиенту как данные, а не как сбой
type DomainError struct {
	msg string
}

func (e *DomainError) Error() string {
	return e.msg
}

var (
	ErrInvalidPayload    = &DomainError{"Invalid QR payload"}
	ErrInvalidScanType   = &DomainError{"Invalid scan type"}
	ErrInvalidDate       = &DomainError{"Invalid date"}
	ErrAlreadyClockedIn  = &DomainError{"Already clocked in today"}
	ErrClockInNotFound   = &DomainError{"Clock In not found"}
	ErrAlreadyClockedOut = &DomainError{"Already clocked out"}
)

func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}
