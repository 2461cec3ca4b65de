package service

import "strings"

const payloadDelimiter = "|"

// ParseScanPayload разбирает QR-код вида "employeeId|employeeName".
// Лишние сегменты после второго игнорируются.
func ParseScanPayload(payload string) (employeeID, employeeName string, err error) {
	if !strings.Contains(payload, payloadDelimiter) {
		return "", "", ErrInvalidPayload
	}

	parts := strings.Split(payload, payloadDelimiter)
	employeeID = strings.TrimSpace(parts[0])
	employeeName = strings.TrimSpace(parts[1])

	if employeeID == "" {
		return "", "", ErrInvalidPayload
	}

	return employeeID, employeeName, nil
}
