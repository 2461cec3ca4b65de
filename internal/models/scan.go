package models

import "strings"

type ScanType string

const (
	ScanIn  ScanType = "IN"
	ScanOut ScanType = "OUT"
)

func (t ScanType) Valid() bool {
	return t == ScanIn || t == ScanOut
}

// ParseScanType принимает "in"/"out" в любом регистре
func ParseScanType(s string) ScanType {
	return ScanType(strings.ToUpper(strings.TrimSpace(s)))
}

type RecordState string

// Состояния записи за день
const (
	StateNone RecordState = "none" // не отмечался
	StateIn   RecordState = "in"   // на работе
	StateOut  RecordState = "out"  // день закрыт
)
