// Package ble implements the boundary behind the BLE characteristics: field
// validation, the error-code taxonomy, read-modify-write config updates and
// the status document. The GATT plumbing itself lives outside this package;
// everything here is transport-agnostic and is shared with the local HTTP
// API.
package ble

// ErrorCode is the small integer taxonomy reported through the error
// characteristic. Code 0 means success.
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrInvalidFormat
	ErrOutOfRange
	ErrInvalidValue
	ErrInternal
	ErrWifiInvalidSSID
	ErrWifiInvalidPassword
	ErrWifiConnectionFailed
	ErrWifiNoHardware
)

func (e ErrorCode) String() string {
	switch e {
	case ErrNone:
		return "success"
	case ErrInvalidFormat:
		return "invalid format"
	case ErrOutOfRange:
		return "value out of range"
	case ErrInvalidValue:
		return "invalid value"
	case ErrInternal:
		return "internal error"
	case ErrWifiInvalidSSID:
		return "invalid wifi ssid"
	case ErrWifiInvalidPassword:
		return "invalid wifi password"
	case ErrWifiConnectionFailed:
		return "wifi connection failed"
	case ErrWifiNoHardware:
		return "no wifi hardware"
	default:
		return "unknown error"
	}
}
