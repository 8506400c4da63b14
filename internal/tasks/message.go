package tasks

import "fmt"

// IDispatch error range (FACILITY_ITF)
const (
	dispatchErrorFirst uint32 = 0x80040200
	dispatchErrorLast  uint32 = 0x8004FFFF
)

// FallbackMessage renders a result code without consulting the system
// message table. It is also used when the system has no message for code.
func FallbackMessage(code int32) string {
	u := uint32(code)
	switch {
	case u == 0:
		return "No error"
	case IsDispatchError(code):
		return fmt.Sprintf("IDispatch error #%d", u-dispatchErrorFirst)
	default:
		return fmt.Sprintf("Unknown error 0x%08X", u)
	}
}

// IsDispatchError reports whether code is an application-defined IDispatch
// error, which has no entry in the system message table
func IsDispatchError(code int32) bool {
	u := uint32(code)
	return u >= dispatchErrorFirst && u <= dispatchErrorLast
}
