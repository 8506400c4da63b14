//go:build windows

package taskschd

import (
	"strings"

	"golang.org/x/sys/windows"

	"github.com/ngenohkevin/taskdeck-agent/internal/tasks"
)

// Message renders a task result code the way the system describes it.
// Codes in the IDispatch range and codes the system has no text for fall
// back to tasks.FallbackMessage.
func Message(code int32) string {
	if tasks.IsDispatchError(code) {
		return tasks.FallbackMessage(code)
	}

	buf := make([]uint16, 512)
	n, err := windows.FormatMessage(
		windows.FORMAT_MESSAGE_FROM_SYSTEM|windows.FORMAT_MESSAGE_IGNORE_INSERTS,
		0, uint32(code), 0, buf, nil)
	if err != nil || n == 0 {
		return tasks.FallbackMessage(code)
	}

	msg := strings.TrimRight(windows.UTF16ToString(buf[:n]), "\r\n ")
	if msg == "" {
		return tasks.FallbackMessage(code)
	}
	return msg
}
