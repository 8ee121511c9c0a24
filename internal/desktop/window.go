package desktop

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// WindowID is an X11 window id.
type WindowID uint32

func (id WindowID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Hex renders the id the way wmctrl lists windows.
func (id WindowID) Hex() string {
	return fmt.Sprintf("0x%08x", uint32(id))
}

// ParseWindowID accepts decimal or 0x-prefixed hex.
func ParseWindowID(value string) (WindowID, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", value)
	}
	return WindowID(parsed), nil
}

// parseWindowIDs reads one id per line, skipping blank lines.
func parseWindowIDs(output []byte) ([]WindowID, error) {
	var ids []WindowID
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := ParseWindowID(line)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, scanner.Err()
}
