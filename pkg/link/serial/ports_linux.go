package serial

import (
	"os"
	"path/filepath"
)

var portGlobs = []string{
	"/dev/ttyS*",
	"/dev/ttyUSB*",
	"/dev/ttyXRUSB*",
	"/dev/ttyACM*",
	"/dev/ttyAMA*",
	"/dev/rfcomm*",
	"/dev/ttyAP*",
}

// portNames lists serial devices backed by real hardware. Matches
// under /dev are kept only when /sys/class/tty exposes a device link,
// which filters out the dummy ttyS entries.
func portNames() ([]string, error) {
	var names []string
	for _, pattern := range portGlobs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, device := range matches {
			sysPath := filepath.Join("/sys/class/tty", filepath.Base(device), "device")
			if _, err := os.Stat(sysPath); err == nil {
				names = append(names, device)
			}
		}
	}
	return names, nil
}
