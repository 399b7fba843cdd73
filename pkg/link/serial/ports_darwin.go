package serial

import "path/filepath"

// portNames lists serial devices, both dial-in (tty) and callout (cu)
// nodes.
func portNames() ([]string, error) {
	var names []string
	seen := make(map[string]struct{})
	for _, pattern := range []string{"/dev/tty.*", "/dev/cu.*"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, device := range matches {
			if _, ok := seen[device]; ok {
				continue
			}
			seen[device] = struct{}{}
			names = append(names, device)
		}
	}
	return names, nil
}
