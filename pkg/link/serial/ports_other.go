// +build !linux,!darwin,!windows

package serial

// portNames has no enumeration support on this platform.
func portNames() ([]string, error) {
	return nil, nil
}
