package serial

import "golang.org/x/sys/windows/registry"

// portNames lists serial devices from the SERIALCOMM registry key. A
// missing key means no serial hardware is installed.
func portNames() ([]string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`HARDWARE\DEVICEMAP\SERIALCOMM`, registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil, nil
		}
		return nil, err
	}
	defer key.Close()
	valueNames, err := key.ReadValueNames(-1)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, valueName := range valueNames {
		if port, _, err := key.GetStringValue(valueName); err == nil {
			names = append(names, port)
		}
	}
	return names, nil
}
