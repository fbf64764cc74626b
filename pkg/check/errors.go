package check

import "fmt"

// ConfigError is a fatal configuration problem detected before any mount is evaluated.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// InventoryError reports that the filesystem inventory could not be read.
// MountPoint is empty when enumeration itself failed.
type InventoryError struct {
	MountPoint string
	Err        error
}

func (e *InventoryError) Error() string {
	if e.MountPoint == "" {
		return fmt.Sprintf("cannot enumerate mounts: %v", e.Err)
	}
	return fmt.Sprintf("cannot stat %s: %v", e.MountPoint, e.Err)
}

func (e *InventoryError) Unwrap() error { return e.Err }
