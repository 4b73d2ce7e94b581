package settings

import "fmt"

type UnknownThemeModeError struct {
	Mode string
}

func (err UnknownThemeModeError) Error() string {
	return fmt.Sprintf("unknown theme mode %q", err.Mode)
}
