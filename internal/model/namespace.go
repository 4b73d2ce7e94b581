package model

import "regexp"

var namespaceRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

func ValidateNamespace(name string) error {
	if !namespaceRe.MatchString(name) {
		return InvalidNamespaceError{Name: name}
	}
	return nil
}
