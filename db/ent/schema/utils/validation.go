package utils

import "fmt"

// EnumValidator builds a field validator restricting a string field to a
// fixed value set.
func EnumValidator(allowed ...string) func(string) error {
	set := map[string]struct{}{}
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(s string) error {
		if _, ok := set[s]; ok {
			return nil
		}
		return fmt.Errorf("value %q not in %v", s, allowed)
	}
}
