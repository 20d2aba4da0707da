package main

import (
	"errors"
	"sort"

	"github.com/delique1984/Experience5-privacy/checks"
)

func asWarning(err error, w **checks.ComputationWarning) bool {
	return err != nil && errors.As(err, w)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
