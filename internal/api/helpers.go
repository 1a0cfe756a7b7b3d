package api

import (
	"slices"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/krishiapp/krishi-settings/internal/domain"
	domainerrors "github.com/krishiapp/krishi-settings/internal/errors"
)

// parseField resolves a path segment to a known field for reads. Writes
// leave unknown names to the engine, which reports them as VALIDATION.
func parseField(name string) (domain.Field, error) {
	f := domain.Field(name)
	if !f.Known() {
		return "", domainerrors.NotFoundf("unknown setting %q", name)
	}
	return f, nil
}

// fieldNames returns the set members sorted, never nil.
func fieldNames(set mapset.Set[domain.Field]) []string {
	names := make([]string, 0, set.Cardinality())
	for _, f := range set.ToSlice() {
		names = append(names, string(f))
	}
	slices.Sort(names)
	return names
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
