package validation

import (
	"fmt"

	"github.com/oaps-dev/oaps/internal/oapserrors"
)

// NotReferenced validates that nothing refers to id, unless force is
// set. refsTo is called lazily so callers that already hold an index
// in memory can look it up without a second pass.
func NotReferenced(id string, force bool, refsTo func(id string) []string) error {
	if force {
		return nil
	}
	refs := refsTo(id)
	if len(refs) == 0 {
		return nil
	}
	return &oapserrors.ReferentialIntegrityError{
		Reason:      fmt.Sprintf("artifact %s is referenced by other artifacts", id),
		ReferringBy: refs,
	}
}
