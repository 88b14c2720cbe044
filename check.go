package argtable

import (
	"errors"
	"fmt"
	"slices"
)

// namespaceKey identifies a (stage, kind) slot namespace.
type namespaceKey struct {
	stage Stage
	kind  Kind
}

func (k namespaceKey) String() string {
	return k.stage.String() + "/" + k.kind.String()
}

// CheckTable verifies that bs is a valid argument table: names are unique,
// and within every (stage, kind) namespace the values are unique and cover
// 0..k-1 without gaps. All violations are reported, joined.
//
// The built-in table is checked by passing [Bindings].
func CheckTable(bs []Binding) error {
	var errs []error

	names := make(map[string]struct{}, len(bs))
	groups := make(map[namespaceKey][]Binding)
	var order []namespaceKey

	for _, b := range bs {
		if _, dup := names[b.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateName, b.Name))
		}
		names[b.Name] = struct{}{}

		key := namespaceKey{stage: b.Stage, kind: b.Kind}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], b)
	}

	for _, key := range order {
		errs = append(errs, checkNamespace(key, groups[key])...)
	}

	return errors.Join(errs...)
}

// checkNamespace checks uniqueness and contiguity of one namespace.
func checkNamespace(key namespaceKey, bs []Binding) []error {
	var errs []error

	seen := make(map[uint32]string, len(bs))
	for _, b := range bs {
		if prev, dup := seen[b.Value]; dup {
			errs = append(errs, fmt.Errorf("%w: %s slot %d used by %q and %q",
				ErrDuplicateSlot, key, b.Value, prev, b.Name))
			continue
		}
		seen[b.Value] = b.Name
	}

	values := make([]uint32, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	slices.Sort(values)
	for i, v := range values {
		if v != uint32(i) {
			errs = append(errs, fmt.Errorf("%w: %s expected slot %d, found %d",
				ErrSlotGap, key, i, v))
			break
		}
	}

	return errs
}
