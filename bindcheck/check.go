package bindcheck

import (
	"errors"
	"fmt"

	"github.com/gogpu/argtable"
)

var (
	// ErrUnknownSlot means the shader declares a slot the table does not define.
	ErrUnknownSlot = errors.New("bindcheck: slot not in binding table")

	// ErrNameMismatch means the slot exists but the table assigns it to
	// another argument, usually two swapped slots.
	ErrNameMismatch = errors.New("bindcheck: slot bound to a different argument")

	// ErrGroupMismatch means a resource sits outside the bind group of its kind.
	ErrGroupMismatch = errors.New("bindcheck: resource in wrong bind group")

	// ErrInvalidModule is returned when the lowered module has dangling handles.
	ErrInvalidModule = errors.New("bindcheck: invalid module")
)

// MismatchError reports one declaration that disagrees with the table.
type MismatchError struct {
	Declaration Declaration

	// Want is the table entry at the declared slot, if any.
	Want *argtable.Binding

	// Err is one of ErrUnknownSlot, ErrNameMismatch or ErrGroupMismatch.
	Err error
}

func (e *MismatchError) Error() string {
	if e.Want != nil {
		return fmt.Sprintf("%v: %s (table: %s = %d, shader name %q)",
			e.Err, e.Declaration, e.Want.Name, e.Want.Value, e.Want.ShaderName)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Declaration)
}

func (e *MismatchError) Unwrap() error { return e.Err }

// Check compares every declaration of r with the binding table.
// All mismatches are returned, joined; use errors.As to get each
// *MismatchError. Table entries r never declares are not an error since a
// shader may use a subset of the table; they are logged at debug level.
func Check(r *Reflection) error {
	return check(r, argtable.Bindings())
}

// CheckSource reflects source and checks it against the binding table.
func CheckSource(source string) error {
	r, err := Reflect(source)
	if err != nil {
		return err
	}
	return Check(r)
}

type slotKey struct {
	stage argtable.Stage
	kind  argtable.Kind
	slot  uint32
}

func check(r *Reflection, table []argtable.Binding) error {
	bySlot := make(map[slotKey]argtable.Binding, len(table))
	for _, b := range table {
		bySlot[slotKey{stage: b.Stage, kind: b.Kind, slot: b.Value}] = b
	}

	used := make(map[slotKey]bool, len(table))
	var errs []error
	for _, d := range r.Declarations {
		key := slotKey{stage: d.Stage, kind: d.Kind, slot: d.Slot}
		want, ok := bySlot[key]
		if !ok {
			errs = append(errs, &MismatchError{Declaration: d, Err: ErrUnknownSlot})
			continue
		}
		used[key] = true

		if d.Name != want.ShaderName {
			errs = append(errs, &MismatchError{Declaration: d, Want: &want, Err: ErrNameMismatch})
			continue
		}
		if d.Stage == argtable.StageFragment {
			group, err := argtable.Group(d.Kind)
			if err == nil && group != d.Group {
				errs = append(errs, &MismatchError{Declaration: d, Want: &want, Err: ErrGroupMismatch})
			}
		}
	}

	log := argtable.Logger()
	for key, b := range bySlot {
		if !used[key] {
			log.Debug("bindcheck: table entry not declared by shader",
				"name", b.Name, "stage", b.Stage.String(), "kind", b.Kind.String(), "slot", b.Value)
		}
	}

	return errors.Join(errs...)
}

// Mismatches unpacks the *MismatchError values joined in err.
func Mismatches(err error) []*MismatchError {
	if err == nil {
		return nil
	}
	var out []*MismatchError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, Mismatches(e)...)
		}
		return out
	}
	var m *MismatchError
	if errors.As(err, &m) {
		out = append(out, m)
	}
	return out
}
