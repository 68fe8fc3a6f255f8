package binding

import (
	"errors"

	"github.com/goliatone/go-binding/pkg/accessor"
	"github.com/goliatone/go-binding/pkg/expr"
)

// TryGetValue walks the chain from root and returns the leaf value. A nil
// anywhere along the way, or a member that cannot be accessed, yields
// (nil, false); null in the middle of a chain is an expected outcome, not
// a bug.
func TryGetValue(root any, chain expr.Chain) (any, bool) {
	current := root
	for _, link := range chain {
		v, err := getLink(current, link)
		if err != nil {
			return nil, false
		}
		current = v
	}
	// A reachable nil leaf still counts as a value.
	return current, true
}

// TryGetAllValues resolves every link of the chain, returning one
// ObservedChange per link: the object the link was read from and the value
// it produced. Resolution stops at the first nil intermediate, returning
// the changes collected so far and false.
func TryGetAllValues(root any, chain expr.Chain) ([]ObservedChange, bool) {
	changes := make([]ObservedChange, 0, len(chain))
	current := root
	for i, link := range chain {
		if isNil(current) {
			return changes, false
		}
		v, err := getLink(current, link)
		if err != nil {
			return changes, false
		}
		changes = append(changes, ObservedChange{Sender: current, Link: link, Value: v})
		if isNil(v) && i < len(chain)-1 {
			return changes, false
		}
		current = v
	}
	return changes, true
}

// TrySetValue walks all links but the last to locate the owner of the
// final link, then applies the setter. A nil intermediate returns
// (false, nil) regardless of shouldThrow. A member that cannot be accessed
// returns (false, nil) when shouldThrow is unset, or (false, error) with a
// MissingMemberError when it is.
func TrySetValue(root any, chain expr.Chain, value any, shouldThrow bool) (bool, error) {
	if len(chain) == 0 {
		return false, nil
	}
	owner := root
	for _, link := range chain[:len(chain)-1] {
		v, err := getLink(owner, link)
		if err != nil {
			if isMissingMember(err) && shouldThrow {
				return false, err
			}
			return false, nil
		}
		owner = v
	}
	if isNil(owner) {
		return false, nil
	}

	last := chain[len(chain)-1]
	if err := setLink(owner, last, value); err != nil {
		if errors.Is(err, errAbsent) {
			return false, nil
		}
		if shouldThrow {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func isMissingMember(err error) bool {
	var mm *accessor.MissingMemberError
	return errors.As(err, &mm)
}
