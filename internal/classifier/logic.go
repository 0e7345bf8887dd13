package classifier

import (
	"errors"
	"fmt"
)

// Logic selects one of the three interchangeable classification strategies.
type Logic int

const (
	LogicNone Logic = iota
	Logic1
	Logic2
	Logic3
)

var ErrUnknownLogic = errors.New("unknown logic")

// Logics lists the selectable strategies in toggle order.
var Logics = []Logic{Logic1, Logic2, Logic3}

func ParseLogic(n int) (Logic, error) {
	l := Logic(n)
	if l < Logic1 || l > Logic3 {
		return LogicNone, fmt.Errorf("%w: %d", ErrUnknownLogic, n)
	}
	return l, nil
}

func (l Logic) String() string {
	if l == LogicNone {
		return "none"
	}
	return fmt.Sprintf("logic%d", int(l))
}

func (l Logic) Endpoint() string {
	return "/execute_" + l.String()
}
