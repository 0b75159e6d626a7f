package assert

import (
	"math"
	"reflect"
	"testing"
)

// Equal errors if actual is not equal to expected.  Integers of differing
// types are considered equal if they hold the same (signed) value.
func Equal(t *testing.T, expected, actual any, msg ...any) {
	t.Helper()
	//
	if reflect.DeepEqual(expected, actual) || intEqual(expected, actual) {
		return
	}
	//
	t.Errorf("expected: %v, actual: %v", expected, actual)
	fail(t, msg...)
}

// True errors if the given condition does not hold.
func True(t *testing.T, cond bool, msg ...any) {
	t.Helper()
	//
	if !cond {
		t.Errorf("expected condition to hold")
		fail(t, msg...)
	}
}

// False errors if the given condition holds.
func False(t *testing.T, cond bool, msg ...any) {
	t.Helper()
	//
	if cond {
		t.Errorf("expected condition not to hold")
		fail(t, msg...)
	}
}

// NoError errors if err is not nil.
func NoError(t *testing.T, err error, msg ...any) {
	t.Helper()
	//
	if err != nil {
		t.Errorf("unexpected error: %v", err)
		fail(t, msg...)
	}
}

// Error errors if err is nil.
func Error(t *testing.T, err error, msg ...any) {
	t.Helper()
	//
	if err == nil {
		t.Errorf("expected an error")
		fail(t, msg...)
	}
}

func fail(t *testing.T, msg ...any) {
	t.Helper()
	//
	if len(msg) != 0 {
		t.Errorf(msg[0].(string), msg[1:]...)
	}
	//
	t.FailNow()
}

// intEqual returns whether expected and actual are both integers and whether
// they are equal if that is the case.
func intEqual(expected, actual any) bool {
	a, aok := asInt64(expected)
	b, bok := asInt64(actual)
	//
	return aok && bok && a == b
}

// asInt64 tries to convert x to an int64, reporting whether this was possible.
func asInt64(x any) (int64, bool) {
	switch x := x.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), true
		}
	}
	//
	return 0, false
}
