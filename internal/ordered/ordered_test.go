package ordered

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestKeys(t *testing.T) {
	m := map[string]int{"pear": 1, "apple": 2, "fig": 3}
	want := []string{"apple", "fig", "pear"}
	for i := 0; i < 10; i++ {
		if got := Keys(m); !reflect.DeepEqual(got, want) {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}

func TestKeysFunc(t *testing.T) {
	type name struct{ space, local string }
	m := map[name]bool{{"b", "x"}: true, {"a", "z"}: true, {"a", "y"}: true}
	got := KeysFunc(m, func(a, b name) int {
		if c := strings.Compare(a.space, b.space); c != 0 {
			return c
		}
		return strings.Compare(a.local, b.local)
	})
	want := []name{{"a", "y"}, {"a", "z"}, {"b", "x"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeysFunc() = %v, want %v", got, want)
	}
}

func TestRange(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	var seen []string
	stop := errors.New("stop")
	err := Range(m, func(k string, v int) error {
		seen = append(seen, k)
		if v == 2 {
			return stop
		}
		return nil
	})
	if err != stop {
		t.Errorf("Range returned %v, want %v", err, stop)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("visited %v, want %v", seen, want)
	}
}
