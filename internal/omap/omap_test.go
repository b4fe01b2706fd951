package omap

import (
	"reflect"
	"testing"
)

func eqInt(a, b int) bool { return a == b }

func TestAddPreservesOrder(t *testing.T) {
	o := New[string, int]().Add("a", 1).Add("b", 2).Add("c", 3)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(o.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", o.Keys(), want)
	}
	if !reflect.DeepEqual(o.Values(), []int{1, 2, 3}) {
		t.Errorf("Values() = %v", o.Values())
	}
	if !o.Equal(From(want, []int{1, 2, 3}), eqInt) {
		t.Errorf("From should build the same map")
	}
}

func TestAddIdempotentOnKey(t *testing.T) {
	once := New[string, int]().Add("a", 1)
	twice := once.Add("a", 1)
	if !once.Equal(twice, eqInt) {
		t.Errorf("add(k,v).add(k,v) should equal add(k,v)")
	}
}

func TestUpdateKeepsPosition(t *testing.T) {
	o := New[string, int]().Add("a", 1).Add("b", 2).Add("a", 10)
	if !reflect.DeepEqual(o.Keys(), []string{"a", "b"}) {
		t.Errorf("update must keep first-seen position, got %v", o.Keys())
	}
	if v, _ := o.Get("a"); v != 10 {
		t.Errorf("updated value = %d, want 10", v)
	}
}

func TestAddDoesNotMutateReceiver(t *testing.T) {
	base := New[string, int]().Add("a", 1)
	_ = base.Add("b", 2)
	if base.Len() != 1 {
		t.Errorf("Add mutated the receiver, len = %d", base.Len())
	}
}

func TestDiscard(t *testing.T) {
	o := New[string, int]().Add("a", 1).Add("b", 2).Add("c", 3)
	got := o.Discard("b")
	if !reflect.DeepEqual(got.Keys(), []string{"a", "c"}) {
		t.Errorf("Discard keys = %v", got.Keys())
	}
	if !o.Discard("zzz").Equal(o, eqInt) {
		t.Errorf("discarding an absent key should return an equal map")
	}
}

func TestMerge(t *testing.T) {
	a := New[string, int]().Add("a", 1).Add("b", 2)
	b := New[string, int]().Add("b", 20).Add("c", 30)
	got := a.Merge(b)
	if !reflect.DeepEqual(got.Keys(), []string{"a", "b", "c"}) {
		t.Errorf("Merge keys = %v", got.Keys())
	}
	if v, _ := got.Get("b"); v != 20 {
		t.Errorf("Merge should take other's value, got %d", v)
	}
}

func TestSlice(t *testing.T) {
	o := New[string, int]().Add("a", 1).Add("b", 2).Add("c", 3)
	got := o.Slice(1, 3)
	if !reflect.DeepEqual(got.Keys(), []string{"b", "c"}) {
		t.Errorf("Slice keys = %v", got.Keys())
	}
	if !o.Slice(0, 99).Equal(o, eqInt) {
		t.Errorf("an over-wide slice should equal the source")
	}
}

func TestEqual(t *testing.T) {
	a := New[string, int]().Add("a", 1).Add("b", 2)
	b := New[string, int]().Add("a", 1).Add("b", 2)
	c := New[string, int]().Add("b", 2).Add("a", 1)
	if !a.Equal(b, eqInt) {
		t.Errorf("same entries in same order should be equal")
	}
	if a.Equal(c, eqInt) {
		t.Errorf("key order is part of equality")
	}
}
