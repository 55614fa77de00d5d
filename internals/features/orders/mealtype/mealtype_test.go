package mealtype

import (
	"reflect"
	"testing"
)

func TestOptions(t *testing.T) {
	got := Options([]string{"カレー", " ", "パン", "カレー", "通常", "誕生会"})
	want := []string{"通常", "カレー", "パン", "誕生会", "飯なし"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Options = %v, want %v", got, want)
	}
	if got := Options(nil); !reflect.DeepEqual(got, []string{Normal, NoMeal}) {
		t.Fatalf("Options(nil) = %v", got)
	}
}

func TestNext_Cycles(t *testing.T) {
	opts := Options([]string{"カレー", "パン"})
	cur := Normal
	seq := []string{"カレー", "パン", "飯なし", "通常"}
	for _, want := range seq {
		cur = Next(cur, opts)
		if cur != want {
			t.Fatalf("Next = %s, want %s", cur, want)
		}
	}
}

func TestNext_UnknownAndEmpty(t *testing.T) {
	if got := Next("ラーメン", []string{"通常", "飯なし"}); got != "通常" {
		t.Fatalf("unknown current → %s", got)
	}
	if got := Next("x", nil); got != Normal {
		t.Fatalf("empty options → %s", got)
	}
}

func TestIsAllowed(t *testing.T) {
	services := []string{"カレー"}
	for _, mt := range []string{"通常", "カレー", "飯なし"} {
		if !IsAllowed(mt, services) {
			t.Fatalf("%s should be allowed", mt)
		}
	}
	if IsAllowed("パン", services) {
		t.Fatal("パン should not be allowed")
	}
}
