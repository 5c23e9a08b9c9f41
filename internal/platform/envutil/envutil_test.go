package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	t.Setenv("SF_TEST_DUR", "")
	if got := Duration("SF_TEST_DUR", 3*time.Second); got != 3*time.Second {
		t.Fatalf("default: got %v", got)
	}
	t.Setenv("SF_TEST_DUR", "7")
	if got := Duration("SF_TEST_DUR", 0); got != 7*time.Second {
		t.Fatalf("seconds: got %v", got)
	}
	t.Setenv("SF_TEST_DUR", "250ms")
	if got := Duration("SF_TEST_DUR", 0); got != 250*time.Millisecond {
		t.Fatalf("parse: got %v", got)
	}
	t.Setenv("SF_TEST_DUR", "soon")
	if got := Duration("SF_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("invalid: got %v", got)
	}
}

func TestListAndBool(t *testing.T) {
	t.Setenv("SF_TEST_LIST", " log, ,redis ")
	got := List("SF_TEST_LIST")
	if len(got) != 2 || got[0] != "log" || got[1] != "redis" {
		t.Fatalf("list: %v", got)
	}
	t.Setenv("SF_TEST_BOOL", "yes")
	if !Bool("SF_TEST_BOOL", false) {
		t.Fatalf("bool yes")
	}
	t.Setenv("SF_TEST_BOOL", "")
	if !Bool("SF_TEST_BOOL", true) {
		t.Fatalf("bool default")
	}
}
