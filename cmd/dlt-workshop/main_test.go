package main

import (
	"fmt"
	"sync"
	"testing"
)

func TestProgressLabelConcurrentAccess(t *testing.T) {
	var label progressLabel
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			label.Set(fmt.Sprintf("dataset-%d", i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = label.Get()
		}
	}()
	wg.Wait()

	if got := label.Get(); got != "dataset-999" {
		t.Fatalf("final label = %q", got)
	}
}

func TestProgressLabelEmptyBeforeFirstSet(t *testing.T) {
	var label progressLabel
	if got := label.Get(); got != "" {
		t.Fatalf("unset label = %q", got)
	}
}

func TestShortID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0c9a1f2e-77aa-4f5e-9d0b-1f2e3d4c5b6a", "0c9a1f2e"},
		{"12345678", "12345678"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, c := range cases {
		if got := shortID(c.in); got != c.want {
			t.Errorf("shortID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
