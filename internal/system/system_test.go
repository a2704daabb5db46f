package system

import "testing"

func TestWorkersAtLeastOne(t *testing.T) {
	for _, req := range []int{-4, 0, 1} {
		if got := Workers(req, 1920, 1080); got < 1 {
			t.Errorf("Workers(%d) = %d, expected at least 1", req, got)
		}
	}
}

func TestWorkersNeverExceedsRequest(t *testing.T) {
	if got := Workers(2, 1280, 720); got > 2 {
		t.Errorf("Workers(2) = %d, must not exceed the request", got)
	}
	if got := Workers(1, 2560, 1440); got != 1 {
		t.Errorf("Workers(1) = %d, expected exactly 1", got)
	}
}

func TestWorkersZeroCanvas(t *testing.T) {
	if got := Workers(1, 0, 0); got != 1 {
		t.Errorf("Workers with empty canvas = %d, expected 1", got)
	}
}
