package narrative

import "testing"

// makeScenes builds n scenes with IDs 1..n and no characters.
func makeScenes(n int) []Scene {
	scenes := make([]Scene, n)
	for i := range scenes {
		scenes[i] = Scene{ID: i + 1, Title: "Scene", Description: "Something happens."}
	}
	return scenes
}

// scenesWithIDs builds scenes with the given IDs, in order.
func scenesWithIDs(ids ...int) []Scene {
	scenes := make([]Scene, len(ids))
	for i, id := range ids {
		scenes[i] = Scene{ID: id}
	}
	return scenes
}

func intPtr(v int) *int { return &v }

func assertIntPtr(t *testing.T, name string, got *int, want int) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %d", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %d, want %d", name, *got, want)
	}
}

func assertInts(t *testing.T, name string, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", name, got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}
