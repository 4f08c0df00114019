package gamestate

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
)

func TestIntegrityHashDeterministic(t *testing.T) {
	secret := []byte("test-secret")
	state := json.RawMessage(`{"board":[1,0,2,3]}`)

	first, err := IntegrityHash(secret, state, "30", "en")
	if err != nil {
		t.Fatalf("IntegrityHash: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := IntegrityHash(secret, state, "30", "en")
		if err != nil {
			t.Fatalf("IntegrityHash: %v", err)
		}
		if again != first {
			t.Fatalf("hash not deterministic: %s != %s", again, first)
		}
	}

	if !VerifyIntegrityHash(secret, state, "30", "en", first) {
		t.Fatal("VerifyIntegrityHash rejected its own hash")
	}
}

func TestIntegrityHashFieldSensitivity(t *testing.T) {
	secret := []byte("test-secret")
	state := json.RawMessage(`{"board":[1,0,2,3]}`)

	base, err := IntegrityHash(secret, state, "30", "en")
	if err != nil {
		t.Fatalf("IntegrityHash: %v", err)
	}

	mutations := []struct {
		name    string
		state   json.RawMessage
		variant string
		params  string
	}{
		{"state", json.RawMessage(`{"board":[0,1,2,3]}`), "30", "en"},
		{"variant", state, "60", "en"},
		{"params", state, "30", "ru"},
	}
	for _, m := range mutations {
		got, err := IntegrityHash(secret, m.state, m.variant, m.params)
		if err != nil {
			t.Fatalf("IntegrityHash(%s): %v", m.name, err)
		}
		if got == base {
			t.Errorf("mutating %s did not change the hash", m.name)
		}
	}

	other, err := IntegrityHash([]byte("other-secret"), state, "30", "en")
	if err != nil {
		t.Fatalf("IntegrityHash: %v", err)
	}
	if other == base {
		t.Error("different secret produced the same hash")
	}
}

func TestIntegrityHashNoCollisionsAcrossRandomStates(t *testing.T) {
	secret := []byte("test-secret")
	seen := make(map[string]string, 1000)
	for i := 0; i < 1000; i++ {
		board := make([]int, 8)
		for j := range board {
			board[j] = rand.Intn(1000)
		}
		state, err := json.Marshal(map[string][]int{"board": board})
		if err != nil {
			t.Fatal(err)
		}
		hash, err := IntegrityHash(secret, state, "", "")
		if err != nil {
			t.Fatalf("IntegrityHash: %v", err)
		}
		key := fmt.Sprintf("%v", board)
		if prev, dup := seen[hash]; dup && prev != key {
			t.Fatalf("hash collision between %s and %s", prev, key)
		}
		seen[hash] = key
	}
}
