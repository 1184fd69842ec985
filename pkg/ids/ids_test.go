package ids

import "testing"

func TestTokenIDString(t *testing.T) {
	id := TokenID{Shard: 0, Realm: 0, Num: 9090}
	if got, want := id.String(), "0.0.9090"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestTokenIDEqual(t *testing.T) {
	a := TokenID{Shard: 0, Realm: 0, Num: 9090}
	b := TokenID{Shard: 0, Realm: 0, Num: 9090}
	c := TokenID{Shard: 0, Realm: 0, Num: 1}

	if !a.Equal(b) {
		t.Error("expected a.Equal(b) to be true")
	}
	if a.Equal(c) {
		t.Error("expected a.Equal(c) to be false")
	}
}

func TestAccountIDEqual(t *testing.T) {
	a := AccountID{Num: 1001}
	b := AccountID{Num: 1001}
	c := AccountID{Num: 1002}

	if !a.Equal(b) {
		t.Error("expected a.Equal(b) to be true")
	}
	if a.Equal(c) {
		t.Error("expected a.Equal(c) to be false")
	}
}
