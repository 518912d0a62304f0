package domain

import (
	"reflect"
	"testing"
)

func TestKeySetLookupFirstMatchWins(t *testing.T) {
	set := KeySet{Keys: []SigningKey{
		{KeyID: "a", Modulus: "first"},
		{KeyID: "b", Modulus: "other"},
		{KeyID: "a", Modulus: "second"},
	}}
	key, ok := set.Lookup("a")
	if !ok {
		t.Fatal("expected key a")
	}
	if key.Modulus != "first" {
		t.Fatalf("expected first match, got %q", key.Modulus)
	}
	if _, ok := set.Lookup("missing"); ok {
		t.Fatal("unexpected match")
	}
	if _, ok := set.Lookup(""); ok {
		t.Fatal("empty kid must not match")
	}
	if got := set.Duplicates(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("unexpected duplicates: %v", got)
	}
}

func TestPermissionSetIntersects(t *testing.T) {
	required := Permissions(PermDeleteMovies)
	if !required.IntersectsWith([]string{PermGetMovies, PermDeleteMovies}) {
		t.Fatal("expected intersection")
	}
	if required.IntersectsWith([]string{PermGetMovies}) {
		t.Fatal("unexpected intersection")
	}
	if Permissions(PermGetActors, PermGetMovies).IntersectsWith([]string{PermGetMovies}) == false {
		t.Fatal("any listed permission should satisfy the set")
	}
	if required.IntersectsWith(nil) {
		t.Fatal("nil grants never intersect")
	}
}
