package client

import "testing"

func seq(names ...string) []Pet {
	out := make([]Pet, len(names))
	for i, n := range names {
		out[i] = Pet{ID: "id-" + n, Name: n}
	}
	return out
}

func TestApply_Add(t *testing.T) {
	base := seq("a", "b")
	got := Apply(base, Command{Op: OpAdd, ID: "tmp-1-1", Pet: Pet{ID: "tmp-1-1", Name: "c"}})

	if len(got) != 3 || got[2].ID != "tmp-1-1" {
		t.Fatalf("add not appended: %+v", got)
	}
	if len(base) != 2 {
		t.Fatalf("input slice mutated: %+v", base)
	}
}

func TestApply_Edit(t *testing.T) {
	base := seq("a", "b")
	got := Apply(base, Command{Op: OpEdit, ID: "id-b", Fields: Fields{Name: "b2", OwnerName: "o", Age: 5}})

	if got[1].Name != "b2" || got[1].Age != 5 {
		t.Fatalf("edit not applied: %+v", got[1])
	}
	if got[0].Name != "a" {
		t.Fatalf("edit leaked onto other records: %+v", got[0])
	}
	if base[1].Name != "b" {
		t.Fatal("input slice mutated")
	}
	if got[1].ID != "id-b" {
		t.Fatal("edit must not change the id")
	}
}

func TestApply_Delete(t *testing.T) {
	base := seq("a", "b", "c")
	got := Apply(base, Command{Op: OpDelete, ID: "id-b"})

	if len(got) != 2 || got[0].ID != "id-a" || got[1].ID != "id-c" {
		t.Fatalf("delete wrong: %+v", got)
	}
	if len(base) != 3 {
		t.Fatal("input slice mutated")
	}
}

func TestApply_EditUnknownIDIsNoop(t *testing.T) {
	base := seq("a")
	got := Apply(base, Command{Op: OpEdit, ID: "id-missing", Fields: Fields{Name: "x"}})
	if got[0].Name != "a" {
		t.Fatalf("edit of unknown id must not touch anything: %+v", got)
	}
}

func TestReduce_AppliesInIssueOrder(t *testing.T) {
	snapshot := seq("a")
	pending := []Command{
		{Op: OpAdd, ID: "tmp-1-1", Pet: Pet{ID: "tmp-1-1", Name: "b"}},
		{Op: OpEdit, ID: "tmp-1-1", Fields: Fields{Name: "b2"}},
		{Op: OpDelete, ID: "id-a"},
	}

	got := Reduce(snapshot, pending)
	if len(got) != 1 || got[0].ID != "tmp-1-1" || got[0].Name != "b2" {
		t.Fatalf("reduction wrong: %+v", got)
	}
	if snapshot[0].Name != "a" {
		t.Fatal("snapshot mutated")
	}
}

func TestPlaceholderID(t *testing.T) {
	id := placeholderID(1700000000000, 7)
	if !IsPlaceholderID(id) {
		t.Fatalf("%q should be a placeholder", id)
	}
	if IsPlaceholderID("b3a5e9a2-93d8-4a93-a722-d6dbf0b75f11") {
		t.Fatal("server ids must never look like placeholders")
	}
	if placeholderID(1700000000000, 8) == id {
		t.Fatal("counter must differentiate ids minted in the same millisecond")
	}
}
