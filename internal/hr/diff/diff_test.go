package diff

import (
	"reflect"
	"testing"
)

var testSchema = Schema{
	{Name: "full_name"},
	{Name: "phone"},
	{Name: "bank_account", Sub: []Field{
		{Name: "bank_name"},
		{Name: "account_number"},
	}},
	{Name: "education"},
}

func snapshot() map[string]interface{} {
	return map[string]interface{}{
		"full_name": "Budi Santoso",
		"phone":     "0812000111",
		"bank_account": map[string]interface{}{
			"bank_name":      "BCA",
			"account_number": "1234567890",
		},
		"education": []interface{}{
			map[string]interface{}{"level": "S1", "school": "UI"},
		},
	}
}

func TestDiffIdenticalSnapshots(t *testing.T) {
	a := snapshot()
	b := snapshot()

	changes := Diff(testSchema, a, b)
	if len(changes) != 0 {
		t.Errorf("Expected empty diff for identical snapshots, got %v", Paths(changes))
	}
}

func TestDiffScalarAndNestedChanges(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new["phone"] = "0813999888"
	new["bank_account"].(map[string]interface{})["account_number"] = "9876543210"

	changes := Diff(testSchema, old, new)

	want := []string{"bank_account.account_number", "phone"}
	if !reflect.DeepEqual(Paths(changes), want) {
		t.Fatalf("Expected paths %v, got %v", want, Paths(changes))
	}

	c := changes["bank_account.account_number"]
	if c.Old != "1234567890" || c.New != "9876543210" {
		t.Errorf("Unexpected change values: %+v", c)
	}
	if _, ok := changes["full_name"]; ok {
		t.Error("Unchanged field must not appear in the diff")
	}
}

func TestDiffMissingKeyComparesAgainstNil(t *testing.T) {
	old := snapshot()
	new := snapshot()
	delete(new, "phone")

	changes := Diff(testSchema, old, new)
	c, ok := changes["phone"]
	if !ok {
		t.Fatal("Expected a change for the removed key")
	}
	if c.Old != "0812000111" || c.New != nil {
		t.Errorf("Expected old value vs nil, got %+v", c)
	}
}

func TestDiffMissingGroupRecursesAgainstEmpty(t *testing.T) {
	old := snapshot()
	new := snapshot()
	delete(new, "bank_account")

	changes := Diff(testSchema, old, new)
	if _, ok := changes["bank_account.bank_name"]; !ok {
		t.Error("Expected leaf-level changes when the whole group is absent")
	}
	if _, ok := changes["bank_account"]; ok {
		t.Error("Group itself must not appear as a change path")
	}
}

func TestDiffListIsAtomic(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new["education"] = []interface{}{
		map[string]interface{}{"level": "S1", "school": "UI"},
		map[string]interface{}{"level": "S2", "school": "ITB"},
	}

	changes := Diff(testSchema, old, new)
	if len(changes) != 1 {
		t.Fatalf("Expected exactly one change, got %v", Paths(changes))
	}
	if _, ok := changes["education"]; !ok {
		t.Error("List change must surface under the list path itself")
	}
}

func TestDiffNumberTypesAreEquivalent(t *testing.T) {
	// JSONB round-trips decode numbers as float64
	old := map[string]interface{}{"phone": 42}
	new := map[string]interface{}{"phone": float64(42)}

	s := Schema{{Name: "phone"}}
	if changes := Diff(s, old, new); len(changes) != 0 {
		t.Errorf("int and float64 with same value must compare equal, got %v", changes)
	}
}

func TestBuildPartialContainsExactlyAcceptedPaths(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new["full_name"] = "Budi S."
	new["phone"] = "0813999888"
	new["bank_account"].(map[string]interface{})["account_number"] = "9876543210"

	changes := Diff(testSchema, old, new)
	partial := BuildPartial(changes, []string{"full_name", "bank_account.account_number"})

	want := map[string]interface{}{
		"full_name": "Budi S.",
		"bank_account": map[string]interface{}{
			"account_number": "9876543210",
		},
	}
	if !reflect.DeepEqual(partial, want) {
		t.Errorf("Expected partial %v, got %v", want, partial)
	}
	if _, ok := partial["phone"]; ok {
		t.Error("Rejected path must not appear in the partial")
	}
}

func TestBuildPartialIgnoresUnknownPaths(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new["phone"] = "0813999888"

	changes := Diff(testSchema, old, new)
	partial := BuildPartial(changes, []string{"phone", "full_name", "bogus.path"})

	if len(partial) != 1 {
		t.Errorf("Paths outside the diff must be ignored, got %v", partial)
	}
}

func TestAcceptAllThenDiffIsEmpty(t *testing.T) {
	old := snapshot()
	new := snapshot()
	new["full_name"] = "Budi S."
	new["bank_account"].(map[string]interface{})["bank_name"] = "Mandiri"
	new["education"] = []interface{}{}

	changes := Diff(testSchema, old, new)
	partial := BuildPartial(changes, Paths(changes))

	merged := snapshot()
	mergePartial(merged, partial)

	if after := Diff(testSchema, merged, new); len(after) != 0 {
		t.Errorf("Applying all accepted changes must converge, residual diff: %v", Paths(after))
	}
}

// mergePartial applies a nested partial onto a snapshot in place
func mergePartial(dst, partial map[string]interface{}) {
	for k, v := range partial {
		if sub, ok := v.(map[string]interface{}); ok {
			if cur, ok := dst[k].(map[string]interface{}); ok {
				mergePartial(cur, sub)
				continue
			}
		}
		dst[k] = v
	}
}
