package domain

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestItemMarshalIncludesUncheckedState(t *testing.T) {
	item := Item{ID: "i1", Label: "Milk"}

	payload, err := sonic.Marshal(item)
	if err != nil {
		t.Fatalf("marshal item: %v", err)
	}

	if !strings.Contains(string(payload), "\"checked\":false") {
		t.Fatalf("expected checked field to be present, got %s", payload)
	}
}

func TestListMarshalRendersEmptyItemsAsArray(t *testing.T) {
	list := List{ID: "l1", Name: "Groceries", Items: []Item{}}

	payload, err := sonic.Marshal(list)
	if err != nil {
		t.Fatalf("marshal list: %v", err)
	}

	if !strings.Contains(string(payload), "\"items\":[]") {
		t.Fatalf("expected empty items array, got %s", payload)
	}
}
