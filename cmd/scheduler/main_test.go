package main

import (
	"testing"

	"github.com/example/campus-scheduler/internal/config"
	"github.com/example/campus-scheduler/internal/scheduler"
)

func TestSlotCatalogDayMajorOrder(t *testing.T) {
	catalog := slotCatalog(config.CatalogConfig{
		Days:  []string{"Monday", "Wednesday"},
		Times: []string{"09:00", "13:00"},
	})

	want := []scheduler.Slot{
		{Day: "Monday", Time: "09:00"},
		{Day: "Monday", Time: "13:00"},
		{Day: "Wednesday", Time: "09:00"},
		{Day: "Wednesday", Time: "13:00"},
	}
	if len(catalog) != len(want) {
		t.Fatalf("catalog has %d slots, want %d", len(catalog), len(want))
	}
	for i, slot := range want {
		if catalog[i] != slot {
			t.Errorf("catalog[%d] = %+v, want %+v", i, catalog[i], slot)
		}
	}
}

func TestSlotCatalogEmptyTimes(t *testing.T) {
	catalog := slotCatalog(config.CatalogConfig{Days: []string{"Monday"}})
	if len(catalog) != 0 {
		t.Fatalf("catalog = %v, want empty", catalog)
	}
}
