package services

import (
	"route-dispatch-service/internal/domain"
	"testing"
)

func stopAt(addr string, lon, lat float64, driverID int) domain.Stop {
	return domain.Stop{Address: addr, Lon: lon, Lat: lat, DriverID: driverID}
}

func TestPartitionTwoDrivers(t *testing.T) {
	// 12 stops, 2 drivers, no return leg: the optimizer's flat ordering
	// with the shared start first.
	stops := []domain.Stop{stopAt("Depot", -112.0, 33.0, 1)}
	for i := 1; i <= 11; i++ {
		driver := 1
		if i > 5 {
			driver = 2
		}
		stops = append(stops, stopAt("S", -112.0+float64(i)*0.01, 33.0+float64(i)*0.01, driver))
	}

	byDriver := Partition(stops, false)

	if len(byDriver) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(byDriver))
	}

	seen := make(map[domain.Coordinates]int)
	for driverID, list := range byDriver {
		if len(list) == 0 {
			t.Fatalf("driver %d has no stops", driverID)
		}
		first := list[0]
		if first.Address != "Depot" || first.Note != domain.StartNote {
			t.Fatalf("driver %d list must begin with the start anchor, got %+v", driverID, first)
		}
		last := list[len(list)-1]
		if last.Coordinates().SameLocation(first.Coordinates()) {
			t.Fatalf("driver %d list must not end at the start when returnToStart is off", driverID)
		}
		for _, s := range list[1:] {
			seen[s.Coordinates()]++
		}
	}

	for c, n := range seen {
		if n > 1 {
			t.Fatalf("stop at %v assigned to %d drivers", c, n)
		}
	}
}

func TestPartitionReturnToStart(t *testing.T) {
	stops := []domain.Stop{
		stopAt("Depot", -112.0, 33.0, 1),
		stopAt("A", -112.1, 33.1, 1),
		stopAt("B", -112.2, 33.2, 2),
	}

	byDriver := Partition(stops, true)

	for driverID, list := range byDriver {
		last := list[len(list)-1]
		if last.Note != domain.ReturnNote {
			t.Fatalf("driver %d must end with the return anchor, got %+v", driverID, last)
		}
		if !last.Coordinates().SameLocation(list[0].Coordinates()) {
			t.Fatalf("driver %d return anchor is not at the start", driverID)
		}
	}
}

func TestPartitionDropsDuplicateOfStart(t *testing.T) {
	stops := []domain.Stop{
		stopAt("Depot", -112.0, 33.0, 1),
		// Collocated with the start within epsilon; must not become a
		// second leading point.
		stopAt("Depot again", -112.0+5e-7, 33.0, 1),
		stopAt("A", -112.1, 33.1, 1),
	}

	byDriver := Partition(stops, false)
	list := byDriver[1]
	if len(list) != 2 {
		t.Fatalf("expected start + 1 stop, got %d stops", len(list))
	}
	if list[1].Address != "A" {
		t.Fatalf("expected A after the start, got %q", list[1].Address)
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	if got := Partition(nil, true); len(got) != 0 {
		t.Fatalf("expected empty partition, got %d entries", len(got))
	}
}
