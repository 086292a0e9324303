package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/fleetlive/fleetlive/pkg/fleet"
)

func testAlert(t *testing.T, id string, vehicleRef string, timestamp time.Time) fleet.Alert {
	t.Helper()

	return fleet.Alert{
		PrimaryIdentifier: id,
		VehicleRef:        vehicleRef,
		AlertType:         fleet.AlertTypeSpeed,
		Priority:          fleet.AlertPriorityWarning,
		Message:           "Speeding",
		Timestamp:         timestamp,
	}
}

// rederiveUnread counts unread alerts for a vehicle independently of the
// ledger's own accessors.
func rederiveUnread(t *testing.T, ledger *Ledger, vehicleRef string) int {
	t.Helper()

	count := 0
	for _, alert := range ledger.All() {
		if alert.VehicleRef == vehicleRef && !alert.Read {
			count += 1
		}
	}
	return count
}

func TestLedgerUnreadInvariant(t *testing.T) {
	ledger := NewLedger()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		ledger.Ingest(testAlert(t, fmt.Sprintf("a%d", i), "v1", base.Add(time.Duration(i)*time.Minute)))
	}
	ledger.Ingest(testAlert(t, "b1", "v2", base))

	ledger.MarkRead("a0")
	ledger.MarkRead("a3")

	for _, vehicleRef := range []string{"v1", "v2", "v-gone"} {
		expected := rederiveUnread(t, ledger, vehicleRef)
		if got := ledger.UnreadCountFor(vehicleRef); got != expected {
			t.Errorf("unread count for %s: got %d, rederived %d", vehicleRef, got, expected)
		}
	}

	if got := ledger.UnreadTotal(); got != 4 {
		t.Errorf("expected 4 unread in total, got %d", got)
	}
}

func TestLedgerMarkReadIsANoOpWhenRepeatedOrUnknown(t *testing.T) {
	ledger := NewLedger()
	ledger.Ingest(testAlert(t, "a1", "v1", time.Now()))

	ledger.MarkRead("a1")
	if got := ledger.UnreadCountFor("v1"); got != 0 {
		t.Fatalf("expected 0 unread after acknowledgement, got %d", got)
	}

	// Double acknowledgement and unknown identifiers never fail.
	ledger.MarkRead("a1")
	ledger.MarkRead("missing")
	if got := ledger.UnreadCountFor("v1"); got != 0 {
		t.Errorf("expected 0 unread, got %d", got)
	}
}

func TestLedgerDuplicateIngestOverwritesInPlace(t *testing.T) {
	ledger := NewLedger()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	ledger.Ingest(testAlert(t, "a1", "v1", base))

	redelivered := testAlert(t, "a1", "v1", base)
	redelivered.Message = "Speeding - redelivered"
	ledger.Ingest(redelivered)

	alerts := ledger.All()
	if len(alerts) != 1 {
		t.Fatalf("expected re-delivery to overwrite, got %d alerts", len(alerts))
	}
	if alerts[0].Message != "Speeding - redelivered" {
		t.Errorf("expected overwritten message, got %q", alerts[0].Message)
	}
}

func TestLedgerListForIsNewestFirst(t *testing.T) {
	ledger := NewLedger()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	ledger.Ingest(testAlert(t, "old", "v1", base))
	ledger.Ingest(testAlert(t, "newest", "v1", base.Add(2*time.Hour)))
	ledger.Ingest(testAlert(t, "middle", "v1", base.Add(time.Hour)))
	ledger.Ingest(testAlert(t, "other", "v2", base.Add(3*time.Hour)))

	alerts := ledger.ListFor("v1")
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts for v1, got %d", len(alerts))
	}

	for i, expected := range []string{"newest", "middle", "old"} {
		if alerts[i].PrimaryIdentifier != expected {
			t.Errorf("position %d: expected %s, got %s", i, expected, alerts[i].PrimaryIdentifier)
		}
	}
}

func TestLedgerListForMissingVehicle(t *testing.T) {
	ledger := NewLedger()
	ledger.Ingest(testAlert(t, "a1", "v1", time.Now()))

	// Alerts reference vehicles weakly; asking for an unknown vehicle is
	// an empty answer, not an error.
	if alerts := ledger.ListFor("deleted-vehicle"); len(alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(alerts))
	}
}
