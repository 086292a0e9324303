package dashboard

import (
	"sort"

	"github.com/fleetlive/fleetlive/pkg/fleet"
)

// Ledger holds every alert event seen this session. Alerts reference
// vehicles weakly by identifier and are never deleted here; only the read
// flag mutates after ingestion.
type Ledger struct {
	alerts map[string]*fleet.Alert
	order  []string

	changed []func()
}

func NewLedger() *Ledger {
	return &Ledger{
		alerts: map[string]*fleet.Alert{},
	}
}

func (l *Ledger) OnChange(handler func()) {
	l.changed = append(l.changed, handler)
}

// Ingest appends an alert. A duplicate identifier overwrites the existing
// record in place, which covers upstream re-delivery.
func (l *Ledger) Ingest(alert fleet.Alert) {
	id := alert.PrimaryIdentifier
	if id == "" {
		return
	}

	if _, exists := l.alerts[id]; !exists {
		l.order = append(l.order, id)
	}
	l.alerts[id] = &alert

	l.notify()
}

// MarkRead flags the alert as read. Unknown identifiers and repeated
// acknowledgements are silent no-ops - the feed may have re-delivered, or
// the user double-clicked, and neither is an error.
func (l *Ledger) MarkRead(id string) {
	alert, exists := l.alerts[id]
	if !exists || alert.Read {
		return
	}

	alert.Read = true
	l.notify()
}

func (l *Ledger) Get(id string) (fleet.Alert, bool) {
	alert, exists := l.alerts[id]
	if !exists {
		return fleet.Alert{}, false
	}
	return *alert, true
}

// UnreadCountFor re-derives the unread badge for one vehicle by scanning the
// ledger. The scan keeps the count trivially equal to the stored flags.
func (l *Ledger) UnreadCountFor(vehicleRef string) int {
	count := 0
	for _, alert := range l.alerts {
		if alert.VehicleRef == vehicleRef && !alert.Read {
			count += 1
		}
	}
	return count
}

func (l *Ledger) UnreadTotal() int {
	count := 0
	for _, alert := range l.alerts {
		if !alert.Read {
			count += 1
		}
	}
	return count
}

// ListFor returns copies of every alert for the vehicle, newest first.
func (l *Ledger) ListFor(vehicleRef string) []fleet.Alert {
	var alerts []fleet.Alert
	for _, id := range l.order {
		alert := l.alerts[id]
		if alert.VehicleRef == vehicleRef {
			alerts = append(alerts, *alert)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})

	return alerts
}

// All returns copies of every alert in ingestion order.
func (l *Ledger) All() []fleet.Alert {
	alerts := make([]fleet.Alert, 0, len(l.order))
	for _, id := range l.order {
		alerts = append(alerts, *l.alerts[id])
	}
	return alerts
}

func (l *Ledger) notify() {
	for _, handler := range l.changed {
		handler()
	}
}
