package consumer

import "testing"

func TestStatsListenAddress(t *testing.T) {
	t.Setenv("FLEETLIVE_STATS_LISTEN", "")
	if listen := statsListenAddress(); listen != defaultStatsListen {
		t.Errorf("expected default %s, got %s", defaultStatsListen, listen)
	}

	t.Setenv("FLEETLIVE_STATS_LISTEN", ":9100")
	if listen := statsListenAddress(); listen != ":9100" {
		t.Errorf("expected env override :9100, got %s", listen)
	}
}
