package components

import "testing"

func TestTabIdxByKey(t *testing.T) {
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestTabVisualWidth(t *testing.T) {
	chart := Tabs[0]
	if got, want := TabVisualWidth(chart, true), len(chart.Name)+2; got != want {
		t.Errorf("active width = %d, want %d", got, want)
	}
	if got, want := TabVisualWidth(chart, false), len(chart.Name)+2; got != want {
		t.Errorf("inactive width = %d, want %d", got, want)
	}
	settings := Tabs[3]
	if got, want := TabVisualWidth(settings, false), len(settings.Name)+5; got != want {
		t.Errorf("inactive settings width = %d, want %d", got, want)
	}
}
