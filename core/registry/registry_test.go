package registry

import "testing"

func TestRegistry_SetGet(t *testing.T) {
	r := New()
	if _, ok := r.GetGlobal("k"); ok {
		t.Fatal("GetGlobal on empty registry: want false")
	}
	r.SetGlobal("k", 42)
	v, ok := r.GetGlobal("k")
	if !ok || v.(int) != 42 {
		t.Errorf("GetGlobal = %v, %v; want 42, true", v, ok)
	}
}

func TestRegistry_Lock(t *testing.T) {
	r := New()
	r.Lock(KeyRegistryAPI)
	if !r.IsLocked(KeyRegistryAPI) {
		t.Fatal("IsLocked after Lock: want true")
	}
	if r.IsLocked(KeyRegistryCmd) {
		t.Error("unrelated key should not be locked")
	}
	r.UnlockForTesting(KeyRegistryAPI)
	if r.IsLocked(KeyRegistryAPI) {
		t.Error("IsLocked after UnlockForTesting: want false")
	}
}
