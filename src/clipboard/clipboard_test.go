package clipboard

import (
	"os"
	"testing"
)

func TestWriteRoundTrip(t *testing.T) {
	if os.Getenv("KAZUHA_CLIPBOARD_TESTS") != "1" {
		t.Skip("set KAZUHA_CLIPBOARD_TESTS=1 to run tests that touch the system clipboard")
	}
	if err := Write("Kazuha v1.2.0 (build 12)"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "Kazuha v1.2.0 (build 12)" {
		t.Errorf("Read = %q", got)
	}
}

func TestInitIsSticky(t *testing.T) {
	first := Init()
	if second := Init(); second != first {
		t.Errorf("Init changed result: %v then %v", first, second)
	}
}
