package dedupe

import "testing"

func TestAccept(t *testing.T) {
	d := New([]string{"https://example.com/jobs/view/1"})

	if d.Accept("https://example.com/jobs/view/1") {
		t.Error("Accept() = true for pre-seeded URL, want false")
	}
	if d.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", d.Skipped())
	}

	if !d.Accept("https://example.com/jobs/view/2") {
		t.Error("Accept() = false for new URL, want true")
	}
	if d.Accept("https://example.com/jobs/view/2") {
		t.Error("Accept() = true for repeated URL, want false")
	}
	if d.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", d.Skipped())
	}
}

func TestAccept_EmptyURL(t *testing.T) {
	d := New(nil)
	if d.Accept("") {
		t.Error("Accept(\"\") = true, want false")
	}
	if d.Skipped() != 0 {
		t.Errorf("Skipped() = %d, want 0 (empty URL is a drop, not a skip)", d.Skipped())
	}
}

func TestAdd_DoesNotCountSkips(t *testing.T) {
	d := New(nil)
	d.Add("https://example.com/jobs/view/3")
	d.Add("")

	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
	if d.Accept("https://example.com/jobs/view/3") {
		t.Error("Accept() = true after Add(), want false")
	}
}
