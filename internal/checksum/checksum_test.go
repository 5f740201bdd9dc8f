package checksum

import "testing"

func TestSum_KnownValue(t *testing.T) {
	got := Sum([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("Sum = %q, want %q", got, want)
	}
}

func TestChanged(t *testing.T) {
	data := []byte("# Doc\n")
	if !Changed(data, "") {
		t.Error("empty previous checksum should count as changed")
	}
	if Changed(data, Sum(data)) {
		t.Error("same content should not count as changed")
	}
	if !Changed([]byte("# Doc v2\n"), Sum(data)) {
		t.Error("different content should count as changed")
	}
}
