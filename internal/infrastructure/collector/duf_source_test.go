package collector

import (
	"testing"
)

func TestParseDufOutput(t *testing.T) {
	out := []byte(`[
		{"device":"/dev/sda1","mount_point":"/","file_system":"ext4","total":100000,"used":60000,"free":35000},
		{"device":"/dev/sdb1","mount_point":"/data","file_system":"xfs","total":500000,"used":100000,"free":400000}
	]`)

	entries, err := parseDufOutput(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.MountPoint != "/" || first.FileSystem != "ext4" || first.Device != "/dev/sda1" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if first.Total != 100000 || first.Used != 60000 || first.Free != 35000 {
		t.Fatalf("unexpected sizes: %+v", first)
	}
}

func TestParseDufOutputRejectsGarbage(t *testing.T) {
	if _, err := parseDufOutput([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewDufSourceDefaults(t *testing.T) {
	s := NewDufSource("", 0)

	if s.binary != "duf" {
		t.Fatalf("expected default binary duf, got %s", s.binary)
	}
	if s.timeout <= 0 {
		t.Fatalf("expected positive default timeout, got %v", s.timeout)
	}
}
