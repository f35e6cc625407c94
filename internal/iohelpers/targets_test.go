package iohelpers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseTargetsBareHex(t *testing.T) {
	digests, ids, err := ParseTargets("deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	if len(digests) != 1 || digests[0] != 0xdeadbeef {
		t.Fatalf("unexpected digests: %v", digests)
	}
	if ids != nil {
		t.Fatalf("expected no ids for a bare hex target, got %v", ids)
	}
}

func TestParseTargetsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "targets.csv")
	if err := os.WriteFile(path, []byte("10;deadbeef\n20;cafef00d\nmalformed-line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	digests, ids, err := ParseTargets(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(digests) != 2 || len(ids) != 2 {
		t.Fatalf("expected 2 parsed entries, got digests=%v ids=%v", digests, ids)
	}
	if ids[0] != 10 || digests[0] != 0xdeadbeef {
		t.Errorf("unexpected first entry: id=%d digest=%x", ids[0], digests[0])
	}
	if ids[1] != 20 || digests[1] != 0xcafef00d {
		t.Errorf("unexpected second entry: id=%d digest=%x", ids[1], digests[1])
	}
}

func TestParseTargetsMissingFileIsIOError(t *testing.T) {
	_, _, err := ParseTargets("/nonexistent/path/to/targets.csv")
	if err == nil {
		t.Fatal("expected an error for a nonexistent target file")
	}
}
