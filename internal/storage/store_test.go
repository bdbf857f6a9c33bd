package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"bamboobot/pkg/logx"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Dir: t.TempDir()}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestOpenRequiresDir(t *testing.T) {
	t.Parallel()
	if _, err := Open(Config{}, logx.Nop()); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	s := openTest(t)

	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	in := map[string]AutoCleanEntry{
		"111": {ChannelName: "general", GuildID: "g1", IntervalHours: 6, CreatedAt: created},
		"222": {ChannelName: "random", GuildID: "g1", IntervalHours: 24, CreatedAt: created},
	}
	if err := Save(s, NSAutoClean, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := Load[AutoCleanEntry](s, NSAutoClean)
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in: %#v\nout: %#v", in, out)
	}
}

func TestLoadMissingNamespace(t *testing.T) {
	t.Parallel()
	s := openTest(t)

	out := Load[AnonEntry](s, NSAnonSettings)
	if out == nil || len(out) != 0 {
		t.Fatalf("want empty map, got %#v", out)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := Open(Config{Dir: dir}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, NSCalendarSettings+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := Load[CalendarSettings](s, NSCalendarSettings)
	if len(out) != 0 {
		t.Fatalf("want empty map for malformed file, got %#v", out)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := Open(Config{Dir: dir}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := Save(s, NSAnonSettings, map[string]AnonEntry{"g": {ChannelID: "c"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, NSAnonSettings+".json.tmp")); !os.IsNotExist(err) {
		t.Fatal("temp file left behind")
	}
	if _, err := os.Stat(filepath.Join(dir, NSAnonSettings+".json")); err != nil {
		t.Fatalf("document missing: %v", err)
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	t.Parallel()
	s := openTest(t)

	if err := Save(s, NSAutoClean, map[string]AutoCleanEntry{"a": {IntervalHours: 1}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Save(s, NSAutoClean, map[string]AutoCleanEntry{"b": {IntervalHours: 2}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out := Load[AutoCleanEntry](s, NSAutoClean)
	if _, ok := out["a"]; ok {
		t.Fatal("stale key survived overwrite")
	}
	if out["b"].IntervalHours != 2 {
		t.Fatalf("unexpected content: %#v", out)
	}
}
