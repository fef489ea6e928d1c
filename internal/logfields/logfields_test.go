package logfields

import (
	"errors"
	"testing"
)

func TestErrorNil(t *testing.T) {
	attr := Error(nil)
	if attr.Value.String() != "" {
		t.Errorf("expected empty value for nil error, got %q", attr.Value.String())
	}
}

func TestErrorNonNil(t *testing.T) {
	attr := Error(errors.New("boom"))
	if attr.Key != KeyError {
		t.Errorf("expected key %q, got %q", KeyError, attr.Key)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("expected value %q, got %q", "boom", attr.Value.String())
	}
}

func TestFieldKeysStable(t *testing.T) {
	cases := map[string]string{
		RunID("x").Key:      KeyRunID,
		Module("m").Key:     KeyModule,
		Path("p").Key:       KeyPath,
		Source("s").Key:     KeySource,
		Dest("d").Key:       KeyDest,
		Revision("r").Key:   KeyRevision,
		Files(1).Key:        KeyFiles,
		Bytes(1).Key:        KeyBytes,
		DurationMS(1.0).Key: KeyDurationMS,
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("field key drift: got %q want %q", got, want)
		}
	}
}
