package registry

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/crimson-sun/attributor/internal/engine/classifier"
	"github.com/crimson-sun/attributor/internal/model"
)

func fittedModel(t *testing.T) *classifier.NaiveBayes {
	t.Helper()
	nb := classifier.New(1.0)
	docs := []string{"tok-a tok-shared", "tok-b tok-shared"}
	labels := []string{"alpha", "beta"}
	if err := nb.Fit(docs, labels); err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	return nb
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "artifacts"))
	nb := fittedModel(t)

	meta, err := store.Save(nb, model.Version{Major: 0, Minor: 0, Patch: 2}, 0.97)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if meta.ArtifactID == "" {
		t.Fatal("Save returned empty artifact id")
	}
	if meta.DBVersion != "(0, 0, 2)" || meta.F1Score != 0.97 || meta.LabelCount != 2 {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	loaded, loadedMeta, err := store.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(loaded, nb) {
		t.Fatalf("loaded model differs:\n%+v\n%+v", loaded, nb)
	}
	if loadedMeta.ArtifactID != meta.ArtifactID || loadedMeta.DBVersion != meta.DBVersion {
		t.Fatalf("loaded meta %+v, saved %+v", loadedMeta, meta)
	}
}

func TestFileStoreSaveNilModel(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if _, err := store.Save(nil, model.DefaultVersion, 0); err == nil {
		t.Fatal("expected error for nil model")
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store := NewFileStore(t.TempDir())
	nb := fittedModel(t)
	first, err := store.Save(nb, model.Version{Major: 0, Minor: 0, Patch: 2}, 0.9)
	if err != nil {
		t.Fatalf("first Save error: %v", err)
	}
	second, err := store.Save(nb, model.Version{Major: 0, Minor: 0, Patch: 3}, 0.95)
	if err != nil {
		t.Fatalf("second Save error: %v", err)
	}
	if second.ArtifactID == first.ArtifactID {
		t.Fatal("overwrite reused the artifact id")
	}
	_, meta, err := store.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if meta.DBVersion != "(0, 0, 3)" {
		t.Fatalf("Load returned stale artifact: %+v", meta)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nothing-here"))
	if _, _, err := store.Load(); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestHistory(t *testing.T) {
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenHistory error: %v", err)
	}
	defer h.Close()

	if _, err := h.Latest(); err == nil {
		t.Fatal("Latest on empty history expected error")
	}

	versions := []string{"(0, 0, 2)", "(0, 0, 3)", "(0, 0, 4)"}
	for i, v := range versions {
		meta := Meta{
			ArtifactID: "artifact-" + v,
			DBVersion:  v,
			F1Score:    0.9 + float64(i)/100,
			LabelCount: 3,
		}
		if err := h.Append(meta); err != nil {
			t.Fatalf("Append(%s) error: %v", v, err)
		}
	}

	latest, err := h.Latest()
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if latest.DBVersion != "(0, 0, 4)" {
		t.Fatalf("Latest db_version = %q", latest.DBVersion)
	}

	recent, err := h.Recent(2)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent returned %d rows, want 2", len(recent))
	}
	if recent[0].DBVersion != "(0, 0, 4)" || recent[1].DBVersion != "(0, 0, 3)" {
		t.Fatalf("Recent rows out of order: %+v", recent)
	}
}

func TestHistoryReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenHistory(path)
	if err != nil {
		t.Fatalf("OpenHistory error: %v", err)
	}
	if err := h.Append(Meta{ArtifactID: "a1", DBVersion: "(0, 0, 2)", F1Score: 1, LabelCount: 2}); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	h2, err := OpenHistory(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer h2.Close()
	latest, err := h2.Latest()
	if err != nil {
		t.Fatalf("Latest after reopen error: %v", err)
	}
	if latest.ArtifactID != "a1" {
		t.Fatalf("Latest = %+v", latest)
	}
}
