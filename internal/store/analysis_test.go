package store

import (
	"errors"
	"testing"
)

func testAnalysis(id, exercise string, score int) *Analysis {
	return &Analysis{
		ID:           id,
		Exercise:     exercise,
		OverallScore: score,
		Confidence:   0.92,
		Source:       "session.mp4",
		Document:     []byte(`{"exercise":"` + exercise + `"}`),
	}
}

func TestAnalysisRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Analyses()

	a := testAnalysis("analysis-1", "squat", 87)

	if err := repo.Create(a); err != nil {
		t.Fatalf("failed to create analysis: %v", err)
	}

	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}

	retrieved, err := repo.GetByID("analysis-1")
	if err != nil {
		t.Fatalf("failed to get analysis by ID: %v", err)
	}

	if retrieved.Exercise != "squat" {
		t.Errorf("Exercise mismatch: got %q, want %q", retrieved.Exercise, "squat")
	}
	if retrieved.OverallScore != 87 {
		t.Errorf("OverallScore mismatch: got %d, want 87", retrieved.OverallScore)
	}
	if retrieved.Confidence != 0.92 {
		t.Errorf("Confidence mismatch: got %f, want 0.92", retrieved.Confidence)
	}
	if retrieved.Source != "session.mp4" {
		t.Errorf("Source mismatch: got %q, want %q", retrieved.Source, "session.mp4")
	}
	if string(retrieved.Document) != string(a.Document) {
		t.Errorf("Document mismatch: got %s, want %s", retrieved.Document, a.Document)
	}
}

func TestAnalysisRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Analyses()

	_, err := repo.GetByID("does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalysisRepository_Create_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	repo := s.Analyses()

	if err := repo.Create(testAnalysis("analysis-1", "squat", 80)); err != nil {
		t.Fatalf("failed to create first analysis: %v", err)
	}

	if err := repo.Create(testAnalysis("analysis-1", "deadlift", 75)); err == nil {
		t.Error("creating an analysis with a duplicate ID should fail")
	}
}

func TestAnalysisRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Analyses()

	for _, a := range []*Analysis{
		testAnalysis("analysis-1", "squat", 80),
		testAnalysis("analysis-2", "deadlift", 72),
		testAnalysis("analysis-3", "squat", 91),
	} {
		if err := repo.Create(a); err != nil {
			t.Fatalf("failed to create analysis %s: %v", a.ID, err)
		}
	}

	t.Run("all exercises", func(t *testing.T) {
		all, err := repo.List("", 0)
		if err != nil {
			t.Fatalf("failed to list analyses: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("listed %d analyses, want 3", len(all))
		}
	})

	t.Run("filtered by exercise", func(t *testing.T) {
		squats, err := repo.List("squat", 0)
		if err != nil {
			t.Fatalf("failed to list squat analyses: %v", err)
		}
		if len(squats) != 2 {
			t.Fatalf("listed %d squat analyses, want 2", len(squats))
		}
		for _, a := range squats {
			if a.Exercise != "squat" {
				t.Errorf("filtered list contains exercise %q", a.Exercise)
			}
		}
	})

	t.Run("limited", func(t *testing.T) {
		limited, err := repo.List("", 2)
		if err != nil {
			t.Fatalf("failed to list limited analyses: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("listed %d analyses, want 2 with limit", len(limited))
		}
	})
}

func TestAnalysisRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Analyses()

	if err := repo.Create(testAnalysis("analysis-1", "squat", 80)); err != nil {
		t.Fatalf("failed to create analysis: %v", err)
	}

	if err := repo.Delete("analysis-1"); err != nil {
		t.Fatalf("failed to delete analysis: %v", err)
	}

	if _, err := repo.GetByID("analysis-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.Delete("analysis-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting a missing analysis should return ErrNotFound, got %v", err)
	}
}
