package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

type stubSource struct {
	products []models.Product
	err      error
}

func (s *stubSource) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.products, s.err
}

func TestDefaultCatalog(t *testing.T) {
	products := Default()
	if len(products) != 8 {
		t.Fatalf("expected 8 products, got %d", len(products))
	}

	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			t.Errorf("product missing identity: %+v", p)
		}
		if seen[p.ID] {
			t.Errorf("duplicate product ID %q", p.ID)
		}
		seen[p.ID] = true
		if !models.IsValidEvaluatorKind(p.Evaluator) {
			t.Errorf("product %q references unknown evaluator %q", p.ID, p.Evaluator)
		}
		if p.MinAmount <= 0 || p.MaxAmount < p.MinAmount {
			t.Errorf("product %q has inconsistent amount bounds: min=%v max=%v", p.ID, p.MinAmount, p.MaxAmount)
		}
		if p.MinDurationMonths <= 0 || p.MaxDurationMonths < p.MinDurationMonths {
			t.Errorf("product %q has inconsistent duration bounds: min=%d max=%d", p.ID, p.MinDurationMonths, p.MaxDurationMonths)
		}
	}
}

func TestLoadNilSource(t *testing.T) {
	products := Load(context.Background(), nil)
	if len(products) != len(Default()) {
		t.Errorf("expected default catalog, got %d products", len(products))
	}
}

func TestLoadSourceError(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	products := Load(context.Background(), src)
	if len(products) != len(Default()) {
		t.Errorf("expected fallback to default catalog on error, got %d products", len(products))
	}
}

func TestLoadEmptySource(t *testing.T) {
	products := Load(context.Background(), &stubSource{})
	if len(products) != len(Default()) {
		t.Errorf("expected fallback to default catalog when source is empty, got %d products", len(products))
	}
}

func TestLoadDropsInvalidEvaluators(t *testing.T) {
	src := &stubSource{products: []models.Product{
		{ID: "good", Name: "Good", Evaluator: models.EvaluatorFuelTax},
		{ID: "bad", Name: "Bad", Evaluator: models.EvaluatorKind("made-up")},
	}}

	products := Load(context.Background(), src)
	if len(products) != 1 {
		t.Fatalf("expected 1 valid product, got %d", len(products))
	}
	if products[0].ID != "good" {
		t.Errorf("expected the valid product to survive, got %q", products[0].ID)
	}
}

func TestLoadAllInvalidFallsBack(t *testing.T) {
	src := &stubSource{products: []models.Product{
		{ID: "bad", Evaluator: models.EvaluatorKind("made-up")},
	}}

	products := Load(context.Background(), src)
	if len(products) != len(Default()) {
		t.Errorf("expected fallback to default catalog, got %d products", len(products))
	}
}

func TestByID(t *testing.T) {
	products := Default()

	p, ok := ByID(products, "ticpe")
	if !ok || p.ID != "ticpe" {
		t.Errorf("expected to find ticpe, got ok=%v id=%q", ok, p.ID)
	}
	if _, ok := ByID(products, "nope"); ok {
		t.Error("expected lookup of unknown ID to fail")
	}
}
