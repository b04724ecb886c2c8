package geom

import "testing"

func TestColumnsAndRows(t *testing.T) {
	r := R(10, 20, 310, 100)

	cols := r.Columns(3, 5)
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	if cols[0].W != 100 || cols[2].Right() != r.Right() {
		t.Fatalf("unexpected columns %+v", cols)
	}

	rows := r.Rows(2, 0)
	if rows[1].Y != 70 || rows[1].H != 50 {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if r.Columns(0, 5) != nil {
		t.Fatal("expected nil for zero columns")
	}
}

func TestInsetNeverNegative(t *testing.T) {
	r := R(0, 0, 10, 10).Inset(20)
	if r.W != 0 || r.H != 0 {
		t.Fatalf("expected collapsed rect, got %+v", r)
	}
	if !r.Empty() {
		t.Fatal("collapsed rect must be empty")
	}
}

func TestIntersect(t *testing.T) {
	a := R(0, 0, 100, 100)
	b := R(50, 50, 100, 100)

	got := a.Intersect(b)
	if got != R(50, 50, 50, 50) {
		t.Fatalf("unexpected intersection %+v", got)
	}
	if !a.Intersect(R(200, 200, 5, 5)).Empty() {
		t.Fatal("disjoint rects must not intersect")
	}
}
