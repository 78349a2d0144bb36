package filter

import (
	"errors"
	"strings"
	"testing"

	"gosift/domain/core"
	"gosift/domain/table"
)

func demoTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New([]table.Column{
		{Name: "region", Type: table.TypeText, Values: []table.Value{
			table.Text("east"), table.Text("west"), table.Text("east"),
			table.Text("north"), table.Text("west"), table.Text("east"),
		}},
		{Name: "price", Type: table.TypeFloat, Values: []table.Value{
			table.Float(10), table.Float(20), table.Float(30),
			table.Float(40), table.Float(50), table.Float(60),
		}},
		{Name: "qty", Type: table.TypeInteger, Values: []table.Value{
			table.Int(1), table.Int(2), table.Int(3),
			table.Int(4), table.Int(5), table.Int(6),
		}},
	})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	return tbl
}

func rowsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplyNoFiltersKeepsEverything(t *testing.T) {
	tbl := demoTable(t)

	view, err := Apply(tbl, nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if view.NumRows() != tbl.NumRows() {
		t.Errorf("NumRows() = %d, want %d", view.NumRows(), tbl.NumRows())
	}
	if !rowsEqual(view.Rows(), []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("Rows() = %v, want identity", view.Rows())
	}
}

func TestApplyFullAllowedSetIsIdentity(t *testing.T) {
	tbl := demoTable(t)

	allowed, err := DefaultAllowed(tbl, "region")
	if err != nil {
		t.Fatalf("DefaultAllowed() error = %v", err)
	}
	view, err := Apply(tbl, []Spec{Categorical("region", allowed)})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if !rowsEqual(view.Rows(), []int{0, 1, 2, 3, 4, 5}) {
		t.Errorf("full allowed set should be a no-op, got rows %v", view.Rows())
	}
}

func TestApplyCategoricalDropsNullRows(t *testing.T) {
	// Null never matches an allowed set, even the full one.
	tbl, err := table.New([]table.Column{
		{Name: "tag", Type: table.TypeText, Values: []table.Value{
			table.Text("a"), table.Null(), table.Text("b"),
		}},
	})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	allowed, _ := DefaultAllowed(tbl, "tag")
	view, err := Apply(tbl, []Spec{Categorical("tag", allowed)})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if !rowsEqual(view.Rows(), []int{0, 2}) {
		t.Errorf("Rows() = %v, want [0 2]", view.Rows())
	}
}

func TestApplyEmptyAllowedSetMeansNoRows(t *testing.T) {
	tbl := demoTable(t)

	view, err := Apply(tbl, []Spec{Categorical("region", nil)})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if view.NumRows() != 0 {
		t.Errorf("NumRows() = %d, want 0 for an empty allowed set", view.NumRows())
	}
}

func TestApplyCategoricalSubset(t *testing.T) {
	tbl := demoTable(t)

	view, err := Apply(tbl, []Spec{Categorical("region", []string{"east"})})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !rowsEqual(view.Rows(), []int{0, 2, 5}) {
		t.Errorf("Rows() = %v, want [0 2 5]", view.Rows())
	}
}

func TestApplyNumericRangeInclusiveBounds(t *testing.T) {
	tbl := demoTable(t)

	spec, note, err := NumericRange(tbl, "price", 20, 50)
	if err != nil {
		t.Fatalf("NumericRange() error = %v", err)
	}
	if note != nil {
		t.Fatalf("NumericRange() note = %v, want none", note)
	}

	view, err := Apply(tbl, []Spec{spec})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	// Rows with price 20, 30, 40, 50: both endpoints included.
	if !rowsEqual(view.Rows(), []int{1, 2, 3, 4}) {
		t.Errorf("Rows() = %v, want [1 2 3 4]", view.Rows())
	}
}

func TestApplyNumericRangeExcludesNulls(t *testing.T) {
	tbl, err := table.New([]table.Column{
		{Name: "score", Type: table.TypeFloat, Values: []table.Value{
			table.Float(5), table.Null(), table.Float(15),
		}},
	})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	spec, _, err := NumericRange(tbl, "score", 0, 100)
	if err != nil {
		t.Fatalf("NumericRange() error = %v", err)
	}
	view, err := Apply(tbl, []Spec{spec})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !rowsEqual(view.Rows(), []int{0, 2}) {
		t.Errorf("Rows() = %v, want [0 2]", view.Rows())
	}
}

func TestApplyCommutativity(t *testing.T) {
	tbl := demoTable(t)

	catSpec := Categorical("region", []string{"east", "west"})
	rangeSpec, _, err := NumericRange(tbl, "price", 15, 55)
	if err != nil {
		t.Fatalf("NumericRange() error = %v", err)
	}

	ab, err := Apply(tbl, []Spec{catSpec, rangeSpec})
	if err != nil {
		t.Fatalf("Apply(AB) error = %v", err)
	}
	ba, err := Apply(tbl, []Spec{rangeSpec, catSpec})
	if err != nil {
		t.Fatalf("Apply(BA) error = %v", err)
	}

	if !rowsEqual(ab.Rows(), ba.Rows()) {
		t.Errorf("filter order changed the result: %v vs %v", ab.Rows(), ba.Rows())
	}
	// Survivors must also equal the intersection of each filter alone.
	catOnly, _ := Apply(tbl, []Spec{catSpec})
	rangeOnly, _ := Apply(tbl, []Spec{rangeSpec})
	inBoth := make(map[int]bool)
	for _, r := range catOnly.Rows() {
		inBoth[r] = true
	}
	var want []int
	for _, r := range rangeOnly.Rows() {
		if inBoth[r] {
			want = append(want, r)
		}
	}
	if !rowsEqual(ab.Rows(), want) {
		t.Errorf("Rows() = %v, want intersection %v", ab.Rows(), want)
	}
}

func TestApplyOrderIsSubsequenceOfSource(t *testing.T) {
	tbl := demoTable(t)

	spec, _, err := NumericRange(tbl, "qty", 2, 5)
	if err != nil {
		t.Fatalf("NumericRange() error = %v", err)
	}
	view, err := Apply(tbl, []Spec{spec, Categorical("region", []string{"west", "north"})})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	rows := view.Rows()
	for i := 1; i < len(rows); i++ {
		if rows[i] <= rows[i-1] {
			t.Fatalf("Rows() = %v is not strictly increasing", rows)
		}
	}
}

func TestNumericRangeConstantColumnSuppressed(t *testing.T) {
	tbl, err := table.New([]table.Column{
		{Name: "price", Type: table.TypeInteger, Values: []table.Value{
			table.Int(10), table.Int(10), table.Int(10),
		}},
	})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	spec, note, err := NumericRange(tbl, "price", 10, 10)
	if err != nil {
		t.Fatalf("NumericRange() error = %v", err)
	}
	if note == nil {
		t.Fatal("expected a note for a constant column")
	}
	if note.Message != `all values in "price" are 10` {
		t.Errorf("note message = %q", note.Message)
	}
	if spec.Kind != "" {
		t.Errorf("expected no spec for a constant column, got kind %q", spec.Kind)
	}
}

func TestNumericRangeValidation(t *testing.T) {
	tbl := demoTable(t)

	_, _, err := NumericRange(tbl, "region", 0, 1)
	if !errors.Is(err, core.ErrNotNumeric) {
		t.Errorf("expected ErrNotNumeric, got %v", err)
	}

	_, _, err = NumericRange(tbl, "ghost", 0, 1)
	if !core.IsNotFoundError(err) {
		t.Errorf("expected not-found error, got %v", err)
	}

	_, _, err = NumericRange(tbl, "price", 50, 20)
	if !errors.Is(err, core.ErrInvertedBounds) {
		t.Errorf("expected ErrInvertedBounds, got %v", err)
	}
}

func TestApplyValidation(t *testing.T) {
	tbl := demoTable(t)

	_, err := Apply(tbl, []Spec{Categorical("price", []string{"10"})})
	if !errors.Is(err, core.ErrNotCategorical) {
		t.Errorf("expected ErrNotCategorical, got %v", err)
	}

	_, err = Apply(tbl, []Spec{Categorical("ghost", []string{"x"})})
	if !core.IsNotFoundError(err) {
		t.Errorf("expected not-found error, got %v", err)
	}

	_, err = Apply(tbl, []Spec{{Kind: "mystery", Column: "region"}})
	if !errors.Is(err, core.ErrUnknownFilterKind) {
		t.Errorf("expected ErrUnknownFilterKind, got %v", err)
	}
}

func TestDefaultAllowedOrderAndErrors(t *testing.T) {
	tbl := demoTable(t)

	allowed, err := DefaultAllowed(tbl, "region")
	if err != nil {
		t.Fatalf("DefaultAllowed() error = %v", err)
	}
	want := []string{"east", "west", "north"}
	if strings.Join(allowed, ",") != strings.Join(want, ",") {
		t.Errorf("DefaultAllowed() = %v, want %v", allowed, want)
	}

	if _, err := DefaultAllowed(tbl, "price"); !errors.Is(err, core.ErrNotCategorical) {
		t.Errorf("expected ErrNotCategorical for numeric column, got %v", err)
	}
}

func TestViewMaterializePreservesValues(t *testing.T) {
	tbl := demoTable(t)

	view, err := Apply(tbl, []Spec{Categorical("region", []string{"west"})})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	out := view.Materialize()

	if out.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", out.NumRows())
	}
	price, err := out.Column("price")
	if err != nil {
		t.Fatalf("Column() error = %v", err)
	}
	a, _ := price.Values[0].AsFloat()
	b, _ := price.Values[1].AsFloat()
	if a != 20 || b != 50 {
		t.Errorf("prices = [%v %v], want [20 50]", a, b)
	}
}

func TestViewHeadCapsRows(t *testing.T) {
	tbl := demoTable(t)
	view, err := Apply(tbl, nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	head := view.Head(2)
	if head.NumRows() != 2 {
		t.Errorf("Head(2) rows = %d, want 2", head.NumRows())
	}

	all := view.Head(100)
	if all.NumRows() != tbl.NumRows() {
		t.Errorf("Head(100) rows = %d, want %d", all.NumRows(), tbl.NumRows())
	}
}

func TestViewPercentOfSource(t *testing.T) {
	tbl := demoTable(t)

	view, err := Apply(tbl, []Spec{Categorical("region", []string{"east"})})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := view.PercentOfSource(); got != 50.0 {
		t.Errorf("PercentOfSource() = %v, want 50.0", got)
	}

	empty, err := table.New(nil)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	emptyView, err := Apply(empty, nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := emptyView.PercentOfSource(); got != 0 {
		t.Errorf("PercentOfSource() on empty source = %v, want 0", got)
	}
}
