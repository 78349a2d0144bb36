package profile

import (
	"errors"
	"testing"

	"gosift/domain/core"
	"gosift/domain/table"
)

func buildTable(t *testing.T, cols ...table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(cols)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	return tbl
}

func TestMissingValuesRankingAndRounding(t *testing.T) {
	tbl := buildTable(t,
		table.Column{Name: "full", Type: table.TypeInteger, Values: []table.Value{
			table.Int(1), table.Int(2), table.Int(3),
		}},
		table.Column{Name: "one_gap", Type: table.TypeText, Values: []table.Value{
			table.Text("a"), table.Null(), table.Text("c"),
		}},
		table.Column{Name: "two_gaps", Type: table.TypeText, Values: []table.Value{
			table.Null(), table.Null(), table.Text("z"),
		}},
	)

	report := MissingValues(tbl)

	if len(report) != 2 {
		t.Fatalf("report length = %d, want 2 (zero-count columns excluded)", len(report))
	}
	if report[0].Column != "two_gaps" || report[0].Count != 2 {
		t.Errorf("report[0] = %+v, want two_gaps with count 2", report[0])
	}
	if report[0].Percent != 66.7 {
		t.Errorf("report[0].Percent = %v, want 66.7", report[0].Percent)
	}
	if report[1].Column != "one_gap" || report[1].Count != 1 || report[1].Percent != 33.3 {
		t.Errorf("report[1] = %+v, want one_gap count 1 pct 33.3", report[1])
	}
}

func TestMissingValuesTiesKeepColumnOrder(t *testing.T) {
	tbl := buildTable(t,
		table.Column{Name: "zeta", Type: table.TypeText, Values: []table.Value{table.Null(), table.Text("x")}},
		table.Column{Name: "alpha", Type: table.TypeText, Values: []table.Value{table.Text("y"), table.Null()}},
	)

	report := MissingValues(tbl)

	if len(report) != 2 {
		t.Fatalf("report length = %d, want 2", len(report))
	}
	if report[0].Column != "zeta" || report[1].Column != "alpha" {
		t.Errorf("tie order = [%s %s], want source order [zeta alpha]", report[0].Column, report[1].Column)
	}
}

func TestMissingValuesEmptyTable(t *testing.T) {
	tbl := buildTable(t)
	if report := MissingValues(tbl); len(report) != 0 {
		t.Errorf("report = %v, want empty for empty table", report)
	}

	zeroRows := buildTable(t, table.Column{Name: "a", Type: table.TypeText, Values: nil})
	if report := MissingValues(zeroRows); len(report) != 0 {
		t.Errorf("report = %v, want empty for zero-row table", report)
	}
}

func TestMissingValuesConsistency(t *testing.T) {
	tbl := buildTable(t,
		table.Column{Name: "a", Type: table.TypeText, Values: []table.Value{
			table.Null(), table.Null(), table.Null(), table.Text("v"),
			table.Text("w"), table.Text("x"), table.Text("y"),
		}},
	)

	report := MissingValues(tbl)
	if len(report) != 1 {
		t.Fatalf("report length = %d, want 1", len(report))
	}
	want := round1(float64(report[0].Count) / float64(tbl.NumRows()) * 100)
	if report[0].Percent != want {
		t.Errorf("Percent = %v, want %v", report[0].Percent, want)
	}
	if report[0].Percent != 42.9 {
		t.Errorf("Percent = %v, want 42.9", report[0].Percent)
	}
}

func TestInventory(t *testing.T) {
	tbl := buildTable(t,
		table.Column{Name: "qty", Type: table.TypeInteger, Values: []table.Value{
			table.Null(), table.Int(7), table.Int(9),
		}},
		table.Column{Name: "blank", Type: table.TypeText, Values: []table.Value{
			table.Null(), table.Null(), table.Null(),
		}},
	)

	infos := Inventory(tbl)

	if len(infos) != 2 {
		t.Fatalf("inventory length = %d, want 2", len(infos))
	}
	if infos[0].Name != "qty" || infos[0].Type != table.TypeInteger {
		t.Errorf("infos[0] = %+v", infos[0])
	}
	if infos[0].NonNull != 2 {
		t.Errorf("infos[0].NonNull = %d, want 2", infos[0].NonNull)
	}
	if infos[0].Example != "7" {
		t.Errorf("infos[0].Example = %q, want first non-null %q", infos[0].Example, "7")
	}
	if infos[1].NonNull != 0 || infos[1].Example != "" {
		t.Errorf("infos[1] = %+v, want zero non-null and empty example", infos[1])
	}
}

func TestBreakdownOrderingAndCap(t *testing.T) {
	tbl := buildTable(t,
		table.Column{Name: "fruit", Type: table.TypeText, Values: []table.Value{
			table.Text("pear"), table.Text("apple"), table.Text("apple"),
			table.Text("plum"), table.Text("pear"), table.Text("apple"),
			table.Null(), table.Text("kiwi"),
		}},
	)

	counts, remaining, err := Breakdown(tbl, "fruit", 3)
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}
	if len(counts) != 3 || remaining != 1 {
		t.Fatalf("got %d entries with %d remaining, want 3 and 1", len(counts), remaining)
	}
	if counts[0].Value != "apple" || counts[0].Count != 3 {
		t.Errorf("counts[0] = %+v, want apple 3", counts[0])
	}
	// pear and plum/kiwi: pear has 2; plum and kiwi tie at 1, plum first seen.
	if counts[1].Value != "pear" || counts[1].Count != 2 {
		t.Errorf("counts[1] = %+v, want pear 2", counts[1])
	}
	if counts[2].Value != "plum" {
		t.Errorf("counts[2] = %+v, want plum by first appearance", counts[2])
	}
	// 3 of 7 non-null apples.
	if counts[0].Percent != 42.9 {
		t.Errorf("counts[0].Percent = %v, want 42.9", counts[0].Percent)
	}
}

func TestBreakdownUncapped(t *testing.T) {
	tbl := buildTable(t,
		table.Column{Name: "tag", Type: table.TypeText, Values: []table.Value{
			table.Text("a"), table.Text("b"),
		}},
	)

	counts, remaining, err := Breakdown(tbl, "tag", 0)
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}
	if len(counts) != 2 || remaining != 0 {
		t.Errorf("got %d entries with %d remaining, want 2 and 0", len(counts), remaining)
	}
}

func TestBreakdownErrors(t *testing.T) {
	tbl := buildTable(t,
		table.Column{Name: "n", Type: table.TypeFloat, Values: []table.Value{table.Float(1)}},
	)

	if _, _, err := Breakdown(tbl, "n", 10); !errors.Is(err, core.ErrNotCategorical) {
		t.Errorf("expected ErrNotCategorical, got %v", err)
	}
	if _, _, err := Breakdown(tbl, "ghost", 10); !core.IsNotFoundError(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}
