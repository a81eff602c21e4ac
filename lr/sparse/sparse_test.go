package sparse

import (
	"testing"
)

func TestMatrixSetValue(t *testing.T) {
	M := NewIntMatrix(10, 10, DefaultNullValue)
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected M(2,3) = 4711, is %d", v)
	}
	if v := M.Value(3, 2); v != DefaultNullValue {
		t.Errorf("expected M(3,2) to be null, is %d", v)
	}
	M.Set(2, 3, 1)
	if a, b := M.Values(2, 3); a != 1 || b != DefaultNullValue {
		t.Errorf("expected Set to replace both values, have (%d,%d)", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 position to be set, have %d", M.ValueCount())
	}
}

func TestMatrixAdd(t *testing.T) {
	M := NewIntMatrix(5, 5, -1)
	M.Add(1, 1, 10)
	M.Add(1, 1, 20)
	if a, b := M.Values(1, 1); a != 10 || b != 20 {
		t.Errorf("expected (10,20), have (%d,%d)", a, b)
	}
	M.Add(1, 1, 30)
	if a, b := M.Values(1, 1); a != 10 || b != 30 {
		t.Errorf("expected (10,30), have (%d,%d)", a, b)
	}
}

func TestMatrixPush(t *testing.T) {
	M := NewIntMatrix(5, 5, -1)
	M.Push(4, 0, 7)
	if a, b := M.Values(4, 0); a != 7 || b != -1 {
		t.Errorf("expected (7,-1), have (%d,%d)", a, b)
	}
	M.Push(4, 0, 7)
	if a, b := M.Values(4, 0); a != 7 || b != -1 {
		t.Errorf("expected pushing an equal value to change nothing, have (%d,%d)", a, b)
	}
	M.Push(4, 0, 8)
	if a, b := M.Values(4, 0); a != 8 || b != 7 {
		t.Errorf("expected (8,7), have (%d,%d)", a, b)
	}
}

func TestMatrixOrder(t *testing.T) {
	M := NewIntMatrix(4, 4, -1)
	M.Set(3, 3, 33)
	M.Set(0, 2, 2)
	M.Set(1, 0, 10)
	M.Set(1, 3, 13)
	M.Set(0, 1, 1)
	var cells []int32
	M.Each(func(i, j int, a, b int32) {
		cells = append(cells, a)
	})
	expected := []int32{1, 2, 10, 13, 33}
	if len(cells) != len(expected) {
		t.Fatalf("expected %d cells, have %d", len(expected), len(cells))
	}
	for k := range expected {
		if cells[k] != expected[k] {
			t.Errorf("expected cell #%d to be %d, is %d", k, expected[k], cells[k])
		}
	}
	var cols []int
	M.EachInRow(1, func(j int, a, b int32) {
		cols = append(cols, j)
	})
	if len(cols) != 2 || cols[0] != 0 || cols[1] != 3 {
		t.Errorf("expected row 1 to have columns [0 3], have %v", cols)
	}
	M.EachInRow(2, func(j int, a, b int32) {
		t.Errorf("expected row 2 to be empty, found column %d", j)
	})
}

func TestMatrixOutOfRange(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected Set outside of matrix to panic")
		}
	}()
	M := NewIntMatrix(2, 2, -1)
	M.Set(2, 0, 1)
}
