package matcher

import (
	"testing"

	"github.com/mariuscozma11/program-conta/internal/models"
)

var testMappings = []models.ColumnMapping{
	{Left: "Numar", Right: "DocNo"},
	{Left: "Suma", Right: "Amount"},
}

func TestMatchGenericFullMatch(t *testing.T) {
	left := []models.GenericRecord{
		{"Numar": "F001", "Suma": "100,00"},
	}
	right := []models.GenericRecord{
		{"DocNo": "f001", "Amount": "100.00"},
	}

	set := MatchGeneric(left, right, testMappings, nil)
	if len(set.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(set.Pairs))
	}

	pair := set.Pairs[0]
	if pair.Score != 1.0 {
		t.Errorf("expected score 1.0, got %f", pair.Score)
	}
	if len(pair.Differences) != 0 {
		t.Errorf("expected no differences, got %v", pair.Differences)
	}
}

func TestMatchGenericHalfScoreAccepted(t *testing.T) {
	// 1 of 2 mappings matches: score 0.5, and the threshold is
	// inclusive.
	left := []models.GenericRecord{
		{"Numar": "F001", "Suma": "100.00"},
	}
	right := []models.GenericRecord{
		{"DocNo": "F001", "Amount": "417.50"},
	}

	set := MatchGeneric(left, right, testMappings, nil)
	if len(set.Pairs) != 1 {
		t.Fatalf("expected 1 pair at score 0.5, got %d", len(set.Pairs))
	}

	pair := set.Pairs[0]
	if pair.Score != 0.5 {
		t.Errorf("expected score 0.5, got %f", pair.Score)
	}
	if len(pair.Differences) != 1 {
		t.Fatalf("expected 1 difference, got %d", len(pair.Differences))
	}
	if pair.Differences[0].Column != "Suma" {
		t.Errorf("expected difference on Suma, got %s", pair.Differences[0].Column)
	}
}

func TestMatchGenericBelowThreshold(t *testing.T) {
	left := []models.GenericRecord{
		{"Numar": "F001", "Suma": "100.00"},
	}
	right := []models.GenericRecord{
		{"DocNo": "X999", "Amount": "417.50"},
	}

	set := MatchGeneric(left, right, testMappings, nil)
	if len(set.Pairs) != 0 {
		t.Fatalf("expected no pairs, got %d", len(set.Pairs))
	}
	if len(set.LeftOnly) != 1 || len(set.RightOnly) != 1 {
		t.Errorf("expected both rows one-sided, got left=%v right=%v", set.LeftOnly, set.RightOnly)
	}
}

func TestMatchGenericTieKeepsEarliestRight(t *testing.T) {
	left := []models.GenericRecord{
		{"Numar": "F001", "Suma": "100.00"},
	}
	right := []models.GenericRecord{
		{"DocNo": "F001", "Amount": "100.00"},
		{"DocNo": "F001", "Amount": "100.00"},
	}

	set := MatchGeneric(left, right, testMappings, nil)
	if len(set.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(set.Pairs))
	}
	if set.Pairs[0].RightIndex != 0 {
		t.Errorf("expected earliest right row to win the tie, got %d", set.Pairs[0].RightIndex)
	}
	if len(set.RightOnly) != 1 || set.RightOnly[0] != 1 {
		t.Errorf("expected second right row one-sided, got %v", set.RightOnly)
	}
}

func TestMatchGenericConsumedRowsUnavailable(t *testing.T) {
	// The first left row claims the only good candidate; the second
	// left row must not re-claim it.
	left := []models.GenericRecord{
		{"Numar": "F001", "Suma": "100.00"},
		{"Numar": "F001", "Suma": "100.00"},
	}
	right := []models.GenericRecord{
		{"DocNo": "F001", "Amount": "100.00"},
	}

	set := MatchGeneric(left, right, testMappings, nil)
	if len(set.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(set.Pairs))
	}
	if set.Pairs[0].LeftIndex != 0 {
		t.Errorf("expected first left row to claim, got %d", set.Pairs[0].LeftIndex)
	}
	if len(set.LeftOnly) != 1 || set.LeftOnly[0] != 1 {
		t.Errorf("expected second left row one-sided, got %v", set.LeftOnly)
	}
}

func TestMatchGenericMissingColumnsAreEmpty(t *testing.T) {
	// A column absent from a row reads as the empty string; two absent
	// columns therefore match.
	left := []models.GenericRecord{
		{"Numar": "F001"},
	}
	right := []models.GenericRecord{
		{"DocNo": "F001"},
	}

	set := MatchGeneric(left, right, testMappings, nil)
	if len(set.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(set.Pairs))
	}
	if set.Pairs[0].Score != 1.0 {
		t.Errorf("expected score 1.0 with both amount columns missing, got %f", set.Pairs[0].Score)
	}
}

func TestMatchGenericNoMappings(t *testing.T) {
	left := []models.GenericRecord{{"A": "1"}}
	right := []models.GenericRecord{{"B": "1"}}

	set := MatchGeneric(left, right, nil, nil)
	if len(set.Pairs) != 0 {
		t.Fatalf("expected no pairs without mappings, got %d", len(set.Pairs))
	}
	if len(set.LeftOnly) != 1 || len(set.RightOnly) != 1 {
		t.Errorf("expected everything one-sided, got left=%v right=%v", set.LeftOnly, set.RightOnly)
	}
}

func TestMatchGenericExhaustiveness(t *testing.T) {
	left := []models.GenericRecord{
		{"Numar": "F001", "Suma": "100.00"},
		{"Numar": "F002", "Suma": "200.00"},
		{"Numar": "F003", "Suma": "300.00"},
	}
	right := []models.GenericRecord{
		{"DocNo": "F002", "Amount": "200.00"},
		{"DocNo": "F009", "Amount": "999.99"},
	}

	set := MatchGeneric(left, right, testMappings, nil)

	if got := len(set.Pairs) + len(set.LeftOnly); got != len(left) {
		t.Errorf("left accounting broken: %d pairs + %d left-only != %d inputs",
			len(set.Pairs), len(set.LeftOnly), len(left))
	}
	if got := len(set.Pairs) + len(set.RightOnly); got != len(right) {
		t.Errorf("right accounting broken: %d pairs + %d right-only != %d inputs",
			len(set.Pairs), len(set.RightOnly), len(right))
	}
}
