package utils

import "testing"

func TestStringChecks(t *testing.T) {
	if !ContainsNumbers("RV0401") || ContainsNumbers("filtro") {
		t.Error("ContainsNumbers misclassified")
	}
	if !ContainsLetters("RV0401") || ContainsLetters("0401") {
		t.Error("ContainsLetters misclassified")
	}
	if !IsOnlyNumbers("0401") || IsOnlyNumbers("RV0401") || IsOnlyNumbers("") {
		t.Error("IsOnlyNumbers misclassified")
	}
	if !StringContainsIgnoreCase("Filtro de Oleo", "OLEO") {
		t.Error("StringContainsIgnoreCase should ignore case")
	}
}

func TestSuggestionFilter(t *testing.T) {
	filter := NewSuggestionFilter("RV0401")

	if filter.ShouldInclude("rv0401") {
		t.Error("The query itself must be excluded")
	}
	if !filter.ShouldInclude("RV0401.0031") {
		t.Error("A new text must pass")
	}
	if filter.ShouldInclude("rv0401.0031") {
		t.Error("A case-insensitive duplicate must be dropped")
	}
}
